package model

import (
	"bytes"
	"encoding/json"
	"slices"
)

// MakeStat is the attempts/makes tally for one first-putt distance.
type MakeStat struct {
	Attempts int     `json:"attempts"`
	Makes    int     `json:"makes"`
	Pct      float64 `json:"pct"`
}

// MakeTable maps first-putt distance to its tally. It marshals in
// vocabulary order rather than Go's sorted map key order.
type MakeTable map[Distance]MakeStat

func (t MakeTable) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}

	keys := make([]Distance, 0, len(t))
	for _, d := range Distances {
		if _, ok := t[d]; ok {
			keys = append(keys, d)
		}
	}
	var extra []Distance
	for d := range t {
		if !d.Valid() {
			extra = append(extra, d)
		}
	}
	slices.Sort(extra)
	keys = append(keys, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(d))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(t[d])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Goals are the static dashboard targets shipped with every snapshot.
type Goals struct {
	PuttsPerRound    float64 `json:"putts_per_round"`
	UpAndDownPct     float64 `json:"up_and_down_pct"`
	NonGIRApproachFt float64 `json:"non_gir_approach_ft"`
	SGPutting        float64 `json:"sg_putting"`
	MakePct3ft       float64 `json:"make_pct_3ft"`
	MakePct4To5ft    float64 `json:"make_pct_4_5ft"`
	MakePct6To7ft    float64 `json:"make_pct_6_7ft"`
}

var DefaultGoals = Goals{
	PuttsPerRound:    31.8,
	UpAndDownPct:     50.0,
	NonGIRApproachFt: 7.0,
	SGPutting:        0.0,
	MakePct3ft:       90.0,
	MakePct4To5ft:    70.0,
	MakePct6To7ft:    50.0,
}

// Stats is the read-only dashboard snapshot. Approach fields are nil when
// approach metrics are switched off.
type Stats struct {
	TotalRounds           int                   `json:"total_rounds"`
	PuttsPerRound         float64               `json:"putts_per_round"`
	UpAndDownPct          float64               `json:"up_and_down_pct"`
	NonGIRApproachFt      *float64              `json:"non_gir_approach_ft,omitempty"`
	NonGIRApproachDisplay *string               `json:"non_gir_approach_display,omitempty"`
	GIRApproachFt         *float64              `json:"gir_approach_ft,omitempty"`
	GIRApproachDisplay    *string               `json:"gir_approach_display,omitempty"`
	SGPutting             float64               `json:"sg_putting"`
	MakePct3ft            float64               `json:"make_pct_3ft"`
	MakePct4To5ft         float64               `json:"make_pct_4_5ft"`
	MakePct6To7ft         float64               `json:"make_pct_6_7ft"`
	FirstPuttStats        MakeTable             `json:"first_putt_stats"`
	SecondPuttStats       MakeTable             `json:"second_putt_stats"`
	Goals                 Goals                 `json:"goals"`
}
