package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/ui"
)

func ptr[T any](v T) *T { return &v }

func sampleStats() *model.Stats {
	first := model.MakeTable{}
	second := model.MakeTable{}
	for _, d := range model.Distances {
		first[d] = model.MakeStat{}
		second[d] = model.MakeStat{}
	}
	first[model.Distance3ft] = model.MakeStat{Attempts: 4, Makes: 3, Pct: 75}
	second[model.Distance20ft] = model.MakeStat{Attempts: 3, Makes: 1, Pct: 33.3}

	return &model.Stats{
		TotalRounds:           2,
		PuttsPerRound:         32.5,
		UpAndDownPct:          40,
		NonGIRApproachFt:      ptr(8.83),
		NonGIRApproachDisplay: ptr(`8'10"`),
		GIRApproachFt:         ptr(21.5),
		GIRApproachDisplay:    ptr(`21'6"`),
		SGPutting:             -0.42,
		MakePct3ft:            92,
		FirstPuttStats:        first,
		SecondPuttStats:       second,
		Goals:                 model.DefaultGoals,
	}
}

func render(t *testing.T, stats *model.Stats) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Dashboard(stats).Render(context.Background(), &sb))
	return sb.String()
}

func TestGauges(t *testing.T) {
	gauges := Gauges(sampleStats())
	require.Len(t, gauges, 7)

	titles := make([]string, len(gauges))
	for i, g := range gauges {
		titles[i] = g.Title
	}
	assert.Equal(t, []string{
		"Putts Per Round", "Up & Down %", "Non-GIR Approach", "SG: Putting",
		"3ft Make %", "4-5ft Make %", "6-7ft Make %",
	}, titles)

	assert.Equal(t, "< 31.8", gauges[0].GoalLabel)
	assert.Equal(t, ui.ToneClose, gauges[0].Tone())
	assert.Equal(t, "50%", gauges[1].GoalLabel)
	assert.Equal(t, `8'10"`, gauges[2].Display)
	assert.Equal(t, "< 7ft", gauges[2].GoalLabel)
	assert.Equal(t, "-0.42", gauges[3].Display)
	assert.Equal(t, "> 0", gauges[3].GoalLabel)
	assert.Equal(t, "92.0%", gauges[4].Label())
	assert.Equal(t, ui.ToneGood, gauges[4].Tone())
}

func TestGauges_WithoutApproachMetrics(t *testing.T) {
	stats := sampleStats()
	stats.NonGIRApproachFt = nil
	stats.NonGIRApproachDisplay = nil

	for _, g := range Gauges(stats) {
		assert.NotEqual(t, "Non-GIR Approach", g.Title)
	}
	assert.Len(t, Gauges(stats), 6)
}

func TestDashboard_Render(t *testing.T) {
	html := render(t, sampleStats())

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<span id="total-rounds" class="font-semibold text-slate-100">2</span>`)
	assert.Contains(t, html, "Up &amp; Down %")
	assert.Contains(t, html, "8&#39;10&#34;")
	assert.Contains(t, html, `<span id="gir-approach" class="text-slate-100">21&#39;6&#34;</span>`)
	assert.Equal(t, 7, strings.Count(html, `class="gauge-arc"`))
	assert.Contains(t, html, `href="/static/dashboard.css"`)

	// one row per distance, in vocabulary order
	assert.Equal(t, len(model.Distances), strings.Count(html, `<tr class="border-t border-slate-800">`))
	assert.Less(t, strings.Index(html, ">Gimmie<"), strings.Index(html, ">3ft<"))
	assert.Less(t, strings.Index(html, ">8ft<"), strings.Index(html, ">10ft<"))
	assert.Contains(t, html, `title="3/4">75%</td>`)
	assert.Contains(t, html, `title="1/3">33.3%</td>`)
	assert.Contains(t, html, emptyValue)
}

func TestDashboard_ToneBorderReplacesDefault(t *testing.T) {
	html := render(t, sampleStats())

	assert.Contains(t, html, `data-tone="good"`)
	assert.NotContains(t, html, "border-slate-700", "tone border overrides the card default")
	assert.Contains(t, html, "border-red-500")
}

func TestDashboard_EmptySnapshot(t *testing.T) {
	stats := &model.Stats{Goals: model.DefaultGoals}
	html := render(t, stats)

	assert.Contains(t, html, `<span id="total-rounds" class="font-semibold text-slate-100">0</span>`)
	assert.NotContains(t, html, `id="gir-approach"`)
	assert.Equal(t, 2*len(model.Distances), strings.Count(html, ">"+emptyValue+"<"))
}
