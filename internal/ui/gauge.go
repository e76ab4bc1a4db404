package ui

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Tone grades a value against its goal.
type Tone string

const (
	ToneGood  Tone = "good"
	ToneClose Tone = "close"
	ToneFar   Tone = "far"
)

var toneColors = map[Tone]string{
	ToneGood:  "#4ecca3",
	ToneClose: "#f0a500",
	ToneFar:   "#e74c3c",
}

const (
	GaugeSize        = 120
	GaugeStrokeWidth = 10
	gaugeArcDegrees  = 270
	// arc opens at the bottom, starting bottom-left
	GaugeRotation = 135
)

// Gauge is one 270 degree dial on the dashboard.
type Gauge struct {
	Title     string
	Value     float64
	Display   string
	Unit      string
	Goal      float64
	GoalLabel string
	Min       float64
	Max       float64
	// LowerIsBetter flips the goal comparison, as for putts per round.
	LowerIsBetter bool
}

// Progress is the filled share of the arc, clamped to [0, 1].
func (g Gauge) Progress() float64 {
	if g.Max <= g.Min {
		return 0
	}
	p := (g.Value - g.Min) / (g.Max - g.Min)
	return math.Max(0, math.Min(1, p))
}

// goalProgress is 1 or more once the goal is met.
func (g Gauge) goalProgress() float64 {
	switch {
	case g.LowerIsBetter && g.Goal > 0:
		if g.Value <= g.Goal {
			return 1
		}
		return g.Goal / g.Value
	case g.LowerIsBetter:
		if g.Value <= 0 {
			return 1
		}
		return 0
	case g.Goal == 0:
		// zero goal, e.g. strokes gained above zero
		if g.Value >= 0 {
			return 1
		}
		return math.Max(0, 1+g.Value/(g.Max-g.Min)*2)
	default:
		return g.Value / g.Goal
	}
}

func (g Gauge) Tone() Tone {
	p := g.goalProgress()
	switch {
	case p >= 1:
		return ToneGood
	case p >= 0.8:
		return ToneClose
	default:
		return ToneFar
	}
}

func (g Gauge) Color() string {
	return toneColors[g.Tone()]
}

func (g Gauge) Radius() float64 {
	return float64(GaugeSize-GaugeStrokeWidth) / 2
}

func (g Gauge) Circumference() float64 {
	return 2 * math.Pi * g.Radius()
}

// ArcLength is the length of the full 270 degree track.
func (g Gauge) ArcLength() float64 {
	return gaugeArcDegrees / 360.0 * g.Circumference()
}

func (g Gauge) DashOffset() float64 {
	return g.ArcLength() * (1 - g.Progress())
}

// FontSize shrinks the center label as it gets longer.
func (g Gauge) FontSize() int {
	n := utf8.RuneCountInString(g.Label())
	switch {
	case n > 6:
		return 18
	case n > 4:
		return 22
	default:
		return 26
	}
}

func (g Gauge) Label() string {
	return strings.TrimSpace(g.Display) + g.Unit
}
