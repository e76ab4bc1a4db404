package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/ui"
)

const (
	cardClass  = "rounded-xl border border-slate-700 bg-slate-900 p-4 flex flex-col items-center"
	cellClass  = "px-3 py-1 text-right"
	emptyValue = "--"
)

var toneBorder = map[ui.Tone]string{
	ui.ToneGood:  "border-emerald-500",
	ui.ToneClose: "border-amber-500",
	ui.ToneFar:   "border-red-500",
}

// Dashboard renders the putting dashboard for one stats snapshot.
func Dashboard(stats *model.Stats) templ.Component {
	return layout("Shortgame Dashboard", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<header class="mb-6 flex items-baseline justify-between">`+
			`<h1 class="text-2xl font-bold">Shortgame</h1>`+
			`<p class="text-slate-400">Rounds: <span id="total-rounds" class="font-semibold text-slate-100">%d</span></p>`+
			`</header>`, stats.TotalRounds)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, `<section class="grid grid-cols-2 gap-4 md:grid-cols-4">`)
		if err != nil {
			return err
		}
		for _, g := range Gauges(stats) {
			err = gaugeCard(g).Render(ctx, w)
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</section>`)
		if err != nil {
			return err
		}

		err = puttingTable(stats).Render(ctx, w)
		if err != nil {
			return err
		}

		if stats.GIRApproachDisplay != nil {
			_, err = fmt.Fprintf(w, `<p class="mt-6 text-slate-400">GIR approach: <span id="gir-approach" class="text-slate-100">%s</span></p>`,
				templ.EscapeString(*stats.GIRApproachDisplay))
		}
		return err
	}))
}

// Gauges lists the dials shown for stats, in display order. The approach
// dial is left out when approach metrics are off.
func Gauges(stats *model.Stats) []ui.Gauge {
	goals := stats.Goals

	gauges := []ui.Gauge{
		{
			Title:         "Putts Per Round",
			Value:         stats.PuttsPerRound,
			Display:       strconv.FormatFloat(stats.PuttsPerRound, 'f', 1, 64),
			Goal:          goals.PuttsPerRound,
			GoalLabel:     "< " + number(goals.PuttsPerRound),
			Min:           26,
			Max:           40,
			LowerIsBetter: true,
		},
		pctGauge("Up & Down %", stats.UpAndDownPct, goals.UpAndDownPct),
	}

	if stats.NonGIRApproachFt != nil {
		display := ""
		if stats.NonGIRApproachDisplay != nil {
			display = *stats.NonGIRApproachDisplay
		}
		gauges = append(gauges, ui.Gauge{
			Title:         "Non-GIR Approach",
			Value:         *stats.NonGIRApproachFt,
			Display:       display,
			Goal:          goals.NonGIRApproachFt,
			GoalLabel:     "< " + number(goals.NonGIRApproachFt) + "ft",
			Min:           0,
			Max:           30,
			LowerIsBetter: true,
		})
	}

	sg := strconv.FormatFloat(stats.SGPutting, 'f', 2, 64)
	if stats.SGPutting >= 0 {
		sg = "+" + sg
	}
	gauges = append(gauges,
		ui.Gauge{
			Title:     "SG: Putting",
			Value:     stats.SGPutting,
			Display:   sg,
			Goal:      goals.SGPutting,
			GoalLabel: "> " + number(goals.SGPutting),
			Min:       -5,
			Max:       5,
		},
		pctGauge("3ft Make %", stats.MakePct3ft, goals.MakePct3ft),
		pctGauge("4-5ft Make %", stats.MakePct4To5ft, goals.MakePct4To5ft),
		pctGauge("6-7ft Make %", stats.MakePct6To7ft, goals.MakePct6To7ft),
	)
	return gauges
}

func pctGauge(title string, value, goal float64) ui.Gauge {
	return ui.Gauge{
		Title:     title,
		Value:     value,
		Display:   strconv.FormatFloat(value, 'f', 1, 64),
		Unit:      "%",
		Goal:      goal,
		GoalLabel: number(goal) + "%",
		Min:       0,
		Max:       100,
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func gaugeCard(g ui.Gauge) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		c := float64(ui.GaugeSize) / 2
		dash := fmt.Sprintf("%.2f %.2f", g.ArcLength(), g.Circumference())
		rotate := fmt.Sprintf("rotate(%d %g %g)", ui.GaugeRotation, c, c)

		_, err := fmt.Fprintf(w, `<div class="%s" data-tone="%s">`+
			`<div class="text-sm text-slate-400">%s</div>`+
			`<svg viewBox="0 0 %d %d" width="%d" height="%d">`+
			`<circle cx="%g" cy="%g" r="%g" fill="none" stroke="#2a2a4a" stroke-width="%d" stroke-dasharray="%s" stroke-linecap="round" transform="%s"></circle>`+
			`<circle cx="%g" cy="%g" r="%g" fill="none" stroke="%s" stroke-width="%d" stroke-dasharray="%s" stroke-dashoffset="%.2f" stroke-linecap="round" transform="%s" class="gauge-arc"></circle>`+
			`<text x="%g" y="%g" text-anchor="middle" dominant-baseline="central" fill="%s" font-size="%d" class="gauge-value">%s</text>`+
			`</svg>`+
			`<div class="text-xs text-slate-500">Goal: %s</div>`+
			`</div>`,
			templ.EscapeString(twmerge.Merge(cardClass, toneBorder[g.Tone()])), g.Tone(),
			templ.EscapeString(g.Title),
			ui.GaugeSize, ui.GaugeSize, ui.GaugeSize, ui.GaugeSize,
			c, c, g.Radius(), ui.GaugeStrokeWidth, dash, rotate,
			c, c, g.Radius(), g.Color(), ui.GaugeStrokeWidth, dash, g.DashOffset(), rotate,
			c, c+2, g.Color(), g.FontSize(), templ.EscapeString(g.Label()),
			templ.EscapeString(g.GoalLabel),
		)
		return err
	})
}

func puttingTable(stats *model.Stats) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="mt-8">`+
			`<h2 class="mb-2 text-lg font-semibold">Make %% by distance</h2>`+
			`<table class="putting-table w-full text-sm">`+
			`<thead><tr class="text-slate-400"><th class="px-3 py-1 text-left">Distance</th><th class="%s">1st putt</th><th class="%s">2nd putt</th></tr></thead>`+
			`<tbody id="putting-tbody">`, cellClass, cellClass)
		if err != nil {
			return err
		}

		for _, d := range model.Distances {
			first := stats.FirstPuttStats[d]
			second := stats.SecondPuttStats[d]
			_, err = fmt.Fprintf(w, `<tr class="border-t border-slate-800"><td class="px-3 py-1">%s</td>%s%s</tr>`,
				templ.EscapeString(string(d)), makeCell(first), makeCell(second))
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}

func makeCell(s model.MakeStat) string {
	if s.Attempts == 0 {
		return fmt.Sprintf(`<td class="%s">%s</td>`, twmerge.Merge(cellClass, "text-slate-600"), emptyValue)
	}
	return fmt.Sprintf(`<td class="%s" title="%d/%d">%s%%</td>`, cellClass, s.Makes, s.Attempts, number(s.Pct))
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head>`+
			`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s</title>`+
			`<link rel="icon" href="/static/favicon.svg" type="image/svg+xml">`+
			`<link rel="stylesheet" href="/static/dashboard.css">`+
			`<script src="https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"></script>`+
			`</head><body class="min-h-screen bg-[#1a1a2e] text-slate-100"><main class="mx-auto max-w-5xl p-6">`,
			templ.EscapeString(title))
		if err != nil {
			return err
		}

		err = body.Render(ctx, w)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, `</main></body></html>`)
		return err
	})
}
