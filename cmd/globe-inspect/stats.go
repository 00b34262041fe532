package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/sudorandom/pr-globe/pkg/globe"
	"github.com/sudorandom/pr-globe/pkg/sources"
)

type StatsCmd struct {
	Data       string  `help:"Pull request dataset, a file path or URL." required:"" env:"GLOBE_DATA"`
	Mask       string  `help:"Land mask: a PNG, a GeoJSON file or URL, or one of: countries, natural-earth." default:"natural-earth" env:"GLOBE_MASK"`
	MaskWidth  int     `help:"Width of a rasterised land mask." default:"1440"`
	MaskHeight int     `help:"Height of a rasterised land mask." default:"720"`
	Seconds    float64 `help:"Simulated animation time." default:"60"`
	TPS        int     `help:"Simulated ticks per second." default:"60"`
}

func (c *StatsCmd) Run(g *Globals) error {
	l, release, err := g.loader()
	if err != nil {
		return err
	}
	defer release()

	records, err := l.Records(c.Data)
	if err != nil {
		return err
	}
	mask, err := l.LandMask(c.Mask, c.MaskWidth, c.MaskHeight)
	if err != nil {
		return err
	}

	cfg := globe.DefaultConfig()
	dots, err := globe.NewDotField(cfg, mask)
	if err != nil {
		return err
	}
	defer dots.Dispose()
	spikes, err := globe.NewSpikeField(cfg, sources.Origins(records), nil)
	if err != nil {
		return err
	}
	defer spikes.Dispose()
	arcs, err := globe.NewArcEngine(cfg, sources.Pairs(records))
	if err != nil {
		return err
	}
	defer arcs.Dispose()

	merged := 0
	for _, r := range records {
		if r.Merged() {
			merged++
		}
	}

	fmt.Printf("Pull Request Globe Stats\n")
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Records:        %s (%s merged, %s open)\n", humanize.Comma(int64(len(records))), humanize.Comma(int64(merged)), humanize.Comma(int64(len(records)-merged)))
	fmt.Printf("Land dots:      %s\n", humanize.Comma(int64(dots.Count())))
	fmt.Printf("Spikes:         %s (%s skipped)\n", humanize.Comma(int64(spikes.Count())), humanize.Comma(int64(len(records)-merged-spikes.Count())))
	fmt.Printf("Spike density:  %d - %d neighbours within %v\n", spikes.MinDensity, spikes.MaxDensity, cfg.DensityRadius)
	fmt.Printf("Arcs:           %s (%s skipped)\n", humanize.Comma(int64(arcs.Len())), humanize.Comma(int64(merged-arcs.Len())))
	fmt.Printf("--------------------------------------------------\n")

	tiers := make(map[globe.ArcTier]int)
	longest := 0.0
	for _, a := range arcs.Arcs() {
		tiers[a.Tier]++
		longest = max(longest, a.Distance)
	}
	fmt.Printf("ARC TIERS:\n")
	for _, tier := range []globe.ArcTier{globe.TierLow, globe.TierMid, globe.TierHigh} {
		fmt.Printf("  %-5s %s\n", tier, humanize.Comma(int64(tiers[tier])))
	}
	fmt.Printf("  longest chord: %.2f\n", longest)
	fmt.Printf("--------------------------------------------------\n")

	sim := simulate(arcs, c.Seconds, c.TPS)
	fmt.Printf("SIMULATED %.0fs AT %d TPS:\n", c.Seconds, c.TPS)
	fmt.Printf("  Activations:    %s (%.2f/s)\n", humanize.Comma(int64(sim.Activations)), float64(sim.Activations)/c.Seconds)
	fmt.Printf("  Peak animating: %d\n", sim.PeakActive)
	fmt.Printf("  Peak landing:   %d\n", sim.PeakRetiring)
	fmt.Printf("  Final states:\n")
	states := make([]globe.ArcState, 0, len(sim.States))
	for s := range sim.States {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	for _, s := range states {
		fmt.Printf("    %-12s %s\n", s, humanize.Comma(int64(sim.States[s])))
	}
	return nil
}

type simulation struct {
	Activations  int
	PeakActive   int
	PeakRetiring int
	States       map[globe.ArcState]int
}

// simulate runs the arc engine for seconds of wall time at tps updates per
// second.
func simulate(arcs *globe.ArcEngine, seconds float64, tps int) simulation {
	var sim simulation
	if tps <= 0 {
		tps = 60
	}
	delta := 1 / float64(tps)
	frames := int(seconds * float64(tps))
	for i := 0; i < frames; i++ {
		if arcs.Update(delta) >= 0 {
			sim.Activations++
		}
		sim.PeakActive = max(sim.PeakActive, arcs.ActiveCount())
		sim.PeakRetiring = max(sim.PeakRetiring, arcs.RetiringCount())
	}
	sim.States = make(map[globe.ArcState]int)
	for i := 0; i < arcs.Len(); i++ {
		sim.States[arcs.State(i)]++
	}
	return sim
}
