package main

import (
	"testing"

	"github.com/sudorandom/pr-globe/pkg/globe"
)

func TestTop(t *testing.T) {
	m := map[string]int{"a/x": 3, "b/y": 5, "c/z": 3, "d/w": 1}
	got := top(m, 3)
	want := []counted{{"b/y", 5}, {"a/x", 3}, {"c/z", 3}}
	if len(got) != len(want) {
		t.Fatalf("top() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("top()[%d] = %v; want %v", i, got[i], want[i])
		}
	}
	if got := top(nil, 5); len(got) != 0 {
		t.Errorf("top(nil) = %v; want empty", got)
	}
}

func TestSimulate(t *testing.T) {
	pairs := []globe.Pair{
		{Origin: globe.GeoCoordinate{Lat: 37.77, Lon: -122.42}, Merge: globe.GeoCoordinate{Lat: 52.52, Lon: 13.40}},
		{Origin: globe.GeoCoordinate{Lat: 35.68, Lon: 139.69}, Merge: globe.GeoCoordinate{Lat: -23.55, Lon: -46.63}},
	}
	arcs, err := globe.NewArcEngine(globe.DefaultConfig(), pairs)
	if err != nil {
		t.Fatalf("NewArcEngine() error = %v", err)
	}
	defer arcs.Dispose()

	sim := simulate(arcs, 2, 60)
	if sim.Activations < 2 {
		t.Errorf("simulate().Activations = %d; want at least 2", sim.Activations)
	}
	if sim.PeakActive < 1 || sim.PeakActive > 2 {
		t.Errorf("simulate().PeakActive = %d; want 1 or 2", sim.PeakActive)
	}
	total := 0
	for _, n := range sim.States {
		total += n
	}
	if total != arcs.Len() {
		t.Errorf("simulate() states cover %d arcs; want %d", total, arcs.Len())
	}

	if sim := simulate(arcs, 1, 0); sim.States == nil {
		t.Error("simulate() with tps 0 returned no states")
	}
}
