package globe

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/golang/geo/r3"
)

func bruteForceDensities(points []r3.Vector, radius float64) []int {
	out := make([]int, len(points))
	for i := range points {
		for j := range points {
			if i != j && points[i].Distance(points[j]) <= radius {
				out[i]++
			}
		}
	}
	return out
}

func TestDensities(t *testing.T) {
	tests := []struct {
		name     string
		points   []r3.Vector
		want     []int
		min, max int
	}{
		{
			name:   "three mutual neighbours",
			points: []r3.Vector{{X: 0}, {X: 3}, {X: 0, Y: 4}},
			want:   []int{2, 2, 2},
			min:    2,
			max:    2,
		},
		{
			name:   "isolated point",
			points: []r3.Vector{{X: 0}, {X: 3}, {X: 0, Y: 4}, {X: 40}},
			want:   []int{2, 2, 2, 0},
			min:    0,
			max:    2,
		},
		{
			name:   "exactly on the radius counts",
			points: []r3.Vector{{X: 0}, {X: 10}},
			want:   []int{1, 1},
			min:    1,
			max:    1,
		},
		{
			name:   "chain",
			points: []r3.Vector{{X: 0}, {X: 8}, {X: 16}},
			want:   []int{1, 2, 1},
			min:    1,
			max:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lo, hi := Densities(tt.points, 10)
			if !reflect.DeepEqual(got, tt.want) || lo != tt.min || hi != tt.max {
				t.Errorf("Densities() = %v, %d, %d; want %v, %d, %d", got, lo, hi, tt.want, tt.min, tt.max)
			}
		})
	}
}

func TestDensitiesEmpty(t *testing.T) {
	got, lo, hi := Densities(nil, 10)
	if got != nil || lo != 0 || hi != 0 {
		t.Errorf("Densities(nil) = %v, %d, %d; want nil, 0, 0", got, lo, hi)
	}
}

func TestDensitiesMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var points []r3.Vector
	for i := 0; i < 400; i++ {
		lat := rnd.Float64()*180 - 90
		lon := rnd.Float64()*360 - 180
		points = append(points, ToCartesian(lat, lon, 25))
	}
	// duplicates land in the same cell and must still count each other
	points = append(points, points[0], points[1])

	for _, radius := range []float64{0, 2.5, 10, 60} {
		got, _, _ := Densities(points, radius)
		want := bruteForceDensities(points, radius)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Densities(radius=%v) differs from the pairwise count", radius)
		}
	}
}
