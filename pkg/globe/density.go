package globe

import (
	"math"

	"github.com/golang/geo/r3"
)

type cellKey [3]int64

// Densities counts, for every point, how many other points lie within
// radius of it. Points are bucketed into a uniform grid with cells of size
// radius so only the 27 surrounding cells are compared; the counts are the
// same as comparing every ordered pair.
func Densities(points []r3.Vector, radius float64) (densities []int, minDensity, maxDensity int) {
	if len(points) == 0 {
		return nil, 0, 0
	}
	densities = make([]int, len(points))

	if radius <= 0 {
		// only coincident points can be neighbors
		for i := range points {
			for j := range points {
				if i != j && points[i].Distance(points[j]) <= radius {
					densities[i]++
				}
			}
		}
		minDensity, maxDensity = bounds(densities)
		return densities, minDensity, maxDensity
	}

	key := func(p r3.Vector) cellKey {
		return cellKey{
			int64(math.Floor(p.X / radius)),
			int64(math.Floor(p.Y / radius)),
			int64(math.Floor(p.Z / radius)),
		}
	}
	cells := make(map[cellKey][]int)
	for i, p := range points {
		k := key(p)
		cells[k] = append(cells[k], i)
	}

	for i, p := range points {
		k := key(p)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range cells[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if i != j && p.Distance(points[j]) <= radius {
							densities[i]++
						}
					}
				}
			}
		}
	}
	minDensity, maxDensity = bounds(densities)
	return densities, minDensity, maxDensity
}

func bounds(values []int) (lo, hi int) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
