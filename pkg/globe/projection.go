package globe

import (
	"math"

	"github.com/golang/geo/r3"
)

type GeoCoordinate struct {
	Lat, Lon float64
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// IsValidCoordinate reports whether c is finite and within [-90,90]x[-180,180].
func IsValidCoordinate(c GeoCoordinate) bool {
	validLat := !math.IsNaN(c.Lat) && c.Lat >= -90 && c.Lat <= 90
	validLon := !math.IsNaN(c.Lon) && c.Lon >= -180 && c.Lon <= 180
	return validLat && validLon
}

// ToCartesian projects a coordinate onto a sphere of the given radius. At the
// equator the prime meridian faces +X and the antimeridian -X; +Y is north.
// Every generator goes through this function so dots, spikes and arcs line up.
func ToCartesian(lat, lon, radius float64) r3.Vector {
	phi := degToRad(90 - lat)
	theta := degToRad(lon + 180)
	return r3.Vector{
		X: -radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// ToGeo inverts ToCartesian. Longitude is undefined at the poles and comes
// back as 0 there.
func ToGeo(v r3.Vector) GeoCoordinate {
	r := v.Norm()
	if r == 0 {
		return GeoCoordinate{}
	}
	phi := math.Acos(math.Max(-1, math.Min(1, v.Y/r)))
	lat := 90 - radToDeg(phi)
	if math.Abs(math.Sin(phi)) < 1e-12 {
		return GeoCoordinate{Lat: lat}
	}
	theta := math.Atan2(v.Z, -v.X)
	lon := radToDeg(theta) - 180
	if lon < -180 {
		lon += 360
	}
	return GeoCoordinate{Lat: lat, Lon: lon}
}

// Midpoint returns the great-circle midpoint between two coordinates.
func Midpoint(lat1, lon1, lat2, lon2 float64) (lat, lon float64) {
	lat1, lon1 = degToRad(lat1), degToRad(lon1)
	lat2, lon2 = degToRad(lat2), degToRad(lon2)

	dLon := lon2 - lon1
	bX := math.Cos(lat2) * math.Cos(dLon)
	bY := math.Cos(lat2) * math.Sin(dLon)
	lat3 := math.Atan2(math.Sin(lat1)+math.Sin(lat2), math.Sqrt((math.Cos(lat1)+bX)*(math.Cos(lat1)+bX)+bY*bY))
	lon3 := lon1 + math.Atan2(bY, math.Cos(lat1)+bX)

	return radToDeg(lat3), radToDeg(lon3)
}

// MapLinear maps x from [a1,a2] to [b1,b2] without clamping.
func MapLinear(x, a1, a2, b1, b2 float64) float64 {
	return b1 + (x-a1)*(b2-b1)/(a2-a1)
}
