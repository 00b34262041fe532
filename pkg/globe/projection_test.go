package globe

import (
	"math"
	"testing"
)

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		c     GeoCoordinate
		valid bool
	}{
		{GeoCoordinate{0, 0}, true},
		{GeoCoordinate{90, 180}, true},
		{GeoCoordinate{-90, -180}, true},
		{GeoCoordinate{37.77, -122.42}, true},
		{GeoCoordinate{90.01, 0}, false},
		{GeoCoordinate{0, -180.5}, false},
		{GeoCoordinate{math.NaN(), 0}, false},
		{GeoCoordinate{0, math.NaN()}, false},
		{GeoCoordinate{math.Inf(1), 0}, false},
		{GeoCoordinate{0, math.Inf(-1)}, false},
	}
	for _, tt := range tests {
		if got := IsValidCoordinate(tt.c); got != tt.valid {
			t.Errorf("IsValidCoordinate(%v) = %v; want %v", tt.c, got, tt.valid)
		}
	}
}

func TestToCartesianMagnitude(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for lon := -180.0; lon <= 180; lon += 11.25 {
			for _, radius := range []float64{1, 25, 30.5} {
				v := ToCartesian(lat, lon, radius)
				if math.Abs(v.Norm()-radius) > 1e-9 {
					t.Errorf("|ToCartesian(%v, %v, %v)| = %v; want %v", lat, lon, radius, v.Norm(), radius)
				}
			}
		}
	}
}

func TestToCartesianAxes(t *testing.T) {
	tests := []struct {
		lat, lon float64
		x, y, z  float64
	}{
		{0, 0, 25, 0, 0},
		{0, 180, -25, 0, 0},
		{90, 0, 0, 25, 0},
		{-90, 0, 0, -25, 0},
		{0, 90, 0, 0, -25},
		{0, -90, 0, 0, 25},
	}
	for _, tt := range tests {
		v := ToCartesian(tt.lat, tt.lon, 25)
		if math.Abs(v.X-tt.x) > 1e-9 || math.Abs(v.Y-tt.y) > 1e-9 || math.Abs(v.Z-tt.z) > 1e-9 {
			t.Errorf("ToCartesian(%v, %v, 25) = %v; want (%v, %v, %v)", tt.lat, tt.lon, v, tt.x, tt.y, tt.z)
		}
	}
}

func TestToGeoRoundTrip(t *testing.T) {
	for lat := -89.5; lat < 90; lat += 3.5 {
		for lon := -179.5; lon < 180; lon += 4.25 {
			got := ToGeo(ToCartesian(lat, lon, 25))
			if math.Abs(got.Lat-lat) > 1e-9 || math.Abs(got.Lon-lon) > 1e-9 {
				t.Errorf("ToGeo(ToCartesian(%v, %v)) = %v", lat, lon, got)
			}
		}
	}
}

func TestToGeoPole(t *testing.T) {
	got := ToGeo(ToCartesian(90, 45, 25))
	if math.Abs(got.Lat-90) > 1e-9 || got.Lon != 0 {
		t.Errorf("ToGeo(north pole) = %v; want {90 0}", got)
	}
}

func TestMidpoint(t *testing.T) {
	tests := []struct {
		lat1, lon1, lat2, lon2 float64
		lat, lon               float64
	}{
		{0, 0, 0, 90, 0, 45},
		{0, 0, 0, -60, 0, -30},
		{-10, 20, 10, 20, 0, 20},
		{0, 170, 0, -170, 0, 180},
	}
	for _, tt := range tests {
		lat, lon := Midpoint(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
		if math.Abs(lat-tt.lat) > 1e-9 || math.Abs(lon-tt.lon) > 1e-9 {
			t.Errorf("Midpoint(%v, %v, %v, %v) = (%v, %v); want (%v, %v)",
				tt.lat1, tt.lon1, tt.lat2, tt.lon2, lat, lon, tt.lat, tt.lon)
		}
	}
}

func TestMidpointIsEquidistant(t *testing.T) {
	a := GeoCoordinate{37.77, -122.42}
	b := GeoCoordinate{52.52, 13.40}
	lat, lon := Midpoint(a.Lat, a.Lon, b.Lat, b.Lon)
	m := ToCartesian(lat, lon, 1)
	da := m.Distance(ToCartesian(a.Lat, a.Lon, 1))
	db := m.Distance(ToCartesian(b.Lat, b.Lon, 1))
	if math.Abs(da-db) > 1e-9 {
		t.Errorf("midpoint distances = %v, %v; want equal", da, db)
	}
}

func TestMapLinear(t *testing.T) {
	tests := []struct {
		x, a1, a2, b1, b2 float64
		want              float64
	}{
		{5, 0, 10, 0, 100, 50},
		{15, 15, 35, .2, .15, .2},
		{35, 15, 35, .2, .15, .15},
		{45, 15, 35, .8, .85, .875},
		{50, 0, 50, 1, 3.25, 3.25},
	}
	for _, tt := range tests {
		if got := MapLinear(tt.x, tt.a1, tt.a2, tt.b1, tt.b2); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("MapLinear(%v, %v, %v, %v, %v) = %v; want %v", tt.x, tt.a1, tt.a2, tt.b1, tt.b2, got, tt.want)
		}
	}
}
