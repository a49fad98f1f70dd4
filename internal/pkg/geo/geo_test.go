package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Coordinate
		wantMin float64
		wantMax float64
	}{
		{
			name:    "same_point",
			a:       Coordinate{44.8176, 20.4633},
			b:       Coordinate{44.8176, 20.4633},
			wantMin: 0,
			wantMax: 0,
		},
		{
			name:    "belgrade_fortress_to_republic_square",
			a:       Coordinate{44.8176, 20.4633},
			b:       Coordinate{44.8206, 20.4513},
			wantMin: 900,
			wantMax: 1100,
		},
		{
			name:    "equator_one_degree_longitude",
			a:       Coordinate{0, 0},
			b:       Coordinate{0, 1},
			wantMin: 111000,
			wantMax: 111500,
		},
		{
			name:    "antimeridian_neighbors",
			a:       Coordinate{0, 179.9995},
			b:       Coordinate{0, -179.9995},
			wantMin: 0,
			wantMax: 150,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := DistanceMeters(tc.a, tc.b)
			if d < tc.wantMin || d > tc.wantMax {
				t.Fatalf("DistanceMeters(%v, %v)=%f, want within [%f, %f]", tc.a, tc.b, d, tc.wantMin, tc.wantMax)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]Coordinate{
		{{44.8176, 20.4633}, {44.8206, 20.4513}},
		{{-33.8688, 151.2093}, {51.5074, -0.1278}},
		{{90, 0}, {-90, 0}},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1])
		ba := DistanceMeters(p[1], p[0])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
		if ab < 0 {
			t.Fatalf("distance negative: %f", ab)
		}
	}
}

func TestWithinRadius(t *testing.T) {
	at := Coordinate{44.8176, 20.4633}
	near := Coordinate{44.81764, 20.46334} // a few meters away
	far := Coordinate{44.8206, 20.4513}

	if ok, d := WithinRadius(at, near, 50); !ok {
		t.Fatalf("expected %f m to be within 50 m", d)
	}
	if ok, d := WithinRadius(at, far, 50); ok {
		t.Fatalf("expected %f m to be outside 50 m", d)
	}
	if ok, _ := WithinRadius(at, far, 2000); !ok {
		t.Fatal("expected within 2000 m")
	}
}

func TestCoordinateValid(t *testing.T) {
	cases := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{0, 0}, true},
		{Coordinate{90, 180}, true},
		{Coordinate{-90, -180}, true},
		{Coordinate{90.0001, 0}, false},
		{Coordinate{0, -180.0001}, false},
		{Coordinate{-91, 20}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Fatalf("Valid(%v)=%v, want %v", tc.c, got, tc.want)
		}
	}
}
