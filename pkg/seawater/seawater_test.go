package seawater

import (
	"math"
	"testing"
)

func TestDensityAnomalyIdentity(t *testing.T) {
	for _, s := range []float64{0, 10, 33.5, 35, 40} {
		for _, temp := range []float64{-2, 0, 4, 15.5, 30} {
			rho := Density(s, temp)
			sigma := Anomaly(s, temp)
			if math.Abs(rho-(sigma+1000)) > 1e-9 {
				t.Errorf("Density(%v,%v) = %v, Anomaly+1000 = %v", s, temp, rho, sigma+1000)
			}
		}
	}
}

func TestZeroSalinityIsFreshwater(t *testing.T) {
	for _, temp := range []float64{-1, 0, 4, 10, 20, 35} {
		if got, want := Density(0, temp), FreshwaterDensity(temp); got != want {
			t.Errorf("Density(0,%v) = %v, expected %v", temp, got, want)
		}
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		s, temp  float64
		expected float64
	}{
		{name: "pure water 0C", s: 0, temp: 0, expected: 999.842594},
		{name: "pure water 4C", s: 0, temp: 4, expected: 999.9750},
		{name: "typical surface water", s: 35, temp: 15, expected: 1026.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Density(tt.s, tt.temp)
			if math.Abs(got-tt.expected) > 0.5 {
				t.Errorf("Density(%v,%v) = %.4f, expected about %.4f", tt.s, tt.temp, got, tt.expected)
			}
		})
	}
}

func TestDensityIncreasesWithSalinity(t *testing.T) {
	for temp := -2.0; temp <= 30; temp += 2 {
		prev := Density(0, temp)
		for s := 0.5; s <= 40; s += 0.5 {
			cur := Density(s, temp)
			if cur <= prev {
				t.Fatalf("density not increasing at T=%v S=%v: %v <= %v", temp, s, cur, prev)
			}
			prev = cur
		}
	}
}

func TestQuantityEval(t *testing.T) {
	s, temp := 34.0, 8.0
	if got := QuantityDensity.Eval(s, temp); got != Density(s, temp) {
		t.Errorf("density eval = %v", got)
	}
	if got := QuantityAnomaly.Eval(s, temp); got != Anomaly(s, temp) {
		t.Errorf("anomaly eval = %v", got)
	}
	if got := QuantitySpecificGravity.Eval(s, temp); got != SpecificGravity(s, temp) {
		t.Errorf("specific gravity eval = %v", got)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in       string
		expected Quantity
		wantErr  bool
	}{
		{in: "density", expected: QuantityDensity},
		{in: " Sigma-T ", expected: QuantityAnomaly},
		{in: "anomaly", expected: QuantityAnomaly},
		{in: "specific_gravity", expected: QuantitySpecificGravity},
		{in: "sg", expected: QuantitySpecificGravity},
		{in: "pressure", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := ParseQuantity(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseQuantity(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuantity(%q) error: %v", tt.in, err)
			}
			if q != tt.expected {
				t.Errorf("ParseQuantity(%q) = %v, expected %v", tt.in, q, tt.expected)
			}
			if round, _ := ParseQuantity(q.String()); round != q {
				t.Errorf("String() of %v does not parse back", q)
			}
		})
	}
}

func TestGrid(t *testing.T) {
	sal := []float64{30, 32, 34}
	temp := []float64{5, 10}

	g := Grid(sal, temp, QuantityAnomaly)
	r, c := g.Dims()
	if r != len(temp) || c != len(sal) {
		t.Fatalf("Grid dims = %dx%d, expected %dx%d", r, c, len(temp), len(sal))
	}
	for i := range temp {
		for j := range sal {
			if got, want := g.At(i, j), Anomaly(sal[j], temp[i]); got != want {
				t.Errorf("Grid(%d,%d) = %v, expected %v", i, j, got, want)
			}
		}
	}
}
