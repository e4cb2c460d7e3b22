package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rsned/industry-planner/internal/industry/blueprints"
	"github.com/rsned/industry-planner/internal/industry/catalog"
	"github.com/rsned/industry-planner/pkg/industry"
)

func TestApplyMaterialEfficiency(t *testing.T) {
	tests := []struct {
		name string
		base int
		me   int
		want int
	}{
		{"no efficiency", 32000, 0, 32000},
		{"max efficiency", 32000, 10, 28800},
		{"half rounds up", 5, 10, 5},
		{"thirteen and a half", 15, 10, 14},
		{"rounds down below half", 7, 10, 6},
		{"single unit stays", 1, 10, 1},
		{"odd level", 3, 5, 3},
		{"zero stays zero", 0, 10, 0},
		{"level above max clamps", 6000, 15, 5400},
		{"negative level clamps", 6000, -3, 6000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyMaterialEfficiency(industry.Requirements{"Tritanium": tc.base}, tc.me)
			require.Equal(t, industry.Requirements{"Tritanium": tc.want}, got)
		})
	}
}

func TestApplyMaterialEfficiency_EmptyAndNil(t *testing.T) {
	require.Empty(t, ApplyMaterialEfficiency(industry.Requirements{}, 10))
	require.Empty(t, ApplyMaterialEfficiency(nil, 10))
}

func TestApplyMaterialEfficiency_DoesNotMutateInput(t *testing.T) {
	base := industry.Requirements{"Tritanium": 100}
	_ = ApplyMaterialEfficiency(base, 10)
	require.Equal(t, 100, base["Tritanium"])
}

func TestApplyMaterialEfficiency_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.IntRange(0, 1_000_000_000).Draw(t, "base")
		lo := rapid.IntRange(0, industry.MaxME).Draw(t, "lo")
		hi := rapid.IntRange(lo, industry.MaxME).Draw(t, "hi")

		atLo := ApplyMaterialEfficiency(industry.Requirements{"m": base}, lo)["m"]
		atHi := ApplyMaterialEfficiency(industry.Requirements{"m": base}, hi)["m"]

		if atLo > base {
			t.Fatalf("ME %d increased %d to %d", lo, base, atLo)
		}
		if atHi > atLo {
			t.Fatalf("ME %d gave %d, more than ME %d gave %d", hi, atHi, lo, atLo)
		}

		// |scaled - base*(100-me)/100| <= 0.5, checked in hundredths.
		diff := int64(atHi)*100 - int64(base)*int64(100-hi)
		if diff < -50 || diff > 50 {
			t.Fatalf("ME %d on %d gave %d, off by %d hundredths", hi, base, atHi, diff)
		}
	})
}

func TestApplyMaterialEfficiency_ClampEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.IntRange(0, 10_000_000).Draw(t, "base")
		me := rapid.IntRange(-1000, 1000).Draw(t, "me")

		req := industry.Requirements{"m": base}
		if got, want := ApplyMaterialEfficiency(req, me), ApplyMaterialEfficiency(req, industry.ClampME(me)); got["m"] != want["m"] {
			t.Fatalf("ME %d gave %d, clamped level gave %d", me, got["m"], want["m"])
		}
	})
}

func TestProductionTime(t *testing.T) {
	require.InDelta(t, 6000, ProductionTime(6000, 0), 1e-9)
	require.InDelta(t, 4800, ProductionTime(6000, 20), 1e-9)
	require.InDelta(t, 4800, ProductionTime(6000, 25), 1e-9)
	require.InDelta(t, 6000, ProductionTime(6000, -5), 1e-9)
	require.InDelta(t, 5940, ProductionTime(6000, 1), 1e-9)
	require.InDelta(t, 0, ProductionTime(0, 10), 1e-9)
}

func TestProductionTime_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(0, 1e7).Draw(t, "base")
		te := rapid.IntRange(-100, 100).Draw(t, "te")

		got := ProductionTime(base, te)
		if got > base+1e-6 || got < base*0.8-1e-6 {
			t.Fatalf("TE %d on %f gave %f, outside [0.8*base, base]", te, base, got)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := map[float64]string{
		0:       "0:00:00",
		-10:     "0:00:00",
		59.4:    "0:00:59",
		59.5:    "0:01:00",
		4800:    "1:20:00",
		90061:   "25:01:01",
		6000.25: "1:40:00",
	}
	for in, want := range tests {
		require.Equal(t, want, FormatDuration(in), "seconds %v", in)
	}
}

func TestAggregate(t *testing.T) {
	a := industry.Requirements{"Tritanium": 10, "Pyerite": 5}
	b := industry.Requirements{"Tritanium": 1, "Mexallon": 2}

	require.Equal(t, industry.Requirements{"Tritanium": 11, "Pyerite": 5, "Mexallon": 2}, Aggregate(a, b))
	require.Empty(t, Aggregate())
	require.Equal(t, a, Aggregate(a))
	require.Equal(t, industry.Requirements{"Tritanium": 10, "Pyerite": 5}, a, "inputs are not mutated")
}

func genRequirements(t *rapid.T, label string) industry.Requirements {
	return rapid.MapOf(
		rapid.SampledFrom([]string{"Tritanium", "Pyerite", "Mexallon", "Isogen", "Nocxium"}),
		rapid.IntRange(0, 1_000_000),
	).Draw(t, label)
}

func TestAggregate_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genRequirements(t, "a")
		b := genRequirements(t, "b")
		c := genRequirements(t, "c")

		ab := Aggregate(a, b)
		if !mapsEqual(ab, Aggregate(b, a)) {
			t.Fatalf("aggregate is not commutative: %v vs %v", ab, Aggregate(b, a))
		}
		if !mapsEqual(Aggregate(ab, c), Aggregate(a, Aggregate(b, c))) {
			t.Fatal("aggregate is not associative")
		}
		if ab.Total() != a.Total()+b.Total() {
			t.Fatalf("totals differ: %d vs %d", ab.Total(), a.Total()+b.Total())
		}
	})
}

func mapsEqual(a, b industry.Requirements) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func TestScale(t *testing.T) {
	req := industry.Requirements{"Tritanium": 28800, "Pyerite": 5400}

	require.Equal(t, industry.Requirements{"Tritanium": 86400, "Pyerite": 16200}, Scale(req, 3))
	require.Equal(t, req, Scale(req, 1))
	require.Empty(t, Scale(req, 0))
	require.Empty(t, Scale(req, -2))
}

func TestCalculateFor(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.Register(&industry.Ship{EntryBase: industry.EntryBase{
		Key:          "rifter",
		DisplayName:  "Rifter",
		Requirements: industry.Requirements{"Tritanium": 32000, "Pyerite": 6000},
	}})

	cfg := blueprints.NewConfig()
	require.Equal(t, industry.Requirements{"Tritanium": 32000, "Pyerite": 6000},
		CalculateFor(reg, cfg, industry.CategoryShip, "rifter"))

	cfg[industry.CategoryShip]["rifter"] = blueprints.Record{ME: 10}
	require.Equal(t, industry.Requirements{"Tritanium": 28800, "Pyerite": 5400},
		CalculateFor(reg, cfg, industry.CategoryShip, "rifter"))

	require.Empty(t, CalculateFor(reg, cfg, industry.CategoryShip, "merlin"))
	require.Empty(t, CalculateFor(reg, cfg, industry.CategoryCapitalShip, "rifter"))
}
