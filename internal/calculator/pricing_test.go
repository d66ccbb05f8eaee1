package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/railstats/internal/models"
)

func TestComputePrice(t *testing.T) {
	tests := []struct {
		name     string
		baseFare float64
		flags    models.DiscountFlags
		want     float64
	}{
		{
			name:     "no discount",
			baseFare: 100,
			want:     100,
		},
		{
			name:     "student only",
			baseFare: 100,
			flags:    models.DiscountFlags{IsStudent: true},
			want:     80,
		},
		{
			name:     "military only",
			baseFare: 100,
			flags:    models.DiscountFlags{IsMilitary: true},
			want:     50,
		},
		{
			name:     "kid only",
			baseFare: 100,
			flags:    models.DiscountFlags{IsKid: true},
			want:     70,
		},
		{
			name:     "all three stack multiplicatively",
			baseFare: 100,
			flags:    models.DiscountFlags{IsStudent: true, IsMilitary: true, IsKid: true},
			want:     28,
		},
		{
			name:     "student and kid",
			baseFare: 250,
			flags:    models.DiscountFlags{IsStudent: true, IsKid: true},
			want:     140,
		},
		{
			name:     "rounds to cents",
			baseFare: 33.33,
			flags:    models.DiscountFlags{IsKid: true},
			want:     23.33, // 23.331
		},
		{
			name:     "zero fare",
			baseFare: 0,
			flags:    models.DiscountFlags{IsStudent: true},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePrice(tt.baseFare, tt.flags)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("ComputePrice(%v, %+v) = %v, want %v", tt.baseFare, tt.flags, got, tt.want)
			}
		})
	}
}

func TestComputePrice_IdempotentFromBaseFare(t *testing.T) {
	for _, flags := range allFlagCombinations() {
		first := ComputePrice(100, flags)
		for i := 0; i < 5; i++ {
			if got := ComputePrice(100, flags); got != first {
				t.Errorf("flags %+v: repeated pricing from base fare gave %v, want %v", flags, got, first)
			}
		}
	}
}

func TestComputePrice_RediscountingLowersPrice(t *testing.T) {
	for _, flags := range allFlagCombinations() {
		if flags == (models.DiscountFlags{}) {
			continue
		}
		once := ComputePrice(100, flags)
		twice := ComputePrice(once, flags)
		if twice >= once {
			t.Errorf("flags %+v: re-pricing %v gave %v, expected a strictly lower value", flags, once, twice)
		}
	}
}

func allFlagCombinations() []models.DiscountFlags {
	var out []models.DiscountFlags
	for i := 0; i < 8; i++ {
		out = append(out, models.DiscountFlags{
			IsStudent:  i&1 != 0,
			IsMilitary: i&2 != 0,
			IsKid:      i&4 != 0,
		})
	}
	return out
}
