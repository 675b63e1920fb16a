package money

import "testing"

func TestRoundCentsHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{1.004, 1.0},
		{2.675, 2.68},
		{0, 0},
		{10000, 10000},
		{1234.5678, 1234.57},
	}
	for _, tc := range cases {
		if got := RoundCents(tc.in); got != tc.want {
			t.Fatalf("RoundCents(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPercentOf(t *testing.T) {
	cases := []struct {
		amount     float64
		percentage float64
		want       float64
	}{
		{10000, 34, 3400},
		{10000, 33, 3300},
		{5000, 30, 1500},
		{5000, 70, 3500},
		{99.99, 33.33, 33.33},
		{0.01, 50, 0.01},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := PercentOf(tc.amount, tc.percentage); got != tc.want {
			t.Fatalf("PercentOf(%v, %v) = %v, want %v", tc.amount, tc.percentage, got, tc.want)
		}
	}
}
