package zakat

import "testing"

func TestScale(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1, 100},
		{1.5, 150},
		{10.01, 1001},
		{-2.5, -250},
		{0.005, 1}, // rounds half away from zero
		{0.004, 0},
		{1234567.89, 123456789},
	}
	for _, tc := range tests {
		if got := Scale(tc.in); got != tc.want {
			t.Errorf("Scale(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestUnscale(t *testing.T) {
	tests := []struct {
		in   int64
		want float64
	}{
		{0, 0},
		{100, 1},
		{150, 1.5},
		{-250, -2.5},
		{123456789, 1234567.89},
	}
	for _, tc := range tests {
		if got := Unscale(tc.in); got != tc.want {
			t.Errorf("Unscale(%d) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScaleN(t *testing.T) {
	if got := ScaleN(1.2345, 3); got != 1235 {
		t.Errorf("ScaleN(1.2345, 3) = %d, want 1235", got)
	}
	if got := UnscaleN(1234, 3); got != 1.234 {
		t.Errorf("UnscaleN(1234, 3) = %v, want 1.234", got)
	}
}
