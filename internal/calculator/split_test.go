package calculator

import (
	"math"
	"testing"
)

func sum(amounts []float64) float64 {
	var s float64
	for _, a := range amounts {
		s += a
	}
	return s
}

func TestPayMyPart(t *testing.T) {
	tests := []struct {
		name           string
		guestSubtotals []float64
		totals         Totals
		validateFunc   func(t *testing.T, amounts []float64)
	}{
		{
			name:           "proportional tax split",
			guestSubtotals: []float64{20.0, 10.0},
			totals:         Totals{Subtotal: 30.0, TaxAmount: 3.0, Total: 33.0},
			validateFunc: func(t *testing.T, amounts []float64) {
				// First guest: 20 + 20/30*3 = 22. Second: 10 + 1 = 11.
				if math.Abs(amounts[0]-22.0) > 0.01 {
					t.Errorf("amounts[0] = %v, want 22.0", amounts[0])
				}
				if math.Abs(amounts[1]-11.0) > 0.01 {
					t.Errorf("amounts[1] = %v, want 11.0", amounts[1])
				}
			},
		},
		{
			name:           "last guest absorbs rounding remainder",
			guestSubtotals: []float64{10.0, 10.0, 10.0},
			totals:         Totals{Subtotal: 30.0, TaxAmount: 0.10, Total: 30.10},
			validateFunc: func(t *testing.T, amounts []float64) {
				// 10 + 0.10/3 rounds to 10.03; last guest takes
				// 30.10 - 20.06 = 10.04.
				if math.Abs(amounts[0]-10.03) > 0.001 {
					t.Errorf("amounts[0] = %v, want 10.03", amounts[0])
				}
				if math.Abs(amounts[2]-10.04) > 0.001 {
					t.Errorf("amounts[2] = %v, want 10.04", amounts[2])
				}
			},
		},
		{
			name:           "zero subtotal falls back to equal proportions",
			guestSubtotals: []float64{0, 0},
			totals:         Totals{Subtotal: 0, TaxAmount: 0, Total: 0},
			validateFunc: func(t *testing.T, amounts []float64) {
				for i, a := range amounts {
					if a != 0 {
						t.Errorf("amounts[%d] = %v, want 0", i, a)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := PayMyPart(tt.guestSubtotals, tt.totals)
			if len(amounts) != len(tt.guestSubtotals) {
				t.Fatalf("got %d amounts, want %d", len(amounts), len(tt.guestSubtotals))
			}
			if math.Abs(sum(amounts)-tt.totals.Total) > 1e-9 {
				t.Errorf("sum = %v, want table total %v", sum(amounts), tt.totals.Total)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, amounts)
			}
		})
	}
}

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		n     int
		want  []float64
	}{
		{name: "even division", total: 100.0, n: 4, want: []float64{25, 25, 25, 25}},
		{name: "remainder goes to last guest", total: 100.0, n: 3, want: []float64{33.33, 33.33, 33.34}},
		{name: "single guest", total: 47.19, n: 1, want: []float64{47.19}},
		{name: "no guests", total: 10.0, n: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := SplitEqually(tt.total, tt.n)
			if len(amounts) != len(tt.want) {
				t.Fatalf("got %d amounts, want %d", len(amounts), len(tt.want))
			}
			for i := range tt.want {
				if math.Abs(amounts[i]-tt.want[i]) > 0.001 {
					t.Errorf("amounts[%d] = %v, want %v", i, amounts[i], tt.want[i])
				}
			}
			if tt.n > 0 && math.Abs(sum(amounts)-tt.total) > 1e-9 {
				t.Errorf("sum = %v, want %v", sum(amounts), tt.total)
			}
		})
	}
}

func TestCustomSplit(t *testing.T) {
	totals := Totals{Subtotal: 100.0, TaxAmount: 16.0, ServiceFeeAmount: 10.0, Total: 126.0}

	t.Run("all assigned reconciles exactly", func(t *testing.T) {
		amounts := CustomSplit([]float64{60.0, 40.0}, totals, true)
		if math.Abs(sum(amounts)-totals.Total) > 1e-9 {
			t.Errorf("sum = %v, want %v", sum(amounts), totals.Total)
		}
		// 60 + 60% of 26 = 75.60
		if math.Abs(amounts[0]-75.60) > 0.001 {
			t.Errorf("amounts[0] = %v, want 75.60", amounts[0])
		}
	})

	t.Run("partial assignment does not absorb remainder", func(t *testing.T) {
		// Only 50 of the 100 subtotal has been claimed; the sum must stay
		// below the table total instead of dumping the gap on the last
		// guest.
		amounts := CustomSplit([]float64{30.0, 20.0}, totals, false)
		if sum(amounts) >= totals.Total {
			t.Errorf("sum = %v, expected less than total %v", sum(amounts), totals.Total)
		}
		// 20 + 20% of 26 = 25.20, untouched by absorption.
		if math.Abs(amounts[1]-25.20) > 0.001 {
			t.Errorf("amounts[1] = %v, want 25.20", amounts[1])
		}
	})

	t.Run("zero subtotal carries no tax", func(t *testing.T) {
		amounts := CustomSplit([]float64{0, 0}, Totals{}, false)
		for i, a := range amounts {
			if a != 0 {
				t.Errorf("amounts[%d] = %v, want 0", i, a)
			}
		}
	})
}

func TestUnassignedBalance(t *testing.T) {
	totals := Totals{Subtotal: 100.0, TaxAmount: 16.0, ServiceFeeAmount: 10.0, Total: 126.0}

	tests := []struct {
		name       string
		unassigned float64
		want       float64
	}{
		{name: "nothing unassigned", unassigned: 0, want: 0},
		{name: "half unassigned", unassigned: 50.0, want: 63.0},
		{name: "everything unassigned", unassigned: 100.0, want: 126.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnassignedBalance(tt.unassigned, totals); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("UnassignedBalance(%v) = %v, want %v", tt.unassigned, got, tt.want)
			}
		})
	}
}
