package calc

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01}, // 1.005*100 is 100.4999... in float64
		{1.004, 1.0},
		{2.675, 2.68},
		{1.345, 1.35},
		{10.125, 10.13},
		{0, 0},
		{-1.005, -1.01},
		{-2.675, -2.68},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); !almostEqual(got, tt.want) {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitGST(t *testing.T) {
	tests := []struct {
		name   string
		seller string
		buyer  string
		pct    float64
		want   GSTSplit
	}{
		{
			name:   "same state splits into CGST and SGST",
			seller: "27AAAAA0000A1Z5",
			buyer:  "27BBBBB0000B1Z5",
			pct:    18,
			want:   GSTSplit{CGST: 9, SGST: 9},
		},
		{
			name:   "different states go fully to IGST",
			seller: "27AAAAA0000A1Z5",
			buyer:  "29BBBBB0000B1Z5",
			pct:    18,
			want:   GSTSplit{IGST: 18},
		},
		{
			name:   "missing buyer GSTIN defaults to intra-state",
			seller: "27AAAAA0000A1Z5",
			buyer:  "",
			pct:    12,
			want:   GSTSplit{CGST: 6, SGST: 6},
		},
		{
			name:   "too-short seller GSTIN defaults to intra-state",
			seller: "2",
			buyer:  "29BBBBB0000B1Z5",
			pct:    5,
			want:   GSTSplit{CGST: 2.5, SGST: 2.5},
		},
		{
			name: "both missing defaults to intra-state",
			pct:  28,
			want: GSTSplit{CGST: 14, SGST: 14},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitGST(tt.seller, tt.buyer, tt.pct)
			if !almostEqual(got.CGST, tt.want.CGST) || !almostEqual(got.SGST, tt.want.SGST) || !almostEqual(got.IGST, tt.want.IGST) {
				t.Errorf("SplitGST() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSplitGSTAmount(t *testing.T) {
	amounts := SplitGSTAmount(GSTSplit{CGST: 9, SGST: 9}, 1000)
	if !almostEqual(amounts.CGST, 90) || !almostEqual(amounts.SGST, 90) || !almostEqual(amounts.IGST, 0) {
		t.Errorf("SplitGSTAmount() = %+v, want {90 90 0}", amounts)
	}
}

func TestApplyLineDiscount(t *testing.T) {
	tests := []struct {
		name         string
		raw          float64
		kind         DiscountType
		value        float64
		wantNet      float64
		wantDiscount float64
	}{
		{"ten percent off", 1000, DiscountPercent, 10, 900, 100},
		{"flat amount off", 1000, DiscountAmount, 250, 750, 250},
		{"over-100 percent clamps to the full line", 1000, DiscountPercent, 150, 0, 1000},
		{"amount above line clamps to the full line", 500, DiscountAmount, 900, 0, 500},
		{"negative value clamps to zero discount", 500, DiscountAmount, -50, 500, 0},
		{"negative raw treated as zero", -100, DiscountPercent, 10, 0, 0},
		{"NaN value treated as zero", 500, DiscountAmount, math.NaN(), 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, discount := ApplyLineDiscount(tt.raw, tt.kind, tt.value)
			if !almostEqual(net, tt.wantNet) || !almostEqual(discount, tt.wantDiscount) {
				t.Errorf("ApplyLineDiscount(%v, %q, %v) = (%v, %v), want (%v, %v)",
					tt.raw, tt.kind, tt.value, net, discount, tt.wantNet, tt.wantDiscount)
			}
		})
	}

	// Net always stays inside [0, raw] regardless of the discount value.
	for _, v := range []float64{-1000, -1, 0, 49.99, 100, 101, 99999} {
		for _, kind := range []DiscountType{DiscountPercent, DiscountAmount} {
			net, discount := ApplyLineDiscount(100, kind, v)
			if net < 0 || net > 100 || discount < 0 || discount > 100 {
				t.Errorf("ApplyLineDiscount(100, %q, %v) out of range: net=%v discount=%v", kind, v, net, discount)
			}
		}
	}
}

func TestParseQtyExpression(t *testing.T) {
	tests := []struct {
		in          string
		wantValue   float64
		wantDisplay string
		wantOK      bool
	}{
		{"5x3x2", 30, "5×3×2", true},
		{"5X3", 15, "5×3", true},
		{"4*2.5", 10, "4×2.5", true},
		{"7", 7, "7", true},
		{" 5 x 3 ", 15, "5×3", true},
		{"abc", 0, "", false},
		{"5x", 0, "", false},
		{"5xx2", 0, "", false},
		{"5x0", 0, "", false},
		{"5x-3", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseQtyExpression(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseQtyExpression(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !almostEqual(got.Value, tt.wantValue) || got.Display != tt.wantDisplay {
				t.Errorf("ParseQtyExpression(%q) = %+v, want value %v display %q", tt.in, got, tt.wantValue, tt.wantDisplay)
			}
		})
	}
}
