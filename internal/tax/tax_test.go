package tax

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		rate      string
		gst       string
		amount    string
		gstAmount string
		total     string
	}{
		{name: "rebar", quantity: 10, rate: "65", gst: "18", amount: "650", gstAmount: "117", total: "767"},
		{name: "cement", quantity: 2, rate: "350", gst: "28", amount: "700", gstAmount: "196", total: "896"},
		{name: "zero rated", quantity: 3, rate: "12.50", gst: "0", amount: "37.5", gstAmount: "0", total: "37.5"},
		{name: "free sample", quantity: 1, rate: "0", gst: "18", amount: "0", gstAmount: "0", total: "0"},
		{name: "fractional gst", quantity: 7, rate: "13.37", gst: "5", amount: "93.59", gstAmount: "4.6795", total: "98.2695"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.quantity, dec(tt.rate), dec(tt.gst))
			if err != nil {
				t.Fatalf("ComputeLine() error = %v", err)
			}
			if !got.Amount.Equal(dec(tt.amount)) {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.amount)
			}
			if !got.GSTAmount.Equal(dec(tt.gstAmount)) {
				t.Errorf("GSTAmount = %s, want %s", got.GSTAmount, tt.gstAmount)
			}
			if !got.Total.Equal(dec(tt.total)) {
				t.Errorf("Total = %s, want %s", got.Total, tt.total)
			}
		})
	}
}

func TestComputeLineRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		rate     string
		gst      string
	}{
		{name: "zero quantity", quantity: 0, rate: "10", gst: "18"},
		{name: "negative quantity", quantity: -1, rate: "10", gst: "18"},
		{name: "negative rate", quantity: 1, rate: "-10", gst: "18"},
		{name: "negative gst", quantity: 1, rate: "10", gst: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.quantity, dec(tt.rate), dec(tt.gst))
			if !errors.Is(err, apperror.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestLineTotalIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	rates := []string{"0", "5", "12", "18", "28"}

	for i := 0; i < 500; i++ {
		quantity := r.Intn(1000) + 1
		rate := decimal.New(r.Int63n(1_000_000), -2)
		gst := dec(rates[r.Intn(len(rates))])

		got, err := ComputeLine(quantity, rate, gst)
		if err != nil {
			t.Fatalf("ComputeLine(%d, %s, %s) error = %v", quantity, rate, gst, err)
		}

		q := decimal.NewFromInt(int64(quantity))
		want := q.Mul(rate).Mul(decimal.NewFromInt(1).Add(gst.Div(decimal.NewFromInt(100))))
		if !got.Total.Equal(want) {
			t.Fatalf("ComputeLine(%d, %s, %s).Total = %s, want %s", quantity, rate, gst, got.Total, want)
		}
		if !got.Amount.Add(got.GSTAmount).Equal(got.Total) {
			t.Fatalf("amount + gst != total for (%d, %s, %s)", quantity, rate, gst)
		}
	}
}

// Two lines, same state: 10 x 65.00 @18% and 2 x 350.00 @28%.
func TestTwoLineSameStateBill(t *testing.T) {
	l1, err := ComputeLine(10, dec("65.00"), dec("18"))
	if err != nil {
		t.Fatal(err)
	}
	l2, err := ComputeLine(2, dec("350.00"), dec("28"))
	if err != nil {
		t.Fatal(err)
	}

	totals := ComputeDocumentTotals([]LineAmounts{l1, l2})
	if !totals.Subtotal.Equal(dec("1350")) {
		t.Errorf("Subtotal = %s, want 1350", totals.Subtotal)
	}
	if !totals.TotalGST.Equal(dec("313")) {
		t.Errorf("TotalGST = %s, want 313", totals.TotalGST)
	}
	if !totals.Total.Equal(dec("1663")) {
		t.Errorf("Total = %s, want 1663", totals.Total)
	}

	split := SplitGST(totals.TotalGST, true)
	if split.Type != model.GSTSplitSameState {
		t.Errorf("Type = %q, want %q", split.Type, model.GSTSplitSameState)
	}
	if !split.SGST.Equal(dec("156.5")) || !split.CGST.Equal(dec("156.5")) {
		t.Errorf("split = sgst %s cgst %s, want 156.50 each", split.SGST, split.CGST)
	}
}

func TestComputeDocumentTotalsEmpty(t *testing.T) {
	totals := ComputeDocumentTotals(nil)
	if !totals.Subtotal.IsZero() || !totals.TotalGST.IsZero() || !totals.Total.IsZero() {
		t.Errorf("totals of no lines = %+v, want zeros", totals)
	}
}

func TestSplitGST(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		sameState bool
		sgst      string
		cgst      string
		igst      string
	}{
		{name: "even", total: "313", sameState: true, sgst: "156.5", cgst: "156.5", igst: "0"},
		{name: "odd paisa", total: "0.03", sameState: true, sgst: "0.01", cgst: "0.02", igst: "0"},
		{name: "unrounded", total: "4.6795", sameState: true, sgst: "2.33", cgst: "2.3495", igst: "0"},
		{name: "inter state", total: "313", sameState: false, sgst: "0", cgst: "0", igst: "313"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitGST(dec(tt.total), tt.sameState)
			if !got.SGST.Equal(dec(tt.sgst)) {
				t.Errorf("SGST = %s, want %s", got.SGST, tt.sgst)
			}
			if !got.CGST.Equal(dec(tt.cgst)) {
				t.Errorf("CGST = %s, want %s", got.CGST, tt.cgst)
			}
			if !got.IGST.Equal(dec(tt.igst)) {
				t.Errorf("IGST = %s, want %s", got.IGST, tt.igst)
			}
		})
	}
}

func TestSplitGSTSumsToTotal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		total := decimal.New(r.Int63n(10_000_000), -int32(r.Intn(5)))
		split := SplitGST(total, true)
		if !split.SGST.Add(split.CGST).Equal(total) {
			t.Fatalf("SGST %s + CGST %s != %s", split.SGST, split.CGST, total)
		}
		if split.SGST.GreaterThan(split.CGST) {
			t.Fatalf("SGST %s > CGST %s for %s", split.SGST, split.CGST, total)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := map[string]string{
		"1.005":  "1.01",
		"2.3495": "2.35",
		"156.5":  "156.5",
		"-1.005": "-1.01",
	}
	for in, want := range tests {
		if got := Round2(dec(in)); !got.Equal(dec(want)) {
			t.Errorf("Round2(%s) = %s, want %s", in, got, want)
		}
	}
}
