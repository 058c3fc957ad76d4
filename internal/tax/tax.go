// Package tax computes line amounts, document totals and the GST split.
//
// Amounts are accumulated unrounded; Round2 is applied only when a value is
// presented.
package tax

import (
	"github.com/shopspring/decimal"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
)

var two = decimal.NewFromInt(2)

// LineAmounts holds the derived amounts of a single line
type LineAmounts struct {
	Amount    decimal.Decimal `json:"amount"`
	GSTAmount decimal.Decimal `json:"gst_amount"`
	Total     decimal.Decimal `json:"total"`
}

// DocumentTotals holds the sums over all lines of a document
type DocumentTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TotalGST decimal.Decimal `json:"total_gst"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeLine returns amount = quantity*rate, gstAmount = amount*gstPercent/100
// and total = amount+gstAmount.
func ComputeLine(quantity int, rate, gstPercent decimal.Decimal) (LineAmounts, error) {
	if quantity <= 0 {
		return LineAmounts{}, apperror.InvalidInput("ComputeLine", "quantity must be positive, got %d", quantity)
	}
	if rate.IsNegative() {
		return LineAmounts{}, apperror.InvalidInput("ComputeLine", "rate must not be negative, got %s", rate)
	}
	if gstPercent.IsNegative() {
		return LineAmounts{}, apperror.InvalidInput("ComputeLine", "gst rate must not be negative, got %s", gstPercent)
	}

	amount := rate.Mul(decimal.NewFromInt(int64(quantity)))
	gstAmount := amount.Mul(gstPercent).Shift(-2)

	return LineAmounts{
		Amount:    amount,
		GSTAmount: gstAmount,
		Total:     amount.Add(gstAmount),
	}, nil
}

// ComputeDocumentTotals sums the amounts of lines
func ComputeDocumentTotals(lines []LineAmounts) DocumentTotals {
	totals := DocumentTotals{
		Subtotal: decimal.Zero,
		TotalGST: decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, l := range lines {
		totals.Subtotal = totals.Subtotal.Add(l.Amount)
		totals.TotalGST = totals.TotalGST.Add(l.GSTAmount)
		totals.Total = totals.Total.Add(l.Total)
	}
	return totals
}

// SplitGST divides totalGST for presentation. Same-state supply is split into
// SGST and CGST; SGST is floored to two places and CGST takes the remainder so
// the two always add back to totalGST. Inter-state supply is all IGST.
func SplitGST(totalGST decimal.Decimal, sameState bool) model.GSTBreakdown {
	if !sameState {
		return model.GSTBreakdown{
			Type: model.GSTSplitInterState,
			SGST: decimal.Zero,
			CGST: decimal.Zero,
			IGST: totalGST,
		}
	}

	sgst := totalGST.Div(two).RoundFloor(2)
	return model.GSTBreakdown{
		Type: model.GSTSplitSameState,
		SGST: sgst,
		CGST: totalGST.Sub(sgst),
		IGST: decimal.Zero,
	}
}

// Round2 rounds d to two decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
