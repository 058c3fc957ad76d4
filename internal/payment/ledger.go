// Package payment tracks how much of a bill or purchase has been settled.
//
// A document moves between the paid, pending and partial states. Its tracking
// record keeps TotalAmount fixed at the document total while AmountPaid and
// AmountPending move, and the two always add back to TotalAmount within
// Tolerance.
package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
)

// Tolerance is the rounding slack allowed when deciding a document is settled
var Tolerance = decimal.New(1, -2)

// Default history notes
const (
	NoteMarkedPaid      = "Marked as paid"
	NotePartialReceived = "Partial payment received"
	NotePartialMade     = "Partial payment made"
)

// Payable is a document whose settlement is tracked
type Payable interface {
	DocumentTotal() decimal.Decimal
	Status() model.PaymentStatus
	SetStatus(model.PaymentStatus)
	Tracking() *model.PaymentTracking
	SetTracking(*model.PaymentTracking)
}

// Update is a requested status change. Amount and Note are used only for partial payments.
type Update struct {
	Status model.PaymentStatus `json:"status"`
	Amount decimal.Decimal     `json:"amount"`
	Note   string              `json:"note"`
}

// MarkPaid settles doc in full. A synthetic payment for the full amount is
// recorded only when doc has no tracking yet; otherwise the amounts are
// corrected and the history is left alone.
func MarkPaid(doc Payable, at time.Time) {
	total := doc.DocumentTotal()

	if tr := doc.Tracking(); tr != nil {
		tr.AmountPaid = tr.TotalAmount
		tr.AmountPending = decimal.Zero
	} else {
		doc.SetTracking(&model.PaymentTracking{
			TotalAmount:   total,
			AmountPaid:    total,
			AmountPending: decimal.Zero,
			Payments: []model.Payment{
				{Amount: total, Date: at, Note: NoteMarkedPaid},
			},
		})
	}
	doc.SetStatus(model.PaymentPaid)
}

// MarkPending resets doc to nothing paid and clears its history
func MarkPending(doc Payable) {
	tr := doc.Tracking()
	if tr == nil {
		tr = newTracking(doc.DocumentTotal())
		doc.SetTracking(tr)
	}
	tr.AmountPaid = decimal.Zero
	tr.AmountPending = tr.TotalAmount
	tr.Payments = []model.Payment{}
	doc.SetStatus(model.PaymentPending)
}

// RecordPartial applies a payment of amount to doc. The amount must be
// positive and no more than what is pending; otherwise ErrInvalidAmount is
// returned and doc is unchanged. When what remains pending is within
// Tolerance the document becomes paid.
func RecordPartial(doc Payable, amount decimal.Decimal, note string, at time.Time) error {
	if doc.Status() == model.PaymentPaid {
		return apperror.New("RecordPartial", apperror.ErrInvalidAmount, "document is already paid")
	}

	tr := doc.Tracking()
	fresh := tr == nil
	if fresh {
		tr = newTracking(doc.DocumentTotal())
	}

	if !amount.IsPositive() {
		return apperror.New("RecordPartial", apperror.ErrInvalidAmount, "amount must be positive, got %s", amount)
	}
	if amount.GreaterThan(tr.AmountPending) {
		return apperror.New("RecordPartial", apperror.ErrInvalidAmount,
			"amount %s exceeds pending %s", amount, tr.AmountPending)
	}

	tr.Payments = append(tr.Payments, model.Payment{Amount: amount, Date: at, Note: note})
	tr.AmountPaid = tr.AmountPaid.Add(amount)
	tr.AmountPending = tr.AmountPending.Sub(amount)
	if fresh {
		doc.SetTracking(tr)
	}

	if tr.AmountPending.LessThanOrEqual(Tolerance) {
		doc.SetStatus(model.PaymentPaid)
	} else {
		doc.SetStatus(model.PaymentPartial)
	}
	return nil
}

// Apply dispatches u onto doc. defaultNote is used for partial payments that
// carry no note of their own.
func Apply(doc Payable, u Update, defaultNote string, at time.Time) error {
	switch u.Status {
	case model.PaymentPaid:
		MarkPaid(doc, at)
		return nil
	case model.PaymentPending:
		MarkPending(doc)
		return nil
	case model.PaymentPartial:
		note := u.Note
		if note == "" {
			note = defaultNote
		}
		return RecordPartial(doc, u.Amount, note, at)
	default:
		return apperror.InvalidInput("Apply", "unknown payment status %q", u.Status)
	}
}

// Initialize sets the payment state of a newly created document. A pending
// document gets no tracking; a partial one records the first payment of amount.
func Initialize(doc Payable, status model.PaymentStatus, amount decimal.Decimal, note string, at time.Time) error {
	switch status {
	case model.PaymentPaid:
		MarkPaid(doc, at)
		return nil
	case model.PaymentPending:
		doc.SetStatus(model.PaymentPending)
		doc.SetTracking(nil)
		return nil
	case model.PaymentPartial:
		doc.SetStatus(model.PaymentPending)
		return RecordPartial(doc, amount, note, at)
	default:
		return apperror.InvalidInput("Initialize", "unknown payment status %q", status)
	}
}

// Outstanding returns the amount still owed on doc
func Outstanding(doc Payable) decimal.Decimal {
	if doc.Status() == model.PaymentPaid {
		return decimal.Zero
	}
	if tr := doc.Tracking(); tr != nil {
		return tr.AmountPending
	}
	return doc.DocumentTotal()
}

// Settled returns the amount received against doc
func Settled(doc Payable) decimal.Decimal {
	if doc.Status() == model.PaymentPaid {
		return doc.DocumentTotal()
	}
	if tr := doc.Tracking(); tr != nil {
		return tr.AmountPaid
	}
	return decimal.Zero
}

func newTracking(total decimal.Decimal) *model.PaymentTracking {
	return &model.PaymentTracking{
		TotalAmount:   total,
		AmountPaid:    decimal.Zero,
		AmountPending: total,
		Payments:      []model.Payment{},
	}
}
