package payment

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pendingBill(total string) *model.Bill {
	return &model.Bill{ID: 1, Total: dec(total), PaymentStatus: model.PaymentPending}
}

func checkInvariant(t *testing.T, doc Payable) {
	t.Helper()
	tr := doc.Tracking()
	if tr == nil {
		return
	}
	if !tr.TotalAmount.Equal(doc.DocumentTotal()) {
		t.Fatalf("TotalAmount = %s, document total %s", tr.TotalAmount, doc.DocumentTotal())
	}
	drift := tr.AmountPaid.Add(tr.AmountPending).Sub(tr.TotalAmount).Abs()
	if drift.GreaterThan(Tolerance) {
		t.Fatalf("paid %s + pending %s != total %s", tr.AmountPaid, tr.AmountPending, tr.TotalAmount)
	}
}

// Pending bill of 1000: pay 400 then 600.
func TestPartialThenFull(t *testing.T) {
	bill := pendingBill("1000.00")

	if err := RecordPartial(bill, dec("400"), NotePartialReceived, now); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if bill.PaymentStatus != model.PaymentPartial {
		t.Fatalf("status = %s, want partial", bill.PaymentStatus)
	}
	tr := bill.PaymentTracking
	if !tr.AmountPaid.Equal(dec("400")) || !tr.AmountPending.Equal(dec("600")) || len(tr.Payments) != 1 {
		t.Fatalf("after 400: paid %s pending %s payments %d", tr.AmountPaid, tr.AmountPending, len(tr.Payments))
	}
	checkInvariant(t, bill)

	if err := RecordPartial(bill, dec("600"), NotePartialReceived, now.Add(time.Hour)); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if bill.PaymentStatus != model.PaymentPaid {
		t.Fatalf("status = %s, want paid", bill.PaymentStatus)
	}
	tr = bill.PaymentTracking
	if !tr.AmountPaid.Equal(dec("1000")) || !tr.AmountPending.IsZero() || len(tr.Payments) != 2 {
		t.Fatalf("after 600: paid %s pending %s payments %d", tr.AmountPaid, tr.AmountPending, len(tr.Payments))
	}
	checkInvariant(t, bill)
}

func TestRecordPartialRejectsBadAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{name: "zero", amount: "0"},
		{name: "negative", amount: "-5"},
		{name: "more than pending", amount: "600.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := pendingBill("1000")
			if err := RecordPartial(bill, dec("400"), "", now); err != nil {
				t.Fatal(err)
			}

			err := RecordPartial(bill, dec(tt.amount), "", now)
			if !errors.Is(err, apperror.ErrInvalidAmount) {
				t.Fatalf("error = %v, want ErrInvalidAmount", err)
			}
			tr := bill.PaymentTracking
			if bill.PaymentStatus != model.PaymentPartial || !tr.AmountPaid.Equal(dec("400")) || len(tr.Payments) != 1 {
				t.Errorf("state changed by rejected payment: %s paid %s payments %d",
					bill.PaymentStatus, tr.AmountPaid, len(tr.Payments))
			}
		})
	}
}

func TestRecordPartialWithoutTrackingLeavesDocUntouchedOnError(t *testing.T) {
	bill := pendingBill("250")
	if err := RecordPartial(bill, dec("300"), "", now); !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}
	if bill.PaymentTracking != nil || bill.PaymentStatus != model.PaymentPending {
		t.Errorf("bill changed: %+v", bill)
	}
}

func TestRecordPartialOnPaidDocument(t *testing.T) {
	bill := pendingBill("100")
	MarkPaid(bill, now)
	if err := RecordPartial(bill, dec("1"), "", now); !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestPartialWithinToleranceSettles(t *testing.T) {
	bill := pendingBill("100.005")
	if err := RecordPartial(bill, dec("100"), "", now); err != nil {
		t.Fatal(err)
	}
	if bill.PaymentStatus != model.PaymentPaid {
		t.Errorf("status = %s, want paid with 0.005 pending", bill.PaymentStatus)
	}
}

// A paid document marked paid again keeps a single history record.
func TestMarkPaidTwice(t *testing.T) {
	bill := pendingBill("1663")

	MarkPaid(bill, now)
	MarkPaid(bill, now.Add(time.Minute))

	tr := bill.PaymentTracking
	if len(tr.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(tr.Payments))
	}
	if tr.Payments[0].Note != NoteMarkedPaid || !tr.Payments[0].Amount.Equal(dec("1663")) {
		t.Errorf("synthetic payment = %+v", tr.Payments[0])
	}
	if !tr.AmountPaid.Equal(dec("1663")) || !tr.AmountPending.IsZero() {
		t.Errorf("paid %s pending %s", tr.AmountPaid, tr.AmountPending)
	}
}

func TestMarkPaidCorrectsExistingTracking(t *testing.T) {
	bill := pendingBill("1000")
	if err := RecordPartial(bill, dec("250"), "cash", now); err != nil {
		t.Fatal(err)
	}

	MarkPaid(bill, now)

	tr := bill.PaymentTracking
	if bill.PaymentStatus != model.PaymentPaid || !tr.AmountPaid.Equal(dec("1000")) || !tr.AmountPending.IsZero() {
		t.Errorf("status %s paid %s pending %s", bill.PaymentStatus, tr.AmountPaid, tr.AmountPending)
	}
	if len(tr.Payments) != 1 || tr.Payments[0].Note != "cash" {
		t.Errorf("history rewritten: %+v", tr.Payments)
	}
}

func TestMarkPendingClearsHistory(t *testing.T) {
	purchase := &model.Purchase{Total: dec("500"), PaymentStatus: model.PaymentPending}
	if err := RecordPartial(purchase, dec("200"), NotePartialMade, now); err != nil {
		t.Fatal(err)
	}

	MarkPending(purchase)

	tr := purchase.PaymentTracking
	if purchase.PaymentStatus != model.PaymentPending {
		t.Errorf("status = %s", purchase.PaymentStatus)
	}
	if !tr.AmountPaid.IsZero() || !tr.AmountPending.Equal(dec("500")) || len(tr.Payments) != 0 {
		t.Errorf("paid %s pending %s payments %d", tr.AmountPaid, tr.AmountPending, len(tr.Payments))
	}
	checkInvariant(t, purchase)
}

func TestApply(t *testing.T) {
	bill := pendingBill("300")

	if err := Apply(bill, Update{Status: model.PaymentPartial, Amount: dec("100")}, NotePartialReceived, now); err != nil {
		t.Fatal(err)
	}
	if got := bill.PaymentTracking.Payments[0].Note; got != NotePartialReceived {
		t.Errorf("note = %q, want default", got)
	}

	if err := Apply(bill, Update{Status: model.PaymentPartial, Amount: dec("50"), Note: "UPI"}, NotePartialReceived, now); err != nil {
		t.Fatal(err)
	}
	if got := bill.PaymentTracking.Payments[1].Note; got != "UPI" {
		t.Errorf("note = %q, want UPI", got)
	}

	if err := Apply(bill, Update{Status: "refunded"}, "", now); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("unknown status error = %v", err)
	}
}

func TestInitialize(t *testing.T) {
	paid := pendingBill("100")
	if err := Initialize(paid, model.PaymentPaid, decimal.Zero, "", now); err != nil {
		t.Fatal(err)
	}
	if paid.PaymentStatus != model.PaymentPaid || len(paid.PaymentTracking.Payments) != 1 {
		t.Errorf("paid init = %+v", paid.PaymentTracking)
	}

	pending := pendingBill("100")
	if err := Initialize(pending, model.PaymentPending, decimal.Zero, "", now); err != nil {
		t.Fatal(err)
	}
	if pending.PaymentTracking != nil {
		t.Error("pending document got tracking")
	}

	partial := pendingBill("100")
	if err := Initialize(partial, model.PaymentPartial, dec("30"), NotePartialReceived, now); err != nil {
		t.Fatal(err)
	}
	if partial.PaymentStatus != model.PaymentPartial || !partial.PaymentTracking.AmountPending.Equal(dec("70")) {
		t.Errorf("partial init = %s %+v", partial.PaymentStatus, partial.PaymentTracking)
	}

	if err := Initialize(pendingBill("100"), model.PaymentPartial, decimal.Zero, "", now); !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Errorf("partial without amount error = %v", err)
	}
}

func TestOutstandingAndSettled(t *testing.T) {
	pending := pendingBill("100")
	if !Outstanding(pending).Equal(dec("100")) || !Settled(pending).IsZero() {
		t.Errorf("pending: outstanding %s settled %s", Outstanding(pending), Settled(pending))
	}

	partial := pendingBill("100")
	_ = RecordPartial(partial, dec("40"), "", now)
	if !Outstanding(partial).Equal(dec("60")) || !Settled(partial).Equal(dec("40")) {
		t.Errorf("partial: outstanding %s settled %s", Outstanding(partial), Settled(partial))
	}

	paid := &model.Bill{Total: dec("100"), PaymentStatus: model.PaymentPaid}
	if !Outstanding(paid).IsZero() || !Settled(paid).Equal(dec("100")) {
		t.Errorf("paid: outstanding %s settled %s", Outstanding(paid), Settled(paid))
	}
}

func TestInvariantOverRandomSequences(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for run := 0; run < 200; run++ {
		bill := pendingBill(decimal.New(r.Int63n(1_000_000)+1, -2).String())

		for step := 0; step < 20; step++ {
			switch r.Intn(4) {
			case 0:
				MarkPaid(bill, now)
			case 1:
				MarkPending(bill)
			default:
				var pending decimal.Decimal
				if tr := bill.PaymentTracking; tr != nil {
					pending = tr.AmountPending
				} else {
					pending = bill.Total
				}
				// Sometimes overpay to exercise the rejection path.
				amount := pending.Mul(decimal.NewFromFloat(r.Float64() * 1.2)).Round(2)
				_ = RecordPartial(bill, amount, "", now)
			}
			checkInvariant(t, bill)

			if tr := bill.PaymentTracking; tr != nil && bill.PaymentStatus == model.PaymentPartial {
				if tr.AmountPending.LessThanOrEqual(Tolerance) {
					t.Fatalf("partial with pending %s", tr.AmountPending)
				}
			}
		}
	}
}
