package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/internal/payment"
	"billing-service/internal/repository"
	"billing-service/internal/stock"
	"billing-service/internal/tax"
	"billing-service/pkg/logger"
	"billing-service/prometheus"
)

// BillLineInput is one requested sale line. Rate overrides the catalog price when set.
type BillLineInput struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

// BillInput is a request to generate a bill
type BillInput struct {
	Customer      CustomerInput       `json:"customer"`
	SameState     bool                `json:"same_state"`
	Items         []BillLineInput     `json:"items"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"` // first payment when PaymentStatus is partial
	Note          string              `json:"note"`
}

// BillResult is a generated bill with the items of the bill now low on stock
type BillResult struct {
	Bill     *model.Bill           `json:"bill"`
	LowStock []model.InventoryItem `json:"low_stock"`
}

// BillingService generates bills and records payments against them
type BillingService struct {
	repo repository.Repository
	now  Clock
}

func NewBillingService(repo repository.Repository, now Clock) *BillingService {
	if now == nil {
		now = time.Now
	}
	return &BillingService{repo: repo, now: now}
}

func validateDocument(op string, lines int, status model.PaymentStatus) error {
	if lines == 0 {
		return apperror.InvalidInput(op, "at least one item is required")
	}
	if status == "" {
		return nil
	}
	if !status.Valid() {
		return apperror.InvalidInput(op, "unknown payment status %q", status)
	}
	return nil
}

// Generate prices the requested lines, reserves their stock, resolves the
// customer and stores the bill. Nothing is stored when any line fails.
func (s *BillingService) Generate(ctx context.Context, in BillInput) (*BillResult, error) {
	if err := validateDocument("GenerateBill", len(in.Items), in.PaymentStatus); err != nil {
		return nil, err
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = model.PaymentPending
	}

	now := s.now()
	bill := &model.Bill{SameState: in.SameState, CreatedAt: now}
	var low []model.InventoryItem

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		items := map[uint]*model.InventoryItem{}
		var order []uint
		var amounts []tax.LineAmounts

		for _, req := range in.Items {
			item, ok := items[req.ProductID]
			if !ok {
				var err error
				item, err = tx.GetItemForUpdate(ctx, req.ProductID)
				if err != nil {
					return err
				}
				items[req.ProductID] = item
				order = append(order, req.ProductID)
			}

			rate := item.Price
			if req.Rate != nil {
				rate = *req.Rate
			}
			if err := stock.ReserveForSale(item, req.Quantity); err != nil {
				return err
			}

			if i := findLine(bill.Items, item.ID, rate); i >= 0 {
				bill.Items[i].Quantity += req.Quantity
				continue
			}
			bill.Items = append(bill.Items, model.LineItem{
				ProductID: item.ID,
				Name:      item.Name,
				Size:      item.Size,
				Unit:      item.Unit,
				HSN:       item.HSN,
				GSTRate:   item.GSTRate,
				Rate:      rate,
				Quantity:  req.Quantity,
			})
		}

		for i := range bill.Items {
			line := &bill.Items[i]
			la, err := tax.ComputeLine(line.Quantity, line.Rate, line.GSTRate)
			if err != nil {
				return err
			}
			line.Amount, line.GSTAmount, line.Total = la.Amount, la.GSTAmount, la.Total
			amounts = append(amounts, la)
		}

		totals := tax.ComputeDocumentTotals(amounts)
		bill.Subtotal = totals.Subtotal
		bill.TotalGST = totals.TotalGST
		bill.Total = totals.Total
		bill.GSTBreakdown = tax.SplitGST(totals.TotalGST, in.SameState)

		note := in.Note
		if note == "" {
			note = payment.NotePartialReceived
		}
		if err := payment.Initialize(bill, in.PaymentStatus, in.AmountPaid, note, now); err != nil {
			return err
		}

		customer, err := upsertCustomer(ctx, tx, in.Customer, &now)
		if err != nil {
			return err
		}
		bill.CustomerID = customer.ID
		bill.Customer = customer.Snapshot()

		for _, id := range order {
			item := items[id]
			if err := tx.SaveItem(ctx, item); err != nil {
				return err
			}
			if stock.Classify(item) != stock.Normal {
				low = append(low, *item)
			}
		}

		bill.ID, err = tx.NextID(ctx, repository.EntityBills)
		if err != nil {
			return err
		}
		return tx.CreateBill(ctx, bill)
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("Bill generation failed", zap.Error(err))
		return nil, err
	}

	prometheus.RecordBillOperation("create")
	prometheus.RecordRevenue(bill.Total)
	logger.FromCtx(ctx).Info("Bill generated",
		zap.Uint("id", bill.ID),
		zap.Uint("customer_id", bill.CustomerID),
		zap.Int("lines", len(bill.Items)),
		zap.String("total", tax.Round2(bill.Total).StringFixed(2)),
		zap.String("payment_status", string(bill.PaymentStatus)))

	if low == nil {
		low = []model.InventoryItem{}
	}
	return &BillResult{Bill: bill, LowStock: low}, nil
}

func findLine(lines []model.LineItem, productID uint, rate decimal.Decimal) int {
	for i, l := range lines {
		if l.ProductID == productID && l.Rate.Equal(rate) {
			return i
		}
	}
	return -1
}

// UpdatePayment applies a payment status change to bill id
func (s *BillingService) UpdatePayment(ctx context.Context, id uint, u payment.Update) (*model.Bill, error) {
	var bill *model.Bill
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		bill, err = tx.GetBill(ctx, id)
		if err != nil {
			return err
		}
		if err := payment.Apply(bill, u, payment.NotePartialReceived, s.now()); err != nil {
			return err
		}
		return tx.SaveBill(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordPaymentUpdate("bill", string(bill.PaymentStatus))
	logger.FromCtx(ctx).Info("Bill payment updated",
		zap.Uint("id", bill.ID),
		zap.String("requested", string(u.Status)),
		zap.String("payment_status", string(bill.PaymentStatus)))
	return bill, nil
}

func (s *BillingService) Get(ctx context.Context, id uint) (*model.Bill, error) {
	return s.repo.GetBill(ctx, id)
}

func (s *BillingService) List(ctx context.Context, filter repository.BillFilter) ([]model.Bill, error) {
	return s.repo.ListBills(ctx, filter)
}

// Delete removes a bill. Stock sold on it is not returned.
func (s *BillingService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteBill(ctx, id); err != nil {
		return err
	}
	prometheus.RecordBillOperation("delete")
	return nil
}
