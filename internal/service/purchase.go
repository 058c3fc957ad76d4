package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/internal/payment"
	"billing-service/internal/repository"
	"billing-service/internal/stock"
	"billing-service/internal/tax"
	"billing-service/pkg/logger"
	"billing-service/prometheus"
)

// PurchaseLineInput is one received line; the rate is always explicit
type PurchaseLineInput struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
}

// PurchaseInput is a request to record a supplier invoice
type PurchaseInput struct {
	Supplier      SupplierInput       `json:"supplier"`
	InvoiceNo     string              `json:"invoice_no"`
	PurchaseDate  string              `json:"purchase_date"` // YYYY-MM-DD, defaults to today
	Items         []PurchaseLineInput `json:"items"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	Note          string              `json:"note"`
}

// StockUpdate reports the quantity change a purchase line caused
type StockUpdate struct {
	ProductID   uint   `json:"product_id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Added       int    `json:"added"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"`
}

// PurchaseResult is a recorded purchase with the stock changes it made
type PurchaseResult struct {
	Purchase     *model.Purchase `json:"purchase"`
	StockUpdates []StockUpdate   `json:"stock_updates"`
}

// PurchaseService records supplier purchases and payments against them
type PurchaseService struct {
	repo repository.Repository
	now  Clock
}

func NewPurchaseService(repo repository.Repository, now Clock) *PurchaseService {
	if now == nil {
		now = time.Now
	}
	return &PurchaseService{repo: repo, now: now}
}

// Record stores a purchase and adds its quantities to stock
func (s *PurchaseService) Record(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	if err := validateDocument("RecordPurchase", len(in.Items), in.PaymentStatus); err != nil {
		return nil, err
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = model.PaymentPending
	}

	now := s.now()
	purchaseDate := now
	if in.PurchaseDate != "" {
		d, err := time.ParseInLocation(time.DateOnly, in.PurchaseDate, now.Location())
		if err != nil {
			return nil, apperror.InvalidInput("RecordPurchase", "purchase date %q is not YYYY-MM-DD", in.PurchaseDate)
		}
		purchaseDate = d
	}

	purchase := &model.Purchase{
		InvoiceNo:    in.InvoiceNo,
		PurchaseDate: datatypes.Date(purchaseDate),
		CreatedAt:    now,
	}
	var updates []StockUpdate

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

			la, err := tax.ComputeLine(req.Quantity, req.Rate, item.GSTRate)
			if err != nil {
				return err
			}

			old := item.Quantity
			if err := stock.ApplyPurchaseReceipt(item, req.Quantity); err != nil {
				return err
			}
			updates = append(updates, StockUpdate{
				ProductID:   item.ID,
				Name:        item.Name,
				Unit:        item.Unit,
				Added:       req.Quantity,
				OldQuantity: old,
				NewQuantity: item.Quantity,
			})

			purchase.Items = append(purchase.Items, model.LineItem{
				ProductID: item.ID,
				Name:      item.Name,
				Size:      item.Size,
				Unit:      item.Unit,
				HSN:       item.HSN,
				GSTRate:   item.GSTRate,
				Rate:      req.Rate,
				Quantity:  req.Quantity,
				Amount:    la.Amount,
				GSTAmount: la.GSTAmount,
				Total:     la.Total,
			})
			amounts = append(amounts, la)
		}

		totals := tax.ComputeDocumentTotals(amounts)
		purchase.Subtotal = totals.Subtotal
		purchase.TotalGST = totals.TotalGST
		purchase.Total = totals.Total

		note := in.Note
		if note == "" {
			note = payment.NotePartialMade
		}
		if err := payment.Initialize(purchase, in.PaymentStatus, in.AmountPaid, note, now); err != nil {
			return err
		}

		supplier, err := upsertSupplier(ctx, tx, in.Supplier, &now)
		if err != nil {
			return err
		}
		purchase.SupplierID = supplier.ID
		purchase.Supplier = supplier.Snapshot()

		for _, id := range order {
			if err := tx.SaveItem(ctx, items[id]); err != nil {
				return err
			}
		}

		purchase.ID, err = tx.NextID(ctx, repository.EntityPurchases)
		if err != nil {
			return err
		}
		return tx.CreatePurchase(ctx, purchase)
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("Purchase recording failed", zap.Error(err))
		return nil, err
	}

	prometheus.RecordPurchaseOperation("create")
	logger.FromCtx(ctx).Info("Purchase recorded",
		zap.Uint("id", purchase.ID),
		zap.Uint("supplier_id", purchase.SupplierID),
		zap.String("invoice_no", purchase.InvoiceNo),
		zap.String("total", tax.Round2(purchase.Total).StringFixed(2)))

	return &PurchaseResult{Purchase: purchase, StockUpdates: updates}, nil
}

// UpdatePayment applies a payment status change to purchase id
func (s *PurchaseService) UpdatePayment(ctx context.Context, id uint, u payment.Update) (*model.Purchase, error) {
	var purchase *model.Purchase
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		purchase, err = tx.GetPurchase(ctx, id)
		if err != nil {
			return err
		}
		if err := payment.Apply(purchase, u, payment.NotePartialMade, s.now()); err != nil {
			return err
		}
		return tx.SavePurchase(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordPaymentUpdate("purchase", string(purchase.PaymentStatus))
	return purchase, nil
}

func (s *PurchaseService) Get(ctx context.Context, id uint) (*model.Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

func (s *PurchaseService) List(ctx context.Context, filter repository.PurchaseFilter) ([]model.Purchase, error) {
	return s.repo.ListPurchases(ctx, filter)
}

// Delete removes a purchase. Stock received on it stays in inventory.
func (s *PurchaseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeletePurchase(ctx, id); err != nil {
		return err
	}
	prometheus.RecordPurchaseOperation("delete")
	return nil
}
