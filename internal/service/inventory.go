// Package service orchestrates the tax, stock and payment rules against the
// repository. Every mutating operation runs in one repository transaction.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/internal/repository"
	"billing-service/internal/stock"
	"billing-service/pkg/logger"
	"billing-service/prometheus"
)

// Clock returns the current time
type Clock func() time.Time

// ItemInput carries the catalog fields of an inventory item
type ItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	HSN         string          `json:"hsn"`
	Size        string          `json:"size"`
	Colour      string          `json:"colour"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	Price       decimal.Decimal `json:"price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
}

func (in ItemInput) validate(op string) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.InvalidInput(op, "name is required")
	}
	if in.Quantity < 0 {
		return apperror.InvalidInput(op, "quantity must not be negative")
	}
	if in.MinStock < 0 {
		return apperror.InvalidInput(op, "min stock must not be negative")
	}
	if in.Price.IsNegative() {
		return apperror.InvalidInput(op, "price must not be negative")
	}
	if in.GSTRate.IsNegative() || in.GSTRate.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.InvalidInput(op, "gst rate must be between 0 and 100")
	}
	return nil
}

// InventoryService manages the item catalog and manual stock entries
type InventoryService struct {
	repo repository.Repository
}

func NewInventoryService(repo repository.Repository) *InventoryService {
	return &InventoryService{repo: repo}
}

// Add creates an item with the next inventory id
func (s *InventoryService) Add(ctx context.Context, in ItemInput) (*model.InventoryItem, error) {
	if err := in.validate("AddItem"); err != nil {
		return nil, err
	}

	item := &model.InventoryItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		HSN:         in.HSN,
		Size:        in.Size,
		Colour:      in.Colour,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		MinStock:    in.MinStock,
		Price:       in.Price,
		GSTRate:     in.GSTRate,
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		id, err := tx.NextID(ctx, repository.EntityInventory)
		if err != nil {
			return err
		}
		item.ID = id
		return tx.CreateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordInventoryOperation("create")
	logger.FromCtx(ctx).Info("Inventory item added",
		zap.Uint("id", item.ID),
		zap.String("name", item.Name),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// Update changes the catalog fields of an item. Quantity is left alone; use AddStock.
func (s *InventoryService) Update(ctx context.Context, id uint, in ItemInput) (*model.InventoryItem, error) {
	in.Quantity = 0
	if err := in.validate("UpdateItem"); err != nil {
		return nil, err
	}

	var item *model.InventoryItem
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		item, err = tx.GetItemForUpdate(ctx, id)
		if err != nil {
			return err
		}
		item.Name = strings.TrimSpace(in.Name)
		item.Description = in.Description
		item.HSN = in.HSN
		item.Size = in.Size
		item.Colour = in.Colour
		item.Unit = in.Unit
		item.MinStock = in.MinStock
		item.Price = in.Price
		item.GSTRate = in.GSTRate
		return tx.SaveItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordInventoryOperation("update")
	return item, nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*model.InventoryItem, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, error) {
	return s.repo.ListItems(ctx, filter)
}

// AddStock tops up an item without a purchase document
func (s *InventoryService) AddStock(ctx context.Context, id uint, quantity int) (*model.InventoryItem, error) {
	var item *model.InventoryItem
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		item, err = tx.GetItemForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := stock.AddStock(item, quantity); err != nil {
			return err
		}
		return tx.SaveItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordInventoryOperation("add_stock")
	logger.FromCtx(ctx).Info("Stock added",
		zap.Uint("id", item.ID),
		zap.Int("added", quantity),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// Archive soft-deletes an item. Documents that reference it keep their snapshots.
func (s *InventoryService) Archive(ctx context.Context, id uint) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	prometheus.RecordInventoryOperation("archive")
	return nil
}

// StockReport classifies the active catalog and publishes the stock gauges
func (s *InventoryService) StockReport(ctx context.Context) (stock.Report, error) {
	items, err := s.repo.ListItems(ctx, repository.InventoryFilter{})
	if err != nil {
		return stock.Report{}, err
	}
	report := stock.Summarize(items)
	prometheus.SetStockLevels(len(report.Low), len(report.OutOfStock))
	return report, nil
}
