// Package stock applies quantity changes to inventory items and classifies
// stock levels.
package stock

import (
	"billing-service/internal/apperror"
	"billing-service/internal/model"
)

// LowStockThreshold is the quantity below which an item is reported as low.
// MinStock on the item is recorded but does not move this threshold.
const LowStockThreshold = 5

// Level is the stock classification of an item
type Level int

const (
	Normal Level = iota
	Low
	OutOfStock
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case OutOfStock:
		return "out_of_stock"
	default:
		return "normal"
	}
}

// MarshalText encodes the level by name
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ReserveForSale removes quantity units from item. The item is untouched on error.
func ReserveForSale(item *model.InventoryItem, quantity int) error {
	if quantity <= 0 {
		return apperror.InvalidInput("ReserveForSale", "quantity must be positive, got %d", quantity)
	}
	if quantity > item.Quantity {
		return apperror.New("ReserveForSale", apperror.ErrInsufficientStock,
			"%s: requested %d, available %d", item.Name, quantity, item.Quantity)
	}
	item.Quantity -= quantity
	return nil
}

// ApplyPurchaseReceipt adds units received against a purchase
func ApplyPurchaseReceipt(item *model.InventoryItem, quantity int) error {
	if quantity <= 0 {
		return apperror.InvalidInput("ApplyPurchaseReceipt", "quantity must be positive, got %d", quantity)
	}
	item.Quantity += quantity
	return nil
}

// AddStock adds units entered manually
func AddStock(item *model.InventoryItem, quantity int) error {
	if quantity <= 0 {
		return apperror.InvalidInput("AddStock", "quantity must be positive, got %d", quantity)
	}
	item.Quantity += quantity
	return nil
}

// Classify returns the stock level of item
func Classify(item *model.InventoryItem) Level {
	switch {
	case item.Quantity <= 0:
		return OutOfStock
	case item.Quantity < LowStockThreshold:
		return Low
	default:
		return Normal
	}
}
