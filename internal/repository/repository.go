// Package repository persists inventory, documents and parties.
package repository

import (
	"context"
	"time"

	"billing-service/internal/model"
)

// Entity names used for id sequences
const (
	EntityInventory = "inventory"
	EntityBills     = "bills"
	EntityPurchases = "purchases"
	EntityCustomers = "customers"
	EntitySuppliers = "suppliers"
)

// InventoryFilter narrows ListItems
type InventoryFilter struct {
	Search          string // matched against name, HSN and size
	IncludeArchived bool
}

// BillFilter narrows ListBills. Zero fields do not filter.
type BillFilter struct {
	PaymentStatus model.PaymentStatus
	CustomerID    uint
	From          time.Time
	To            time.Time
}

// PurchaseFilter narrows ListPurchases. Zero fields do not filter.
type PurchaseFilter struct {
	PaymentStatus model.PaymentStatus
	SupplierID    uint
	From          time.Time
	To            time.Time
}

// Repository is the storage used by the services. Get and Delete return
// apperror.ErrNotFound for missing or archived records.
type Repository interface {
	// NextID returns the next id for entity, starting at 1. Ids are never reused.
	NextID(ctx context.Context, entity string) (uint, error)

	// Transaction runs fn with a Repository bound to a single transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	Migrate(ctx context.Context) error

	CreateItem(ctx context.Context, item *model.InventoryItem) error
	SaveItem(ctx context.Context, item *model.InventoryItem) error
	GetItem(ctx context.Context, id uint) (*model.InventoryItem, error)
	// GetItemForUpdate loads an item and locks its row until the transaction ends.
	GetItemForUpdate(ctx context.Context, id uint) (*model.InventoryItem, error)
	ListItems(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, error)
	CountItems(ctx context.Context) (int64, error)
	DeleteItem(ctx context.Context, id uint) error

	CreateBill(ctx context.Context, bill *model.Bill) error
	SaveBill(ctx context.Context, bill *model.Bill) error
	GetBill(ctx context.Context, id uint) (*model.Bill, error)
	ListBills(ctx context.Context, filter BillFilter) ([]model.Bill, error)
	DeleteBill(ctx context.Context, id uint) error

	CreatePurchase(ctx context.Context, purchase *model.Purchase) error
	SavePurchase(ctx context.Context, purchase *model.Purchase) error
	GetPurchase(ctx context.Context, id uint) (*model.Purchase, error)
	ListPurchases(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error)
	DeletePurchase(ctx context.Context, id uint) error

	CreateCustomer(ctx context.Context, customer *model.Customer) error
	SaveCustomer(ctx context.Context, customer *model.Customer) error
	GetCustomer(ctx context.Context, id uint) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (*model.Customer, error)
	FindCustomerByName(ctx context.Context, name string) (*model.Customer, error)

	CreateSupplier(ctx context.Context, supplier *model.Supplier) error
	SaveSupplier(ctx context.Context, supplier *model.Supplier) error
	GetSupplier(ctx context.Context, id uint) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	FindSupplierByPhone(ctx context.Context, phone string) (*model.Supplier, error)
	FindSupplierByName(ctx context.Context, name string) (*model.Supplier, error)
}
