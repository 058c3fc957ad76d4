package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/internal/repository"
)

// CustomerInput identifies or describes a customer. When ID is set the
// existing record is used; otherwise a match by phone, then by name, is tried
// before a new customer is created.
type CustomerInput struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	GST     string `json:"gst"`
	Address string `json:"address"`
	State   string `json:"state"`
}

// SupplierInput is the supplier counterpart of CustomerInput
type SupplierInput struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	GST   string `json:"gst"`
}

// PartyService manages customers and suppliers
type PartyService struct {
	repo repository.Repository
	now  Clock
}

func NewPartyService(repo repository.Repository, now Clock) *PartyService {
	if now == nil {
		now = time.Now
	}
	return &PartyService{repo: repo, now: now}
}

func (s *PartyService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *PartyService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// SaveCustomer creates or updates a customer outside of a bill
func (s *PartyService) SaveCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	var c *model.Customer
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		c, err = upsertCustomer(ctx, tx, in, nil)
		return err
	})
	return c, err
}

// UpdateCustomer changes the details of customer id. Blank fields keep their
// stored value.
func (s *PartyService) UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*model.Customer, error) {
	in.ID = id
	return s.SaveCustomer(ctx, in)
}

// SaveSupplier creates or updates a supplier outside of a purchase
func (s *PartyService) SaveSupplier(ctx context.Context, in SupplierInput) (*model.Supplier, error) {
	var sup *model.Supplier
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		var err error
		sup, err = upsertSupplier(ctx, tx, in, nil)
		return err
	})
	return sup, err
}

// UpdateSupplier changes the details of supplier id
func (s *PartyService) UpdateSupplier(ctx context.Context, id uint, in SupplierInput) (*model.Supplier, error) {
	in.ID = id
	return s.SaveSupplier(ctx, in)
}

// keep overwrites dst only with a non-empty value
func keep(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// upsertCustomer resolves in to a stored customer, creating one when nothing
// matches. A non-nil at is recorded as the last transaction date.
func upsertCustomer(ctx context.Context, repo repository.Repository, in CustomerInput, at *time.Time) (*model.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return nil, apperror.InvalidInput("SaveCustomer", "customer name is required")
	}

	var existing *model.Customer
	var err error
	switch {
	case in.ID != 0:
		existing, err = repo.GetCustomer(ctx, in.ID)
	case in.Phone != "":
		existing, err = repo.FindCustomerByPhone(ctx, in.Phone)
		if errors.Is(err, apperror.ErrNotFound) {
			existing, err = repo.FindCustomerByName(ctx, in.Name)
		}
	default:
		existing, err = repo.FindCustomerByName(ctx, in.Name)
	}
	if err != nil && !(in.ID == 0 && errors.Is(err, apperror.ErrNotFound)) {
		return nil, err
	}

	if existing != nil {
		existing.Name = in.Name
		keep(&existing.Phone, in.Phone)
		keep(&existing.GST, in.GST)
		keep(&existing.Address, in.Address)
		keep(&existing.State, in.State)
		if at != nil {
			existing.LastTransactionDate = at
		}
		return existing, repo.SaveCustomer(ctx, existing)
	}

	id, err := repo.NextID(ctx, repository.EntityCustomers)
	if err != nil {
		return nil, err
	}
	c := &model.Customer{
		ID:                  id,
		Name:                in.Name,
		Phone:               in.Phone,
		GST:                 in.GST,
		Address:             in.Address,
		State:               in.State,
		LastTransactionDate: at,
	}
	return c, repo.CreateCustomer(ctx, c)
}

func upsertSupplier(ctx context.Context, repo repository.Repository, in SupplierInput, at *time.Time) (*model.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return nil, apperror.InvalidInput("SaveSupplier", "supplier name is required")
	}

	var existing *model.Supplier
	var err error
	switch {
	case in.ID != 0:
		existing, err = repo.GetSupplier(ctx, in.ID)
	case in.Phone != "":
		existing, err = repo.FindSupplierByPhone(ctx, in.Phone)
		if errors.Is(err, apperror.ErrNotFound) {
			existing, err = repo.FindSupplierByName(ctx, in.Name)
		}
	default:
		existing, err = repo.FindSupplierByName(ctx, in.Name)
	}
	if err != nil && !(in.ID == 0 && errors.Is(err, apperror.ErrNotFound)) {
		return nil, err
	}

	if existing != nil {
		existing.Name = in.Name
		keep(&existing.Phone, in.Phone)
		keep(&existing.GST, in.GST)
		if at != nil {
			existing.LastTransactionDate = at
		}
		return existing, repo.SaveSupplier(ctx, existing)
	}

	id, err := repo.NextID(ctx, repository.EntitySuppliers)
	if err != nil {
		return nil, err
	}
	sup := &model.Supplier{
		ID:                  id,
		Name:                in.Name,
		Phone:               in.Phone,
		GST:                 in.GST,
		LastTransactionDate: at,
	}
	return sup, repo.CreateSupplier(ctx, sup)
}
