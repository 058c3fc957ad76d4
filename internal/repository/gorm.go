package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/prometheus"
)

// GormRepository implements Repository on top of GORM. It works with the
// PostgreSQL driver in production and SQLite in tests.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps db
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var _ Repository = (*GormRepository)(nil)

// Ping checks that the database answers
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&model.Counter{},
		&model.InventoryItem{},
		&model.Customer{},
		&model.Supplier{},
		&model.Bill{},
		&model.Purchase{},
	)
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) NextID(ctx context.Context, entity string) (uint, error) {
	defer prometheus.TrackDBOperation("next_id")(time.Now())

	var next uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter model.Counter
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", entity).
			Limit(1).
			Find(&counter)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			counter = model.Counter{Name: entity, Value: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else {
			counter.Value++
			if err := tx.Model(&counter).Update("value", counter.Value).Error; err != nil {
				return err
			}
		}

		next = counter.Value
		return nil
	})
	return next, err
}

// Inventory

func (r *GormRepository) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormRepository) SaveItem(ctx context.Context, item *model.InventoryItem) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormRepository) GetItem(ctx context.Context, id uint) (*model.InventoryItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var item model.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "GetItem", "inventory item %d", id)
	}
	return &item, nil
}

func (r *GormRepository) GetItemForUpdate(ctx context.Context, id uint) (*model.InventoryItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var item model.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error
	if err != nil {
		return nil, notFound(err, "GetItemForUpdate", "inventory item %d", id)
	}
	return &item, nil
}

func (r *GormRepository) ListItems(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.InventoryItem{})
	if filter.IncludeArchived {
		query = query.Unscoped()
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(hsn) LIKE ? OR LOWER(size) LIKE ?", like, like, like)
	}

	items := []model.InventoryItem{}
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InventoryItem{}).Count(&count).Error
	return count, err
}

func (r *GormRepository) DeleteItem(ctx context.Context, id uint) error {
	return r.softDelete(ctx, &model.InventoryItem{}, id, "DeleteItem", "inventory item")
}

// Bills

func (r *GormRepository) CreateBill(ctx context.Context, bill *model.Bill) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *GormRepository) SaveBill(ctx context.Context, bill *model.Bill) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *GormRepository) GetBill(ctx context.Context, id uint) (*model.Bill, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var bill model.Bill
	if err := r.db.WithContext(ctx).First(&bill, id).Error; err != nil {
		return nil, notFound(err, "GetBill", "bill %d", id)
	}
	return &bill, nil
}

func (r *GormRepository) ListBills(ctx context.Context, filter BillFilter) ([]model.Bill, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Bill{})
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	query = withinPeriod(query, filter.From, filter.To)

	bills := []model.Bill{}
	if err := query.Order("id DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *GormRepository) DeleteBill(ctx context.Context, id uint) error {
	return r.softDelete(ctx, &model.Bill{}, id, "DeleteBill", "bill")
}

// Purchases

func (r *GormRepository) CreatePurchase(ctx context.Context, purchase *model.Purchase) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *GormRepository) SavePurchase(ctx context.Context, purchase *model.Purchase) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(purchase).Error
}

func (r *GormRepository) GetPurchase(ctx context.Context, id uint) (*model.Purchase, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var purchase model.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, id).Error; err != nil {
		return nil, notFound(err, "GetPurchase", "purchase %d", id)
	}
	return &purchase, nil
}

func (r *GormRepository) ListPurchases(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Purchase{})
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	query = withinPeriod(query, filter.From, filter.To)

	purchases := []model.Purchase{}
	if err := query.Order("id DESC").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *GormRepository) DeletePurchase(ctx context.Context, id uint) error {
	return r.softDelete(ctx, &model.Purchase{}, id, "DeletePurchase", "purchase")
}

// Customers

func (r *GormRepository) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormRepository) SaveCustomer(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *GormRepository) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, notFound(err, "GetCustomer", "customer %d", id)
	}
	return &customer, nil
}

func (r *GormRepository) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	customers := []model.Customer{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error
	return customers, err
}

func (r *GormRepository) FindCustomerByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).Order("id ASC").First(&customer).Error
	if err != nil {
		return nil, notFound(err, "FindCustomerByPhone", "phone %q", phone)
	}
	return &customer, nil
}

func (r *GormRepository) FindCustomerByName(ctx context.Context, name string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).Order("id ASC").First(&customer).Error
	if err != nil {
		return nil, notFound(err, "FindCustomerByName", "name %q", name)
	}
	return &customer, nil
}

// Suppliers

func (r *GormRepository) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *GormRepository) SaveSupplier(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *GormRepository) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, notFound(err, "GetSupplier", "supplier %d", id)
	}
	return &supplier, nil
}

func (r *GormRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	suppliers := []model.Supplier{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *GormRepository) FindSupplierByPhone(ctx context.Context, phone string) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).Where("phone = ?", phone).Order("id ASC").First(&supplier).Error
	if err != nil {
		return nil, notFound(err, "FindSupplierByPhone", "phone %q", phone)
	}
	return &supplier, nil
}

func (r *GormRepository) FindSupplierByName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).Order("id ASC").First(&supplier).Error
	if err != nil {
		return nil, notFound(err, "FindSupplierByName", "name %q", name)
	}
	return &supplier, nil
}

func (r *GormRepository) softDelete(ctx context.Context, value any, id uint, op, what string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	res := r.db.WithContext(ctx).Delete(value, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(op, "%s %d", what, id)
	}
	return nil
}

func withinPeriod(query *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at < ?", to)
	}
	return query
}

// notFound maps gorm.ErrRecordNotFound onto apperror.ErrNotFound
func notFound(err error, op, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(op, format, args...)
	}
	return err
}
