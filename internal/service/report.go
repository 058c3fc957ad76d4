package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"billing-service/internal/apperror"
	"billing-service/internal/model"
	"billing-service/internal/payment"
	"billing-service/internal/repository"
	"billing-service/internal/stock"
)

// Period selects the documents a dashboard covers, relative to now
type Period string

const (
	PeriodAll     Period = "all"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod accepts all, month, quarter and year; empty means all
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	default:
		return "", apperror.InvalidInput("ParsePeriod", "unknown period %q", s)
	}
}

// Contains reports whether t falls in the same calendar period as now
func (p Period) Contains(t, now time.Time) bool {
	t = t.In(now.Location())
	switch p {
	case PeriodMonth:
		return t.Year() == now.Year() && t.Month() == now.Month()
	case PeriodQuarter:
		return t.Year() == now.Year() && (t.Month()-1)/3 == (now.Month()-1)/3
	case PeriodYear:
		return t.Year() == now.Year()
	default:
		return true
	}
}

// ProductSales is the quantity and revenue of one product across bills
type ProductSales struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Activity is a bill or purchase in the recent activity feed
type Activity struct {
	Type   string              `json:"type"` // sale or purchase
	ID     uint                `json:"id"`
	Party  string              `json:"party"`
	Total  decimal.Decimal     `json:"total"`
	Status model.PaymentStatus `json:"status"`
	At     time.Time           `json:"at"`
}

// Dashboard holds the owner's summary figures
type Dashboard struct {
	Period              Period          `json:"period"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalPurchases      decimal.Decimal `json:"total_purchases"`
	EstimatedProfit     decimal.Decimal `json:"estimated_profit"`
	InventoryValue      decimal.Decimal `json:"inventory_value"`
	PendingPayments     decimal.Decimal `json:"pending_payments"`
	TotalBills          int             `json:"total_bills"`
	PaidBills           int             `json:"paid_bills"`
	PendingBills        int             `json:"pending_bills"` // pending or partial
	CollectionRate      decimal.Decimal `json:"collection_rate"`
	TotalProducts       int             `json:"total_products"`
	LowStock            int             `json:"low_stock"`
	OutOfStock          int             `json:"out_of_stock"`
	PurchaseCount       int             `json:"purchase_count"`
	SupplierCount       int             `json:"supplier_count"`
	SupplierPaymentRate decimal.Decimal `json:"supplier_payment_rate"`
	CustomerCount       int             `json:"customer_count"`
	AverageBill         decimal.Decimal `json:"average_bill"`
	GSTCollected        decimal.Decimal `json:"gst_collected"`
	TopProducts         []ProductSales  `json:"top_products"`
	RecentActivity      []Activity      `json:"recent_activity"`
}

// PartyReport is the ledger summary of one customer or supplier
type PartyReport struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	GST             string          `json:"gst"`
	Orders          int             `json:"orders"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	PendingAmount   decimal.Decimal `json:"pending_amount"` // totals of pending documents
	PartialAmount   decimal.Decimal `json:"partial_amount"` // totals of partially paid documents
	Outstanding     decimal.Decimal `json:"outstanding"`
	LastTransaction *time.Time      `json:"last_transaction,omitempty"`
}

const (
	topProductsLimit    = 5
	recentActivityLimit = 10
)

var hundred = decimal.NewFromInt(100)

// ReportService computes the dashboard and party ledgers
type ReportService struct {
	repo repository.Repository
	now  Clock
}

func NewReportService(repo repository.Repository, now Clock) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{repo: repo, now: now}
}

// Dashboard summarizes the documents created in period
func (s *ReportService) Dashboard(ctx context.Context, period Period) (*Dashboard, error) {
	now := s.now()

	allBills, err := s.repo.ListBills(ctx, repository.BillFilter{})
	if err != nil {
		return nil, err
	}
	allPurchases, err := s.repo.ListPurchases(ctx, repository.PurchaseFilter{})
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, repository.InventoryFilter{})
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Period:              period,
		TotalRevenue:        decimal.Zero,
		TotalPurchases:      decimal.Zero,
		InventoryValue:      decimal.Zero,
		PendingPayments:     decimal.Zero,
		CollectionRate:      decimal.Zero,
		SupplierPaymentRate: decimal.Zero,
		AverageBill:         decimal.Zero,
		GSTCollected:        decimal.Zero,
		TotalProducts:       len(items),
		CustomerCount:       len(customers),
		SupplierCount:       len(suppliers),
	}

	var bills []model.Bill
	for i := range allBills {
		b := &allBills[i]
		if !period.Contains(b.CreatedAt, now) {
			continue
		}
		bills = append(bills, *b)

		d.TotalRevenue = d.TotalRevenue.Add(b.Total)
		d.GSTCollected = d.GSTCollected.Add(b.TotalGST)
		d.PendingPayments = d.PendingPayments.Add(payment.Outstanding(b))
		if b.PaymentStatus == model.PaymentPaid {
			d.PaidBills++
		} else {
			d.PendingBills++
		}
	}
	d.TotalBills = len(bills)

	var purchases []model.Purchase
	paidPurchases := decimal.Zero
	for i := range allPurchases {
		p := &allPurchases[i]
		if !period.Contains(p.CreatedAt, now) {
			continue
		}
		purchases = append(purchases, *p)

		d.TotalPurchases = d.TotalPurchases.Add(p.Total)
		if p.PaymentStatus == model.PaymentPaid {
			paidPurchases = paidPurchases.Add(p.Total)
		}
	}
	d.PurchaseCount = len(purchases)

	d.EstimatedProfit = d.TotalRevenue.Sub(d.TotalPurchases)
	if d.TotalBills > 0 {
		n := decimal.NewFromInt(int64(d.TotalBills))
		d.CollectionRate = decimal.NewFromInt(int64(d.PaidBills)).Mul(hundred).Div(n).Round(1)
		d.AverageBill = d.TotalRevenue.Div(n).Round(2)
	}
	if d.TotalPurchases.IsPositive() {
		d.SupplierPaymentRate = paidPurchases.Mul(hundred).Div(d.TotalPurchases).Round(1)
	}

	for i := range items {
		d.InventoryValue = d.InventoryValue.Add(items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	levels := stock.Summarize(items)
	d.LowStock = len(levels.Low)
	d.OutOfStock = len(levels.OutOfStock)

	d.TopProducts = topProducts(bills, topProductsLimit)
	d.RecentActivity = recentActivity(bills, purchases, recentActivityLimit)
	return d, nil
}

func topProducts(bills []model.Bill, limit int) []ProductSales {
	byID := map[uint]*ProductSales{}
	var order []uint
	for _, b := range bills {
		for _, l := range b.Items {
			ps, ok := byID[l.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: l.ProductID, Name: l.Name, Size: l.Size, Unit: l.Unit, Revenue: decimal.Zero}
				byID[l.ProductID] = ps
				order = append(order, l.ProductID)
			}
			ps.Quantity += l.Quantity
			ps.Revenue = ps.Revenue.Add(l.Total)
		}
	}

	out := make([]ProductSales, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func recentActivity(bills []model.Bill, purchases []model.Purchase, limit int) []Activity {
	out := make([]Activity, 0, len(bills)+len(purchases))
	for _, b := range bills {
		out = append(out, Activity{Type: "sale", ID: b.ID, Party: b.Customer.Name, Total: b.Total, Status: b.PaymentStatus, At: b.CreatedAt})
	}
	for _, p := range purchases {
		out = append(out, Activity{Type: "purchase", ID: p.ID, Party: p.Supplier.Name, Total: p.Total, Status: p.PaymentStatus, At: p.CreatedAt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CustomerReports returns one ledger line per customer, largest total first
func (s *ReportService) CustomerReports(ctx context.Context) ([]PartyReport, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.repo.ListBills(ctx, repository.BillFilter{})
	if err != nil {
		return nil, err
	}

	byCustomer := map[uint][]payment.Payable{}
	for i := range bills {
		byCustomer[bills[i].CustomerID] = append(byCustomer[bills[i].CustomerID], &bills[i])
	}

	reports := make([]PartyReport, 0, len(customers))
	for _, c := range customers {
		r := ledger(byCustomer[c.ID])
		r.ID, r.Name, r.Phone, r.GST = c.ID, c.Name, c.Phone, c.GST
		r.LastTransaction = c.LastTransactionDate
		reports = append(reports, r)
	}
	sortReports(reports)
	return reports, nil
}

// SupplierReports returns one ledger line per supplier, largest total first
func (s *ReportService) SupplierReports(ctx context.Context) ([]PartyReport, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.repo.ListPurchases(ctx, repository.PurchaseFilter{})
	if err != nil {
		return nil, err
	}

	bySupplier := map[uint][]payment.Payable{}
	for i := range purchases {
		bySupplier[purchases[i].SupplierID] = append(bySupplier[purchases[i].SupplierID], &purchases[i])
	}

	reports := make([]PartyReport, 0, len(suppliers))
	for _, sup := range suppliers {
		r := ledger(bySupplier[sup.ID])
		r.ID, r.Name, r.Phone, r.GST = sup.ID, sup.Name, sup.Phone, sup.GST
		r.LastTransaction = sup.LastTransactionDate
		reports = append(reports, r)
	}
	sortReports(reports)
	return reports, nil
}

func ledger(docs []payment.Payable) PartyReport {
	r := PartyReport{
		Orders:        len(docs),
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
		PartialAmount: decimal.Zero,
		Outstanding:   decimal.Zero,
	}
	for _, d := range docs {
		r.TotalAmount = r.TotalAmount.Add(d.DocumentTotal())
		r.PaidAmount = r.PaidAmount.Add(payment.Settled(d))
		r.Outstanding = r.Outstanding.Add(payment.Outstanding(d))
		switch d.Status() {
		case model.PaymentPending:
			r.PendingAmount = r.PendingAmount.Add(d.DocumentTotal())
		case model.PaymentPartial:
			r.PartialAmount = r.PartialAmount.Add(d.DocumentTotal())
		}
	}
	return r
}

func sortReports(reports []PartyReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].TotalAmount.GreaterThan(reports[j].TotalAmount)
	})
}
