package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentStatus is the settlement state of a bill or purchase
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
)

// Valid reports whether s is one of the known statuses
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentPartial:
		return true
	}
	return false
}

// GST breakdown kinds
const (
	GSTSplitSameState  = "SGST+CGST"
	GSTSplitInterState = "IGST"
)

// GSTBreakdown is the tax split of a bill. Type selects which amounts apply:
// SGST and CGST for same-state supply, IGST otherwise.
type GSTBreakdown struct {
	Type string          `json:"type"`
	SGST decimal.Decimal `json:"sgst"`
	CGST decimal.Decimal `json:"cgst"`
	IGST decimal.Decimal `json:"igst"`
}

// LineItem is one product line of a bill or purchase. Product fields are a
// snapshot taken when the document was created.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	HSN       string          `json:"hsn,omitempty"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
	Rate      decimal.Decimal `json:"rate"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	GSTAmount decimal.Decimal `json:"gst_amount"`
	Total     decimal.Decimal `json:"total"`
}

// Payment is one entry of a payment history
type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note"`
}

// PaymentTracking records how much of a document has been settled
type PaymentTracking struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountPending decimal.Decimal `json:"amount_pending"`
	Payments      []Payment       `json:"payments"`
}

// Bill is a sales invoice
type Bill struct {
	ID              uint             `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CustomerID      uint             `json:"customer_id" gorm:"index"`
	Customer        PartySnapshot    `json:"customer" gorm:"type:jsonb;serializer:json"`
	SameState       bool             `json:"same_state"`
	Items           []LineItem       `json:"items" gorm:"type:jsonb;serializer:json"`
	Subtotal        decimal.Decimal  `json:"subtotal" gorm:"type:numeric"`
	GSTBreakdown    GSTBreakdown     `json:"gst_breakdown" gorm:"type:jsonb;serializer:json"`
	TotalGST        decimal.Decimal  `json:"total_gst" gorm:"type:numeric"`
	Total           decimal.Decimal  `json:"total" gorm:"type:numeric"`
	PaymentStatus   PaymentStatus    `json:"payment_status" gorm:"type:varchar(20);index"`
	PaymentTracking *PaymentTracking `json:"payment_tracking,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *Bill) DocumentTotal() decimal.Decimal { return b.Total }
func (b *Bill) Status() PaymentStatus           { return b.PaymentStatus }
func (b *Bill) SetStatus(s PaymentStatus)       { b.PaymentStatus = s }
func (b *Bill) Tracking() *PaymentTracking      { return b.PaymentTracking }
func (b *Bill) SetTracking(t *PaymentTracking)  { b.PaymentTracking = t }

// Purchase is a supplier invoice received into stock
type Purchase struct {
	ID              uint             `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SupplierID      uint             `json:"supplier_id" gorm:"index"`
	Supplier        PartySnapshot    `json:"supplier" gorm:"type:jsonb;serializer:json"`
	InvoiceNo       string           `json:"invoice_no" gorm:"type:varchar(50)"`
	PurchaseDate    datatypes.Date   `json:"purchase_date"`
	Items           []LineItem       `json:"items" gorm:"type:jsonb;serializer:json"`
	Subtotal        decimal.Decimal  `json:"subtotal" gorm:"type:numeric"`
	TotalGST        decimal.Decimal  `json:"total_gst" gorm:"type:numeric"`
	Total           decimal.Decimal  `json:"total" gorm:"type:numeric"`
	PaymentStatus   PaymentStatus    `json:"payment_status" gorm:"type:varchar(20);index"`
	PaymentTracking *PaymentTracking `json:"payment_tracking,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `json:"deleted_at,omitempty" gorm:"index"`
}

func (p *Purchase) DocumentTotal() decimal.Decimal { return p.Total }
func (p *Purchase) Status() PaymentStatus           { return p.PaymentStatus }
func (p *Purchase) SetStatus(s PaymentStatus)       { p.PaymentStatus = s }
func (p *Purchase) Tracking() *PaymentTracking      { return p.PaymentTracking }
func (p *Purchase) SetTracking(t *PaymentTracking)  { p.PaymentTracking = t }
