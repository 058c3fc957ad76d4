package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem represents a stock-keeping unit in the catalog
type InventoryItem struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string          `json:"name" gorm:"type:varchar(200);index;not null"`
	Description string          `json:"description" gorm:"type:text"`
	HSN         string          `json:"hsn" gorm:"type:varchar(20)"`
	Size        string          `json:"size" gorm:"type:varchar(50)"`
	Colour      string          `json:"colour" gorm:"type:varchar(50)"`
	Unit        string          `json:"unit" gorm:"type:varchar(20)"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	MinStock    int             `json:"min_stock" gorm:"default:0"` // recorded, not enforced
	Price       decimal.Decimal `json:"price" gorm:"type:numeric;not null"`
	GSTRate     decimal.Decimal `json:"gst_rate" gorm:"type:numeric;not null"` // percent
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// Counter holds the last issued id per entity type
type Counter struct {
	Name  string `gorm:"primaryKey;type:varchar(50)"`
	Value uint   `gorm:"not null;default:0"`
}
