package model

import (
	"time"
)

// Customer represents a buyer, deduplicated by phone then by name
type Customer struct {
	ID                  uint       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name                string     `json:"name" gorm:"type:varchar(100);index;not null"`
	Phone               string     `json:"phone" gorm:"type:varchar(20);index"`
	GST                 string     `json:"gst" gorm:"type:varchar(20)"`
	Address             string     `json:"address" gorm:"type:text"`
	State               string     `json:"state" gorm:"type:varchar(50)"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	LastTransactionDate *time.Time `json:"last_transaction_date,omitempty"`
}

// Snapshot returns the party fields copied onto a bill
func (c *Customer) Snapshot() PartySnapshot {
	return PartySnapshot{
		Name:    c.Name,
		Phone:   c.Phone,
		GST:     c.GST,
		Address: c.Address,
		State:   c.State,
	}
}

// Supplier represents a vendor stock is bought from
type Supplier struct {
	ID                  uint       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name                string     `json:"name" gorm:"type:varchar(100);index;not null"`
	Phone               string     `json:"phone" gorm:"type:varchar(20);index"`
	GST                 string     `json:"gst" gorm:"type:varchar(20)"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	LastTransactionDate *time.Time `json:"last_transaction_date,omitempty"`
}

// Snapshot returns the party fields copied onto a purchase
func (s *Supplier) Snapshot() PartySnapshot {
	return PartySnapshot{
		Name:  s.Name,
		Phone: s.Phone,
		GST:   s.GST,
	}
}

// PartySnapshot is the immutable copy of customer or supplier details kept on a document
type PartySnapshot struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	GST     string `json:"gst"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
}
