package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentCash PaymentMode = "CASH"
	PaymentUPI  PaymentMode = "UPI"
)

const DefaultContributionNotes = "best wishes"

// Contribution is a visitor entry recorded by a tenant.
type Contribution struct {
	ID          string          `json:"_id" gorm:"primaryKey"`
	MarriageID  string          `json:"marriageId" gorm:"not null;index"`
	VisitorName string          `json:"visitorName" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	PaymentMode PaymentMode     `json:"paymentMode" gorm:"not null"`
	Address     string          `json:"address" gorm:"not null"`
	Notes       string          `json:"notes"`
	GiftGiven   bool            `json:"giftGiven" gorm:"not null;default:false"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ContributionPatch struct {
	VisitorName *string
	Amount      *decimal.Decimal
	PaymentMode *PaymentMode
	Address     *string
	Notes       *string
	GiftGiven   *bool
}

func (p ContributionPatch) Empty() bool {
	return p == ContributionPatch{}
}

func (p ContributionPatch) Apply(c *Contribution) {
	if p.VisitorName != nil {
		c.VisitorName = *p.VisitorName
	}
	if p.Amount != nil {
		c.Amount = *p.Amount
	}
	if p.PaymentMode != nil {
		c.PaymentMode = *p.PaymentMode
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.GiftGiven != nil {
		c.GiftGiven = *p.GiftGiven
	}
}

func (p ContributionPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.VisitorName != nil {
		cols["visitor_name"] = *p.VisitorName
	}
	if p.Amount != nil {
		cols["amount"] = *p.Amount
	}
	if p.PaymentMode != nil {
		cols["payment_mode"] = *p.PaymentMode
	}
	if p.Address != nil {
		cols["address"] = *p.Address
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	if p.GiftGiven != nil {
		cols["gift_given"] = *p.GiftGiven
	}
	return cols
}

// ContributionStats is the dashboard aggregate for one tenant.
type ContributionStats struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalCashAmount decimal.Decimal `json:"totalCashAmount"`
	TotalUpiAmount  decimal.Decimal `json:"totalUpiAmount"`
	TotalVisitors   int64           `json:"totalVisitors"`
	TotalGifts      int64           `json:"totalGifts"`
}
