package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PTPStatus is the lifecycle state of a promise to pay.
type PTPStatus string

const (
	PTPStatusActive        PTPStatus = "Active"
	PTPStatusKept          PTPStatus = "Kept"
	PTPStatusPartiallyKept PTPStatus = "PartiallyKept"
	PTPStatusBroken        PTPStatus = "Broken"
	PTPStatusCancelled     PTPStatus = "Cancelled"
)

// PromiseToPay is a customer's commitment to pay an amount by a date.
// Owned by the PTP module; only read by case queries.
type PromiseToPay struct {
	ID                  int64           `json:"ptp_id" db:"ptp_id"`
	PTPNumber           string          `json:"ptp_number" db:"ptp_number"`
	CaseID              int64           `json:"case_id" db:"case_id"`
	CustomerID          int64           `json:"customer_id" db:"customer_id"`
	LoanAccountID       int64           `json:"loan_account_id" db:"loan_account_id"`
	PromisedAmount      decimal.Decimal `json:"promised_amount" db:"promised_amount"`
	PromisedDate        time.Time       `json:"promised_date" db:"promised_date"`
	PTPStatus           PTPStatus       `json:"ptp_status" db:"ptp_status"`
	ActualPaymentDate   *time.Time      `json:"actual_payment_date,omitempty" db:"actual_payment_date"`
	ActualPaymentAmount decimal.Decimal `json:"actual_payment_amount" db:"actual_payment_amount"`
	CreatedByUserID     int64           `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedDate         time.Time       `json:"created_date" db:"created_date"`
}

// VarianceAmount is the unpaid part of the promise.
func (p *PromiseToPay) VarianceAmount() decimal.Decimal {
	return p.PromisedAmount.Sub(p.ActualPaymentAmount)
}

// VariancePercentage is VarianceAmount relative to the promised amount.
func (p *PromiseToPay) VariancePercentage() decimal.Decimal {
	if p.PromisedAmount.IsZero() {
		return decimal.Zero
	}
	return p.VarianceAmount().Div(p.PromisedAmount).Mul(decimal.NewFromInt(100))
}

// DaysUntilDue counts calendar days from today to the promised date.
func (p *PromiseToPay) DaysUntilDue(today time.Time) int {
	return int(truncateDay(p.PromisedDate).Sub(truncateDay(today)).Hours() / 24)
}

// IsOverdue reports an active promise whose date has passed.
func (p *PromiseToPay) IsOverdue(today time.Time) bool {
	return p.PTPStatus == PTPStatusActive && p.PromisedDate.Before(truncateDay(today))
}

// IsDueToday reports an active promise falling due today.
func (p *PromiseToPay) IsDueToday(today time.Time) bool {
	return p.PTPStatus == PTPStatusActive && truncateDay(p.PromisedDate).Equal(truncateDay(today))
}

// StatusDisplay is the label shown in agent views.
func (p *PromiseToPay) StatusDisplay(today time.Time) string {
	if p.IsOverdue(today) {
		return "Overdue"
	}
	if p.IsDueToday(today) {
		return "Due Today"
	}
	if days := p.DaysUntilDue(today); days > 0 && days <= 3 {
		return "Due Soon"
	}
	return string(p.PTPStatus)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
