// Package models defines the data structures for the collections API.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Case statuses used by the service and reports. Status is stored as free
// text, so values outside this list are accepted.
const (
	CaseStatusActive     = "Active"
	CaseStatusFollowUp   = "Follow-Up"
	CaseStatusResolved   = "Resolved"
	CaseStatusClosed     = "Closed"
	CaseStatusWrittenOff = "WrittenOff"

	SubStatusPendingContact = "Pending Contact"
)

// CasePriority is the severity tier of a case.
type CasePriority string

const (
	PriorityLow      CasePriority = "Low"
	PriorityMedium   CasePriority = "Medium"
	PriorityHigh     CasePriority = "High"
	PriorityCritical CasePriority = "Critical"
)

// CollectionCase is one delinquent loan under active collections work.
type CollectionCase struct {
	ID                   int64           `json:"case_id" db:"case_id"`
	CaseNumber           string          `json:"case_number" db:"case_number"`
	CustomerID           int64           `json:"customer_id" db:"customer_id"`
	LoanAccountID        int64           `json:"loan_account_id" db:"loan_account_id"`
	CurrentDPD           int             `json:"current_dpd" db:"current_dpd"`
	DPDBucket            string          `json:"dpd_bucket" db:"dpd_bucket"`
	OutstandingAmount    decimal.Decimal `json:"current_outstanding_amount" db:"current_outstanding_amount"`
	OverdueAmount        decimal.Decimal `json:"overdue_amount" db:"overdue_amount"`
	CaseStatus           string          `json:"case_status" db:"case_status"`
	CaseSubStatus        *string         `json:"case_sub_status,omitempty" db:"case_sub_status"`
	CasePriority         CasePriority    `json:"case_priority" db:"case_priority"`
	PriorityScore        int             `json:"priority_score" db:"priority_score"`
	AssignedToUserID     *int64          `json:"assigned_to_user_id,omitempty" db:"assigned_to_user_id"`
	AssignedToTeamID     *int64          `json:"assigned_to_team_id,omitempty" db:"assigned_to_team_id"`
	AssignedDate         *time.Time      `json:"assigned_date,omitempty" db:"assigned_date"`
	LastReassignedDate   *time.Time      `json:"last_reassigned_date,omitempty" db:"last_reassigned_date"`
	TotalContactAttempts int             `json:"total_contact_attempts" db:"total_contact_attempts"`
	SuccessfulContacts   int             `json:"successful_contact_count" db:"successful_contact_count"`
	LastContactDate      *time.Time      `json:"last_contact_attempt_date,omitempty" db:"last_contact_attempt_date"`
	TotalPTPsMade        int             `json:"total_ptps_made" db:"total_ptps_made"`
	PTPsKept             int             `json:"ptps_kept" db:"ptps_kept"`
	PTPsBroken           int             `json:"ptps_broken" db:"ptps_broken"`
	TotalAmountCollected decimal.Decimal `json:"total_amount_collected" db:"total_amount_collected"`
	LastCollectionDate   *time.Time      `json:"last_collection_date,omitempty" db:"last_collection_date"`
	FieldVisitRequired   bool            `json:"field_visit_required" db:"field_visit_required"`
	IsActive             bool            `json:"is_active" db:"is_active"`
	CreatedDate          time.Time       `json:"created_date" db:"created_date"`
	CreatedBy            int64           `json:"created_by" db:"created_by"`
	ModifiedDate         *time.Time      `json:"modified_date,omitempty" db:"modified_date"`
	ModifiedBy           *int64          `json:"modified_by,omitempty" db:"modified_by"`

	// Populated by joined lookups only.
	ActivePTPCount int          `json:"-"`
	Customer       *Customer    `json:"-"`
	LoanAccount    *LoanAccount `json:"-"`
	AssignedUser   *User        `json:"-"`
}

// PTPSuccessRate is the share of promises kept, as a percentage.
// It is recomputed on every read and never stored.
func (c *CollectionCase) PTPSuccessRate() decimal.Decimal {
	if c.TotalPTPsMade == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(c.PTPsKept)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(c.TotalPTPsMade)))
}

// IsAssignedTo reports whether the case currently belongs to userID.
func (c *CollectionCase) IsAssignedTo(userID int64) bool {
	return c.AssignedToUserID != nil && *c.AssignedToUserID == userID
}

// CaseStatusHistory is one immutable audit row written with a status change.
type CaseStatusHistory struct {
	ID              int64     `json:"history_id" db:"history_id"`
	CaseID          int64     `json:"case_id" db:"case_id"`
	PreviousStatus  *string   `json:"previous_status,omitempty" db:"previous_status"`
	NewStatus       string    `json:"new_status" db:"new_status"`
	ChangedByUserID int64     `json:"changed_by_user_id" db:"changed_by_user_id"`
	Remarks         *string   `json:"remarks,omitempty" db:"remarks"`
	ChangedDate     time.Time `json:"changed_date" db:"changed_date"`
}

// CaseSearchFilter narrows SearchCases. Empty fields are ignored.
type CaseSearchFilter struct {
	CaseNumber        string
	CustomerName      string
	LoanAccountNumber string
	DPDBucket         string
	CaseStatus        string
	AssignedToUserID  *int64
	PageNumber        int
	PageSize          int
}

// StatusUpdate carries one status transition.
type StatusUpdate struct {
	CaseID     int64
	NewStatus  string
	SubStatus  *string
	Remarks    *string
	ModifiedBy int64
}

// Reassignment moves a case from one agent to another.
type Reassignment struct {
	CaseID     int64
	FromUserID int64
	ToUserID   int64
	Reason     string
	ModifiedBy int64
}

// BucketTotals holds the money sums of one DPD bucket.
type BucketTotals struct {
	Outstanding decimal.Decimal
	Overdue     decimal.Decimal
}
