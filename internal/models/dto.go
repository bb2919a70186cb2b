package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Placeholders used when a joined record is missing from a summary row.
const (
	NotAvailable = "N/A"
	Unassigned   = "Unassigned"
)

// CreateCaseRequest opens a new case for a delinquent loan.
type CreateCaseRequest struct {
	CustomerID        int64           `json:"customer_id" validate:"required,gt=0"`
	LoanAccountID     int64           `json:"loan_account_id" validate:"required,gt=0"`
	CurrentDPD        int             `json:"current_dpd" validate:"gte=0,lte=2147483647"`
	DPDBucket         string          `json:"dpd_bucket" validate:"required,max=50"`
	OutstandingAmount decimal.Decimal `json:"current_outstanding_amount"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	AssignedToUserID  *int64          `json:"assigned_to_user_id,omitempty" validate:"omitempty,gt=0"`
	AssignedToTeamID  *int64          `json:"assigned_to_team_id,omitempty" validate:"omitempty,gt=0"`
	CreatedBy         int64           `json:"created_by" validate:"required,gt=0"`
}

// UpdateCaseStatusRequest changes a case's status.
type UpdateCaseStatusRequest struct {
	NewStatus  string  `json:"new_status" validate:"required,max=50"`
	SubStatus  *string `json:"sub_status,omitempty" validate:"omitempty,max=100"`
	Remarks    *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
	ModifiedBy int64   `json:"modified_by" validate:"required,gt=0"`
}

// AssignCaseRequest hands a case to an agent.
type AssignCaseRequest struct {
	CaseID           int64  `json:"case_id" validate:"required,gt=0"`
	AssignToUserID   int64  `json:"assign_to_user_id" validate:"required,gt=0"`
	AssignedBy       int64  `json:"assigned_by" validate:"required,gt=0"`
	AssignmentReason string `json:"assignment_reason,omitempty" validate:"max=500"`
}

// ReassignCaseRequest moves a case between agents if it still belongs to FromUserID.
type ReassignCaseRequest struct {
	FromUserID int64  `json:"from_user_id" validate:"required,gt=0"`
	ToUserID   int64  `json:"to_user_id" validate:"required,gt=0,nefield=FromUserID"`
	Reason     string `json:"reason,omitempty" validate:"max=500"`
	ModifiedBy int64  `json:"modified_by" validate:"required,gt=0"`
}

// RefreshDelinquencyRequest records a new delinquency snapshot for a case.
type RefreshDelinquencyRequest struct {
	CurrentDPD        int             `json:"current_dpd" validate:"gte=0,lte=2147483647"`
	DPDBucket         string          `json:"dpd_bucket" validate:"required,max=50"`
	OutstandingAmount decimal.Decimal `json:"current_outstanding_amount"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	ModifiedBy        int64           `json:"modified_by" validate:"required,gt=0"`
}

// CaseDetailDTO is the full view of one case with its customer, loan and assignee.
type CaseDetailDTO struct {
	CaseID                   int64           `json:"case_id"`
	CaseNumber               string          `json:"case_number"`
	CaseStatus               string          `json:"case_status"`
	CaseSubStatus            *string         `json:"case_sub_status"`
	CurrentDPD               int             `json:"current_dpd"`
	DPDBucket                string          `json:"dpd_bucket"`
	CurrentOutstandingAmount decimal.Decimal `json:"current_outstanding_amount"`
	OverdueAmount            decimal.Decimal `json:"overdue_amount"`
	CasePriority             CasePriority    `json:"case_priority"`
	PriorityScore            int             `json:"priority_score"`

	CustomerID          int64   `json:"customer_id"`
	CustomerCode        *string `json:"customer_code"`
	CustomerName        *string `json:"customer_name"`
	PrimaryMobileNumber *string `json:"primary_mobile_number"`
	PrimaryEmail        *string `json:"primary_email"`

	LoanAccountID     int64           `json:"loan_account_id"`
	LoanAccountNumber *string         `json:"loan_account_number"`
	ProductType       *string         `json:"product_type"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`

	AssignedToUserID   *int64     `json:"assigned_to_user_id"`
	AssignedToUserName *string    `json:"assigned_to_user_name"`
	AssignedToTeamID   *int64     `json:"assigned_to_team_id"`
	AssignedDate       *time.Time `json:"assigned_date"`

	TotalContactAttempts   int             `json:"total_contact_attempts"`
	SuccessfulContactCount int             `json:"successful_contact_count"`
	LastContactAttemptDate *time.Time      `json:"last_contact_attempt_date"`
	TotalAmountCollected   decimal.Decimal `json:"total_amount_collected"`
	LastCollectionDate     *time.Time      `json:"last_collection_date"`

	ActivePTPCount int             `json:"active_ptp_count"`
	TotalPTPsMade  int             `json:"total_ptps_made"`
	PTPsKept       int             `json:"ptps_kept"`
	PTPsBroken     int             `json:"ptps_broken"`
	PTPSuccessRate decimal.Decimal `json:"ptp_success_rate"`
}

// CaseSummaryDTO is one row of a worklist or case list. The worklist
// database function returns exactly these columns.
type CaseSummaryDTO struct {
	CaseID             int64           `json:"case_id" db:"case_id"`
	CaseNumber         string          `json:"case_number" db:"case_number"`
	CustomerName       string          `json:"customer_name" db:"customer_name"`
	LoanAccountNumber  string          `json:"loan_account_number" db:"loan_account_number"`
	CurrentDPD         int             `json:"current_dpd" db:"current_dpd"`
	DPDBucket          string          `json:"dpd_bucket" db:"dpd_bucket"`
	OverdueAmount      decimal.Decimal `json:"overdue_amount" db:"overdue_amount"`
	CaseStatus         string          `json:"case_status" db:"case_status"`
	AssignedToUserName string          `json:"assigned_to_user_name" db:"assigned_to_user_name"`
	LastContactDate    *time.Time      `json:"last_contact_date" db:"last_contact_date"`
	PriorityScore      int             `json:"priority_score" db:"priority_score"`
}

// CaseStatisticsDTO aggregates counts and money across cases.
type CaseStatisticsDTO struct {
	TotalCases          int                        `json:"total_cases"`
	ActiveCases         int                        `json:"active_cases"`
	ResolvedCases       int                        `json:"resolved_cases"`
	ClosedCases         int                        `json:"closed_cases"`
	TotalOutstanding    decimal.Decimal            `json:"total_outstanding"`
	TotalOverdue        decimal.Decimal            `json:"total_overdue"`
	CasesByStatus       map[string]int             `json:"cases_by_status"`
	OutstandingByBucket map[string]decimal.Decimal `json:"outstanding_by_bucket"`
}

// ToDetailDTO projects a case and its joined records into the detail view.
func (c *CollectionCase) ToDetailDTO() CaseDetailDTO {
	dto := CaseDetailDTO{
		CaseID:                   c.ID,
		CaseNumber:               c.CaseNumber,
		CaseStatus:               c.CaseStatus,
		CaseSubStatus:            c.CaseSubStatus,
		CurrentDPD:               c.CurrentDPD,
		DPDBucket:                c.DPDBucket,
		CurrentOutstandingAmount: c.OutstandingAmount,
		OverdueAmount:            c.OverdueAmount,
		CasePriority:             c.CasePriority,
		PriorityScore:            c.PriorityScore,
		CustomerID:               c.CustomerID,
		LoanAccountID:            c.LoanAccountID,
		AssignedToUserID:         c.AssignedToUserID,
		AssignedToTeamID:         c.AssignedToTeamID,
		AssignedDate:             c.AssignedDate,
		TotalContactAttempts:     c.TotalContactAttempts,
		SuccessfulContactCount:   c.SuccessfulContacts,
		LastContactAttemptDate:   c.LastContactDate,
		TotalAmountCollected:     c.TotalAmountCollected,
		LastCollectionDate:       c.LastCollectionDate,
		ActivePTPCount:           c.ActivePTPCount,
		TotalPTPsMade:            c.TotalPTPsMade,
		PTPsKept:                 c.PTPsKept,
		PTPsBroken:               c.PTPsBroken,
		PTPSuccessRate:           c.PTPSuccessRate(),
	}

	if cust := c.Customer; cust != nil {
		name := cust.FullName()
		dto.CustomerCode = &cust.CustomerCode
		dto.CustomerName = &name
		dto.PrimaryMobileNumber = &cust.PrimaryMobileNumber
		dto.PrimaryEmail = cust.PrimaryEmail
	}
	if loan := c.LoanAccount; loan != nil {
		dto.LoanAccountNumber = &loan.LoanAccountNumber
		dto.ProductType = &loan.ProductType
		dto.TotalOutstanding = loan.TotalOutstanding
	}
	if user := c.AssignedUser; user != nil {
		name := user.FullName()
		dto.AssignedToUserName = &name
	}

	return dto
}

// ToSummaryDTO projects a case into a list row, filling placeholders for
// missing joins.
func (c *CollectionCase) ToSummaryDTO() CaseSummaryDTO {
	dto := CaseSummaryDTO{
		CaseID:             c.ID,
		CaseNumber:         c.CaseNumber,
		CustomerName:       NotAvailable,
		LoanAccountNumber:  NotAvailable,
		CurrentDPD:         c.CurrentDPD,
		DPDBucket:          c.DPDBucket,
		OverdueAmount:      c.OverdueAmount,
		CaseStatus:         c.CaseStatus,
		AssignedToUserName: Unassigned,
		LastContactDate:    c.LastContactDate,
		PriorityScore:      c.PriorityScore,
	}
	if c.Customer != nil {
		dto.CustomerName = c.Customer.FullName()
	}
	if c.LoanAccount != nil {
		dto.LoanAccountNumber = c.LoanAccount.LoanAccountNumber
	}
	if c.AssignedUser != nil {
		dto.AssignedToUserName = c.AssignedUser.FullName()
	}
	return dto
}

// IntakeResult reports the outcome of a CSV case import.
type IntakeResult struct {
	Message      string   `json:"message"`
	BatchID      string   `json:"batch_id"`
	Created      int      `json:"created"`
	Failed       int      `json:"failed"`
	CreatedCases []int64  `json:"created_case_ids,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}
