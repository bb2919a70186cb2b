package models

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDPD is the largest value the INTEGER current_dpd column holds.
const MaxDPD = math.MaxInt32

// MaxAmount is the largest value a NUMERIC(18,2) amount column holds.
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

// Common errors
var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrDuplicateCaseNumber = errors.New("case number already exists")
	ErrMissingCustomer     = errors.New("customer_id is required")
	ErrMissingLoanAccount  = errors.New("loan_account_id is required")
	ErrMissingActor        = errors.New("acting user id is required")
	ErrInvalidDPD          = errors.New("current_dpd must be between 0 and 2147483647")
	ErrEmptyDPDBucket      = errors.New("dpd_bucket cannot be empty")
	ErrInvalidAmount       = errors.New("amounts must be between 0 and 9999999999999999.99")
	ErrEmptyStatus         = errors.New("new_status cannot be empty")
	ErrInvalidPagination   = errors.New("pageNumber and pageSize must be integers")
)

// ValidateCaseCreate checks the preconditions of case creation.
func ValidateCaseCreate(req *CreateCaseRequest) error {
	if req.CustomerID <= 0 {
		return ErrMissingCustomer
	}
	if req.LoanAccountID <= 0 {
		return ErrMissingLoanAccount
	}
	if err := validateDelinquency(req.CurrentDPD, req.DPDBucket, req.OutstandingAmount, req.OverdueAmount); err != nil {
		return err
	}
	if req.CreatedBy <= 0 {
		return ErrMissingActor
	}
	return nil
}

// ValidateDelinquencyRefresh checks a new delinquency snapshot.
func ValidateDelinquencyRefresh(req *RefreshDelinquencyRequest) error {
	if err := validateDelinquency(req.CurrentDPD, req.DPDBucket, req.OutstandingAmount, req.OverdueAmount); err != nil {
		return err
	}
	if req.ModifiedBy <= 0 {
		return ErrMissingActor
	}
	return nil
}

func validateDelinquency(dpd int, bucket string, outstanding, overdue decimal.Decimal) error {
	if dpd < 0 || dpd > MaxDPD {
		return ErrInvalidDPD
	}
	if strings.TrimSpace(bucket) == "" {
		return ErrEmptyDPDBucket
	}
	if !amountInRange(outstanding) || !amountInRange(overdue) {
		return ErrInvalidAmount
	}
	return nil
}

func amountInRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(MaxAmount)
}

// IsValidationError reports whether err came from request validation.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingCustomer, ErrMissingLoanAccount, ErrMissingActor,
		ErrInvalidDPD, ErrEmptyDPDBucket, ErrInvalidAmount, ErrEmptyStatus,
		ErrInvalidPagination,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
