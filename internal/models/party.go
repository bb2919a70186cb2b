package models

import (
	"github.com/shopspring/decimal"
)

// Customer is the borrower behind a case. Owned by the customer module;
// read-only here.
type Customer struct {
	ID                  int64   `json:"customer_id" db:"customer_id"`
	CustomerCode        string  `json:"customer_code" db:"customer_code"`
	FirstName           string  `json:"first_name" db:"first_name"`
	MiddleName          *string `json:"middle_name,omitempty" db:"middle_name"`
	LastName            string  `json:"last_name" db:"last_name"`
	PrimaryMobileNumber string  `json:"primary_mobile_number" db:"primary_mobile_number"`
	PrimaryEmail        *string `json:"primary_email,omitempty" db:"primary_email"`
}

// FullName joins first, middle and last names.
func (c *Customer) FullName() string {
	return fullName(c.FirstName, c.MiddleName, c.LastName)
}

// LoanAccount is the loan a case is collecting on.
type LoanAccount struct {
	ID                int64           `json:"loan_account_id" db:"loan_account_id"`
	LoanAccountNumber string          `json:"loan_account_number" db:"loan_account_number"`
	CustomerID        int64           `json:"customer_id" db:"customer_id"`
	ProductType       string          `json:"product_type" db:"product_type"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding" db:"total_outstanding"`
}
