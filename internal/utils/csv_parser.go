package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"loan-collections-api/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in an intake file.
var RequiredColumns = []string{
	"customer_id",
	"loan_account_id",
	"current_dpd",
	"dpd_bucket",
	"outstanding_amount",
	"overdue_amount",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	"customerid":  "customer_id",
	"customer id": "customer_id",

	"loanaccountid":   "loan_account_id",
	"loan account id": "loan_account_id",
	"loan_id":         "loan_account_id",

	"dpd":           "current_dpd",
	"days_past_due": "current_dpd",
	"currentdpd":    "current_dpd",

	"bucket":    "dpd_bucket",
	"dpdbucket": "dpd_bucket",

	"outstanding":                "outstanding_amount",
	"current_outstanding_amount": "outstanding_amount",
	"outstandingamount":          "outstanding_amount",

	"overdue":       "overdue_amount",
	"overdueamount": "overdue_amount",

	"assigned_to_user_id": "assigned_user_id",
	"agent_id":            "assigned_user_id",

	"assigned_to_team_id": "assigned_team_id",
	"team_id":             "assigned_team_id",
}

// CaseRow is one validated intake row and the file line it came from.
type CaseRow struct {
	Line    int
	Request *models.CreateCaseRequest
}

// CSVParser handles parsing of case intake CSV files.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{columnMapping: make(map[string]int)}
}

// ParseCases parses intake CSV content into create requests attributed to
// createdBy. Bad rows are skipped and reported with their line number.
func (p *CSVParser) ParseCases(content string, createdBy int64) ([]CaseRow, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var rows []CaseRow
	var parseErrors []error

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already names the line
			parseErrors = append(parseErrors, err)
			continue
		}
		if isBlank(record) {
			continue
		}
		lineNum, _ := reader.FieldPos(0)

		req, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}
		req.CreatedBy = createdBy

		if err := models.ValidateCaseCreate(req); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		rows = append(rows, CaseRow{Line: lineNum, Request: req})
	}

	if len(rows) == 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return rows, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := normalizeColumn(col)
		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into a create request.
func (p *CSVParser) parseRow(record []string) (*models.CreateCaseRequest, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	customerID, err := parseID(getValue("customer_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id: %w", err)
	}

	loanAccountID, err := parseID(getValue("loan_account_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid loan_account_id: %w", err)
	}

	dpd, err := parseInt(getValue("current_dpd"))
	if err != nil {
		return nil, fmt.Errorf("invalid current_dpd: %w", err)
	}

	outstanding, err := parseAmount(getValue("outstanding_amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid outstanding_amount: %w", err)
	}

	overdue, err := parseAmount(getValue("overdue_amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid overdue_amount: %w", err)
	}

	req := &models.CreateCaseRequest{
		CustomerID:        customerID,
		LoanAccountID:     loanAccountID,
		CurrentDPD:        dpd,
		DPDBucket:         getValue("dpd_bucket"),
		OutstandingAmount: outstanding,
		OverdueAmount:     overdue,
	}

	if v := getValue("assigned_user_id"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return nil, fmt.Errorf("invalid assigned_user_id: %w", err)
		}
		req.AssignedToUserID = &id
	}
	if v := getValue("assigned_team_id"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return nil, fmt.Errorf("invalid assigned_team_id: %w", err)
		}
		req.AssignedToTeamID = &id
	}

	return req, nil
}

func normalizeColumn(col string) string {
	normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	if alias, ok := ColumnAliases[normalized]; ok {
		return alias
	}
	return normalized
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseAmount parses a money value, handling separators and currency symbols.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSpace(s)

	return decimal.NewFromString(s)
}

// parseInt parses a string to int, handling common formats.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	s = strings.ReplaceAll(s, ",", "")

	// Spreadsheets export whole numbers as "45.0"
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}

	return strconv.Atoi(s)
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	return strconv.ParseInt(s, 10, 64)
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) *CSVValidationResult {
	result := &CSVValidationResult{
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result
	}

	present := make(map[string]bool)
	for _, col := range header {
		present[normalizeColumn(col)] = true
		result.Columns = append(result.Columns, col)
	}

	for _, required := range RequiredColumns {
		if !present[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		if !isBlank(record) {
			result.RowCount++
		}
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}
