package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"loan-collections-api/internal/models"
)

// caseNumberConstraint guards case number uniqueness.
const caseNumberConstraint = "collection_cases_case_number_key"

// allCasesLimit caps GetAll.
const allCasesLimit = 1000

// errNoCase aborts a transaction whose target case is missing.
var errNoCase = errors.New("no matching case")

const caseColumns = `
	c.case_id, c.case_number, c.customer_id, c.loan_account_id, c.current_dpd,
	COALESCE(c.dpd_bucket, ''), c.current_outstanding_amount, c.overdue_amount,
	c.case_status, c.case_sub_status, c.case_priority, c.priority_score,
	c.assigned_to_user_id, c.assigned_to_team_id, c.assigned_date, c.last_reassigned_date,
	c.total_contact_attempts, c.successful_contact_count, c.last_contact_attempt_date,
	c.total_ptps_made, c.ptps_kept, c.ptps_broken, c.total_amount_collected,
	c.last_collection_date, c.field_visit_required, c.is_active,
	c.created_date, c.created_by, c.modified_date, c.modified_by`

// nameColumns and nameJoins add the display names a summary row needs.
const nameColumns = `
	cust.first_name, cust.middle_name, cust.last_name,
	loan.loan_account_number,
	u.first_name, u.middle_name, u.last_name`

const nameJoins = `
	LEFT JOIN customers cust ON cust.customer_id = c.customer_id
	LEFT JOIN loan_accounts loan ON loan.loan_account_id = c.loan_account_id
	LEFT JOIN users u ON u.user_id = c.assigned_to_user_id`

const listSelect = `SELECT ` + caseColumns + `,` + nameColumns + `, COUNT(*) OVER() AS total_count
	FROM collection_cases c` + nameJoins

// CaseRepository handles collection case database operations.
type CaseRepository struct {
	db  *DB
	now func() time.Time
}

// NewCaseRepository creates a new case repository.
func NewCaseRepository(db *DB) *CaseRepository {
	return &CaseRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new case and returns its id. A clash on the case number
// is reported as models.ErrDuplicateCaseNumber.
func (r *CaseRepository) Create(ctx context.Context, c *models.CollectionCase) (int64, error) {
	query := `
		INSERT INTO collection_cases (
			case_number, customer_id, loan_account_id, current_dpd, dpd_bucket,
			current_outstanding_amount, overdue_amount, case_status, case_sub_status,
			case_priority, priority_score, assigned_to_user_id, assigned_to_team_id,
			assigned_date, created_date, created_by, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING case_id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		c.CaseNumber,
		c.CustomerID,
		c.LoanAccountID,
		c.CurrentDPD,
		c.DPDBucket,
		c.OutstandingAmount,
		c.OverdueAmount,
		c.CaseStatus,
		c.CaseSubStatus,
		string(c.CasePriority),
		c.PriorityScore,
		c.AssignedToUserID,
		c.AssignedToTeamID,
		c.AssignedDate,
		c.CreatedDate,
		c.CreatedBy,
		c.IsActive,
	).Scan(&id)

	if isUniqueViolation(err, caseNumberConstraint) {
		return 0, fmt.Errorf("%w: %s", models.ErrDuplicateCaseNumber, c.CaseNumber)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create case: %w", err)
	}

	return id, nil
}

// Update rewrites the mutable financial and status fields of an active case.
func (r *CaseRepository) Update(ctx context.Context, c *models.CollectionCase) (bool, error) {
	query := `
		UPDATE collection_cases SET
			current_dpd = $2,
			dpd_bucket = $3,
			current_outstanding_amount = $4,
			overdue_amount = $5,
			case_status = $6,
			case_sub_status = $7,
			case_priority = $8,
			priority_score = $9,
			modified_date = $10,
			modified_by = $11
		WHERE case_id = $1 AND is_active = true`

	rows, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.CurrentDPD,
		c.DPDBucket,
		c.OutstandingAmount,
		c.OverdueAmount,
		c.CaseStatus,
		c.CaseSubStatus,
		string(c.CasePriority),
		c.PriorityScore,
		r.now(),
		c.ModifiedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update case: %w", err)
	}

	return rows > 0, nil
}

// Delete soft-deletes a case. The row and its history stay in place.
func (r *CaseRepository) Delete(ctx context.Context, caseID int64) (bool, error) {
	query := `UPDATE collection_cases SET is_active = false, modified_date = $2 WHERE case_id = $1 AND is_active = true`

	rows, err := r.db.ExecContext(ctx, query, caseID, r.now())
	if err != nil {
		return false, fmt.Errorf("failed to delete case: %w", err)
	}
	return rows > 0, nil
}

// Count returns the number of active cases.
func (r *CaseRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collection_cases WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return int(count), nil
}

// UpdateCaseStatus changes a case's status and appends the history row in
// one transaction. It returns false when the case does not exist.
func (r *CaseRepository) UpdateCaseStatus(ctx context.Context, upd models.StatusUpdate) (bool, error) {
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var previous string
		err := tx.QueryRow(ctx,
			`SELECT case_status FROM collection_cases WHERE case_id = $1 AND is_active = true FOR UPDATE`,
			upd.CaseID,
		).Scan(&previous)
		if errors.Is(err, pgx.ErrNoRows) {
			return errNoCase
		}
		if err != nil {
			return fmt.Errorf("failed to read current status: %w", err)
		}

		now := r.now()
		tag, err := tx.Exec(ctx, `
			UPDATE collection_cases
			SET case_status = $2,
				case_sub_status = COALESCE($3, case_sub_status),
				modified_date = $4,
				modified_by = $5
			WHERE case_id = $1`,
			upd.CaseID, upd.NewStatus, upd.SubStatus, now, upd.ModifiedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to update case status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errNoCase
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO case_status_history (case_id, previous_status, new_status, changed_by_user_id, remarks, changed_date)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			upd.CaseID, previous, upd.NewStatus, upd.ModifiedBy, upd.Remarks, now,
		)
		if err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})

	if errors.Is(err, errNoCase) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AssignCaseToUser sets the assignee unconditionally.
func (r *CaseRepository) AssignCaseToUser(ctx context.Context, caseID, userID, assignedBy int64) (bool, error) {
	query := `
		UPDATE collection_cases
		SET assigned_to_user_id = $2,
			assigned_date = $3,
			modified_date = $3,
			modified_by = $4
		WHERE case_id = $1 AND is_active = true`

	rows, err := r.db.ExecContext(ctx, query, caseID, userID, r.now(), assignedBy)
	if err != nil {
		return false, fmt.Errorf("failed to assign case: %w", err)
	}
	return rows > 0, nil
}

// ReassignCase moves a case only if it is still assigned to FromUserID.
// No history row is written.
func (r *CaseRepository) ReassignCase(ctx context.Context, re models.Reassignment) (bool, error) {
	var moved bool
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := r.now()
		tag, err := tx.Exec(ctx, `
			UPDATE collection_cases
			SET assigned_to_user_id = $3,
				last_reassigned_date = $4,
				modified_date = $4,
				modified_by = $5
			WHERE case_id = $1 AND assigned_to_user_id = $2 AND is_active = true`,
			re.CaseID, re.FromUserID, re.ToUserID, now, re.ModifiedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to reassign case: %w", err)
		}
		moved = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

// GetByID retrieves an active case by id.
func (r *CaseRepository) GetByID(ctx context.Context, caseID int64) (*models.CollectionCase, error) {
	cases, _, err := r.listCases(ctx, listSelect+` WHERE c.case_id = $1 AND c.is_active = true`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	if len(cases) == 0 {
		return nil, nil
	}
	return cases[0], nil
}

// GetCaseDetailsByID loads a case with customer, loan and assignee. Soft
// deleted cases are still returned; callers decide whether to show them.
func (r *CaseRepository) GetCaseDetailsByID(ctx context.Context, caseID int64) (*models.CollectionCase, error) {
	query := `
		SELECT ` + caseColumns + `,
			cust.customer_code, cust.first_name, cust.middle_name, cust.last_name,
			cust.primary_mobile_number, cust.primary_email,
			loan.loan_account_number, loan.product_type, loan.total_outstanding,
			u.first_name, u.middle_name, u.last_name,
			(SELECT COUNT(*) FROM promise_to_pay p WHERE p.case_id = c.case_id AND p.ptp_status = 'Active')
		FROM collection_cases c` + nameJoins + `
		WHERE c.case_id = $1`

	var (
		custCode, custFirst, custMiddle, custLast, custMobile, custEmail *string
		loanNumber, productType                                          *string
		loanOutstanding                                                  decimal.NullDecimal
		userFirst, userMiddle, userLast                                  *string
		activePTPs                                                       int64
	)

	c, err := scanCase(r.db.QueryRowContext(ctx, query, caseID),
		&custCode, &custFirst, &custMiddle, &custLast, &custMobile, &custEmail,
		&loanNumber, &productType, &loanOutstanding,
		&userFirst, &userMiddle, &userLast,
		&activePTPs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case details: %w", err)
	}

	if custFirst != nil {
		c.Customer = &models.Customer{
			ID:                  c.CustomerID,
			CustomerCode:        deref(custCode),
			FirstName:           *custFirst,
			MiddleName:          custMiddle,
			LastName:            deref(custLast),
			PrimaryMobileNumber: deref(custMobile),
			PrimaryEmail:        custEmail,
		}
	}
	if loanNumber != nil {
		c.LoanAccount = &models.LoanAccount{
			ID:                c.LoanAccountID,
			LoanAccountNumber: *loanNumber,
			CustomerID:        c.CustomerID,
			ProductType:       deref(productType),
			TotalOutstanding:  loanOutstanding.Decimal,
		}
	}
	if userFirst != nil && c.AssignedToUserID != nil {
		c.AssignedUser = &models.User{
			ID:         *c.AssignedToUserID,
			FirstName:  *userFirst,
			MiddleName: userMiddle,
			LastName:   deref(userLast),
		}
	}
	c.ActivePTPCount = int(activePTPs)

	return c, nil
}

// GetAll returns the newest active cases, capped at allCasesLimit.
func (r *CaseRepository) GetAll(ctx context.Context) ([]*models.CollectionCase, error) {
	cases, _, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true
		ORDER BY c.created_date DESC
		LIMIT $1`, allCasesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// GetPaged returns one page of active cases, newest first, with the total.
func (r *CaseRepository) GetPaged(ctx context.Context, page models.PaginationParams) ([]*models.CollectionCase, int, error) {
	cases, total, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true
		ORDER BY c.created_date DESC
		LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to page cases: %w", err)
	}
	if len(cases) == 0 && page.Offset() > 0 {
		total, err = r.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
	}
	return cases, total, nil
}

// GetActiveCasesByUserID returns an agent's open cases, most urgent first.
func (r *CaseRepository) GetActiveCasesByUserID(ctx context.Context, userID int64) ([]*models.CollectionCase, error) {
	cases, _, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true
			AND c.assigned_to_user_id = $1
			AND c.case_status IN ('Active', 'Follow-Up')
		ORDER BY c.priority_score DESC, c.current_dpd DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cases for user: %w", err)
	}
	return cases, nil
}

// GetCasesByStatus returns one page of active cases in a status.
func (r *CaseRepository) GetCasesByStatus(ctx context.Context, status string, page models.PaginationParams) ([]*models.CollectionCase, int, error) {
	cases, total, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true AND c.case_status = $1
		ORDER BY c.priority_score DESC, c.created_date DESC
		LIMIT $2 OFFSET $3`, status, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cases by status: %w", err)
	}
	total, err = r.pageTotal(ctx, cases, total, page,
		`SELECT COUNT(*) FROM collection_cases c WHERE c.is_active = true AND c.case_status = $1`, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cases by status: %w", err)
	}
	return cases, total, nil
}

// GetCasesByDPDBucket returns open active cases in a bucket.
func (r *CaseRepository) GetCasesByDPDBucket(ctx context.Context, bucket string) ([]*models.CollectionCase, error) {
	cases, _, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true
			AND c.dpd_bucket = $1
			AND c.case_status NOT IN ('Closed', 'WrittenOff')
		ORDER BY c.priority_score DESC`, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get cases by bucket: %w", err)
	}
	return cases, nil
}

// GetOverduePTPCases returns active cases holding an active promise dated
// before today.
func (r *CaseRepository) GetOverduePTPCases(ctx context.Context, today time.Time) ([]*models.CollectionCase, error) {
	cases, _, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true
			AND EXISTS (
				SELECT 1 FROM promise_to_pay p
				WHERE p.case_id = c.case_id
					AND p.ptp_status = 'Active'
					AND p.promised_date < $1
			)
		ORDER BY c.priority_score DESC`, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue ptp cases: %w", err)
	}
	return cases, nil
}

// GetCasesNeedingFieldVisit returns open cases flagged for a visit.
func (r *CaseRepository) GetCasesNeedingFieldVisit(ctx context.Context) ([]*models.CollectionCase, error) {
	cases, _, err := r.listCases(ctx, listSelect+`
		WHERE c.is_active = true
			AND c.field_visit_required = true
			AND c.case_status IN ('Active', 'Follow-Up')
		ORDER BY c.priority_score DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get field visit cases: %w", err)
	}
	return cases, nil
}

// SearchCases applies the non-empty filter fields and returns one page.
func (r *CaseRepository) SearchCases(ctx context.Context, filter models.CaseSearchFilter, page models.PaginationParams) ([]*models.CollectionCase, int, error) {
	var (
		clauses = []string{"c.is_active = true"}
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.CaseNumber != "" {
		add("c.case_number ILIKE '%%' || $%d::text || '%%'", filter.CaseNumber)
	}
	if filter.CustomerName != "" {
		add("(cust.first_name || ' ' || COALESCE(cust.middle_name || ' ', '') || cust.last_name) ILIKE '%%' || $%d::text || '%%'", filter.CustomerName)
	}
	if filter.LoanAccountNumber != "" {
		add("loan.loan_account_number ILIKE '%%' || $%d::text || '%%'", filter.LoanAccountNumber)
	}
	if filter.DPDBucket != "" {
		add("c.dpd_bucket = $%d", filter.DPDBucket)
	}
	if filter.CaseStatus != "" {
		add("c.case_status = $%d", filter.CaseStatus)
	}
	if filter.AssignedToUserID != nil {
		add("c.assigned_to_user_id = $%d", *filter.AssignedToUserID)
	}

	where := `
		WHERE ` + strings.Join(clauses, " AND ")
	filterArgs := args

	args = append(args, page.PageSize, page.Offset())
	query := listSelect + where + `
		ORDER BY c.priority_score DESC, c.current_dpd DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	cases, total, err := r.listCases(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search cases: %w", err)
	}
	total, err = r.pageTotal(ctx, cases, total, page,
		`SELECT COUNT(*) FROM collection_cases c`+nameJoins+where, filterArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return cases, total, nil
}

// pageTotal keeps the window total of a page. A page past the last row
// carries no total, so the filter is counted on its own.
func (r *CaseRepository) pageTotal(ctx context.Context, cases []*models.CollectionCase, total int, page models.PaginationParams, countQuery string, args ...any) (int, error) {
	if len(cases) > 0 || page.Offset() == 0 {
		return total, nil
	}
	var count int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

// GetAgentWorklist calls the worklist function for one agent and day.
func (r *CaseRepository) GetAgentWorklist(ctx context.Context, userID int64, date time.Time) ([]models.CaseSummaryDTO, error) {
	query := `
		SELECT case_id, case_number, customer_name, loan_account_number, current_dpd,
			dpd_bucket, overdue_amount, case_status, assigned_to_user_name,
			last_contact_date, priority_score
		FROM sp_get_agent_worklist($1, $2)`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get worklist: %w", err)
	}
	defer rows.Close()

	worklist := []models.CaseSummaryDTO{}
	for rows.Next() {
		var s models.CaseSummaryDTO
		if err := rows.Scan(
			&s.CaseID,
			&s.CaseNumber,
			&s.CustomerName,
			&s.LoanAccountNumber,
			&s.CurrentDPD,
			&s.DPDBucket,
			&s.OverdueAmount,
			&s.CaseStatus,
			&s.AssignedToUserName,
			&s.LastContactDate,
			&s.PriorityScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan worklist row: %w", err)
		}
		worklist = append(worklist, s)
	}

	return worklist, rows.Err()
}

// GetStatusHistory returns a case's audit trail, newest first. It ignores
// the soft-delete flag.
func (r *CaseRepository) GetStatusHistory(ctx context.Context, caseID int64) ([]*models.CaseStatusHistory, error) {
	query := `
		SELECT history_id, case_id, previous_status, new_status, changed_by_user_id, remarks, changed_date
		FROM case_status_history
		WHERE case_id = $1
		ORDER BY changed_date DESC, history_id DESC`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	defer rows.Close()

	var history []*models.CaseStatusHistory
	for rows.Next() {
		var h models.CaseStatusHistory
		if err := rows.Scan(
			&h.ID,
			&h.CaseID,
			&h.PreviousStatus,
			&h.NewStatus,
			&h.ChangedByUserID,
			&h.Remarks,
			&h.ChangedDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, &h)
	}

	return history, rows.Err()
}

// GetCaseCountByStatus groups active cases by status, optionally for one assignee.
func (r *CaseRepository) GetCaseCountByStatus(ctx context.Context, userID *int64) (map[string]int, error) {
	query := `SELECT case_status, COUNT(*) FROM collection_cases WHERE is_active = true`
	var args []any
	if userID != nil {
		query += ` AND assigned_to_user_id = $1`
		args = append(args, *userID)
	}
	query += ` GROUP BY case_status`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count cases by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = int(count)
	}

	return counts, rows.Err()
}

// GetTotalsByDPDBucket sums outstanding and overdue money per bucket.
// A missing bucket is reported as "Unknown".
func (r *CaseRepository) GetTotalsByDPDBucket(ctx context.Context, userID *int64) (map[string]models.BucketTotals, error) {
	query := `
		SELECT COALESCE(dpd_bucket, 'Unknown'),
			COALESCE(SUM(current_outstanding_amount), 0),
			COALESCE(SUM(overdue_amount), 0)
		FROM collection_cases
		WHERE is_active = true`
	var args []any
	if userID != nil {
		query += ` AND assigned_to_user_id = $1`
		args = append(args, *userID)
	}
	query += ` GROUP BY COALESCE(dpd_bucket, 'Unknown')`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum cases by bucket: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]models.BucketTotals)
	for rows.Next() {
		var bucket string
		var t models.BucketTotals
		if err := rows.Scan(&bucket, &t.Outstanding, &t.Overdue); err != nil {
			return nil, fmt.Errorf("failed to scan bucket totals: %w", err)
		}
		totals[bucket] = t
	}

	return totals, rows.Err()
}

// listCases runs a listSelect query and returns the cases with the window total.
func (r *CaseRepository) listCases(ctx context.Context, query string, args ...any) ([]*models.CollectionCase, int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cases := []*models.CollectionCase{}
	total := 0
	for rows.Next() {
		var names joinedNames
		var count int64
		c, err := scanCase(rows, append(names.dest(), &count)...)
		if err != nil {
			return nil, 0, err
		}
		names.apply(c)
		total = int(count)
		cases = append(cases, c)
	}

	return cases, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCase reads caseColumns followed by any extra destinations.
func scanCase(row rowScanner, extra ...any) (*models.CollectionCase, error) {
	var c models.CollectionCase
	var priority string

	dest := append([]any{
		&c.ID,
		&c.CaseNumber,
		&c.CustomerID,
		&c.LoanAccountID,
		&c.CurrentDPD,
		&c.DPDBucket,
		&c.OutstandingAmount,
		&c.OverdueAmount,
		&c.CaseStatus,
		&c.CaseSubStatus,
		&priority,
		&c.PriorityScore,
		&c.AssignedToUserID,
		&c.AssignedToTeamID,
		&c.AssignedDate,
		&c.LastReassignedDate,
		&c.TotalContactAttempts,
		&c.SuccessfulContacts,
		&c.LastContactDate,
		&c.TotalPTPsMade,
		&c.PTPsKept,
		&c.PTPsBroken,
		&c.TotalAmountCollected,
		&c.LastCollectionDate,
		&c.FieldVisitRequired,
		&c.IsActive,
		&c.CreatedDate,
		&c.CreatedBy,
		&c.ModifiedDate,
		&c.ModifiedBy,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	c.CasePriority = models.CasePriority(priority)
	return &c, nil
}

// joinedNames receives nameColumns.
type joinedNames struct {
	custFirst, custMiddle, custLast *string
	loanNumber                      *string
	userFirst, userMiddle, userLast *string
}

func (n *joinedNames) dest() []any {
	return []any{
		&n.custFirst, &n.custMiddle, &n.custLast,
		&n.loanNumber,
		&n.userFirst, &n.userMiddle, &n.userLast,
	}
}

func (n *joinedNames) apply(c *models.CollectionCase) {
	if n.custFirst != nil {
		c.Customer = &models.Customer{
			ID:         c.CustomerID,
			FirstName:  *n.custFirst,
			MiddleName: n.custMiddle,
			LastName:   deref(n.custLast),
		}
	}
	if n.loanNumber != nil {
		c.LoanAccount = &models.LoanAccount{
			ID:                c.LoanAccountID,
			LoanAccountNumber: *n.loanNumber,
			CustomerID:        c.CustomerID,
		}
	}
	if n.userFirst != nil && c.AssignedToUserID != nil {
		c.AssignedUser = &models.User{
			ID:         *c.AssignedToUserID,
			FirstName:  *n.userFirst,
			MiddleName: n.userMiddle,
			LastName:   deref(n.userLast),
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
