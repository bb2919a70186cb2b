// Package cases implements case creation, prioritisation, status changes
// and assignment for the collections back office.
package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"loan-collections-api/internal/metrics"
	"loan-collections-api/internal/models"
	"loan-collections-api/internal/utils"
)

// Priority thresholds.
var (
	criticalOverdue  = decimal.NewFromInt(500000)
	highOverdue      = decimal.NewFromInt(100000)
	scoreOverdueUnit = decimal.NewFromInt(10000)
	scoreSaturation  = scoreOverdueUnit.Mul(decimal.NewFromInt(maxPriorityScore))
)

const (
	criticalDPD = 90
	highDPD     = 30
	mediumDPD   = 10

	maxPriorityScore = 100

	// maxCaseNumberAttempts bounds regeneration after a case number clash.
	maxCaseNumberAttempts = 3

	// maxReportedErrors caps the row errors returned by an import.
	maxReportedErrors = 10
)

// ErrInvalidIntakeFile is returned when an intake file has no usable structure.
var ErrInvalidIntakeFile = errors.New("invalid intake file")

// Repository is the case persistence the service depends on.
type Repository interface {
	Create(ctx context.Context, c *models.CollectionCase) (int64, error)
	Update(ctx context.Context, c *models.CollectionCase) (bool, error)
	Delete(ctx context.Context, caseID int64) (bool, error)
	UpdateCaseStatus(ctx context.Context, upd models.StatusUpdate) (bool, error)
	AssignCaseToUser(ctx context.Context, caseID, userID, assignedBy int64) (bool, error)
	ReassignCase(ctx context.Context, re models.Reassignment) (bool, error)
	GetByID(ctx context.Context, caseID int64) (*models.CollectionCase, error)
	GetCaseDetailsByID(ctx context.Context, caseID int64) (*models.CollectionCase, error)
	GetPaged(ctx context.Context, page models.PaginationParams) ([]*models.CollectionCase, int, error)
	GetActiveCasesByUserID(ctx context.Context, userID int64) ([]*models.CollectionCase, error)
	GetCasesByStatus(ctx context.Context, status string, page models.PaginationParams) ([]*models.CollectionCase, int, error)
	GetCasesByDPDBucket(ctx context.Context, bucket string) ([]*models.CollectionCase, error)
	GetOverduePTPCases(ctx context.Context, today time.Time) ([]*models.CollectionCase, error)
	GetCasesNeedingFieldVisit(ctx context.Context) ([]*models.CollectionCase, error)
	SearchCases(ctx context.Context, filter models.CaseSearchFilter, page models.PaginationParams) ([]*models.CollectionCase, int, error)
	GetAgentWorklist(ctx context.Context, userID int64, date time.Time) ([]models.CaseSummaryDTO, error)
	GetStatusHistory(ctx context.Context, caseID int64) ([]*models.CaseStatusHistory, error)
	GetCaseCountByStatus(ctx context.Context, userID *int64) (map[string]int, error)
	GetTotalsByDPDBucket(ctx context.Context, userID *int64) (map[string]models.BucketTotals, error)
}

// UserLookup loads the assignee for notifications.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Notifier tells an agent about a new assignment.
type Notifier interface {
	SendAssignmentNotice(ctx context.Context, user *models.User, c *models.CollectionCase) error
}

// Service owns case creation defaults, classification and DTO projection.
type Service struct {
	repo     Repository
	users    UserLookup
	notifier Notifier
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService creates a case service. users and notifier may be nil, which
// disables assignment notices.
func NewService(repo Repository, users UserLookup, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.New,
	}
}

// DeterminePriority classifies a case. Tiers are checked from the most severe down.
func DeterminePriority(dpd int, overdue decimal.Decimal) models.CasePriority {
	switch {
	case dpd >= criticalDPD || overdue.GreaterThanOrEqual(criticalOverdue):
		return models.PriorityCritical
	case dpd >= highDPD || overdue.GreaterThanOrEqual(highOverdue):
		return models.PriorityHigh
	case dpd >= mediumDPD:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// CalculatePriorityScore is dpd*2 plus one point per full 10,000 overdue,
// capped at 100. Either term reaching the cap on its own saturates before
// any integer conversion.
func CalculatePriorityScore(dpd int, overdue decimal.Decimal) int {
	if dpd >= maxPriorityScore/2 || overdue.GreaterThanOrEqual(scoreSaturation) {
		return maxPriorityScore
	}
	if dpd < 0 {
		dpd = 0
	}
	points := 0
	if overdue.IsPositive() {
		points = int(overdue.Div(scoreOverdueUnit).Floor().IntPart())
	}
	score := dpd*2 + points
	if score > maxPriorityScore {
		return maxPriorityScore
	}
	return score
}

// NewCaseNumber formats CASE, the date and the first 8 hex digits of id.
func NewCaseNumber(now time.Time, id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "CASE" + now.Format("20060102") + strings.ToUpper(hex[:8])
}

// CreateCase opens a case with computed defaults and returns its id.
func (s *Service) CreateCase(ctx context.Context, req *models.CreateCaseRequest) (int64, error) {
	if err := models.ValidateCaseCreate(req); err != nil {
		return 0, err
	}

	now := s.now()
	subStatus := models.SubStatusPendingContact
	c := &models.CollectionCase{
		CustomerID:        req.CustomerID,
		LoanAccountID:     req.LoanAccountID,
		CurrentDPD:        req.CurrentDPD,
		DPDBucket:         strings.TrimSpace(req.DPDBucket),
		OutstandingAmount: req.OutstandingAmount,
		OverdueAmount:     req.OverdueAmount,
		CaseStatus:        models.CaseStatusActive,
		CaseSubStatus:     &subStatus,
		CasePriority:      DeterminePriority(req.CurrentDPD, req.OverdueAmount),
		PriorityScore:     CalculatePriorityScore(req.CurrentDPD, req.OverdueAmount),
		AssignedToUserID:  req.AssignedToUserID,
		AssignedToTeamID:  req.AssignedToTeamID,
		CreatedDate:       now,
		CreatedBy:         req.CreatedBy,
		IsActive:          true,
	}
	if req.AssignedToUserID != nil {
		c.AssignedDate = &now
	}

	for attempt := 1; attempt <= maxCaseNumberAttempts; attempt++ {
		c.CaseNumber = NewCaseNumber(now, s.newID())

		id, err := s.repo.Create(ctx, c)
		if errors.Is(err, models.ErrDuplicateCaseNumber) {
			utils.GetLogger().Warn("Case number collision, regenerating",
				zap.String("case_number", c.CaseNumber),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return 0, err
		}

		metrics.CasesCreated.WithLabelValues(string(c.CasePriority)).Inc()
		utils.GetLogger().Info("Case created",
			zap.Int64("case_id", id),
			zap.String("case_number", c.CaseNumber),
			zap.String("priority", string(c.CasePriority)),
			zap.Int("priority_score", c.PriorityScore),
		)
		return id, nil
	}

	return 0, fmt.Errorf("no unique case number after %d attempts: %w", maxCaseNumberAttempts, models.ErrDuplicateCaseNumber)
}

// GetCaseByID returns the detail view of an active case.
func (s *Service) GetCaseByID(ctx context.Context, caseID int64) (*models.CaseDetailDTO, error) {
	c, err := s.repo.GetCaseDetailsByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, models.ErrCaseNotFound
	}

	dto := c.ToDetailDTO()
	return &dto, nil
}

// GetAgentWorklist returns an agent's worklist for date, or for today when date is nil.
func (s *Service) GetAgentWorklist(ctx context.Context, userID int64, date *time.Time) ([]models.CaseSummaryDTO, error) {
	day := s.today()
	if date != nil {
		day = truncateDay(*date)
	}

	worklist, err := s.repo.GetAgentWorklist(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if worklist == nil {
		worklist = []models.CaseSummaryDTO{}
	}
	return worklist, nil
}

// GetCases returns one page of active cases.
func (s *Service) GetCases(ctx context.Context, page models.PaginationParams) (models.PagedResponse[models.CaseSummaryDTO], error) {
	cases, total, err := s.repo.GetPaged(ctx, page)
	if err != nil {
		return models.PagedResponse[models.CaseSummaryDTO]{}, err
	}
	return models.NewPagedResponse(toSummaries(cases), page, total), nil
}

// GetCasesByStatus returns one page of cases in a status.
func (s *Service) GetCasesByStatus(ctx context.Context, status string, page models.PaginationParams) (models.PagedResponse[models.CaseSummaryDTO], error) {
	cases, total, err := s.repo.GetCasesByStatus(ctx, status, page)
	if err != nil {
		return models.PagedResponse[models.CaseSummaryDTO]{}, err
	}
	return models.NewPagedResponse(toSummaries(cases), page, total), nil
}

// SearchCases applies a filter and returns the requested page.
func (s *Service) SearchCases(ctx context.Context, filter models.CaseSearchFilter) (models.PagedResponse[models.CaseSummaryDTO], error) {
	page := models.NewPaginationParams(filter.PageNumber, filter.PageSize)
	cases, total, err := s.repo.SearchCases(ctx, filter, page)
	if err != nil {
		return models.PagedResponse[models.CaseSummaryDTO]{}, err
	}
	return models.NewPagedResponse(toSummaries(cases), page, total), nil
}

// GetCasesByDPDBucket returns open cases in a bucket.
func (s *Service) GetCasesByDPDBucket(ctx context.Context, bucket string) ([]models.CaseSummaryDTO, error) {
	cases, err := s.repo.GetCasesByDPDBucket(ctx, bucket)
	if err != nil {
		return nil, err
	}
	return toSummaries(cases), nil
}

// GetCasesNeedingFieldVisit returns open cases flagged for a field visit.
func (s *Service) GetCasesNeedingFieldVisit(ctx context.Context) ([]models.CaseSummaryDTO, error) {
	cases, err := s.repo.GetCasesNeedingFieldVisit(ctx)
	if err != nil {
		return nil, err
	}
	return toSummaries(cases), nil
}

// GetActiveCasesByUser returns an agent's open cases.
func (s *Service) GetActiveCasesByUser(ctx context.Context, userID int64) ([]models.CaseSummaryDTO, error) {
	cases, err := s.repo.GetActiveCasesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSummaries(cases), nil
}

// GetOverduePTPCases returns cases whose active promise to pay has lapsed.
func (s *Service) GetOverduePTPCases(ctx context.Context) ([]models.CaseSummaryDTO, error) {
	cases, err := s.repo.GetOverduePTPCases(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return toSummaries(cases), nil
}

// GetStatusHistory returns the audit trail of a case, newest first.
func (s *Service) GetStatusHistory(ctx context.Context, caseID int64) ([]*models.CaseStatusHistory, error) {
	history, err := s.repo.GetStatusHistory(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*models.CaseStatusHistory{}
	}
	return history, nil
}

// UpdateCaseStatus writes the new status with its history row. Any status
// string is accepted. It returns false when the case does not exist.
func (s *Service) UpdateCaseStatus(ctx context.Context, caseID int64, req *models.UpdateCaseStatusRequest) (bool, error) {
	newStatus := strings.TrimSpace(req.NewStatus)
	if newStatus == "" {
		return false, models.ErrEmptyStatus
	}
	if req.ModifiedBy <= 0 {
		return false, models.ErrMissingActor
	}

	ok, err := s.repo.UpdateCaseStatus(ctx, models.StatusUpdate{
		CaseID:     caseID,
		NewStatus:  newStatus,
		SubStatus:  req.SubStatus,
		Remarks:    req.Remarks,
		ModifiedBy: req.ModifiedBy,
	})
	if err != nil || !ok {
		return false, err
	}

	metrics.StatusChanges.WithLabelValues(newStatus).Inc()
	utils.GetLogger().Info("Case status updated",
		zap.Int64("case_id", caseID),
		zap.String("new_status", newStatus),
		zap.Int64("modified_by", req.ModifiedBy),
	)
	return true, nil
}

// RefreshDelinquency records new DPD and amounts for a case and re-runs
// classification.
func (s *Service) RefreshDelinquency(ctx context.Context, caseID int64, req *models.RefreshDelinquencyRequest) (bool, error) {
	if err := models.ValidateDelinquencyRefresh(req); err != nil {
		return false, err
	}

	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil || c == nil {
		return false, err
	}

	c.CurrentDPD = req.CurrentDPD
	c.DPDBucket = strings.TrimSpace(req.DPDBucket)
	c.OutstandingAmount = req.OutstandingAmount
	c.OverdueAmount = req.OverdueAmount
	c.CasePriority = DeterminePriority(req.CurrentDPD, req.OverdueAmount)
	c.PriorityScore = CalculatePriorityScore(req.CurrentDPD, req.OverdueAmount)
	c.ModifiedBy = &req.ModifiedBy

	return s.repo.Update(ctx, c)
}

// AssignCase hands a case to an agent. The agent is notified when a
// notifier is configured; a failed notice does not fail the assignment.
func (s *Service) AssignCase(ctx context.Context, req *models.AssignCaseRequest) (bool, error) {
	ok, err := s.repo.AssignCaseToUser(ctx, req.CaseID, req.AssignToUserID, req.AssignedBy)
	if err != nil || !ok {
		return false, err
	}

	metrics.Assignments.WithLabelValues(metrics.KindAssign).Inc()
	utils.GetLogger().Info("Case assigned",
		zap.Int64("case_id", req.CaseID),
		zap.Int64("user_id", req.AssignToUserID),
		zap.Int64("assigned_by", req.AssignedBy),
	)

	if err := s.notifyAssignee(ctx, req.CaseID, req.AssignToUserID); err != nil {
		utils.GetLogger().Warn("Failed to send assignment notice",
			zap.Int64("case_id", req.CaseID),
			zap.Int64("user_id", req.AssignToUserID),
			zap.Error(err),
		)
	}
	return true, nil
}

func (s *Service) notifyAssignee(ctx context.Context, caseID, userID int64) error {
	if s.notifier == nil || s.users == nil {
		return nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		return nil
	}

	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	// A concurrent assignment may have moved the case already.
	if c == nil || !c.IsAssignedTo(userID) {
		return nil
	}

	return s.notifier.SendAssignmentNotice(ctx, user, c)
}

// ReassignCase moves a case from one agent to another. It returns false
// when the case is no longer assigned to FromUserID.
func (s *Service) ReassignCase(ctx context.Context, caseID int64, req *models.ReassignCaseRequest) (bool, error) {
	ok, err := s.repo.ReassignCase(ctx, models.Reassignment{
		CaseID:     caseID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Reason:     req.Reason,
		ModifiedBy: req.ModifiedBy,
	})
	if err != nil || !ok {
		return false, err
	}

	metrics.Assignments.WithLabelValues(metrics.KindReassign).Inc()
	utils.GetLogger().Info("Case reassigned",
		zap.Int64("case_id", caseID),
		zap.Int64("from_user_id", req.FromUserID),
		zap.Int64("to_user_id", req.ToUserID),
		zap.String("reason", req.Reason),
	)
	return true, nil
}

// DeleteCase soft-deletes a case.
func (s *Service) DeleteCase(ctx context.Context, caseID int64) (bool, error) {
	return s.repo.Delete(ctx, caseID)
}

// GetCaseStatistics folds the status counts and bucket totals into one summary.
func (s *Service) GetCaseStatistics(ctx context.Context, userID *int64) (*models.CaseStatisticsDTO, error) {
	counts, err := s.repo.GetCaseCountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.GetTotalsByDPDBucket(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.CaseStatisticsDTO{
		ActiveCases:         counts[models.CaseStatusActive],
		ResolvedCases:       counts[models.CaseStatusResolved],
		ClosedCases:         counts[models.CaseStatusClosed],
		TotalOutstanding:    decimal.Zero,
		TotalOverdue:        decimal.Zero,
		CasesByStatus:       counts,
		OutstandingByBucket: make(map[string]decimal.Decimal, len(totals)),
	}
	if stats.CasesByStatus == nil {
		stats.CasesByStatus = map[string]int{}
	}

	for _, n := range counts {
		stats.TotalCases += n
	}
	for bucket, t := range totals {
		stats.OutstandingByBucket[bucket] = t.Outstanding
		stats.TotalOutstanding = stats.TotalOutstanding.Add(t.Outstanding)
		stats.TotalOverdue = stats.TotalOverdue.Add(t.Overdue)
	}

	return stats, nil
}

// ImportCSV creates one case per valid row of an intake file. Row failures
// are counted and reported; only an unusable file returns an error.
func (s *Service) ImportCSV(ctx context.Context, content string, createdBy int64) (*models.IntakeResult, error) {
	if createdBy <= 0 {
		return nil, models.ErrMissingActor
	}

	rows, parseErrs := utils.NewCSVParser().ParseCases(content, createdBy)
	if len(rows) == 0 && len(parseErrs) > 0 &&
		(errors.Is(parseErrs[0], utils.ErrEmptyCSV) || errors.Is(parseErrs[0], utils.ErrMissingColumns)) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIntakeFile, parseErrs[0])
	}

	result := &models.IntakeResult{
		BatchID:      s.newID().String(),
		CreatedCases: []int64{},
	}
	addError := func(msg string) {
		result.Failed++
		metrics.IntakeRows.WithLabelValues(metrics.ResultFailed).Inc()
		if len(result.Errors) < maxReportedErrors {
			result.Errors = append(result.Errors, msg)
		}
	}

	for _, perr := range parseErrs {
		if errors.Is(perr, utils.ErrNoDataRows) {
			continue
		}
		addError(perr.Error())
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := s.CreateCase(ctx, row.Request)
		if err != nil {
			utils.GetLogger().Error("Failed to import case row",
				zap.String("batch_id", result.BatchID),
				zap.Int("line", row.Line),
				zap.Error(err),
			)
			if models.IsValidationError(err) {
				addError(fmt.Sprintf("line %d: %v", row.Line, err))
			} else {
				addError(fmt.Sprintf("line %d: failed to create case", row.Line))
			}
			continue
		}

		result.Created++
		result.CreatedCases = append(result.CreatedCases, id)
		metrics.IntakeRows.WithLabelValues(metrics.ResultCreated).Inc()
	}

	result.Message = fmt.Sprintf("Imported %d of %d cases", result.Created, result.Created+result.Failed)
	utils.GetLogger().Info("Case intake complete",
		zap.String("batch_id", result.BatchID),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) today() time.Time {
	return truncateDay(s.now())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toSummaries(cases []*models.CollectionCase) []models.CaseSummaryDTO {
	summaries := make([]models.CaseSummaryDTO, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, c.ToSummaryDTO())
	}
	return summaries
}
