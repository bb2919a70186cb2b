package cases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"loan-collections-api/internal/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, c *models.CollectionCase) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, c *models.CollectionCase) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, caseID int64) (bool, error) {
	args := m.Called(ctx, caseID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) UpdateCaseStatus(ctx context.Context, upd models.StatusUpdate) (bool, error) {
	args := m.Called(ctx, upd)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) AssignCaseToUser(ctx context.Context, caseID, userID, assignedBy int64) (bool, error) {
	args := m.Called(ctx, caseID, userID, assignedBy)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) ReassignCase(ctx context.Context, re models.Reassignment) (bool, error) {
	args := m.Called(ctx, re)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, caseID int64) (*models.CollectionCase, error) {
	args := m.Called(ctx, caseID)
	c, _ := args.Get(0).(*models.CollectionCase)
	return c, args.Error(1)
}

func (m *mockRepository) GetCaseDetailsByID(ctx context.Context, caseID int64) (*models.CollectionCase, error) {
	args := m.Called(ctx, caseID)
	c, _ := args.Get(0).(*models.CollectionCase)
	return c, args.Error(1)
}

func (m *mockRepository) GetPaged(ctx context.Context, page models.PaginationParams) ([]*models.CollectionCase, int, error) {
	args := m.Called(ctx, page)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Int(1), args.Error(2)
}

func (m *mockRepository) GetActiveCasesByUserID(ctx context.Context, userID int64) ([]*models.CollectionCase, error) {
	args := m.Called(ctx, userID)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Error(1)
}

func (m *mockRepository) GetCasesByStatus(ctx context.Context, status string, page models.PaginationParams) ([]*models.CollectionCase, int, error) {
	args := m.Called(ctx, status, page)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Int(1), args.Error(2)
}

func (m *mockRepository) GetCasesByDPDBucket(ctx context.Context, bucket string) ([]*models.CollectionCase, error) {
	args := m.Called(ctx, bucket)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Error(1)
}

func (m *mockRepository) GetOverduePTPCases(ctx context.Context, today time.Time) ([]*models.CollectionCase, error) {
	args := m.Called(ctx, today)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Error(1)
}

func (m *mockRepository) GetCasesNeedingFieldVisit(ctx context.Context) ([]*models.CollectionCase, error) {
	args := m.Called(ctx)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Error(1)
}

func (m *mockRepository) SearchCases(ctx context.Context, filter models.CaseSearchFilter, page models.PaginationParams) ([]*models.CollectionCase, int, error) {
	args := m.Called(ctx, filter, page)
	cases, _ := args.Get(0).([]*models.CollectionCase)
	return cases, args.Int(1), args.Error(2)
}

func (m *mockRepository) GetAgentWorklist(ctx context.Context, userID int64, date time.Time) ([]models.CaseSummaryDTO, error) {
	args := m.Called(ctx, userID, date)
	worklist, _ := args.Get(0).([]models.CaseSummaryDTO)
	return worklist, args.Error(1)
}

func (m *mockRepository) GetStatusHistory(ctx context.Context, caseID int64) ([]*models.CaseStatusHistory, error) {
	args := m.Called(ctx, caseID)
	history, _ := args.Get(0).([]*models.CaseStatusHistory)
	return history, args.Error(1)
}

func (m *mockRepository) GetCaseCountByStatus(ctx context.Context, userID *int64) (map[string]int, error) {
	args := m.Called(ctx, userID)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *mockRepository) GetTotalsByDPDBucket(ctx context.Context, userID *int64) (map[string]models.BucketTotals, error) {
	args := m.Called(ctx, userID)
	totals, _ := args.Get(0).(map[string]models.BucketTotals)
	return totals, args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendAssignmentNotice(ctx context.Context, user *models.User, c *models.CollectionCase) error {
	args := m.Called(ctx, user, c)
	return args.Error(0)
}
