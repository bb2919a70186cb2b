package server

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"loan-collections-api/internal/models"
	s3service "loan-collections-api/internal/services/s3"
)

type mockCaseService struct {
	mock.Mock
}

func (m *mockCaseService) CreateCase(ctx context.Context, req *models.CreateCaseRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCaseService) GetCaseByID(ctx context.Context, caseID int64) (*models.CaseDetailDTO, error) {
	args := m.Called(ctx, caseID)
	d, _ := args.Get(0).(*models.CaseDetailDTO)
	return d, args.Error(1)
}

func (m *mockCaseService) GetAgentWorklist(ctx context.Context, userID int64, date *time.Time) ([]models.CaseSummaryDTO, error) {
	args := m.Called(ctx, userID, date)
	list, _ := args.Get(0).([]models.CaseSummaryDTO)
	return list, args.Error(1)
}

func (m *mockCaseService) GetCases(ctx context.Context, page models.PaginationParams) (models.PagedResponse[models.CaseSummaryDTO], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(models.PagedResponse[models.CaseSummaryDTO]), args.Error(1)
}

func (m *mockCaseService) GetCasesByStatus(ctx context.Context, status string, page models.PaginationParams) (models.PagedResponse[models.CaseSummaryDTO], error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).(models.PagedResponse[models.CaseSummaryDTO]), args.Error(1)
}

func (m *mockCaseService) SearchCases(ctx context.Context, filter models.CaseSearchFilter) (models.PagedResponse[models.CaseSummaryDTO], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(models.PagedResponse[models.CaseSummaryDTO]), args.Error(1)
}

func (m *mockCaseService) GetCasesByDPDBucket(ctx context.Context, bucket string) ([]models.CaseSummaryDTO, error) {
	args := m.Called(ctx, bucket)
	list, _ := args.Get(0).([]models.CaseSummaryDTO)
	return list, args.Error(1)
}

func (m *mockCaseService) GetCasesNeedingFieldVisit(ctx context.Context) ([]models.CaseSummaryDTO, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.CaseSummaryDTO)
	return list, args.Error(1)
}

func (m *mockCaseService) GetActiveCasesByUser(ctx context.Context, userID int64) ([]models.CaseSummaryDTO, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.CaseSummaryDTO)
	return list, args.Error(1)
}

func (m *mockCaseService) GetOverduePTPCases(ctx context.Context) ([]models.CaseSummaryDTO, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.CaseSummaryDTO)
	return list, args.Error(1)
}

func (m *mockCaseService) GetStatusHistory(ctx context.Context, caseID int64) ([]*models.CaseStatusHistory, error) {
	args := m.Called(ctx, caseID)
	h, _ := args.Get(0).([]*models.CaseStatusHistory)
	return h, args.Error(1)
}

func (m *mockCaseService) UpdateCaseStatus(ctx context.Context, caseID int64, req *models.UpdateCaseStatusRequest) (bool, error) {
	args := m.Called(ctx, caseID, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockCaseService) RefreshDelinquency(ctx context.Context, caseID int64, req *models.RefreshDelinquencyRequest) (bool, error) {
	args := m.Called(ctx, caseID, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockCaseService) AssignCase(ctx context.Context, req *models.AssignCaseRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockCaseService) ReassignCase(ctx context.Context, caseID int64, req *models.ReassignCaseRequest) (bool, error) {
	args := m.Called(ctx, caseID, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockCaseService) DeleteCase(ctx context.Context, caseID int64) (bool, error) {
	args := m.Called(ctx, caseID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCaseService) GetCaseStatistics(ctx context.Context, userID *int64) (*models.CaseStatisticsDTO, error) {
	args := m.Called(ctx, userID)
	st, _ := args.Get(0).(*models.CaseStatisticsDTO)
	return st, args.Error(1)
}

func (m *mockCaseService) ImportCSV(ctx context.Context, content string, createdBy int64) (*models.IntakeResult, error) {
	args := m.Called(ctx, content, createdBy)
	res, _ := args.Get(0).(*models.IntakeResult)
	return res, args.Error(1)
}

type fakeIntake struct {
	fileName string
	expiry   int
	err      error
}

func (f *fakeIntake) GeneratePresignedUploadURL(_ context.Context, fileName string, expiryMinutes int) (*s3service.PresignedURLResult, error) {
	f.fileName = fileName
	f.expiry = expiryMinutes
	if f.err != nil {
		return nil, f.err
	}
	return &s3service.PresignedURLResult{
		URL:    "https://collections-intake-dev.s3.amazonaws.com/uploads/x.csv?X-Amz-Signature=abc",
		Key:    "uploads/x.csv",
		Bucket: "collections-intake-dev",
	}, nil
}

type fakeDB struct {
	err error
}

func (f fakeDB) HealthCheck(context.Context) error {
	return f.err
}
