package cases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loan-collections-api/internal/models"
)

var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestService(repo Repository, users UserLookup, notifier Notifier) *Service {
	svc := NewService(repo, users, notifier)
	svc.now = func() time.Time { return testNow }
	ids := []uuid.UUID{
		uuid.MustParse("abcdef12-3456-4789-8abc-def012345678"),
		uuid.MustParse("0a1b2c3d-4e5f-4a6b-8c7d-8e9f0a1b2c3d"),
		uuid.MustParse("fedcba98-7654-4321-8fed-cba987654321"),
	}
	next := 0
	svc.newID = func() uuid.UUID {
		id := ids[next%len(ids)]
		next++
		return id
	}
	return svc
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

func TestDeterminePriority(t *testing.T) {
	tests := []struct {
		name    string
		dpd     int
		overdue int64
		want    models.CasePriority
	}{
		{"dpd 95 small overdue", 95, 1000, models.PriorityCritical},
		{"dpd exactly 90", 90, 0, models.PriorityCritical},
		{"overdue exactly 500000", 0, 500000, models.PriorityCritical},
		{"dpd 89", 89, 0, models.PriorityHigh},
		{"dpd exactly 30", 30, 0, models.PriorityHigh},
		{"overdue exactly 100000", 0, 100000, models.PriorityHigh},
		{"overdue 499999", 5, 499999, models.PriorityHigh},
		{"dpd 29", 29, 99999, models.PriorityMedium},
		{"dpd exactly 10", 10, 0, models.PriorityMedium},
		{"dpd 9", 9, 99999, models.PriorityLow},
		{"dpd 5 overdue 50", 5, 50, models.PriorityLow},
		{"zero", 0, 0, models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeterminePriority(tt.dpd, decimal.NewFromInt(tt.overdue))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, DeterminePriority(tt.dpd, decimal.NewFromInt(tt.overdue)), "classification must be stable")
		})
	}
}

func TestCalculatePriorityScore(t *testing.T) {
	tests := []struct {
		name    string
		dpd     int
		overdue decimal.Decimal
		want    int
	}{
		{"dpd only", 10, decimal.Zero, 20},
		{"overdue saturates", 0, decimal.NewFromInt(1000000), 100},
		{"overdue floors", 0, decimal.RequireFromString("19999.99"), 1},
		{"both terms", 12, decimal.NewFromInt(55000), 29},
		{"dpd saturates", 60, decimal.Zero, 100},
		{"just under cap", 45, decimal.NewFromInt(99999), 99},
		{"zero", 0, decimal.Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePriorityScore(tt.dpd, tt.overdue))
		})
	}
}

func TestCalculatePriorityScore_BoundedAndMonotonic(t *testing.T) {
	overdues := []int64{0, 5000, 9999, 10000, 99999, 250000, 999999, 5000000}

	for _, overdue := range overdues {
		prev := -1
		for dpd := 0; dpd <= 200; dpd += 3 {
			score := CalculatePriorityScore(dpd, decimal.NewFromInt(overdue))
			require.GreaterOrEqual(t, score, 0)
			require.LessOrEqual(t, score, 100)
			require.GreaterOrEqual(t, score, prev, "score fell as dpd rose (dpd=%d overdue=%d)", dpd, overdue)
			prev = score
		}
	}

	for _, dpd := range []int{0, 7, 30, 49, 90} {
		prev := -1
		for overdue := int64(0); overdue <= 2000000; overdue += 12345 {
			score := CalculatePriorityScore(dpd, decimal.NewFromInt(overdue))
			require.GreaterOrEqual(t, score, prev, "score fell as overdue rose (dpd=%d overdue=%d)", dpd, overdue)
			prev = score
		}
	}
}

func TestCalculatePriorityScore_SaturatesOnHugeInputs(t *testing.T) {
	tests := []struct {
		name    string
		dpd     int
		overdue decimal.Decimal
	}{
		{"overdue at saturation", 0, decimal.NewFromInt(1000000)},
		{"overdue beyond int64", 0, decimal.RequireFromString("100000000000000000000000")},
		{"dpd at saturation", 50, decimal.Zero},
		{"dpd near int64 max", 5000000000000000000, decimal.Zero},
		{"both huge", 1 << 62, decimal.RequireFromString("1e40")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 100, CalculatePriorityScore(tt.dpd, tt.overdue))
		})
	}

	assert.Equal(t, 99, CalculatePriorityScore(0, decimal.RequireFromString("999999.99")))
	assert.Equal(t, 98, CalculatePriorityScore(49, decimal.Zero))
}

func TestNewCaseNumber(t *testing.T) {
	id := uuid.MustParse("abcdef12-3456-4789-8abc-def012345678")

	got := NewCaseNumber(testNow, id)

	assert.Equal(t, "CASE20260310ABCDEF12", got)
	assert.Len(t, got, 20)
}

func validCreateRequest() *models.CreateCaseRequest {
	return &models.CreateCaseRequest{
		CustomerID:        11,
		LoanAccountID:     21,
		CurrentDPD:        45,
		DPDBucket:         "31-60",
		OutstandingAmount: decimal.NewFromInt(250000),
		OverdueAmount:     decimal.NewFromInt(120000),
		CreatedBy:         1,
	}
}

func TestCreateCase_Defaults(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CollectionCase) bool {
		return c.CaseNumber == "CASE20260310ABCDEF12" &&
			c.CaseStatus == models.CaseStatusActive &&
			c.CaseSubStatus != nil && *c.CaseSubStatus == models.SubStatusPendingContact &&
			c.CasePriority == models.PriorityHigh &&
			c.PriorityScore == 100 &&
			c.AssignedToUserID == nil &&
			c.AssignedDate == nil &&
			c.IsActive &&
			c.CreatedDate.Equal(testNow)
	})).Return(int64(501), nil).Once()

	id, err := svc.CreateCase(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(501), id)
	repo.AssertExpectations(t)
}

func TestCreateCase_AssignedSetsAssignedDate(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)

	req := validCreateRequest()
	req.CurrentDPD = 3
	req.OverdueAmount = decimal.NewFromInt(2000)
	req.AssignedToUserID = int64Ptr(5)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CollectionCase) bool {
		return c.AssignedToUserID != nil && *c.AssignedToUserID == 5 &&
			c.AssignedDate != nil && c.AssignedDate.Equal(testNow) &&
			c.CasePriority == models.PriorityLow &&
			c.PriorityScore == 6
	})).Return(int64(502), nil).Once()

	_, err := svc.CreateCase(context.Background(), req)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateCase_RegeneratesNumberOnCollision(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)

	var seen []string
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(*models.CollectionCase).CaseNumber)
		}).
		Return(int64(0), models.ErrDuplicateCaseNumber).Once()
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(*models.CollectionCase).CaseNumber)
		}).
		Return(int64(77), nil).Once()

	id, err := svc.CreateCase(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
	assert.Equal(t, []string{"CASE20260310ABCDEF12", "CASE202603100A1B2C3D"}, seen)
	repo.AssertExpectations(t)
}

func TestCreateCase_GivesUpAfterThreeCollisions(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)

	repo.On("Create", mock.Anything, mock.Anything).
		Return(int64(0), models.ErrDuplicateCaseNumber).Times(3)

	_, err := svc.CreateCase(context.Background(), validCreateRequest())

	assert.ErrorIs(t, err, models.ErrDuplicateCaseNumber)
	repo.AssertNumberOfCalls(t, "Create", 3)
}

func TestCreateCase_OtherFailuresAreNotRetried(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)
	dbErr := errors.New("connection reset")

	repo.On("Create", mock.Anything, mock.Anything).Return(int64(0), dbErr).Once()

	_, err := svc.CreateCase(context.Background(), validCreateRequest())

	assert.ErrorIs(t, err, dbErr)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateCase_ValidationFailsWithoutPersisting(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)

	req := validCreateRequest()
	req.DPDBucket = "   "

	_, err := svc.CreateCase(context.Background(), req)

	assert.ErrorIs(t, err, models.ErrEmptyDPDBucket)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetCaseByID(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetCaseDetailsByID", mock.Anything, int64(9)).Return(nil, nil)

		_, err := newTestService(repo, nil, nil).GetCaseByID(context.Background(), 9)

		assert.ErrorIs(t, err, models.ErrCaseNotFound)
	})

	t.Run("soft deleted", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetCaseDetailsByID", mock.Anything, int64(9)).
			Return(&models.CollectionCase{ID: 9, IsActive: false}, nil)

		_, err := newTestService(repo, nil, nil).GetCaseByID(context.Background(), 9)

		assert.ErrorIs(t, err, models.ErrCaseNotFound)
	})

	t.Run("found", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetCaseDetailsByID", mock.Anything, int64(9)).Return(&models.CollectionCase{
			ID:            9,
			CaseNumber:    "CASE1",
			IsActive:      true,
			TotalPTPsMade: 10,
			PTPsKept:      7,
			Customer:      &models.Customer{FirstName: "Asha", LastName: "Rao", CustomerCode: "C-1"},
		}, nil)

		dto, err := newTestService(repo, nil, nil).GetCaseByID(context.Background(), 9)

		require.NoError(t, err)
		assert.Equal(t, "CASE1", dto.CaseNumber)
		require.NotNil(t, dto.CustomerName)
		assert.Equal(t, "Asha Rao", *dto.CustomerName)
		assert.True(t, decimal.NewFromInt(70).Equal(dto.PTPSuccessRate))
	})
}

func TestGetAgentWorklist_DefaultsToToday(t *testing.T) {
	repo := new(mockRepository)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo.On("GetAgentWorklist", mock.Anything, int64(5), today).Return(nil, nil)

	worklist, err := newTestService(repo, nil, nil).GetAgentWorklist(context.Background(), 5, nil)

	require.NoError(t, err)
	assert.NotNil(t, worklist)
	assert.Empty(t, worklist)
	repo.AssertExpectations(t)
}

func TestGetAgentWorklist_UsesRequestedDate(t *testing.T) {
	repo := new(mockRepository)
	requested := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.CaseSummaryDTO{{CaseID: 1, PriorityScore: 90}}
	repo.On("GetAgentWorklist", mock.Anything, int64(5), day).Return(rows, nil)

	worklist, err := newTestService(repo, nil, nil).GetAgentWorklist(context.Background(), 5, &requested)

	require.NoError(t, err)
	assert.Equal(t, rows, worklist)
}

func TestGetCasesByStatus_PagesSummaries(t *testing.T) {
	repo := new(mockRepository)
	page := models.NewPaginationParams(2, 2)
	repo.On("GetCasesByStatus", mock.Anything, "Active", page).Return([]*models.CollectionCase{
		{ID: 3, CaseNumber: "CASE3", CaseStatus: "Active"},
		{ID: 4, CaseNumber: "CASE4", CaseStatus: "Active", AssignedUser: &models.User{FirstName: "Vikram", LastName: "Shah"}},
	}, 5, nil)

	paged, err := newTestService(repo, nil, nil).GetCasesByStatus(context.Background(), "Active", page)

	require.NoError(t, err)
	require.Len(t, paged.Items, 2)
	assert.Equal(t, models.Unassigned, paged.Items[0].AssignedToUserName)
	assert.Equal(t, models.NotAvailable, paged.Items[0].CustomerName)
	assert.Equal(t, "Vikram Shah", paged.Items[1].AssignedToUserName)
	assert.Equal(t, 5, paged.TotalCount)
	assert.Equal(t, 3, paged.TotalPages)
	assert.True(t, paged.HasPreviousPage)
	assert.True(t, paged.HasNextPage)
}

func TestUpdateCaseStatus(t *testing.T) {
	t.Run("passes the change through", func(t *testing.T) {
		repo := new(mockRepository)
		remarks := strPtr("paid in full")
		repo.On("UpdateCaseStatus", mock.Anything, models.StatusUpdate{
			CaseID:     42,
			NewStatus:  "Resolved",
			Remarks:    remarks,
			ModifiedBy: 7,
		}).Return(true, nil)

		ok, err := newTestService(repo, nil, nil).UpdateCaseStatus(context.Background(), 42, &models.UpdateCaseStatusRequest{
			NewStatus:  " Resolved ",
			Remarks:    remarks,
			ModifiedBy: 7,
		})

		require.NoError(t, err)
		assert.True(t, ok)
		repo.AssertExpectations(t)
	})

	t.Run("any status string is accepted", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("UpdateCaseStatus", mock.Anything, mock.MatchedBy(func(u models.StatusUpdate) bool {
			return u.NewStatus == "Legal Review"
		})).Return(true, nil)

		ok, err := newTestService(repo, nil, nil).UpdateCaseStatus(context.Background(), 42, &models.UpdateCaseStatusRequest{
			NewStatus: "Legal Review", ModifiedBy: 7,
		})

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing case", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("UpdateCaseStatus", mock.Anything, mock.Anything).Return(false, nil)

		ok, err := newTestService(repo, nil, nil).UpdateCaseStatus(context.Background(), 404, &models.UpdateCaseStatusRequest{
			NewStatus: "Closed", ModifiedBy: 7,
		})

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty status", func(t *testing.T) {
		repo := new(mockRepository)

		_, err := newTestService(repo, nil, nil).UpdateCaseStatus(context.Background(), 42, &models.UpdateCaseStatusRequest{
			NewStatus: "  ", ModifiedBy: 7,
		})

		assert.ErrorIs(t, err, models.ErrEmptyStatus)
		repo.AssertNotCalled(t, "UpdateCaseStatus", mock.Anything, mock.Anything)
	})

	t.Run("transaction failure propagates", func(t *testing.T) {
		repo := new(mockRepository)
		txErr := errors.New("failed to record status history")
		repo.On("UpdateCaseStatus", mock.Anything, mock.Anything).Return(false, txErr)

		ok, err := newTestService(repo, nil, nil).UpdateCaseStatus(context.Background(), 42, &models.UpdateCaseStatusRequest{
			NewStatus: "Closed", ModifiedBy: 7,
		})

		assert.ErrorIs(t, err, txErr)
		assert.False(t, ok)
	})
}

func TestAssignCase_SendsNotice(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockUsers)
	notifier := new(mockNotifier)

	agent := &models.User{ID: 5, FirstName: "Vikram", LastName: "Shah", Email: "vikram@example.com"}
	c := &models.CollectionCase{ID: 42, CaseNumber: "CASE1", AssignedToUserID: int64Ptr(5), IsActive: true}

	repo.On("AssignCaseToUser", mock.Anything, int64(42), int64(5), int64(1)).Return(true, nil)
	users.On("GetByID", mock.Anything, int64(5)).Return(agent, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(c, nil)
	notifier.On("SendAssignmentNotice", mock.Anything, agent, c).Return(nil).Once()

	ok, err := newTestService(repo, users, notifier).AssignCase(context.Background(), &models.AssignCaseRequest{
		CaseID: 42, AssignToUserID: 5, AssignedBy: 1,
	})

	require.NoError(t, err)
	assert.True(t, ok)
	notifier.AssertExpectations(t)
}

func TestAssignCase_NoticeFailureDoesNotFailAssignment(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockUsers)
	notifier := new(mockNotifier)

	agent := &models.User{ID: 5, Email: "vikram@example.com"}
	repo.On("AssignCaseToUser", mock.Anything, int64(42), int64(5), int64(1)).Return(true, nil)
	users.On("GetByID", mock.Anything, int64(5)).Return(agent, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&models.CollectionCase{ID: 42, AssignedToUserID: int64Ptr(5)}, nil)
	notifier.On("SendAssignmentNotice", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("throttled")).Once()

	ok, err := newTestService(repo, users, notifier).AssignCase(context.Background(), &models.AssignCaseRequest{
		CaseID: 42, AssignToUserID: 5, AssignedBy: 1,
	})

	require.NoError(t, err)
	assert.True(t, ok)
	notifier.AssertExpectations(t)
}

func TestAssignCase_CaseMovedBeforeNoticeSkipsIt(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockUsers)
	notifier := new(mockNotifier)

	agent := &models.User{ID: 5, Email: "vikram@example.com"}
	repo.On("AssignCaseToUser", mock.Anything, int64(42), int64(5), int64(1)).Return(true, nil)
	users.On("GetByID", mock.Anything, int64(5)).Return(agent, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&models.CollectionCase{ID: 42, AssignedToUserID: int64Ptr(6)}, nil)

	ok, err := newTestService(repo, users, notifier).AssignCase(context.Background(), &models.AssignCaseRequest{
		CaseID: 42, AssignToUserID: 5, AssignedBy: 1,
	})

	require.NoError(t, err)
	assert.True(t, ok)
	notifier.AssertNotCalled(t, "SendAssignmentNotice", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignCase_MissingCaseSkipsNotice(t *testing.T) {
	repo := new(mockRepository)
	users := new(mockUsers)
	notifier := new(mockNotifier)

	repo.On("AssignCaseToUser", mock.Anything, int64(404), int64(5), int64(1)).Return(false, nil)

	ok, err := newTestService(repo, users, notifier).AssignCase(context.Background(), &models.AssignCaseRequest{
		CaseID: 404, AssignToUserID: 5, AssignedBy: 1,
	})

	require.NoError(t, err)
	assert.False(t, ok)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendAssignmentNotice", mock.Anything, mock.Anything, mock.Anything)
}

func TestReassignCase_Guard(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ReassignCase", mock.Anything, models.Reassignment{
		CaseID: 42, FromUserID: 5, ToUserID: 6, Reason: "leave", ModifiedBy: 1,
	}).Return(false, nil)

	ok, err := newTestService(repo, nil, nil).ReassignCase(context.Background(), 42, &models.ReassignCaseRequest{
		FromUserID: 5, ToUserID: 6, Reason: "leave", ModifiedBy: 1,
	})

	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertExpectations(t)
}

func TestGetCaseStatistics(t *testing.T) {
	repo := new(mockRepository)
	userID := int64Ptr(5)

	repo.On("GetCaseCountByStatus", mock.Anything, userID).Return(map[string]int{
		"Active":    3,
		"Follow-Up": 2,
		"Closed":    1,
	}, nil)
	repo.On("GetTotalsByDPDBucket", mock.Anything, userID).Return(map[string]models.BucketTotals{
		"0-30":    {Outstanding: decimal.NewFromInt(1000), Overdue: decimal.NewFromInt(100)},
		"31-60":   {Outstanding: decimal.NewFromInt(2500), Overdue: decimal.NewFromInt(400)},
		"Unknown": {Outstanding: decimal.NewFromInt(50), Overdue: decimal.NewFromInt(5)},
	}, nil)

	stats, err := newTestService(repo, nil, nil).GetCaseStatistics(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalCases)
	assert.Equal(t, 3, stats.ActiveCases)
	assert.Equal(t, 0, stats.ResolvedCases, "absent statuses default to zero")
	assert.Equal(t, 1, stats.ClosedCases)
	assert.True(t, decimal.NewFromInt(3550).Equal(stats.TotalOutstanding))
	assert.True(t, decimal.NewFromInt(505).Equal(stats.TotalOverdue))
	assert.True(t, decimal.NewFromInt(2500).Equal(stats.OutstandingByBucket["31-60"]))
	assert.Len(t, stats.CasesByStatus, 3)
}

func TestGetCaseStatistics_Empty(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetCaseCountByStatus", mock.Anything, (*int64)(nil)).Return(map[string]int{}, nil)
	repo.On("GetTotalsByDPDBucket", mock.Anything, (*int64)(nil)).Return(map[string]models.BucketTotals{}, nil)

	stats, err := newTestService(repo, nil, nil).GetCaseStatistics(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, stats.TotalCases)
	assert.True(t, stats.TotalOutstanding.IsZero())
	assert.NotNil(t, stats.OutstandingByBucket)
}

func TestGetOverduePTPCases_UsesToday(t *testing.T) {
	repo := new(mockRepository)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	repo.On("GetOverduePTPCases", mock.Anything, today).Return([]*models.CollectionCase{{ID: 1}}, nil)

	summaries, err := newTestService(repo, nil, nil).GetOverduePTPCases(context.Background())

	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestGetStatusHistory_EmptyIsNotNil(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetStatusHistory", mock.Anything, int64(42)).Return(nil, nil)

	history, err := newTestService(repo, nil, nil).GetStatusHistory(context.Background(), 42)

	require.NoError(t, err)
	assert.NotNil(t, history)
}

func TestRefreshDelinquency_Reclassifies(t *testing.T) {
	repo := new(mockRepository)
	existing := &models.CollectionCase{ID: 42, CurrentDPD: 5, CasePriority: models.PriorityLow, IsActive: true}
	repo.On("GetByID", mock.Anything, int64(42)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *models.CollectionCase) bool {
		return c.CurrentDPD == 95 &&
			c.DPDBucket == "91-120" &&
			c.CasePriority == models.PriorityCritical &&
			c.PriorityScore == 100 &&
			c.ModifiedBy != nil && *c.ModifiedBy == 3
	})).Return(true, nil)

	ok, err := newTestService(repo, nil, nil).RefreshDelinquency(context.Background(), 42, &models.RefreshDelinquencyRequest{
		CurrentDPD:        95,
		DPDBucket:         "91-120",
		OutstandingAmount: decimal.NewFromInt(300000),
		OverdueAmount:     decimal.NewFromInt(20000),
		ModifiedBy:        3,
	})

	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestRefreshDelinquency_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		req     models.RefreshDelinquencyRequest
		wantErr error
	}{
		{"dpd beyond integer column", models.RefreshDelinquencyRequest{CurrentDPD: models.MaxDPD + 1, DPDBucket: "91+", ModifiedBy: 3}, models.ErrInvalidDPD},
		{"overdue beyond numeric column", models.RefreshDelinquencyRequest{CurrentDPD: 1, DPDBucket: "0-30", OverdueAmount: decimal.RequireFromString("1e23"), ModifiedBy: 3}, models.ErrInvalidAmount},
		{"negative outstanding", models.RefreshDelinquencyRequest{CurrentDPD: 1, DPDBucket: "0-30", OutstandingAmount: decimal.NewFromInt(-5), ModifiedBy: 3}, models.ErrInvalidAmount},
		{"missing actor", models.RefreshDelinquencyRequest{CurrentDPD: 1, DPDBucket: "0-30"}, models.ErrMissingActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)

			ok, err := newTestService(repo, nil, nil).RefreshDelinquency(context.Background(), 42, &tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, ok)
			repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestRefreshDelinquency_MissingCase(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	ok, err := newTestService(repo, nil, nil).RefreshDelinquency(context.Background(), 404, &models.RefreshDelinquencyRequest{
		CurrentDPD: 1, DPDBucket: "0-30", ModifiedBy: 3,
	})

	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestImportCSV(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, nil, nil)

	content := "customer_id,loan_account_id,current_dpd,dpd_bucket,outstanding_amount,overdue_amount\n" +
		"11,21,45,31-60,250000,120000\n" +
		"12,22,-1,0-30,100,10\n" +
		"13,23,5,0-30,100,10\n"

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CollectionCase) bool {
		return c.CustomerID == 11
	})).Return(int64(100), nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CollectionCase) bool {
		return c.CustomerID == 13
	})).Return(int64(0), errors.New("insert or update violates foreign key constraint")).Once()

	result, err := svc.ImportCSV(context.Background(), content, 9)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []int64{100}, result.CreatedCases)
	assert.Equal(t, "Imported 1 of 3 cases", result.Message)
	assert.NotEmpty(t, result.BatchID)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "line 3")
	assert.Equal(t, "line 4: failed to create case", result.Errors[1])
	repo.AssertExpectations(t)
}

func TestImportCSV_InvalidFile(t *testing.T) {
	repo := new(mockRepository)

	_, err := newTestService(repo, nil, nil).ImportCSV(context.Background(), "customer_id,dpd\n1,2", 9)

	assert.ErrorIs(t, err, ErrInvalidIntakeFile)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportCSV_RequiresActor(t *testing.T) {
	_, err := newTestService(new(mockRepository), nil, nil).ImportCSV(context.Background(), "x", 0)

	assert.ErrorIs(t, err, models.ErrMissingActor)
}
