package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"loan-collections-api/internal/models"
)

const dateLayout = "2006-01-02"

func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	detail, err := s.cases.GetCaseByID(r.Context(), id)
	if errors.Is(err, models.ErrCaseNotFound) {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}
	if err != nil {
		respondInternal(w, r, "get case", err, zap.Int64("case_id", id))
		return
	}
	respondOK(w, http.StatusOK, detail, "")
}

func (s *Server) agentWorklist(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userId")
	if !ok {
		return
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = &d
	}

	worklist, err := s.cases.GetAgentWorklist(r.Context(), userID, date)
	if err != nil {
		respondInternal(w, r, "get worklist", err, zap.Int64("user_id", userID))
		return
	}
	respondOK(w, http.StatusOK, worklist, "")
}

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	result, err := s.cases.GetCases(r.Context(), page)
	if err != nil {
		respondInternal(w, r, "list cases", err)
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) casesByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	result, err := s.cases.GetCasesByStatus(r.Context(), status, page)
	if err != nil {
		respondInternal(w, r, "get cases by status", err, zap.String("status", status))
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) searchCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	filter := models.CaseSearchFilter{
		CaseNumber:        strings.TrimSpace(q.Get("caseNumber")),
		CustomerName:      strings.TrimSpace(q.Get("customerName")),
		LoanAccountNumber: strings.TrimSpace(q.Get("loanAccountNumber")),
		DPDBucket:         strings.TrimSpace(q.Get("dpdBucket")),
		CaseStatus:        strings.TrimSpace(q.Get("caseStatus")),
		PageNumber:        page.PageNumber,
		PageSize:          page.PageSize,
	}
	if raw := q.Get("assignedToUserId"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			respondError(w, http.StatusBadRequest, "assignedToUserId must be a positive integer")
			return
		}
		filter.AssignedToUserID = &userID
	}

	result, err := s.cases.SearchCases(r.Context(), filter)
	if err != nil {
		respondInternal(w, r, "search cases", err)
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) casesByBucket(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	result, err := s.cases.GetCasesByDPDBucket(r.Context(), bucket)
	if err != nil {
		respondInternal(w, r, "get cases by bucket", err, zap.String("bucket", bucket))
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) fieldVisitCases(w http.ResponseWriter, r *http.Request) {
	result, err := s.cases.GetCasesNeedingFieldVisit(r.Context())
	if err != nil {
		respondInternal(w, r, "get field visit cases", err)
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) activeCasesByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userId")
	if !ok {
		return
	}
	result, err := s.cases.GetActiveCasesByUser(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, "get active cases", err, zap.Int64("user_id", userID))
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) overduePTPCases(w http.ResponseWriter, r *http.Request) {
	result, err := s.cases.GetOverduePTPCases(r.Context())
	if err != nil {
		respondInternal(w, r, "get overdue ptp cases", err)
		return
	}
	respondOK(w, http.StatusOK, result, "")
}

func (s *Server) statusHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	history, err := s.cases.GetStatusHistory(r.Context(), id)
	if err != nil {
		respondInternal(w, r, "get status history", err, zap.Int64("case_id", id))
		return
	}
	respondOK(w, http.StatusOK, history, "")
}

func (s *Server) caseStatistics(w http.ResponseWriter, r *http.Request) {
	var userID *int64
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "userId must be an integer")
			return
		}
		userID = &id
	}

	stats, err := s.cases.GetCaseStatistics(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, "get statistics", err)
		return
	}
	respondOK(w, http.StatusOK, stats, "")
}

func (s *Server) createCase(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := s.cases.CreateCase(r.Context(), &req)
	if models.IsValidationError(err) {
		respondError(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}
	if err != nil {
		respondInternal(w, r, "create case", err,
			zap.Int64("customer_id", req.CustomerID),
			zap.Int64("loan_account_id", req.LoanAccountID),
		)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/cases/%d", id))
	respondOK(w, http.StatusCreated, id, "Case created successfully")
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	var req models.UpdateCaseStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.cases.UpdateCaseStatus(r.Context(), id, &req)
	if models.IsValidationError(err) {
		respondError(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}
	if err != nil {
		respondInternal(w, r, "update case status", err, zap.Int64("case_id", id))
		return
	}
	if !updated {
		respondError(w, http.StatusNotFound, "Case not found or update failed")
		return
	}
	respondOK(w, http.StatusOK, true, "Case status updated successfully")
}

func (s *Server) refreshDelinquency(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	var req models.RefreshDelinquencyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.cases.RefreshDelinquency(r.Context(), id, &req)
	if errors.Is(err, models.ErrCaseNotFound) {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}
	if models.IsValidationError(err) {
		respondError(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}
	if err != nil {
		respondInternal(w, r, "refresh delinquency", err, zap.Int64("case_id", id))
		return
	}
	if !updated {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}
	respondOK(w, http.StatusOK, true, "Case delinquency updated successfully")
}

func (s *Server) assignCase(w http.ResponseWriter, r *http.Request) {
	var req models.AssignCaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	assigned, err := s.cases.AssignCase(r.Context(), &req)
	if err != nil {
		respondInternal(w, r, "assign case", err,
			zap.Int64("case_id", req.CaseID),
			zap.Int64("user_id", req.AssignToUserID),
		)
		return
	}
	if !assigned {
		respondError(w, http.StatusBadRequest, "Assignment failed")
		return
	}
	respondOK(w, http.StatusOK, true, "Case assigned successfully")
}

func (s *Server) reassignCase(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	var req models.ReassignCaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	moved, err := s.cases.ReassignCase(r.Context(), id, &req)
	if err != nil {
		respondInternal(w, r, "reassign case", err,
			zap.Int64("case_id", id),
			zap.Int64("from_user_id", req.FromUserID),
			zap.Int64("to_user_id", req.ToUserID),
		)
		return
	}
	if !moved {
		respondError(w, http.StatusConflict, "Case is not assigned to from_user_id")
		return
	}
	respondOK(w, http.StatusOK, true, "Case reassigned successfully")
}

func (s *Server) deleteCase(w http.ResponseWriter, r *http.Request) {
	id, ok := caseIDParam(w, r)
	if !ok {
		return
	}

	deleted, err := s.cases.DeleteCase(r.Context(), id)
	if err != nil {
		respondInternal(w, r, "delete case", err, zap.Int64("case_id", id))
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}
	respondOK(w, http.StatusOK, true, "Case deleted successfully")
}

func caseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return int64Param(w, r, "id")
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return v, true
}

// pageParams reads pageNumber and pageSize, applying defaults and the size cap.
func pageParams(w http.ResponseWriter, r *http.Request) (models.PaginationParams, bool) {
	q := r.URL.Query()
	number, err1 := optionalInt(q.Get("pageNumber"))
	size, err2 := optionalInt(q.Get("pageSize"))
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidPagination.Error())
		return models.PaginationParams{}, false
	}
	return models.NewPaginationParams(number, size), true
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseDate(raw string) (time.Time, error) {
	if d, err := time.Parse(dateLayout, raw); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, raw)
}
