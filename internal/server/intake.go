package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"loan-collections-api/internal/models"
	"loan-collections-api/internal/services/cases"
	"loan-collections-api/internal/utils"
)

const maxUploadBytes = 10 << 20

// UploadURLRequest asks for a presigned intake upload.
type UploadURLRequest struct {
	FileName      string `json:"file_name" validate:"required,max=255"`
	ExpiryMinutes int    `json:"expiry_minutes,omitempty" validate:"gte=0,lte=60"`
}

func (s *Server) uploadURL(w http.ResponseWriter, r *http.Request) {
	if s.intake == nil {
		respondError(w, http.StatusServiceUnavailable, "Intake storage is not configured")
		return
	}

	var req UploadURLRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !strings.HasSuffix(strings.ToLower(req.FileName), ".csv") {
		respondError(w, http.StatusBadRequest, "Only CSV files are allowed")
		return
	}

	result, err := s.intake.GeneratePresignedUploadURL(r.Context(), req.FileName, req.ExpiryMinutes)
	if err != nil {
		respondInternal(w, r, "generate upload url", err, zap.String("file_name", req.FileName))
		return
	}
	respondOK(w, http.StatusOK, result, "Upload URL generated")
}

func (s *Server) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form", err.Error())
		return
	}

	createdBy, err := strconv.ParseInt(r.FormValue("created_by"), 10, 64)
	if err != nil || createdBy <= 0 {
		respondError(w, http.StatusBadRequest, "created_by must be a positive integer")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "Only CSV files are allowed")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondInternal(w, r, "read upload", err, zap.String("file_name", header.Filename))
		return
	}

	utils.GetLogger().Info("Processing case intake upload",
		zap.String("file_name", header.Filename),
		zap.Int64("size", header.Size),
		zap.Int64("created_by", createdBy),
	)

	result, err := s.cases.ImportCSV(r.Context(), string(content), createdBy)
	if errors.Is(err, cases.ErrInvalidIntakeFile) || models.IsValidationError(err) {
		respondError(w, http.StatusBadRequest, "Invalid intake file", err.Error())
		return
	}
	if err != nil {
		respondInternal(w, r, "import cases", err, zap.String("file_name", header.Filename))
		return
	}
	respondOK(w, http.StatusOK, result, result.Message)
}
