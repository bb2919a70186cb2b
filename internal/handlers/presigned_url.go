package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	json "github.com/goccy/go-json"

	s3service "loan-collections-api/internal/services/s3"
	"loan-collections-api/internal/utils"
)

// UploadURLSigner issues presigned PUT URLs for intake files.
type UploadURLSigner interface {
	GeneratePresignedUploadURL(ctx context.Context, fileName string, expiryMinutes int) (*s3service.PresignedURLResult, error)
}

// PresignedURLHandler handles API Gateway requests for intake upload URLs.
type PresignedURLHandler struct {
	signer UploadURLSigner
}

// NewPresignedURLHandler creates a new presigned URL handler.
func NewPresignedURLHandler(signer UploadURLSigner) *PresignedURLHandler {
	return &PresignedURLHandler{signer: signer}
}

// PresignedURLRequest is the request body for a presigned URL.
type PresignedURLRequest struct {
	FileName      string `json:"file_name"`
	ExpiryMinutes int    `json:"expiry_minutes,omitempty"`
}

// PresignedURLResponse is the response body for a presigned URL.
type PresignedURLResponse struct {
	UploadURL string `json:"upload_url"`
	S3Key     string `json:"s3_key"`
	ExpiresAt string `json:"expires_at"`
}

// Handle processes API Gateway requests for presigned upload URLs.
func (h *PresignedURLHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
		"Content-Type":                 "application/json",
	}

	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: headers}, nil
	}

	var req PresignedURLRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(headers, http.StatusBadRequest, "Invalid request body")
	}

	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" {
		return errorResponse(headers, http.StatusBadRequest, "file_name is required")
	}
	if !strings.HasSuffix(strings.ToLower(req.FileName), ".csv") {
		return errorResponse(headers, http.StatusBadRequest, "Only CSV files are allowed")
	}
	if req.ExpiryMinutes < 0 || req.ExpiryMinutes > 60 {
		return errorResponse(headers, http.StatusBadRequest, "expiry_minutes must be between 0 and 60")
	}

	result, err := h.signer.GeneratePresignedUploadURL(ctx, req.FileName, req.ExpiryMinutes)
	if err != nil {
		logger.Error("Failed to generate presigned URL", utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Failed to generate upload URL")
	}

	body, err := json.Marshal(PresignedURLResponse{
		UploadURL: result.URL,
		S3Key:     result.Key,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errorResponse(headers, http.StatusInternalServerError, "Failed to encode response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(map[string]string{
		"error":   http.StatusText(statusCode),
		"message": message,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
