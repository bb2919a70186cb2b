package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"loan-collections-api/internal/models"
	"loan-collections-api/internal/services/cases"
	s3service "loan-collections-api/internal/services/s3"
	"loan-collections-api/internal/utils"
)

// ObjectStore reads and archives intake files in one bucket.
type ObjectStore interface {
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	ArchiveFile(ctx context.Context, key string) (string, error)
}

// Importer turns CSV content into cases.
type Importer interface {
	ImportCSV(ctx context.Context, content string, createdBy int64) (*models.IntakeResult, error)
}

// CaseIntakeHandler handles S3 ObjectCreated events on the intake bucket.
type CaseIntakeHandler struct {
	storeFor  func(bucket string) ObjectStore
	importer  Importer
	createdBy int64
}

// NewCaseIntakeHandler creates an intake handler. storeFor returns the
// object store for the bucket named in an event record.
func NewCaseIntakeHandler(storeFor func(bucket string) ObjectStore, importer Importer, createdBy int64) *CaseIntakeHandler {
	return &CaseIntakeHandler{
		storeFor:  storeFor,
		importer:  importer,
		createdBy: createdBy,
	}
}

// IntakeFileResult is the outcome for one uploaded object.
type IntakeFileResult struct {
	Bucket      string               `json:"bucket"`
	Key         string               `json:"key"`
	ArchivedKey string               `json:"archived_key,omitempty"`
	Result      *models.IntakeResult `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// IntakeSummary is returned to the Lambda runtime.
type IntakeSummary struct {
	Message string             `json:"message"`
	Created int                `json:"created"`
	Failed  int                `json:"failed"`
	Files   []IntakeFileResult `json:"files"`
}

// Handle imports every CSV object named in the event.
func (h *CaseIntakeHandler) Handle(ctx context.Context, s3Event events.S3Event) (IntakeSummary, error) {
	logger := utils.GetLogger()
	summary := IntakeSummary{Files: []IntakeFileResult{}}

	if len(s3Event.Records) == 0 {
		summary.Message = "No records to process"
		return summary, nil
	}

	for _, record := range s3Event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return summary, fmt.Errorf("failed to decode S3 key: %w", err)
		}

		if strings.HasPrefix(key, s3service.ProcessedPrefix) || !strings.HasSuffix(strings.ToLower(key), ".csv") {
			logger.Debug("Skipping object", utils.String("bucket", bucket), utils.String("key", key))
			continue
		}

		logger.Info("Processing intake file",
			utils.String("bucket", bucket),
			utils.String("key", key))

		file, err := h.processObject(ctx, bucket, key)
		if err != nil {
			return summary, err
		}
		if file.Result != nil {
			summary.Created += file.Result.Created
			summary.Failed += file.Result.Failed
		}
		summary.Files = append(summary.Files, file)
	}

	summary.Message = fmt.Sprintf("Processed %d file(s): %d cases created, %d rows failed",
		len(summary.Files), summary.Created, summary.Failed)
	return summary, nil
}

func (h *CaseIntakeHandler) processObject(ctx context.Context, bucket, key string) (IntakeFileResult, error) {
	logger := utils.GetLogger()
	file := IntakeFileResult{Bucket: bucket, Key: key}
	store := h.storeFor(bucket)

	content, err := store.DownloadFile(ctx, key)
	if err != nil {
		logger.Error("Failed to download intake file", utils.Error(err))
		return file, fmt.Errorf("failed to download %s: %w", key, err)
	}

	result, err := h.importer.ImportCSV(ctx, string(content), h.createdBy)
	if errors.Is(err, cases.ErrInvalidIntakeFile) {
		// Leave the object where it is so it can be inspected and re-uploaded.
		logger.Warn("Rejected intake file", utils.String("key", key), utils.Error(err))
		file.Error = err.Error()
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("failed to import %s: %w", key, err)
	}
	file.Result = result

	logger.Info("Imported intake file",
		utils.String("key", key),
		utils.String("batchID", result.BatchID),
		utils.Int("created", result.Created),
		utils.Int("failed", result.Failed))

	archived, err := store.ArchiveFile(ctx, key)
	if err != nil {
		logger.Warn("Failed to archive file", utils.String("key", key), utils.Error(err))
		return file, nil
	}
	file.ArchivedKey = archived

	return file, nil
}
