// Package s3service stores and archives case intake files in S3.
package s3service

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "loan-collections-api/internal/config"
	"loan-collections-api/internal/utils"
)

// Key prefixes inside the intake bucket.
const (
	UploadPrefix    = "uploads/"
	ProcessedPrefix = "processed/"

	csvContentType       = "text/csv"
	defaultExpiryMinutes = 15
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectAPI is the part of *s3.Client the service calls.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Service handles intake file operations.
type Service struct {
	client     objectAPI
	presigner  *s3.PresignClient
	bucketName string
	now        func() time.Time
}

// PresignedURLResult contains the presigned URL details
type PresignedURLResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	Bucket    string    `json:"bucket"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewService creates an S3 service for the configured intake bucket.
func NewService(ctx context.Context, cfg *appConfig.Config) (*Service, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &Service{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: cfg.IntakeBucket,
		now:        time.Now,
	}, nil
}

// Bucket returns the bucket the service works on.
func (s *Service) Bucket() string {
	return s.bucketName
}

// ForBucket returns a copy of the service bound to another bucket.
func (s *Service) ForBucket(bucket string) *Service {
	clone := *s
	clone.bucketName = bucket
	return &clone
}

// IntakeKey builds a unique upload key for a user supplied file name.
func IntakeKey(now time.Time, id uuid.UUID, fileName string) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	base = strings.Trim(unsafeKeyChars.ReplaceAllString(base, "_"), "_")
	if base == "" || base == "." {
		base = "cases"
	}
	return fmt.Sprintf("%s%s/%s-%s.csv", UploadPrefix, now.UTC().Format("2006-01-02"), id.String(), base)
}

// ProcessedKey is where an intake file is archived after import.
func ProcessedKey(key string) string {
	return ProcessedPrefix + strings.TrimPrefix(key, UploadPrefix)
}

// GeneratePresignedUploadURL creates a presigned PUT URL for a new intake CSV.
func (s *Service) GeneratePresignedUploadURL(ctx context.Context, fileName string, expiryMinutes int) (*PresignedURLResult, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = defaultExpiryMinutes
	}
	expiry := time.Duration(expiryMinutes) * time.Minute
	key := IntakeKey(s.now(), uuid.New(), fileName)

	presignedReq, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(csvContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		utils.GetLogger().Error("Failed to generate presigned URL",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	utils.GetLogger().Info("Generated presigned upload URL",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("expiry_minutes", expiryMinutes),
	)

	return &PresignedURLResult{
		URL:       presignedReq.URL,
		Key:       key,
		Bucket:    s.bucketName,
		ExpiresAt: s.now().Add(expiry),
	}, nil
}

// DownloadFile downloads an object from the bucket.
func (s *Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		utils.GetLogger().Error("Failed to download file from S3",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	utils.GetLogger().Info("Downloaded file from S3",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return data, nil
}

// ArchiveFile moves an imported file under ProcessedPrefix and returns the new key.
func (s *Service) ArchiveFile(ctx context.Context, key string) (string, error) {
	dest := ProcessedKey(key)
	if err := s.MoveFile(ctx, key, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// MoveFile moves a file within the bucket (copy + delete).
func (s *Service) MoveFile(ctx context.Context, sourceKey, destKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucketName),
		CopySource: aws.String(s.bucketName + "/" + sourceKey),
		Key:        aws.String(destKey),
	})
	if err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(sourceKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	utils.GetLogger().Info("Moved file in S3",
		zap.String("bucket", s.bucketName),
		zap.String("source", sourceKey),
		zap.String("destination", destKey),
	)

	return nil
}
