package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"climbtracker/internal/config"
	"climbtracker/internal/model"
	"climbtracker/internal/repository"
)

// MediaService issues presigned uploads for session photos and clips to an
// S3-compatible bucket (Cloudflare R2 in production).
type MediaService struct {
	presigner   *s3.PresignClient
	bucket      string
	publicURL   string
	sessionRepo repository.SessionRepository
}

// NewMediaService builds the S3 client from the storage settings in cfg.
func NewMediaService(ctx context.Context, cfg *config.Config, sessionRepo repository.SessionRepository) (*MediaService, error) {
	if !cfg.MediaEnabled() {
		return nil, fmt.Errorf("missing object storage configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		presigner:   s3.NewPresignClient(s3Client),
		bucket:      cfg.S3Bucket,
		publicURL:   strings.TrimSuffix(cfg.S3PublicURL, "/"),
		sessionRepo: sessionRepo,
	}, nil
}

// PresignSessionUpload returns a presigned PUT URL for one media file attached
// to the session. The client uploads directly to storage.
func (s *MediaService) PresignSessionUpload(ctx context.Context, sessionID uuid.UUID, req *model.PresignUploadRequest) (*model.PresignUploadResponse, error) {
	contentType := strings.TrimSpace(strings.ToLower(req.ContentType))
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	ext, ok := model.MediaExtension(contentType)
	if !ok {
		return nil, model.ErrInvalidContentType
	}
	if req.FileSize > model.MaxSessionMediaSize {
		return nil, model.ErrFileTooLarge
	}

	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !exists {
		return nil, model.ErrSessionNotFound
	}

	key := fmt.Sprintf("%s/%s/%s%s", model.SessionMediaFolder, sessionID, uuid.NewString(), ext)

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(model.SessionMediaCacheCtl),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = model.PresignExpirySeconds * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &model.PresignUploadResponse{
		UploadURL:  request.URL,
		PublicURL:  fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:        key,
		ExpiresInS: model.PresignExpirySeconds,
	}, nil
}
