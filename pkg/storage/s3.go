package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/gunnishmehta/youtube-backend/config"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"go.uber.org/zap"
)

// Client talks to an S3-compatible object store holding uploaded media.
type Client struct {
	s3Client      *s3.Client
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

// NewS3Client creates a client for the configured S3-compatible endpoint.
func NewS3Client(cfg appconfig.MediaConfig) (*Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretKey == "" || cfg.Bucket == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("media storage credentials (MEDIA_ACCESS_KEY_ID, MEDIA_SECRET_ACCESS_KEY, MEDIA_BUCKET, MEDIA_ENDPOINT) must be set")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for media storage: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(s3Client)

	// Make sure the bucket is reachable before serving traffic
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("media bucket %q is not reachable: %w", cfg.Bucket, err)
	}

	return &Client{
		s3Client:      s3Client,
		uploader:      uploader,
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// Upload pushes a local file into the bucket under folder/<uuid><ext> and
// returns its public URL. Single attempt, no retries.
func (c *Client) Upload(ctx context.Context, localPath, folder string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer file.Close()

	ext := filepath.Ext(localPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	out, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", objectKey, c.bucket, err)
	}

	logger.GetLogger().Debug("Media file uploaded",
		zap.String("object_key", objectKey),
		zap.String("location", out.Location),
	)

	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, objectKey), nil
}
