package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Config holds connection settings for an S3-compatible bucket.
type S3Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	// Endpoint is empty for AWS itself, or the URL of a compatible service.
	Endpoint string
	// PublicURL overrides the base URL returned for stored objects.
	PublicURL string
}

// S3Storage keeps documents in a private S3 bucket.
type S3Storage struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

// NewS3Storage creates an S3Storage from cfg.
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Storage{
		client:    s3.New(sess),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok {
		return fmt.Errorf("url %q is not in bucket %s", url, s.bucket)
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
