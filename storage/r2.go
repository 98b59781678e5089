// Package storage keeps achievement icons in Cloudflare R2 through its S3 API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"freelance-marketplace/apperrors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const iconPrefix = "achievements/icons/"

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	// CDNBaseURL defaults to the bucket's R2 endpoint.
	CDNBaseURL string
}

type IconStore struct {
	client     objectPutter
	bucket     string
	cdnBaseURL string
}

func NewR2IconStore(ctx context.Context, cfg R2Config) (*IconStore, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint
	}
	return NewIconStore(client, cfg.Bucket, cdn), nil
}

func NewIconStore(client objectPutter, bucket, cdnBaseURL string) *IconStore {
	return &IconStore{
		client:     client,
		bucket:     bucket,
		cdnBaseURL: strings.TrimRight(cdnBaseURL, "/"),
	}
}

func IconKey(achievementID string) string {
	return iconPrefix + achievementID
}

// URL is the public address of an achievement's icon. It does not check
// that the object exists.
func (s *IconStore) URL(achievementID string) string {
	return fmt.Sprintf("%s/%s", s.cdnBaseURL, IconKey(achievementID))
}

// Upload replaces the icon of achievementID and returns its public URL.
func (s *IconStore) Upload(ctx context.Context, achievementID string, body io.Reader, contentType string) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return "", fmt.Errorf("failed to read icon: %w", err)
	}
	if buf.Len() == 0 {
		return "", apperrors.BadRequest(fmt.Sprintf("icon for %s is empty", achievementID))
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(IconKey(achievementID)),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		CacheControl:  aws.String("public, max-age=86400"),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return s.URL(achievementID), nil
}
