package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrMediaDisabled is returned when uploads are attempted without an S3
// bucket configured.
var ErrMediaDisabled = errors.New("media storage not configured")

// MediaService stores member photos in S3 and returns their public URLs.
type MediaService struct {
	client    *s3.Client
	bucket    string
	publicURL string
	enabled   bool
}

// NewMediaService creates a new media service. When bucket is empty the
// service runs disabled and uploads return ErrMediaDisabled.
func NewMediaService(awsRegion, bucket, publicURL string) (*MediaService, error) {
	if bucket == "" {
		log.Println("Media service disabled: S3_BUCKET not configured")
		return &MediaService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Media service enabled: bucket=%s, region=%s", bucket, awsRegion)
	return &MediaService{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the media service is enabled
func (s *MediaService) IsEnabled() bool {
	return s.enabled
}

// UploadMemberPhoto stores a member's profile photo and returns its public
// URL. The key embeds a random token so stale CDN caches never serve an
// old photo after replacement.
func (s *MediaService) UploadMemberPhoto(ctx context.Context, memberID int64, filename, contentType string, body io.Reader) (string, error) {
	if !s.enabled {
		return "", ErrMediaDisabled
	}

	token, err := generateSecureToken(8)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo key: %w", err)
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("photos/member-%d-%s%s", memberID, token, ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

// DeleteObject removes a stored object by its public URL. Unknown URLs are
// ignored.
func (s *MediaService) DeleteObject(ctx context.Context, publicURL string) error {
	if !s.enabled || publicURL == "" {
		return nil
	}
	key := strings.TrimPrefix(publicURL, s.publicURL+"/")
	if key == publicURL {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
