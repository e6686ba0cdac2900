package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/savora-app/backend/config"
)

// MediaStore persists uploaded files and maps stored paths to the URLs
// handed back to clients.
type MediaStore interface {
	Save(ctx context.Context, path string, data []byte) error
	Remove(ctx context.Context, path string) error
	URL(path string) string
}

// LocalMediaStore keeps files under a media root on local disk; the
// router serves the root at /media.
type LocalMediaStore struct {
	Root string
}

// NewLocalMediaStore creates a local media store rooted at root.
func NewLocalMediaStore(root string) *LocalMediaStore {
	return &LocalMediaStore{Root: root}
}

func (s *LocalMediaStore) Save(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}
	return nil
}

func (s *LocalMediaStore) Remove(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

func (s *LocalMediaStore) URL(path string) string {
	return "/media/" + path
}

// S3MediaStore keeps files in an S3 bucket with public-read objects.
type S3MediaStore struct {
	s3cfg *config.S3Config
}

// NewS3MediaStore creates a media store backed by the given bucket.
func NewS3MediaStore(s3cfg *config.S3Config) *S3MediaStore {
	return &S3MediaStore{s3cfg: s3cfg}
}

func (s *S3MediaStore) Save(ctx context.Context, path string, data []byte) error {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3MediaStore) Remove(ctx context.Context, path string) error {
	_, err := s.s3cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3cfg.BucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3MediaStore) URL(path string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3cfg.BucketName, path)
}
