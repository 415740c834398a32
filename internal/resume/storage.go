package resume

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"resume-portal/resume-backend/pkg/storage"
)

// StorageProvider archives rendered resumes in S3
type StorageProvider struct {
	s3        storage.S3Client
	bucket    string
	prefix    string
	urlExpiry time.Duration
}

func NewStorageProvider(s3 storage.S3Client, bucket, prefix string, urlExpiry time.Duration) *StorageProvider {
	if prefix == "" {
		prefix = "resumes"
	}
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &StorageProvider{
		s3:        s3,
		bucket:    bucket,
		prefix:    prefix,
		urlExpiry: urlExpiry,
	}
}

// Archive uploads the PDF and returns its object key.
func (p *StorageProvider) Archive(ctx context.Context, id uuid.UUID, createdAt time.Time, content []byte) (string, error) {
	key := p.GenerateS3Key(id, createdAt)
	if err := p.s3.Upload(ctx, p.bucket, key, bytes.NewReader(content), "application/pdf"); err != nil {
		return "", err
	}
	return key, nil
}

// DownloadURL returns a time-limited GET URL for an archived resume.
func (p *StorageProvider) DownloadURL(ctx context.Context, key string) (string, error) {
	return p.s3.GetPresignedURL(ctx, p.bucket, key, p.urlExpiry)
}

func (p *StorageProvider) GenerateS3Key(id uuid.UUID, createdAt time.Time) string {
	return path.Join(p.prefix, fmt.Sprintf("%04d", createdAt.Year()), fmt.Sprintf("%02d", int(createdAt.Month())), id.String()+".pdf")
}
