package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher uploads exported files to one bucket.
type Publisher struct {
	client  Client
	bucket  string
	region  string
	prefix  string
	log     *zap.Logger
	checked bool
}

// NewPublisher returns a Publisher for cfg.Bucket. log may be nil.
func NewPublisher(client Client, cfg Config, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    log,
	}
}

// ObjectName is the key a local file is stored under.
func (p *Publisher) ObjectName(file string) string {
	if p.prefix == "" {
		return filepath.Base(file)
	}
	return path.Join(p.prefix, filepath.Base(file))
}

// Publish uploads file and returns "<bucket>/<object>". The bucket is created
// on first use when missing.
func (p *Publisher) Publish(ctx context.Context, file string) (string, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return "", err
	}

	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	object := p.ObjectName(file)
	opts := minio.PutObjectOptions{ContentType: contentType(file)}
	if _, err := p.client.PutObject(ctx, p.bucket, object, f, info.Size(), opts); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}
	p.log.Info("Published merged file", zap.String("bucket", p.bucket), zap.String("object", object))
	return p.bucket + "/" + object, nil
}

func (p *Publisher) ensureBucket(ctx context.Context) error {
	if p.checked {
		return nil
	}
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
		p.log.Info("Created bucket", zap.String("bucket", p.bucket))
	}
	p.checked = true
	return nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
