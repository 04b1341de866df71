package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Vovarama1992/voice_bridge/internal/ports"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store — те же две зоны (uploads/, conversions/), но в бакете.
type S3Store struct {
	client *minio.Client
	bucket string
	norm   ports.Normalizer
}

func NewS3Store(norm ports.Normalizer) (*S3Store, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("S3_REGION")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &S3Store{
		client: client,
		bucket: bucket,
		norm:   norm,
	}, nil
}

func (s *S3Store) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", ports.ErrStorage, err)
	}

	normalized, err := s.norm.Normalize(ctx, data)
	if err != nil {
		return "", err
	}

	assetID := uuid.NewString()
	if err := s.put(ctx, inputKey(assetID), normalized); err != nil {
		return "", err
	}
	return assetID, nil
}

func (s *S3Store) Retrieve(ctx context.Context, assetID string) (io.ReadCloser, error) {
	return s.get(ctx, inputKey(assetID))
}

func (s *S3Store) StoreOutput(ctx context.Context, jobID string, data []byte) (string, error) {
	if err := s.put(ctx, outputKey(jobID), data); err != nil {
		return "", err
	}
	return jobID, nil
}

func (s *S3Store) RetrieveOutput(ctx context.Context, jobID string) (io.ReadCloser, error) {
	return s.get(ctx, outputKey(jobID))
}

func (s *S3Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	removed := 0
	cutoff := time.Now().Add(-maxAge)

	for _, prefix := range []string{"uploads/", "conversions/"} {
		objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		})

		for obj := range objects {
			if obj.Err != nil {
				return removed, fmt.Errorf("%w: list: %v", ports.ErrStorage, obj.Err)
			}
			if obj.LastModified.After(cutoff) {
				continue
			}
			if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *S3Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  "audio/wav",
			UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
		})
	if err != nil {
		return fmt.Errorf("%w: upload failed: %v", ports.ErrStorage, err)
	}
	return nil
}

func (s *S3Store) get(ctx context.Context, key string) (io.ReadCloser, error) {
	// StatObject первым — GetObject ленивый и не отличает "нет ключа" до чтения
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}
	return obj, nil
}

func inputKey(assetID string) string { return "uploads/" + assetID + ".wav" }
func outputKey(jobID string) string  { return "conversions/" + jobID + ".wav" }
