package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client defines the interface for the AWS S3 client.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3FotoStorage stores confirmation photos in an S3 bucket, the object-store
// counterpart of the tablet app's photo bucket.
type S3FotoStorage struct {
	client  S3Client
	bucket  string
	baseURL string
}

func NewS3FotoStorage(client S3Client, bucket, baseURL string) *S3FotoStorage {
	return &S3FotoStorage{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// SubirFoto uploads one JPEG and returns its public URL.
func (s *S3FotoStorage) SubirFoto(ctx context.Context, nombre string, datos []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(nombre),
		Body:        bytes.NewReader(datos),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo %s: %w", nombre, err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, nombre), nil
}
