package utils

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Storage stores uploads on Cloudflare R2 through the S3 API.
type R2Storage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

// NewR2Storage creates an R2 client. endpoint is the account endpoint,
// "https://<account-id>.r2.cloudflarestorage.com".
func NewR2Storage(accessKeyID, secretAccessKey, endpoint, bucketName string) *R2Storage {
	cfg := aws.Config{
		Region: "auto",
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		),
		BaseEndpoint: aws.String(endpoint),
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// R2 requires path-style addressing
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: bucketName,
	}
}

// SaveFile uploads reader to <subDir>/<unique name> and returns the object key.
func (rs *R2Storage) SaveFile(subDir, originalFilename string, reader io.Reader) (string, error) {
	ext := filepath.Ext(originalFilename)
	objectKey := fmt.Sprintf("%s/%d%s", subDir, time.Now().UnixNano(), ext)

	_, err := rs.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(rs.bucketName),
		Key:    aws.String(objectKey),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("upload to R2: %w", err)
	}

	return objectKey, nil
}

// DeleteFile removes the object for key. Safe to call for missing objects.
func (rs *R2Storage) DeleteFile(objectKey string) error {
	_, err := rs.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(rs.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("delete from R2: %w", err)
	}
	return nil
}

// PresignGetObject returns a presigned GET URL valid for duration.
func (rs *R2Storage) PresignGetObject(objectKey string, duration time.Duration) (string, error) {
	req, err := rs.presigner.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(rs.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", fmt.Errorf("presign URL: %w", err)
	}
	return req.URL, nil
}
