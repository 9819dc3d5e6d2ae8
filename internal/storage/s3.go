// Package storage archives generated files to an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"parcel-backend/internal/config"
)

// PutObjectAPI is the slice of the S3 client the archiver needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Archiver(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// New builds an archiver from the storage config. It returns nil, nil when
// storage is disabled.
func New(ctx context.Context, cfg *config.Config) (*S3Archiver, error) {
	sc := cfg.Storage
	if !sc.Enabled {
		return nil, nil
	}
	if sc.Bucket == "" || sc.AccessKey == "" || sc.SecretKey == "" {
		return nil, errors.New("storage enabled but bucket or credentials missing")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			sc.AccessKey,
			sc.SecretKey,
			"",
		)),
		awsconfig.WithRegion(sc.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Archiver(client, sc.Bucket, sc.Prefix), nil
}

// Archive uploads data under prefix/key.
func (a *S3Archiver) Archive(ctx context.Context, key, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(path.Join(a.prefix, key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}
