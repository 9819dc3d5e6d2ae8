package storage

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"parcel-backend/internal/config"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchive(t *testing.T) {
	fake := &fakeS3{}
	a := NewS3Archiver(fake, "exports", "statements")

	if err := a.Archive(context.Background(), "vendor_3/ledger.pdf", "application/pdf", []byte("%PDF")); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if aws.ToString(fake.in.Bucket) != "exports" {
		t.Fatalf("bucket = %s", aws.ToString(fake.in.Bucket))
	}
	if aws.ToString(fake.in.Key) != "statements/vendor_3/ledger.pdf" {
		t.Fatalf("key = %s", aws.ToString(fake.in.Key))
	}
	if string(fake.body) != "%PDF" || aws.ToString(fake.in.ContentType) != "application/pdf" {
		t.Fatalf("body = %q, content type = %s", fake.body, aws.ToString(fake.in.ContentType))
	}
}

func TestNewDisabled(t *testing.T) {
	a, err := New(context.Background(), &config.Config{})
	if err != nil || a != nil {
		t.Fatalf("New(disabled) = %v, %v; want nil, nil", a, err)
	}
}

func TestNewMissingCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Enabled = true
	cfg.Storage.Bucket = "exports"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
