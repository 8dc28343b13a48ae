package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FileStore reads and writes stored uploads by object key.
type FileStore interface {
	Read(ctx context.Context, key string, out io.Writer) error
	Write(ctx context.Context, key string, in io.Reader) error
}

// S3FileStore keeps uploads in an S3 bucket.
type S3FileStore struct {
	Bucket string
}

func NewS3FileStore(bucket string) *S3FileStore {
	return &S3FileStore{Bucket: bucket}
}

func (fs *S3FileStore) Read(ctx context.Context, key string, out io.Writer) error {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, fs.Bucket, err)
	}
	defer resp.Body.Close()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, fs.Bucket, err)
	}

	return nil
}

func (fs *S3FileStore) Write(ctx context.Context, key string, in io.Reader) error {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(fs.Bucket),
		Key:    aws.String(key),
		Body:   in,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, fs.Bucket, err)
	}
	return nil
}

// LocalFileStore keeps uploads on the local disk, for development and tests.
type LocalFileStore struct {
	Dir string
}

func NewLocalFileStore(dir string) *LocalFileStore {
	return &LocalFileStore{Dir: dir}
}

func (fs *LocalFileStore) Read(ctx context.Context, key string, out io.Writer) error {
	f, err := os.Open(filepath.Join(fs.Dir, key))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer f.Close()

	_, err = io.Copy(out, f)
	return err
}

func (fs *LocalFileStore) Write(ctx context.Context, key string, in io.Reader) error {
	path := filepath.Join(fs.Dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dir for %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, in); err != nil {
		return err
	}
	return f.Sync()
}
