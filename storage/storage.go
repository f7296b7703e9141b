// Package storage moves clip files and rendered videos in and out of the
// S3 bucket that backs the service. Raw clips live under raw-video-clips/,
// rendered outputs under processed-video-clips/, and scratch files under
// temp-service-folder/.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"clipmix/config"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Client is the subset of the S3 API the store needs, narrow enough to fake
// in tests.
type Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// MediaStore reads and writes clips against a single bucket.
type MediaStore struct {
	client Client
	bucket string
}

// NewMediaStore builds a store from the default AWS credential chain.
func NewMediaStore(ctx context.Context, bucket, region string) (*MediaStore, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &MediaStore{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// NewMediaStoreWithClient wires an explicit client, used by tests.
func NewMediaStoreWithClient(client Client, bucket string) *MediaStore {
	return &MediaStore{client: client, bucket: bucket}
}

// RawClipKey maps a clip name to its object key under the raw prefix.
func RawClipKey(name string) string {
	return config.RawClipsPrefix + name
}

// ProcessedKey maps a rendered video name to its object key.
func ProcessedKey(name string) string {
	return config.ProcessedClipsPrefix + name
}

// TempKey maps a scratch file name to its object key.
func TempKey(name string) string {
	return config.TempPrefix + name
}

// UploadVideo streams a local file to the given key.
func (m *MediaStore) UploadVideo(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Printf("📤 Uploaded %s to s3://%s/%s", filepath.Base(localPath), m.bucket, key)
	return nil
}

// DownloadClip fetches an object into a local file.
func (m *MediaStore) DownloadClip(ctx context.Context, key, destPath string) error {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// ClipExists reports whether the object exists; a 404 is not an error.
func (m *MediaStore) ClipExists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// ListClips returns every object under the prefix, following pagination.
func (m *MediaStore) ListClips(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	var token *string
	for {
		out, err := m.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(m.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			infos = append(infos, ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
		if out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	return infos, nil
}

// DeleteTemp removes every object under the temp prefix. Best effort:
// individual delete failures are logged and the rest continue.
func (m *MediaStore) DeleteTemp(ctx context.Context) error {
	infos, err := m.ListClips(ctx, config.TempPrefix)
	if err != nil {
		return err
	}
	for _, info := range infos {
		_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.bucket),
			Key:    aws.String(info.Key),
		})
		if err != nil {
			log.Printf("⚠️  Failed to delete %s: %v", info.Key, err)
		}
	}
	return nil
}
