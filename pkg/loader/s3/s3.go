package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/causamap/backend/pkg/loader"
)

func getBase64Prefix(filePath string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(filePath))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,", mimeType)
}

// S3SourceFileLoader is a SourceFileLoader implementation that loads file
// contents from an S3-compatible bucket. It uses the AWS SDK v2 for Go.
//
// This loader is used in production where uploaded documents live in object
// storage instead of the local filesystem.
type S3SourceFileLoader struct {
	bucket string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3SourceFileLoaderWithClient creates a new S3SourceFileLoader using an
// existing s3.Client. This is useful if you want to reuse a preconfigured
// AWS client (e.g., with custom middleware or credentials).
func NewS3SourceFileLoaderWithClient(bucket string, client *s3.Client) *S3SourceFileLoader {
	return &S3SourceFileLoader{
		bucket: bucket,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// NewS3SourceFileLoaderParams defines the configuration parameters for
// creating a new S3SourceFileLoader.
//
// Bucket specifies the S3 bucket name.
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO).
// Region specifies the AWS region.
// AccessKey and SecretKey provide static credentials.
type NewS3SourceFileLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3SourceFileLoader creates a new S3SourceFileLoader using the provided
// parameters. It initializes an AWS S3 client with static credentials and
// the given endpoint/region.
func NewS3SourceFileLoader(ctx context.Context, params NewS3SourceFileLoaderParams) (*S3SourceFileLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)

	return &S3SourceFileLoader{
		bucket: params.Bucket,
		client: client,
		cache:  make(map[string][]byte),
	}, nil
}

// GetFileText retrieves the contents of the given SourceFile from the
// configured S3 bucket. It implements the SourceFileLoader interface.
func (l *S3SourceFileLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	cacheKey := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[cacheKey]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		byts := buf.Bytes()

		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 retrieves the object and returns it encoded as base64 with
// appropriate MIME type prefix.
func (l *S3SourceFileLoader) GetBase64(ctx context.Context, file loader.SourceFile) (loader.SourceBase64, error) {
	b, err := l.GetFileText(ctx, file)
	if err != nil {
		return loader.SourceBase64{}, err
	}

	result := base64.StdEncoding.EncodeToString(b)
	fileTypePrefix := getBase64Prefix(file.FilePath)
	return loader.SourceBase64{
		Base64:   result,
		FileType: fileTypePrefix,
	}, nil
}
