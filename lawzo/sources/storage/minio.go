package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"lawzo/lawzo/config"
	"lawzo/lawzo/utils/logging"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	documentsPrefix = "documents"
	sourcesPrefix   = "sources"
)

var ErrInvalidName = errors.New("invalid object name")

type MinIOClient struct {
	client *minio.Client
	bucket string
}

// DocumentObject is what gets written for every analysed document.
type DocumentObject struct {
	UserID       string    `json:"user_id"`
	DocumentName string    `json:"document_name"`
	DocumentType string    `json:"document_type"`
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logging.AppLogger.Info("created bucket", zap.String("bucket", bucket))
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// PutDocument stores the original text of an analysed document and returns
// its object key.
func (m *MinIOClient) PutDocument(ctx context.Context, userID, name, docType, text string) (string, error) {
	base := path.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" {
		return "", ErrInvalidName
	}
	key := path.Join(documentsPrefix, userID, fmt.Sprintf("%s-%s.json", uuid.New().String(), base))

	data, err := json.Marshal(DocumentObject{
		UserID:       userID,
		DocumentName: name,
		DocumentType: docType,
		Text:         text,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, strings.NewReader(string(data)), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (m *MinIOClient) GetDocument(ctx context.Context, key string) (*DocumentObject, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	var doc DocumentObject
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SourceKey maps a cited source name to its object key under sources/.
func SourceKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}
	return path.Join(sourcesPrefix, name), nil
}

// PresignSource returns a time limited download link for a reference document.
func (m *MinIOClient) PresignSource(ctx context.Context, name string, ttl time.Duration) (*url.URL, error) {
	key, err := SourceKey(name)
	if err != nil {
		return nil, err
	}
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	return m.client.PresignedGetObject(ctx, m.bucket, key, ttl, params)
}

func IsNotFound(err error) bool {
	if errors.Is(err, ErrInvalidName) {
		return true
	}
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
