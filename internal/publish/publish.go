package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"autosrt/internal/config"
	"autosrt/internal/logging"
	"autosrt/internal/services"
	"autosrt/internal/textutil"
)

// ContentType is the MIME type stored with uploaded subtitles.
const ContentType = "application/x-subrip"

// ObjectStore is the subset of the minio client used for publishing.
type ObjectStore interface {
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// Object describes an uploaded subtitle.
type Object struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
	ETag   string `json:"etag,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Uploader pushes subtitle files into a single bucket.
type Uploader struct {
	store    ObjectStore
	bucket   string
	prefix   string
	endpoint string
	secure   bool
	logger   *slog.Logger
}

// NewUploader builds an Uploader backed by a minio client for cfg.
func NewUploader(cfg config.Publish, logger *slog.Logger) (*Uploader, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "init", "endpoint is not configured", nil)
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "init", "bucket is not configured", nil)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "init", "create object storage client", err)
	}
	return NewUploaderWithStore(client, cfg, logger), nil
}

// NewUploaderWithStore wires an Uploader to an existing ObjectStore.
func NewUploaderWithStore(store ObjectStore, cfg config.Publish, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Uploader{
		store:    store,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		endpoint: cfg.Endpoint,
		secure:   cfg.UseSSL,
		logger:   logging.NewComponentLogger(logger, "publish"),
	}
}

// ObjectKey derives the object name for a subtitle generated from videoPath.
// Keys are "<prefix>/<video stem>.srt" with the stem reduced to a safe token.
func ObjectKey(prefix, videoPath string) string {
	name := textutil.SanitizeToken(textutil.Stem(videoPath)) + ".srt"
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Check confirms the target bucket is reachable and exists.
func (u *Uploader) Check(ctx context.Context) error {
	exists, err := u.store.BucketExists(ctx, u.bucket)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "publish", "check bucket", u.bucket, err)
	}
	if !exists {
		return services.Wrap(services.ErrConfiguration, "publish", "check bucket", fmt.Sprintf("bucket %q does not exist", u.bucket), nil)
	}
	return nil
}

// Upload stores the subtitle at localPath under the key derived from videoPath.
func (u *Uploader) Upload(ctx context.Context, localPath, videoPath string) (Object, error) {
	if strings.TrimSpace(localPath) == "" {
		return Object{}, errors.New("publish: local path is empty")
	}
	key := ObjectKey(u.prefix, videoPath)
	info, err := u.store.FPutObject(ctx, u.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType,
	})
	if err != nil {
		return Object{}, services.Wrap(services.ErrExternalTool, "publish", "upload", key, err)
	}
	obj := Object{
		Bucket: u.bucket,
		Key:    key,
		Size:   info.Size,
		ETag:   info.ETag,
		URL:    u.objectURL(key),
	}
	u.logger.Info("subtitle published",
		logging.String(logging.FieldEventType, "subtitle_published"),
		logging.String("bucket", obj.Bucket),
		logging.String("key", obj.Key),
		logging.String("size", humanize.IBytes(uint64(max(obj.Size, 0)))),
	)
	return obj, nil
}

func (u *Uploader) objectURL(key string) string {
	if u.endpoint == "" {
		return ""
	}
	scheme := "http"
	if u.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, u.endpoint, u.bucket, key)
}
