package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"

	"autosrt/internal/config"
	"autosrt/internal/services"
)

type fakeStore struct {
	bucket   string
	object   string
	filePath string
	opts     minio.PutObjectOptions
	putErr   error
	exists   bool
	checkErr error
}

func (f *fakeStore) FPutObject(_ context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.object, f.filePath, f.opts = bucket, object, filePath, opts
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: info.Size(), ETag: "etag-1"}, nil
}

func (f *fakeStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.checkErr
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		video  string
		want   string
	}{
		{"subtitles", "/videos/My Movie.mp4", "subtitles/my_movie.srt"},
		{"/a/b/", "clip.mkv", "a/b/clip.srt"},
		{"", "/x/Episode 01.mov", "episode_01.srt"},
		{"subs", "/x/???.mp4", "subs/unknown.srt"},
	}
	for _, tc := range tests {
		if got := ObjectKey(tc.prefix, tc.video); got != tc.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tc.prefix, tc.video, got, tc.want)
		}
	}
}

func TestUploadUsesDerivedKey(t *testing.T) {
	local := filepath.Join(t.TempDir(), "movie.srt")
	if err := os.WriteFile(local, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := &fakeStore{}
	uploader := NewUploaderWithStore(store, config.Publish{Bucket: "subs", Prefix: "out", Endpoint: "minio.local:9000", UseSSL: true}, nil)

	obj, err := uploader.Upload(context.Background(), local, "/videos/Movie.mp4")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if store.bucket != "subs" || store.object != "out/movie.srt" || store.filePath != local {
		t.Fatalf("unexpected upload target: %#v", store)
	}
	if store.opts.ContentType != ContentType {
		t.Fatalf("unexpected content type: %q", store.opts.ContentType)
	}
	if obj.Size == 0 || obj.ETag != "etag-1" {
		t.Fatalf("unexpected object: %#v", obj)
	}
	if obj.URL != "https://minio.local:9000/subs/out/movie.srt" {
		t.Fatalf("unexpected url: %q", obj.URL)
	}
}

func TestUploadWrapsStoreErrors(t *testing.T) {
	store := &fakeStore{putErr: errors.New("denied")}
	uploader := NewUploaderWithStore(store, config.Publish{Bucket: "subs"}, nil)
	_, err := uploader.Upload(context.Background(), "/tmp/a.srt", "/v/a.mp4")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	uploader := NewUploaderWithStore(&fakeStore{exists: true}, config.Publish{Bucket: "subs"}, nil)
	if err := uploader.Check(context.Background()); err != nil {
		t.Fatalf("expected bucket check to pass: %v", err)
	}
	missing := NewUploaderWithStore(&fakeStore{}, config.Publish{Bucket: "subs"}, nil)
	if err := missing.Check(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewUploaderRequiresEndpoint(t *testing.T) {
	if _, err := NewUploader(config.Publish{Bucket: "subs"}, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
