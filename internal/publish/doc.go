// Package publish uploads generated subtitles to S3-compatible object
// storage (MinIO, AWS S3 and friends) using minio-go.
package publish
