package storage

import "context"

// Uploader is the subset of S3Uploader the HTTP handlers depend on.
// This interface allows for easy mocking in tests.
type Uploader interface {
	UploadAudio(ctx context.Context, audioData []byte, uploaderID, originalFilename string) (*UploadResult, error)
	UploadCover(ctx context.Context, imageData []byte, audioKey, originalFilename string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Ensure S3Uploader implements Uploader
var _ Uploader = (*S3Uploader)(nil)
