package services

import (
	"context"
	"mime/multipart"
)

// MockImageService is an ImageService backed by MockS3Service. It applies the
// same file validation as the real service.
type MockImageService struct {
	*MockS3Service
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{MockS3Service: NewMockS3Service()}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage validates and stores the image in memory
func (m *MockImageService) UploadImage(ctx context.Context, kind ImageKind, fileHeader *multipart.FileHeader) (string, error) {
	return (&S3ImageService{s3Service: m.MockS3Service}).UploadImage(ctx, kind, fileHeader)
}

// GetImageURL returns a fake URL for a stored image
func (m *MockImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	return m.GetPresignedURL(ctx, imageKey)
}

// DeleteImage removes a stored image
func (m *MockImageService) DeleteImage(ctx context.Context, imageKey string) error {
	return m.DeleteFile(ctx, imageKey)
}

// ImageExists checks if an image exists in mock storage
func (m *MockImageService) ImageExists(imageKey string) bool {
	return m.FileExists(imageKey)
}

// Put stores content under key directly, for seeding fixtures
func (m *MockImageService) Put(key string, content []byte) {
	m.mu.Lock()
	m.uploadedFiles[key] = content
	m.mu.Unlock()
}
