package services

// MockImageService runs the S3 image pipeline against an in-memory bucket
type MockImageService struct {
	*S3ImageService
	bucket *MockS3Service
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	bucket := NewMockS3Service()
	return &MockImageService{
		S3ImageService: NewS3ImageService(bucket),
		bucket:         bucket,
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// ImageExists checks if an image exists in mock storage
func (m *MockImageService) ImageExists(imageKey string) bool {
	return m.bucket.FileExists(imageKey)
}
