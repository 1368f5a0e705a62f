package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/fashionmart/storefront-api/utils"
)

const productImagePrefix = "products"

// ImageService stores product images and resolves their URLs
type ImageService interface {
	// UploadImage validates and stores an image file, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL returns a URL for a stored image
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes a stored image
	DeleteImage(ctx context.Context, imageKey string) error
}

var imageServiceInstance ImageService

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// S3ImageService keeps product images in S3
type S3ImageService struct {
	s3Service S3Interface
}

// NewS3ImageService wraps an S3 backend
func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3Service.UploadFile(ctx, fileHeader, productImagePrefix)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

// GetImageURL generates a presigned URL
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// LocalImageService keeps product images on local disk and serves them
// from /api/v1/uploads. Used when no S3 bucket is configured.
type LocalImageService struct {
	dir string
}

// NewLocalImageService stores images under dir
func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// UploadImage validates and saves the file
func (l *LocalImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, l.dir)
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return filename, nil
}

// GetImageURL returns the serving path
func (l *LocalImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	return utils.GetImageURL(imageKey), nil
}

// DeleteImage removes the file; a missing file is not an error
func (l *LocalImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, filepath.Base(imageKey)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
