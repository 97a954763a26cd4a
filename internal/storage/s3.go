package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"campusrun/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MaxPhotoSizeBytes caps delivery photo uploads at 5MB.
const MaxPhotoSizeBytes = 5 << 20

// Sniffed content types we accept as delivery proof. SVG is text and is
// deliberately absent.
var allowedPhotoTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// PhotoStorage uploads delivery photos to S3 and hands back the public
// reference the lifecycle engine stores.
type PhotoStorage struct {
	client     *s3.Client
	bucketName string
	baseURL    string
}

func NewPhotoStorage(client *s3.Client, bucketName, baseURL string) *PhotoStorage {
	return &PhotoStorage{
		client:     client,
		bucketName: bucketName,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// UploadPhoto validates the blob is a real raster image within the size
// cap, stores it, and returns its public URL.
func (s *PhotoStorage) UploadPhoto(ctx context.Context, file io.Reader) (string, error) {

	// Read one byte past the cap so oversized files are detectable
	// without buffering them whole.
	data, err := io.ReadAll(io.LimitReader(file, MaxPhotoSizeBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo upload: %w", err)
	}

	contentType, ext, err := validatePhoto(data)
	if err != nil {
		return "", err
	}

	key, err := gonanoid.New(21)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo key: %w", err)
	}
	objectKey := fmt.Sprintf("delivery-photos/%s.%s", key, ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.PublicURL(objectKey), nil
}

// DeletePhoto removes an uploaded object. Used when a delivery attempt
// is cancelled before handoff.
func (s *PhotoStorage) DeletePhoto(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// PublicURL returns the browser-facing URL for a stored object.
func (s *PhotoStorage) PublicURL(objectKey string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucketName, objectKey)
}

// validatePhoto checks the blob is a real raster image inside the size
// cap. The sniff looks at magic bytes, not the declared MIME type, so a
// renamed SVG or script still gets rejected.
func validatePhoto(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", &types.ValidationError{Field: "photo", Message: "file is required"}
	}

	if len(data) > MaxPhotoSizeBytes {
		return "", "", &types.ValidationError{Field: "photo", Message: "file exceeds 5MB limit"}
	}

	contentType = http.DetectContentType(data)
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return "", "", &types.ValidationError{Field: "photo", Message: "file must be a jpeg, png, gif, or webp image"}
	}

	return contentType, ext, nil
}
