package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/consultbridge/consult-booking/config"
)

// allowedDocumentExts is the whitelist enforced on booking documents.
var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// InitCloudinary initializes the Cloudinary client
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"))
	if err != nil {
		return nil, err
	}
	return cld, nil
}

// ValidateDocument checks a booking upload against the extension whitelist
// and the size cap before any bytes leave the process.
func ValidateDocument(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedDocumentExts[ext] {
		return fmt.Errorf("file type %s is not allowed", ext)
	}
	if header.Size > config.MaxDocumentSizeBytes {
		return fmt.Errorf("file %s exceeds the %dMB limit", header.Filename, config.MaxDocumentSizeBytes>>20)
	}
	return nil
}

// UploadToCloudinary uploads a file to Cloudinary and returns the secure URL
func UploadToCloudinary(file interface{}, folder string) (string, error) {
	cld, err := InitCloudinary()
	if err != nil {
		return "", err
	}

	ctx := context.Background()
	uploadParams := uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       folder,
		UploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
	}

	resp, err := cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// UploadDocument validates and uploads one multipart file, returning its URL.
func UploadDocument(header *multipart.FileHeader, folder string) (string, error) {
	if err := ValidateDocument(header); err != nil {
		return "", err
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return UploadToCloudinary(f, folder)
}
