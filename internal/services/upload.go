package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

type UploadReader interface {
	// Read checks size and extension, then returns the file's bytes.
	Read(file *multipart.FileHeader) ([]byte, error)
	MaxFileSize() int64
}

type uploadReader struct {
	maxFileSize int64
}

func NewUploadReader(maxFileSize int64) UploadReader {
	return &uploadReader{maxFileSize: maxFileSize}
}

// MaxFileSize implements UploadReader.
func (u *uploadReader) MaxFileSize() int64 {
	return u.maxFileSize
}

// Read implements UploadReader.
func (u *uploadReader) Read(file *multipart.FileHeader) ([]byte, error) {
	if u.maxFileSize > 0 && file.Size > u.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrFileTooLarge, file.Size, u.maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != "" && !isSupportedExtension(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	limit := u.maxFileSize
	if limit <= 0 {
		limit = 1 << 30
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

func isSupportedExtension(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
