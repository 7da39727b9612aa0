package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted submission file
const MaxUploadSize = 20 << 20

var allowedUploadExt = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".zip": true,
	".png": true, ".jpg": true, ".jpeg": true, ".ppt": true, ".pptx": true,
}

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrFileTypeInvalid = errors.New("file type is not allowed")
)

// SaveUploadedFile stores file under destDir with a random name and returns that name
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	if file.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExt[ext] {
		return "", ErrFileTypeInvalid
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return newFilename, nil
}

func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + filename
}
