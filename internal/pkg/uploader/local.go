package uploader

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalUploader 本地磁盘存储
type LocalUploader struct {
	baseDir string
}

// NewLocalUploader 创建本地存储，确保目录存在
func NewLocalUploader(baseDir string) (*LocalUploader, error) {
	if baseDir == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalUploader{baseDir: baseDir}, nil
}

// BaseDir 存储根目录，用于静态文件路由
func (u *LocalUploader) BaseDir() string {
	return u.baseDir
}

// UploadFile 保存文件，文件名为 uuid-原始文件名
func (u *LocalUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := uuid.New().String() + "-" + filepath.Base(file.Filename)
	fullPath := filepath.Join(u.baseDir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return filename, nil
}
