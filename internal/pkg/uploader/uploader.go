package uploader

import (
	"fmt"
	"mime/multipart"
	"sync"

	"socialnet/internal/pkg/config"
)

// Uploader 文件上传接口
// 返回值是生成的文件名（或 OSS 对象路径），客户端自行拼接下载地址
type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// New 根据配置创建上传实现
func New() (Uploader, error) {
	cfg := config.GlobalConfig.Upload
	switch cfg.Driver {
	case "", "local":
		return NewLocalUploader(cfg.Dir)
	case "oss":
		return NewAliyunOSSUploader(cfg.OSS)
	default:
		return nil, fmt.Errorf("unknown upload driver: %s", cfg.Driver)
	}
}

// UploadAll 并发上传多个文件，保持结果顺序与输入一致
// 任一文件失败则整体失败
func UploadAll(u Uploader, files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, len(files))

	var wg sync.WaitGroup
	var errOnce sync.Once
	var uploadErr error

	// 限制并发数为 5，避免过多协程
	sem := make(chan struct{}, 5)

	for i, file := range files {
		wg.Add(1)
		go func(index int, f *multipart.FileHeader) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if uploadErr != nil {
				return
			}

			name, err := u.UploadFile(f)
			if err != nil {
				errOnce.Do(func() { uploadErr = err })
				return
			}
			names[index] = name
		}(i, file)
	}

	wg.Wait()

	if uploadErr != nil {
		return nil, uploadErr
	}
	return names, nil
}
