package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore 媒体文件存储，上传内容对核心逻辑是不透明的
type BlobStore interface {
	// Save 保存上传文件，返回相对路径
	Save(subdir string, file *multipart.FileHeader) (string, error)
	// Remove 删除文件，文件不存在不算错误
	Remove(relPath string) error
}

// DiskBlobStore 本地磁盘实现
type DiskBlobStore struct {
	root string
}

// NewDiskBlobStore 创建磁盘存储，root 是媒体根目录
func NewDiskBlobStore(root string) *DiskBlobStore {
	return &DiskBlobStore{root: root}
}

// Save 保存上传文件，用 uuid 重命名避免冲突与路径注入
func (s *DiskBlobStore) Save(subdir string, file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	relPath := filepath.Join(subdir, uuid.NewString()+ext)

	dst := filepath.Join(s.root, relPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("创建媒体目录失败: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}

	return relPath, nil
}

// Remove 删除文件
func (s *DiskBlobStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, relPath))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
