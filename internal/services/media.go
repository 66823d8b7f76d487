package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize 上传图片大小上限（10MB）
const MaxImageSize = 10 * 1024 * 1024

// MediaStore 保存上传的图片并返回可存入 Post.Image 的引用
type MediaStore interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
}

// LocalMediaStore 把图片写入本地目录，由 gin 静态路由对外提供
type LocalMediaStore struct {
	root    string
	baseURL string
}

func NewLocalMediaStore(root, baseURL string) *LocalMediaStore {
	return &LocalMediaStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalMediaStore) Root() string { return s.root }

func (s *LocalMediaStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 验证文件类型
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", newValidationError("image", "only image files can be uploaded")
	}
	// 验证文件大小
	if header.Size > MaxImageSize {
		return "", newValidationError("image", "image must be smaller than 10MB")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		// 根据 MIME 类型推断扩展名
		switch contentType {
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".jpg"
		}
	}

	dir := filepath.Join(s.root, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + ext
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := writeFile(filepath.Join(dir, name), src); err != nil {
		return "", err
	}
	return path.Join(s.baseURL, "posts", name), nil
}

// writeFile 写入完整文件；任何失败都会删除已写出的部分
func writeFile(target string, src io.Reader) error {
	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}
