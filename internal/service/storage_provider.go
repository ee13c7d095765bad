package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mgtu_lab_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider — место хранения файлов изображений. Контент-адресация
// живет уровнем выше, в ImageService: провайдер только кладет байты и
// строит URL.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetURL(filename string) string
}

// LocalStorageProvider пишет файлы в каталог, который раздает встроенный
// HTTP-сервер статики.
type LocalStorageProvider struct {
	Dir       string
	PublicURL string
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := os.Stat(p.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(p.Dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(filepath.Join(p.Dir, filename))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return strings.TrimRight(p.PublicURL, "/") + "/images/" + filename
}

// MinioStorageProvider кладет изображения в бакет MinIO; HTTP-сервер статики
// в этом режиме не нужен, клиенты ходят напрямую в бакет.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return "http://" + p.Config.MinioEndpoint + "/" + p.Config.MinioBucket + "/" + filename
}

// NewStorageProvider выбирает провайдера по конфигурации; при недоступном
// MinIO откатывается на локальный каталог.
func NewStorageProvider(cfg *config.Config) StorageProvider {
	if cfg.Storage.Type == "minio" {
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			return p
		}
	}
	return &LocalStorageProvider{Dir: cfg.Static.ImagesDir, PublicURL: cfg.Static.PublicURL}
}
