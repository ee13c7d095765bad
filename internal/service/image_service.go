package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/repository"
	"mgtu_lab_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageService хранит изображения контент-адресуемо: имя файла выдается один
// раз на уникальное содержимое, повторная загрузка тех же байтов возвращает
// уже существующий URL.
type ImageService struct {
	Images   *repository.ImageRepository
	Provider StorageProvider
}

func NewImageService(images *repository.ImageRepository, provider StorageProvider) *ImageService {
	return &ImageService{Images: images, Provider: provider}
}

// Upload регистрирует изображение и возвращает его публичный URL.
func (s *ImageService) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", util.NewValidationError("Пустое изображение")
	}

	sum := sha256.Sum256(data)
	contentHash := hex.EncodeToString(sum[:])

	existing, err := s.Images.FindByHash(contentHash)
	if err == nil {
		return s.Provider.GetURL(existing.Filename), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	contentType := http.DetectContentType(data)
	filename := uuid.New().String() + extensionFor(contentType)

	url, err := s.Provider.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", util.NewStorageError("upload image", err)
	}

	if err := s.Images.Create(&model.Image{Filename: filename, ContentHash: contentHash}); err != nil {
		return "", err
	}
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	default:
		return ".img"
	}
}
