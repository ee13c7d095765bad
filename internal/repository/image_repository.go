package repository

import (
	"errors"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/util"

	"gorm.io/gorm"
)

type ImageRepository struct {
	DB *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: db}
}

func (r *ImageRepository) FindByHash(contentHash string) (*model.Image, error) {
	var image model.Image
	err := r.DB.Where("content_hash = ?", contentHash).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, util.NewStorageError("find image by hash", err)
	}
	return &image, nil
}

func (r *ImageRepository) Create(image *model.Image) error {
	if err := r.DB.Create(image).Error; err != nil {
		return util.NewStorageError("create image", err)
	}
	return nil
}
