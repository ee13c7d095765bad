package repository

import (
	"errors"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/util"

	"gorm.io/gorm"
)

type LabWorkRepository struct {
	DB *gorm.DB
}

func NewLabWorkRepository(db *gorm.DB) *LabWorkRepository {
	return &LabWorkRepository{DB: db}
}

func (r *LabWorkRepository) List() ([]model.LabWork, error) {
	var labs []model.LabWork
	if err := r.DB.Order("id").Find(&labs).Error; err != nil {
		return nil, util.NewStorageError("list lab works", err)
	}
	return labs, nil
}

func (r *LabWorkRepository) FindByID(id uint) (*model.LabWork, error) {
	var lab model.LabWork
	err := r.DB.First(&lab, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, util.NewStorageError("find lab work", err)
	}
	return &lab, nil
}

// BulkCreate вставляет импортированный набор работ одной транзакцией:
// частично примененный импорт не должен быть виден читателям.
func (r *LabWorkRepository) BulkCreate(labs []model.LabWork) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range labs {
			if err := tx.Create(&labs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return util.NewStorageError("bulk create lab works", err)
	}
	return nil
}
