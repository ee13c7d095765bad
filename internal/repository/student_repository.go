package repository

import (
	"errors"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/util"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// FindByIdentity ищет студента по полному кортежу идентичности. Отсутствие
// записи возвращается как gorm.ErrRecordNotFound, не как StorageError.
func (r *StudentRepository) FindByIdentity(firstName, lastName, middleName, groupName string, year int) (*model.Student, error) {
	var student model.Student
	err := r.DB.
		Where("first_name = ? AND last_name = ? AND middle_name = ? AND group_name = ? AND year = ?",
			firstName, lastName, middleName, groupName, year).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, util.NewStorageError("find student by identity", err)
	}
	return &student, nil
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, util.NewStorageError("find student by id", err)
	}
	return &student, nil
}

func (r *StudentRepository) Create(student *model.Student) error {
	if err := r.DB.Create(student).Error; err != nil {
		return util.NewStorageError("create student", err)
	}
	return nil
}
