package repository

import (
	"errors"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/util"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Exists(studentID, labID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Result{}).
		Where("student_id = ? AND lab_id = ?", studentID, labID).
		Count(&count).Error
	if err != nil {
		return false, util.NewStorageError("find result", err)
	}
	return count > 0, nil
}

// CreateExclusive вставляет результат, гарантируя не более одной записи на
// пару (student_id, lab_id). Проверка и вставка идут в одной транзакции, а
// уникальный индекс закрывает гонку двух конкурентных сдач: проигравшая
// транзакция получает ErrDuplicateSubmission, вторая строка не появляется.
func (r *ResultRepository) CreateExclusive(result *model.Result) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Result{}).
			Where("student_id = ? AND lab_id = ?", result.StudentID, result.LabID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrDuplicateSubmission
		}
		return tx.Create(result).Error
	})
	if err != nil {
		if errors.Is(err, util.ErrDuplicateSubmission) {
			return util.ErrDuplicateSubmission
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrDuplicateSubmission
		}
		return util.NewStorageError("create result", err)
	}
	return nil
}

// ListWithStudents возвращает все результаты, соединенные с данными студентов,
// для экспорта преподавателю.
func (r *ResultRepository) ListWithStudents() ([]model.ResultWithStudent, error) {
	var rows []model.ResultWithStudent
	err := r.DB.Model(&model.Result{}).
		Select("students.first_name, students.last_name, students.middle_name, students.group_name, results.lab_id, results.score").
		Joins("JOIN students ON results.student_id = students.id").
		Order("results.id").
		Scan(&rows).Error
	if err != nil {
		return nil, util.NewStorageError("list results with students", err)
	}
	return rows, nil
}
