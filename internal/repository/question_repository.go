package repository

import (
	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) ListByLab(labID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.DB.Where("lab_id = ?", labID).Order("id").Find(&questions).Error; err != nil {
		return nil, util.NewStorageError("list questions by lab", err)
	}
	return questions, nil
}

// ListByLabGrouped возвращает вопросы работы, разложенные по категориям.
// Категории без вопросов присутствуют в карте пустыми срезами.
func (r *QuestionRepository) ListByLabGrouped(labID uint) (map[string][]model.Question, error) {
	questions, err := r.ListByLab(labID)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]model.Question, len(model.Categories))
	for _, category := range model.Categories {
		grouped[category] = nil
	}
	for _, q := range questions {
		grouped[q.Category] = append(grouped[q.Category], q)
	}
	return grouped, nil
}

// CorrectAnswersByLab возвращает отображение id вопроса на номер правильного
// варианта (1..4); ключи и значения строковые, как в протоколе сдачи.
func (r *QuestionRepository) CorrectAnswersByLab(labID uint) (map[string]string, error) {
	questions, err := r.ListByLab(labID)
	if err != nil {
		return nil, err
	}
	correct := make(map[string]string, len(questions))
	for _, q := range questions {
		correct[util.UintToString(q.ID)] = util.IntToString(q.CorrectIndex)
	}
	return correct, nil
}
