package service

import (
	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/repository"
	"mgtu_lab_backend/internal/util"
)

type LabService struct {
	Labs    *repository.LabWorkRepository
	Results *repository.ResultRepository
}

func NewLabService(labs *repository.LabWorkRepository, results *repository.ResultRepository) *LabService {
	return &LabService{Labs: labs, Results: results}
}

type LabWorkView struct {
	ID    uint   `json:"id"`
	Theme string `json:"theme"`
	Time  int    `json:"time"`
}

func (s *LabService) List() ([]LabWorkView, error) {
	labs, err := s.Labs.List()
	if err != nil {
		return nil, err
	}
	views := make([]LabWorkView, 0, len(labs))
	for _, lab := range labs {
		views = append(views, LabWorkView{ID: lab.ID, Theme: lab.Theme, Time: lab.Time})
	}
	return views, nil
}

// CheckCompleted сообщает, зачтена ли работа студенту.
func (s *LabService) CheckCompleted(studentID, labID uint) (bool, error) {
	if studentID == 0 || labID == 0 {
		return false, util.NewValidationError("Необходимо предоставить student_id и lab_id")
	}
	return s.Results.Exists(studentID, labID)
}

// ImportedLabWork — одна работа из импортируемого набора преподавателя.
type ImportedLabWork struct {
	Theme         string `json:"theme"`
	Time          int    `json:"time"`
	QuestionCount int    `json:"question_count"`
}

func (s *LabService) Import(labs []ImportedLabWork) error {
	if len(labs) == 0 {
		return util.NewValidationError("Нет данных для импорта")
	}
	records := make([]model.LabWork, 0, len(labs))
	for _, lab := range labs {
		records = append(records, model.LabWork{
			Theme:         lab.Theme,
			Time:          lab.Time,
			QuestionCount: lab.QuestionCount,
		})
	}
	return s.Labs.BulkCreate(records)
}

func (s *LabService) ExportResults() ([]model.ResultWithStudent, error) {
	return s.Results.ListWithStudents()
}
