package service

import (
	"errors"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/repository"
	"mgtu_lab_backend/internal/util"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// CredentialsRequest — кортеж идентичности студента, общий для входа и
// регистрации. Отчество может отсутствовать.
type CredentialsRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	MiddleName string `json:"middle_name"`
	GroupName  string `json:"group_name" validate:"required"`
	Year       int    `json:"year" validate:"required"`
}

type AuthService struct {
	Students *repository.StudentRepository
}

func NewAuthService(students *repository.StudentRepository) *AuthService {
	return &AuthService{Students: students}
}

// Login разрешает кортеж идентичности в существующего студента.
func (s *AuthService) Login(req CredentialsRequest) (*model.Student, error) {
	if err := validate.Struct(req); err != nil {
		return nil, util.NewValidationError("Необходимо заполнить имя, фамилию, группу и год")
	}
	student, err := s.Students.FindByIdentity(req.FirstName, req.LastName, req.MiddleName, req.GroupName, req.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, err
	}
	return student, nil
}

// Register создает студента, если кортеж еще не занят.
func (s *AuthService) Register(req CredentialsRequest) (*model.Student, error) {
	if err := validate.Struct(req); err != nil {
		return nil, util.NewValidationError("Необходимо заполнить имя, фамилию, группу и год")
	}
	_, err := s.Students.FindByIdentity(req.FirstName, req.LastName, req.MiddleName, req.GroupName, req.Year)
	if err == nil {
		return nil, util.ErrStudentExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	student := &model.Student{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		GroupName:  req.GroupName,
		Year:       req.Year,
	}
	if err := s.Students.Create(student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *AuthService) StudentInfo(studentID uint) (*model.Student, error) {
	if studentID == 0 {
		return nil, util.NewValidationError("Не указан student_id")
	}
	student, err := s.Students.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}
