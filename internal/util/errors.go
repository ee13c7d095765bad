package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAccountNotFound     = errors.New("Учетная запись не найдена")
	ErrStudentExists       = errors.New("Пользователь с такими данными уже зарегистрирован")
	ErrStudentNotFound     = errors.New("Студент не найден")
	ErrLabNotFound         = errors.New("Лабораторная работа не найдена")
	ErrNoTimeLimit         = errors.New("Не задано время для выполнения теста")
	ErrDuplicateSubmission = errors.New("Лабораторная работа уже выполнена")
	ErrUnknownAction       = errors.New("Неизвестное действие")
)

// ValidationError — отсутствующее или некорректное поле запроса. Соединение
// остается открытым, клиент получает конверт ошибки.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CompositionError — тест собрать нельзя: в перечисленных категориях нет ни
// одного вопроса. Частичная сборка запрещена.
type CompositionError struct {
	Missing []string
}

func (e *CompositionError) Error() string {
	return "Недостаточно вопросов в категориях: " + strings.Join(e.Missing, ", ")
}

// StorageError оборачивает ошибку хранилища. Текст внутренней ошибки не
// уходит клиенту, только в лог.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
