package service

import (
	"errors"
	"testing"

	"mgtu_lab_backend/internal/repository"
	"mgtu_lab_backend/internal/util"
)

func TestRegisterThenLogin_SameIdentityTuple(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewStudentRepository(db))

	creds := CredentialsRequest{
		FirstName: "Иван",
		LastName:  "Петров",
		GroupName: "ИУ5-31Б",
		Year:      2024,
	}

	registered, err := svc.Register(creds)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.ID == 0 {
		t.Fatal("registered student has zero id")
	}

	logged, err := svc.Login(creds)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != registered.ID {
		t.Errorf("login id = %d, register id = %d", logged.ID, registered.ID)
	}
}

func TestRegister_DuplicateTupleRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewStudentRepository(db))

	creds := CredentialsRequest{
		FirstName:  "Анна",
		LastName:   "Смирнова",
		MiddleName: "Игоревна",
		GroupName:  "ИУ5-32Б",
		Year:       2023,
	}
	if _, err := svc.Register(creds); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(creds); !errors.Is(err, util.ErrStudentExists) {
		t.Errorf("second Register err = %v, want ErrStudentExists", err)
	}
}

func TestLogin_UnknownTuple(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewStudentRepository(db))

	_, err := svc.Login(CredentialsRequest{
		FirstName: "Нет",
		LastName:  "Такого",
		GroupName: "X",
		Year:      2020,
	})
	if !errors.Is(err, util.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestLogin_MiddleNameDistinguishesStudents(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewStudentRepository(db))

	base := CredentialsRequest{
		FirstName: "Петр",
		LastName:  "Иванов",
		GroupName: "ИУ5-33Б",
		Year:      2024,
	}
	withMiddle := base
	withMiddle.MiddleName = "Сергеевич"

	first, err := svc.Register(base)
	if err != nil {
		t.Fatalf("Register base: %v", err)
	}
	second, err := svc.Register(withMiddle)
	if err != nil {
		t.Fatalf("Register with middle name: %v", err)
	}
	if first.ID == second.ID {
		t.Error("students differing only by middle name must be distinct")
	}
}

func TestLogin_MissingRequiredFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewStudentRepository(db))

	_, err := svc.Login(CredentialsRequest{FirstName: "Иван"})
	var validationErr *util.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}
