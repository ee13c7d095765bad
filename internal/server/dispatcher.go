package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/protocol"
	"mgtu_lab_backend/internal/service"
	"mgtu_lab_backend/internal/util"
	"mgtu_lab_backend/pkg/logger"
	"mgtu_lab_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Session — эфемерное состояние одного соединения. Живет, пока открыт сокет;
// при перезапуске сервера не восстанавливается.
type Session struct {
	Addr     string
	registry *ConnectionRegistry
}

// SetIdentity привязывает имя студента к соединению для уведомления об
// отключении.
func (s *Session) SetIdentity(name string) {
	if s.registry != nil {
		s.registry.Associate(s.Addr, name)
	}
}

type handlerFunc func(sess *Session, data json.RawMessage) protocol.Response

// Dispatcher сопоставляет имя действия с обработчиком. Неизвестное действие —
// обычный ответ с ошибкой, а не нарушение протокола.
type Dispatcher struct {
	Auth     *service.AuthService
	Quiz     *service.QuizService
	Labs     *service.LabService
	Images   *service.ImageService
	handlers map[string]handlerFunc
}

func NewDispatcher(auth *service.AuthService, quiz *service.QuizService, labs *service.LabService, images *service.ImageService) *Dispatcher {
	d := &Dispatcher{Auth: auth, Quiz: quiz, Labs: labs, Images: images}
	d.handlers = map[string]handlerFunc{
		protocol.ActionLogin:             d.handleLogin,
		protocol.ActionRegister:          d.handleRegister,
		protocol.ActionGetLabWorks:       d.handleGetLabWorks,
		protocol.ActionCheckLabCompleted: d.handleCheckLabCompleted,
		protocol.ActionGetQuestions:      d.handleGetQuestions,
		protocol.ActionSubmitTest:        d.handleSubmitTest,
		protocol.ActionGetStudentInfo:    d.handleGetStudentInfo,
		protocol.ActionImportLabWorks:    d.handleImportLabWorks,
		protocol.ActionExportResults:     d.handleExportResults,
		protocol.ActionUploadImage:       d.handleUploadImage,
	}
	return d
}

// Dispatch выполняет один запрос и всегда возвращает ровно один ответ.
func (d *Dispatcher) Dispatch(sess *Session, req *protocol.Request) protocol.Response {
	handler, ok := d.handlers[req.Action]
	if !ok {
		return protocol.Fail(util.ErrUnknownAction.Error())
	}

	start := time.Now()
	resp := handler(sess, req.Data)
	monitoring.RequestDuration.WithLabelValues(req.Action).Observe(time.Since(start).Seconds())
	monitoring.RequestCounter.WithLabelValues(req.Action, resp.Status).Inc()
	return resp
}

// errorResponse переводит ошибку уровня обработчика в конверт ответа.
// Внутренности StorageError клиенту не показываются.
func errorResponse(err error) protocol.Response {
	var storageErr *util.StorageError
	if errors.As(err, &storageErr) {
		logger.Log.Error("storage failure", zap.Error(err))
		return protocol.Fail("Ошибка базы данных")
	}
	var validationErr *util.ValidationError
	if errors.As(err, &validationErr) {
		return protocol.Fail(validationErr.Error())
	}
	var compositionErr *util.CompositionError
	if errors.As(err, &compositionErr) {
		return protocol.Fail(compositionErr.Error())
	}
	switch {
	case errors.Is(err, util.ErrAccountNotFound),
		errors.Is(err, util.ErrStudentExists),
		errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrLabNotFound),
		errors.Is(err, util.ErrNoTimeLimit),
		errors.Is(err, util.ErrDuplicateSubmission),
		errors.Is(err, util.ErrUnknownAction):
		return protocol.Fail(err.Error())
	}
	logger.Log.Error("unexpected handler error", zap.Error(err))
	return protocol.Fail("Внутренняя ошибка сервера")
}

func decodePayload(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return util.NewValidationError("Отсутствуют данные запроса")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return util.NewValidationError("Неверный формат данных запроса")
	}
	return nil
}

func (d *Dispatcher) handleLogin(sess *Session, data json.RawMessage) protocol.Response {
	var req service.CredentialsRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	student, err := d.Auth.Login(req)
	if err != nil {
		return errorResponse(err)
	}
	sess.SetIdentity(student.FullName())
	logger.Log.Info("student connected", zap.String("student", student.FullName()))
	return protocol.Success(map[string]interface{}{"student_id": student.ID})
}

func (d *Dispatcher) handleRegister(sess *Session, data json.RawMessage) protocol.Response {
	var req service.CredentialsRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	student, err := d.Auth.Register(req)
	if err != nil {
		return errorResponse(err)
	}
	sess.SetIdentity(student.FullName())
	logger.Log.Info("student connected", zap.String("student", student.FullName()), zap.Bool("registered", true))
	return protocol.Success(map[string]interface{}{"student_id": student.ID})
}

func (d *Dispatcher) handleGetLabWorks(sess *Session, data json.RawMessage) protocol.Response {
	labs, err := d.Labs.List()
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success(map[string]interface{}{"lab_works": labs})
}

type labProgressRequest struct {
	StudentID uint `json:"student_id"`
	LabID     uint `json:"lab_id"`
}

func (d *Dispatcher) handleCheckLabCompleted(sess *Session, data json.RawMessage) protocol.Response {
	var req labProgressRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	completed, err := d.Labs.CheckCompleted(req.StudentID, req.LabID)
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success(map[string]interface{}{"completed": completed})
}

type getQuestionsRequest struct {
	LabID     uint `json:"lab_id"`
	StudentID uint `json:"student_id"`
}

func (d *Dispatcher) handleGetQuestions(sess *Session, data json.RawMessage) protocol.Response {
	var req getQuestionsRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	quiz, err := d.Quiz.Compose(req.LabID)
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success(quiz)
}

func (d *Dispatcher) handleSubmitTest(sess *Session, data json.RawMessage) protocol.Response {
	var req service.SubmitRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	outcome, err := d.Quiz.Grade(req)
	if err != nil {
		return errorResponse(err)
	}
	if !outcome.Passed {
		message := fmt.Sprintf("Вы набрали %d/%d, лабораторная не засчитана.", outcome.Score, outcome.TotalQuestions)
		return protocol.Retake(message, outcome)
	}
	return protocol.Success(outcome)
}

type studentInfoRequest struct {
	StudentID uint `json:"student_id"`
}

func (d *Dispatcher) handleGetStudentInfo(sess *Session, data json.RawMessage) protocol.Response {
	var req studentInfoRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	student, err := d.Auth.StudentInfo(req.StudentID)
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success(map[string]interface{}{
		"student": map[string]interface{}{
			"first_name":  student.FirstName,
			"last_name":   student.LastName,
			"middle_name": student.MiddleName,
			"group_name":  student.GroupName,
		},
	})
}

type importLabWorksRequest struct {
	LabWorks []service.ImportedLabWork `json:"lab_works"`
}

func (d *Dispatcher) handleImportLabWorks(sess *Session, data json.RawMessage) protocol.Response {
	var req importLabWorksRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	if err := d.Labs.Import(req.LabWorks); err != nil {
		return errorResponse(err)
	}
	return protocol.Success(nil)
}

func (d *Dispatcher) handleExportResults(sess *Session, data json.RawMessage) protocol.Response {
	results, err := d.Labs.ExportResults()
	if err != nil {
		return errorResponse(err)
	}
	if results == nil {
		results = []model.ResultWithStudent{}
	}
	return protocol.Success(map[string]interface{}{"results": results})
}

type uploadImageRequest struct {
	Image []byte `json:"image"`
}

func (d *Dispatcher) handleUploadImage(sess *Session, data json.RawMessage) protocol.Response {
	var req uploadImageRequest
	if err := decodePayload(data, &req); err != nil {
		return errorResponse(err)
	}
	url, err := d.Images.Upload(context.Background(), req.Image)
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success(map[string]interface{}{"image_url": url})
}
