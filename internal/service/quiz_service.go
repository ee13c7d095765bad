package service

import (
	"errors"
	"math/rand"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/repository"
	"mgtu_lab_backend/internal/util"
	"mgtu_lab_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService собирает тест из банка вопросов и оценивает сдачу. Таймер на
// сервере не ведется: лимит времени — справочное поле, его соблюдение
// контролирует клиент, итог фиксирует только submit_test.
type QuizService struct {
	Labs      *repository.LabWorkRepository
	Questions *repository.QuestionRepository
	Results   *repository.ResultRepository
	Students  *repository.StudentRepository
	PublicURL string
}

func NewQuizService(
	labs *repository.LabWorkRepository,
	questions *repository.QuestionRepository,
	results *repository.ResultRepository,
	students *repository.StudentRepository,
	publicURL string,
) *QuizService {
	return &QuizService{
		Labs:      labs,
		Questions: questions,
		Results:   results,
		Students:  students,
		PublicURL: publicURL,
	}
}

type AnswerView struct {
	Text   string   `json:"text"`
	Images []string `json:"images"`
}

type QuestionView struct {
	ID             uint         `json:"id"`
	Category       string       `json:"category"`
	QuestionText   string       `json:"question_text"`
	QuestionImages []string     `json:"question_images"`
	Answers        []AnswerView `json:"answers"`
	CorrectIndex   int          `json:"correct_index"`
}

type ComposedQuiz struct {
	Questions []QuestionView `json:"questions"`
	TimeLimit int            `json:"time_limit"`
}

// Compose строит тест для работы: ровно один случайный вопрос из каждой из
// пяти категорий, в фиксированном порядке категорий. Если хотя бы одна
// категория пуста, сборка завершается CompositionError с перечнем всех
// недостающих категорий — частичный тест не возвращается никогда.
func (s *QuizService) Compose(labID uint) (*ComposedQuiz, error) {
	if labID == 0 {
		return nil, util.NewValidationError("Не указан lab_id")
	}

	lab, err := s.Labs.FindByID(labID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLabNotFound
		}
		return nil, err
	}
	grouped, err := s.Questions.ListByLabGrouped(labID)
	if err != nil {
		return nil, err
	}

	// Нехватка вопросов сообщается раньше, чем отсутствие лимита времени.
	var missing []string
	for _, category := range model.Categories {
		if len(grouped[category]) == 0 {
			missing = append(missing, category)
		}
	}
	if len(missing) > 0 {
		return nil, &util.CompositionError{Missing: missing}
	}

	if lab.Time <= 0 {
		return nil, util.ErrNoTimeLimit
	}

	quiz := &ComposedQuiz{
		Questions: make([]QuestionView, 0, model.QuizSize),
		TimeLimit: lab.Time,
	}
	for _, category := range model.Categories {
		pool := grouped[category]
		quiz.Questions = append(quiz.Questions, s.questionView(pool[rand.Intn(len(pool))]))
	}
	return quiz, nil
}

func (s *QuizService) questionView(q model.Question) QuestionView {
	text, textImages := util.ResolveImageURLs(q.QuestionText, s.PublicURL)
	view := QuestionView{
		ID:             q.ID,
		Category:       q.Category,
		QuestionText:   text,
		QuestionImages: textImages,
		Answers:        make([]AnswerView, 0, 4),
		CorrectIndex:   q.CorrectIndex,
	}
	for _, answer := range q.Answers() {
		answerText, answerImages := util.ResolveImageURLs(answer, s.PublicURL)
		view.Answers = append(view.Answers, AnswerView{Text: answerText, Images: answerImages})
	}
	return view
}

// SubmitRequest — сдача теста: выбранные варианты по id вопросов. Значения —
// номера вариантов, начиная с 1, в строковом виде.
type SubmitRequest struct {
	StudentID uint              `json:"student_id"`
	LabID     uint              `json:"lab_id"`
	Answers   map[string]string `json:"answers"`
	Duration  int               `json:"duration"`
}

type GradeOutcome struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	Passed         bool `json:"-"`
}

// Grade оценивает сдачу. Порядок проверок фиксирован: валидация полей, затем
// защита от повторной сдачи, затем подсчет. Ответы на неизвестные id вопросов
// просто не засчитываются. Ниже порога результат не сохраняется вовсе —
// студент может попытаться снова.
func (s *QuizService) Grade(req SubmitRequest) (*GradeOutcome, error) {
	if req.StudentID == 0 || req.LabID == 0 || len(req.Answers) == 0 {
		return nil, util.NewValidationError("Необходимо предоставить student_id, lab_id и ответы")
	}

	exists, err := s.Results.Exists(req.StudentID, req.LabID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateSubmission
	}

	correct, err := s.Questions.CorrectAnswersByLab(req.LabID)
	if err != nil {
		return nil, err
	}

	score := 0
	for questionID, chosen := range req.Answers {
		if want, ok := correct[questionID]; ok && want == chosen {
			score++
		}
	}

	outcome := &GradeOutcome{Score: score, TotalQuestions: model.QuizSize}
	fio, theme := s.submissionContext(req.StudentID, req.LabID)

	if score < model.PassThreshold {
		logger.Log.Info("lab not passed",
			zap.String("student", fio),
			zap.String("lab", theme),
			zap.Int("score", score),
		)
		return outcome, nil
	}

	result := &model.Result{
		StudentID:       req.StudentID,
		LabID:           req.LabID,
		Score:           score,
		DurationSeconds: req.Duration,
	}
	if err := s.Results.CreateExclusive(result); err != nil {
		return nil, err
	}
	outcome.Passed = true

	logger.Log.Info("lab passed",
		zap.String("student", fio),
		zap.String("lab", theme),
		zap.Int("score", score),
	)
	return outcome, nil
}

// submissionContext — имя студента и тема работы для журнала; отсутствующие
// записи не считаются ошибкой сдачи.
func (s *QuizService) submissionContext(studentID, labID uint) (string, string) {
	fio := "Неизвестно"
	if student, err := s.Students.FindByID(studentID); err == nil {
		fio = student.FullName()
	}
	theme := "Неизвестно"
	if lab, err := s.Labs.FindByID(labID); err == nil {
		theme = lab.Theme
	}
	return fio, theme
}
