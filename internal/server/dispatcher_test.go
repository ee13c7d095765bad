package server

import (
	"encoding/json"
	"strings"
	"testing"

	"mgtu_lab_backend/internal/model"
	"mgtu_lab_backend/internal/protocol"
	"mgtu_lab_backend/internal/util"
)

func dispatch(t *testing.T, d *Dispatcher, action string, data interface{}) protocol.Response {
	t.Helper()
	req, err := protocol.NewRequest(action, data)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	registry := NewConnectionRegistry()
	registry.Add("test:1")
	return d.Dispatch(&Session{Addr: "test:1", registry: registry}, req)
}

func TestDispatch_UnknownAction(t *testing.T) {
	d := newTestDispatcher(t, newTestDB(t))

	resp := d.Dispatch(&Session{Addr: "test:1"}, &protocol.Request{Action: "fly_to_the_moon"})
	if resp.Status != protocol.StatusError {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if resp.Message != util.ErrUnknownAction.Error() {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestDispatch_RegisterLoginFlow(t *testing.T) {
	d := newTestDispatcher(t, newTestDB(t))

	creds := map[string]interface{}{
		"first_name": "Иван",
		"last_name":  "Петров",
		"group_name": "G1",
		"year":       2024,
	}

	resp := dispatch(t, d, protocol.ActionRegister, creds)
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("register: %+v", resp)
	}

	resp = dispatch(t, d, protocol.ActionLogin, creds)
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("login: %+v", resp)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type %T", resp.Data)
	}
	if _, ok := data["student_id"]; !ok {
		t.Errorf("no student_id in %v", data)
	}
}

func TestDispatch_LoginMissingFields(t *testing.T) {
	d := newTestDispatcher(t, newTestDB(t))

	resp := dispatch(t, d, protocol.ActionLogin, map[string]interface{}{"first_name": "Иван"})
	if resp.Status != protocol.StatusError {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if resp.Message == "" {
		t.Error("error response must carry a message")
	}
}

func TestDispatch_GetQuestionsAndSubmit(t *testing.T) {
	db := newTestDB(t)
	d := newTestDispatcher(t, db)
	lab := seedTestLab(t, db, "Модуляция")

	resp := dispatch(t, d, protocol.ActionRegister, map[string]interface{}{
		"first_name": "Анна", "last_name": "Смирнова", "group_name": "G2", "year": 2024,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("register: %+v", resp)
	}
	studentID := uint(resp.Data.(map[string]interface{})["student_id"].(uint))

	resp = dispatch(t, d, protocol.ActionGetQuestions, map[string]interface{}{"lab_id": lab.ID})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("get_questions: %+v", resp)
	}

	// Ответ сервиса типизирован, данные достаем через JSON-круг, как это
	// сделал бы клиент.
	raw, _ := json.Marshal(resp.Data)
	var quiz struct {
		Questions []struct {
			ID           uint   `json:"id"`
			Category     string `json:"category"`
			CorrectIndex int    `json:"correct_index"`
		} `json:"questions"`
		TimeLimit int `json:"time_limit"`
	}
	if err := json.Unmarshal(raw, &quiz); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	if len(quiz.Questions) != model.QuizSize {
		t.Fatalf("questions = %d, want %d", len(quiz.Questions), model.QuizSize)
	}
	if quiz.TimeLimit != lab.Time {
		t.Errorf("time_limit = %d, want %d", quiz.TimeLimit, lab.Time)
	}

	// 4 правильных, 1 неверный.
	answers := map[string]string{}
	for i, q := range quiz.Questions {
		if i == 0 {
			answers[fmtUint(q.ID)] = "1"
		} else {
			answers[fmtUint(q.ID)] = fmtInt(q.CorrectIndex)
		}
	}
	resp = dispatch(t, d, protocol.ActionSubmitTest, map[string]interface{}{
		"student_id": studentID,
		"lab_id":     lab.ID,
		"answers":    answers,
		"duration":   300,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("submit: %+v", resp)
	}

	// Повторная сдача — дубликат.
	resp = dispatch(t, d, protocol.ActionSubmitTest, map[string]interface{}{
		"student_id": studentID,
		"lab_id":     lab.ID,
		"answers":    answers,
	})
	if resp.Status != protocol.StatusError || resp.Message != util.ErrDuplicateSubmission.Error() {
		t.Fatalf("resubmit: %+v", resp)
	}

	// check_lab_completed теперь отвечает true.
	resp = dispatch(t, d, protocol.ActionCheckLabCompleted, map[string]interface{}{
		"student_id": studentID,
		"lab_id":     lab.ID,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("check_lab_completed: %+v", resp)
	}
	if completed := resp.Data.(map[string]interface{})["completed"]; completed != true {
		t.Errorf("completed = %v, want true", completed)
	}
}

func TestDispatch_SubmitRetakeEnvelope(t *testing.T) {
	db := newTestDB(t)
	d := newTestDispatcher(t, db)
	lab := seedTestLab(t, db, "Фильтры")

	var questions []model.Question
	if err := db.Where("lab_id = ?", lab.ID).Find(&questions).Error; err != nil {
		t.Fatal(err)
	}
	answers := map[string]string{}
	correct := 0
	for _, q := range questions {
		if correct < 2 {
			answers[fmtUint(q.ID)] = fmtInt(q.CorrectIndex)
			correct++
		} else {
			answers[fmtUint(q.ID)] = fmtInt(q.CorrectIndex%4 + 1)
		}
	}

	resp := dispatch(t, d, protocol.ActionSubmitTest, map[string]interface{}{
		"student_id": 1,
		"lab_id":     lab.ID,
		"answers":    answers,
	})
	if resp.Status != protocol.StatusRetake {
		t.Fatalf("status = %q, want retake: %+v", resp.Status, resp)
	}
	if resp.Message == "" {
		t.Error("retake response must carry a message")
	}

	var count int64
	db.Model(&model.Result{}).Count(&count)
	if count != 0 {
		t.Errorf("result rows = %d, want 0 after retake", count)
	}
}

func TestDispatch_GetQuestionsCompositionError(t *testing.T) {
	db := newTestDB(t)
	d := newTestDispatcher(t, db)

	lab := &model.LabWork{Theme: "Пустая", Time: 10}
	if err := db.Create(lab).Error; err != nil {
		t.Fatal(err)
	}
	// Вопросы только в первой категории.
	if err := db.Create(&model.Question{
		LabID: lab.ID, Category: model.Categories[0], QuestionText: "?", CorrectIndex: 1,
	}).Error; err != nil {
		t.Fatal(err)
	}

	resp := dispatch(t, d, protocol.ActionGetQuestions, map[string]interface{}{"lab_id": lab.ID})
	if resp.Status != protocol.StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	for _, category := range model.Categories[1:] {
		if !strings.Contains(resp.Message, category) {
			t.Errorf("message %q does not name missing category %q", resp.Message, category)
		}
	}
}

func TestDispatch_ImportAndExport(t *testing.T) {
	db := newTestDB(t)
	d := newTestDispatcher(t, db)

	resp := dispatch(t, d, protocol.ActionImportLabWorks, map[string]interface{}{
		"lab_works": []map[string]interface{}{
			{"theme": "Тема А", "time": 30, "question_count": 10},
			{"theme": "Тема Б", "time": 45, "question_count": 15},
		},
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("import: %+v", resp)
	}

	resp = dispatch(t, d, protocol.ActionGetLabWorks, nil)
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("get_lab_works: %+v", resp)
	}
	labs := resp.Data.(map[string]interface{})["lab_works"]
	raw, _ := json.Marshal(labs)
	var views []struct {
		ID    uint   `json:"id"`
		Theme string `json:"theme"`
		Time  int    `json:"time"`
	}
	if err := json.Unmarshal(raw, &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 || views[0].Theme != "Тема А" || views[1].Time != 45 {
		t.Errorf("lab works = %+v", views)
	}

	resp = dispatch(t, d, protocol.ActionExportResults, nil)
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("export_results: %+v", resp)
	}
}

func TestDispatch_GetStudentInfo(t *testing.T) {
	db := newTestDB(t)
	d := newTestDispatcher(t, db)

	resp := dispatch(t, d, protocol.ActionRegister, map[string]interface{}{
		"first_name":  "Петр",
		"last_name":   "Сидоров",
		"middle_name": "Олегович",
		"group_name":  "РК6-52Б",
		"year":        2023,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("register: %+v", resp)
	}
	studentID := resp.Data.(map[string]interface{})["student_id"].(uint)

	resp = dispatch(t, d, protocol.ActionGetStudentInfo, map[string]interface{}{
		"student_id": studentID,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("get_student_info: %+v", resp)
	}
	student := resp.Data.(map[string]interface{})["student"].(map[string]interface{})
	if student["last_name"] != "Сидоров" || student["group_name"] != "РК6-52Б" {
		t.Errorf("student = %v", student)
	}

	resp = dispatch(t, d, protocol.ActionGetStudentInfo, map[string]interface{}{
		"student_id": studentID + 100,
	})
	if resp.Status != protocol.StatusError {
		t.Fatalf("unknown student: status = %q, want error", resp.Status)
	}
}

func TestDispatch_UploadImage(t *testing.T) {
	db := newTestDB(t)
	d := newTestDispatcher(t, db)

	payload := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3, 4}
	resp := dispatch(t, d, protocol.ActionUploadImage, map[string]interface{}{
		"image": payload,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("upload_image: %+v", resp)
	}
	url := resp.Data.(map[string]interface{})["image_url"].(string)
	if url == "" {
		t.Fatal("empty image_url")
	}

	// Повторная загрузка тех же байтов дает тот же адрес.
	resp = dispatch(t, d, protocol.ActionUploadImage, map[string]interface{}{
		"image": payload,
	})
	if resp.Status != protocol.StatusSuccess {
		t.Fatalf("repeat upload: %+v", resp)
	}
	if again := resp.Data.(map[string]interface{})["image_url"].(string); again != url {
		t.Errorf("repeat upload url = %q, want %q", again, url)
	}

	resp = dispatch(t, d, protocol.ActionUploadImage, map[string]interface{}{
		"image": []byte{},
	})
	if resp.Status != protocol.StatusError {
		t.Fatalf("empty image: status = %q, want error", resp.Status)
	}
}

func fmtUint(v uint) string { return util.UintToString(v) }
func fmtInt(v int) string   { return util.IntToString(v) }
