package protocol

import "encoding/json"

// Действия протокола. Клиент и сервер оперируют одним и тем же набором имен.
const (
	ActionLogin             = "login"
	ActionRegister          = "register"
	ActionGetLabWorks       = "get_lab_works"
	ActionCheckLabCompleted = "check_lab_completed"
	ActionGetQuestions      = "get_questions"
	ActionSubmitTest        = "submit_test"
	ActionGetStudentInfo    = "get_student_info"
	ActionImportLabWorks    = "import_lab_works"
	ActionExportResults     = "export_results"
	ActionUploadImage       = "upload_image"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusRetake  = "retake"
)

// Request — конверт запроса: имя действия и полезная нагрузка.
// Data остается сырым JSON: конкретную структуру знает только обработчик.
type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Response — конверт ответа. Status всегда заполнен, Message сопровождает
// ошибки и статус "retake".
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func NewRequest(action string, data interface{}) (*Request, error) {
	if data == nil {
		return &Request{Action: action}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Request{Action: action, Data: raw}, nil
}

func Success(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

func Fail(message string) Response {
	return Response{Status: StatusError, Message: message}
}

func Retake(message string, data interface{}) Response {
	return Response{Status: StatusRetake, Data: data, Message: message}
}
