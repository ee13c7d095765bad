package model

// Categories — пять фиксированных категорий вопросов в порядке, который
// используется и при сборке теста, и при навигации по нему.
var Categories = []string{
	"Вопрос 1",
	"Вопрос 2",
	"Вопрос 3",
	"Вопрос 4",
	"Вопрос 5",
}

// QuizSize — размер собранного теста: по одному вопросу на категорию.
const QuizSize = 5

// PassThreshold — минимальный балл, с которого результат засчитывается и
// сохраняется. Ниже порога попытка не фиксируется, студент может пересдать.
const PassThreshold = 3

// Question — вопрос с четырьмя вариантами ответа. Тексты могут содержать
// токены ![image](filename), которые сервер разворачивает в URL.
type Question struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	LabID        uint   `gorm:"index;not null" json:"lab_id"`
	Category     string `gorm:"size:32;not null" json:"category"`
	QuestionText string `gorm:"type:text" json:"question_text"`
	Answer1      string `gorm:"type:text" json:"answer1"`
	Answer2      string `gorm:"type:text" json:"answer2"`
	Answer3      string `gorm:"type:text" json:"answer3"`
	Answer4      string `gorm:"type:text" json:"answer4"`
	CorrectIndex int    `gorm:"not null" json:"correct_index"`
}

// Answers возвращает варианты ответа в порядке 1..4.
func (q *Question) Answers() [4]string {
	return [4]string{q.Answer1, q.Answer2, q.Answer3, q.Answer4}
}
