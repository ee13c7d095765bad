package model

// LabWork создается и редактируется преподавательским приложением; сервер
// тестирования только читает. QuestionCount — кэшированное значение, реальное
// число вопросов всегда пересчитывается по таблице questions.
type LabWork struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Theme         string `gorm:"size:255;not null" json:"theme"`
	Time          int    `gorm:"column:time;not null" json:"time"`
	QuestionCount int    `gorm:"not null;default:0" json:"question_count"`
}

func (LabWork) TableName() string { return "lab_works" }
