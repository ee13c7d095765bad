package model

// Result — зачтенная попытка. Уникальный индекс по (student_id, lab_id)
// страхует проверку на повторную сдачу от гонки двух одновременных вставок.
type Result struct {
	ID              uint `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       uint `gorm:"not null;uniqueIndex:idx_result_attempt" json:"student_id"`
	LabID           uint `gorm:"not null;uniqueIndex:idx_result_attempt" json:"lab_id"`
	Score           int  `gorm:"not null" json:"score"`
	DurationSeconds int  `gorm:"default:0" json:"duration_seconds"`
}

// ResultWithStudent — строка экспорта: результат, соединенный с данными
// студента.
type ResultWithStudent struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name"`
	GroupName  string `json:"group_name"`
	LabID      uint   `json:"lab_id"`
	Score      int    `json:"score"`
}
