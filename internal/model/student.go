package model

// Student идентифицируется кортежем (имя, фамилия, отчество, группа, год):
// и вход, и регистрация разрешаются через поиск по этому кортежу.
type Student struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName  string `gorm:"size:128;not null;uniqueIndex:idx_student_identity" json:"first_name"`
	LastName   string `gorm:"size:128;not null;uniqueIndex:idx_student_identity" json:"last_name"`
	MiddleName string `gorm:"size:128;uniqueIndex:idx_student_identity" json:"middle_name"`
	GroupName  string `gorm:"size:64;not null;uniqueIndex:idx_student_identity" json:"group_name"`
	Year       int    `gorm:"uniqueIndex:idx_student_identity" json:"year"`
}

// FullName возвращает "Фамилия Имя Отчество"; отчество опускается, если пусто.
func (s *Student) FullName() string {
	fio := s.LastName + " " + s.FirstName
	if s.MiddleName != "" {
		fio += " " + s.MiddleName
	}
	return fio
}
