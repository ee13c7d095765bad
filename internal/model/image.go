package model

// Image — зарегистрированный файл изображения. Хранение контент-адресуемое:
// одинаковые байты всегда разрешаются в один и тот же файл.
type Image struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename    string `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	ContentHash string `gorm:"size:64;not null;uniqueIndex" json:"content_hash"`
}
