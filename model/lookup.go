package model

import "time"

// ServiceCategory maps a trade code used by the public forms to its
// internal id.
type ServiceCategory struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null;size:50"`
	NameSq    string    `json:"name_sq" gorm:"size:100"`
	NameEn    string    `json:"name_en" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// Location maps a city code used by the public forms to its internal id.
type Location struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null;size:50"`
	NameSq    string    `json:"name_sq" gorm:"size:100"`
	NameEn    string    `json:"name_en" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
