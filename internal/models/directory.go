package models

import "time"

// Lab represents a soil/crop testing laboratory listed in the directory.
type Lab struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Address   string    `json:"address"`
	State     string    `gorm:"index" json:"state"`
	District  string    `gorm:"index" json:"district"`
	Phone     string    `json:"phone"`
	Services  string    `json:"services"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expert represents an agricultural expert users can contact.
type Expert struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Specialization string    `gorm:"index" json:"specialization"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	State          string    `gorm:"index" json:"state"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Crop represents reference data about a cultivable crop.
type Crop struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"unique;not null" json:"name"`
	Season       string    `gorm:"index" json:"season"`
	SoilType     string    `json:"soil_type"`
	DurationDays int       `json:"duration_days"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
