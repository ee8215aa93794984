package models

import "time"

// Sensor booking statuses.
const (
	BookingStatusPending   = "Pending"
	BookingStatusActive    = "Active"
	BookingStatusCompleted = "Completed"
)

// SensorBooking represents a user's reservation of an IoT field sensor.
// ChannelID is the ThingSpeak channel assigned once the booking is activated.
type SensorBooking struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SensorType string     `gorm:"not null" json:"sensor_type"`
	Status     string     `gorm:"not null;default:Pending" json:"status"`
	ChannelID  string     `json:"channel_id"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
