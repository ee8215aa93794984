package models

import (
	"strings"
	"time"
)

// Scheme represents a government agricultural scheme with its eligibility
// criteria. EligibleStates and CropTypes are comma-separated lists; an empty
// list means the criterion does not restrict eligibility.
type Scheme struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"unique;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Category       string    `gorm:"index" json:"category"`
	MinLandholding float64   `json:"min_landholding"`
	MaxLandholding float64   `json:"max_landholding"`
	EligibleStates string    `json:"eligible_states"`
	CropTypes      string    `json:"crop_types"`
	Link           string    `json:"link"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EligibleFor reports whether the scheme matches the given filters. Empty
// filter values match everything; a zero MaxLandholding means no upper bound.
func (s *Scheme) EligibleFor(state string, landholding float64, crop string) bool {
	if state != "" && s.EligibleStates != "" && !containsField(s.EligibleStates, state) {
		return false
	}
	if crop != "" && s.CropTypes != "" && !containsField(s.CropTypes, crop) {
		return false
	}
	if landholding > 0 {
		if landholding < s.MinLandholding {
			return false
		}
		if s.MaxLandholding > 0 && landholding > s.MaxLandholding {
			return false
		}
	}
	return true
}

func containsField(list, value string) bool {
	for _, f := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(f), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}
