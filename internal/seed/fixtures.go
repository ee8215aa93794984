package seed

import (
	"embed"
	"fmt"

	"farmiq/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures.yml
var fixtureFS embed.FS

// fixtureFile mirrors the structure of fixtures.yml.
type fixtureFile struct {
	Schemes []struct {
		Name           string  `yaml:"name"`
		Description    string  `yaml:"description"`
		Category       string  `yaml:"category"`
		MinLandholding float64 `yaml:"min_landholding"`
		MaxLandholding float64 `yaml:"max_landholding"`
		EligibleStates string  `yaml:"eligible_states"`
		CropTypes      string  `yaml:"crop_types"`
		Link           string  `yaml:"link"`
	} `yaml:"schemes"`
	Labs []struct {
		Name     string `yaml:"name"`
		Address  string `yaml:"address"`
		State    string `yaml:"state"`
		District string `yaml:"district"`
		Phone    string `yaml:"phone"`
		Services string `yaml:"services"`
	} `yaml:"labs"`
	Experts []struct {
		Name           string `yaml:"name"`
		Specialization string `yaml:"specialization"`
		Phone          string `yaml:"phone"`
		Email          string `yaml:"email"`
		State          string `yaml:"state"`
	} `yaml:"experts"`
	Crops []struct {
		Name         string `yaml:"name"`
		Season       string `yaml:"season"`
		SoilType     string `yaml:"soil_type"`
		DurationDays int    `yaml:"duration_days"`
		Description  string `yaml:"description"`
	} `yaml:"crops"`
}

// LoadFixtures upserts the embedded reference data (schemes, labs, experts,
// crops) into the database. Existing rows are matched by name and left in
// place, so reruns are safe.
func LoadFixtures(db *gorm.DB) error {
	raw, err := fixtureFS.ReadFile("fixtures.yml")
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	for _, s := range fixtures.Schemes {
		scheme := models.Scheme{
			Name:           s.Name,
			Description:    s.Description,
			Category:       s.Category,
			MinLandholding: s.MinLandholding,
			MaxLandholding: s.MaxLandholding,
			EligibleStates: s.EligibleStates,
			CropTypes:      s.CropTypes,
			Link:           s.Link,
		}
		if err := db.Where(models.Scheme{Name: s.Name}).FirstOrCreate(&scheme).Error; err != nil {
			return fmt.Errorf("seed scheme %q: %w", s.Name, err)
		}
	}

	for _, l := range fixtures.Labs {
		lab := models.Lab{
			Name:     l.Name,
			Address:  l.Address,
			State:    l.State,
			District: l.District,
			Phone:    l.Phone,
			Services: l.Services,
		}
		if err := db.Where(models.Lab{Name: l.Name}).FirstOrCreate(&lab).Error; err != nil {
			return fmt.Errorf("seed lab %q: %w", l.Name, err)
		}
	}

	for _, e := range fixtures.Experts {
		expert := models.Expert{
			Name:           e.Name,
			Specialization: e.Specialization,
			Phone:          e.Phone,
			Email:          e.Email,
			State:          e.State,
		}
		if err := db.Where(models.Expert{Name: e.Name}).FirstOrCreate(&expert).Error; err != nil {
			return fmt.Errorf("seed expert %q: %w", e.Name, err)
		}
	}

	for _, c := range fixtures.Crops {
		crop := models.Crop{
			Name:         c.Name,
			Season:       c.Season,
			SoilType:     c.SoilType,
			DurationDays: c.DurationDays,
			Description:  c.Description,
		}
		if err := db.Where(models.Crop{Name: c.Name}).FirstOrCreate(&crop).Error; err != nil {
			return fmt.Errorf("seed crop %q: %w", c.Name, err)
		}
	}

	return nil
}
