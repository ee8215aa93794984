package service

import (
	"context"
	"strings"

	"farmiq/internal/models"
	"farmiq/internal/repository"
)

type SchemeService struct {
	schemeRepo repository.SchemeRepository
}

type EligibilityInput struct {
	State       string
	Landholding float64
	Crop        string
}

func NewSchemeService(schemeRepo repository.SchemeRepository) *SchemeService {
	return &SchemeService{schemeRepo: schemeRepo}
}

func (s *SchemeService) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	return s.schemeRepo.List(ctx)
}

func (s *SchemeService) GetScheme(ctx context.Context, id uint) (*models.Scheme, error) {
	return s.schemeRepo.GetByID(ctx, id)
}

// EligibleSchemes filters the full scheme list in-process against the
// farmer's profile. The list itself comes through the Redis read-through
// cache, so repeated eligibility checks do not hit the database.
func (s *SchemeService) EligibleSchemes(ctx context.Context, in EligibilityInput) ([]models.Scheme, error) {
	if strings.TrimSpace(in.State) == "" {
		return nil, models.NewValidationError("State is required")
	}
	if in.Landholding < 0 {
		return nil, models.NewValidationError("Landholding cannot be negative")
	}

	schemes, err := s.schemeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Scheme, 0, len(schemes))
	for _, scheme := range schemes {
		if scheme.EligibleFor(in.State, in.Landholding, in.Crop) {
			eligible = append(eligible, scheme)
		}
	}
	return eligible, nil
}

func (s *SchemeService) CreateScheme(ctx context.Context, scheme *models.Scheme) error {
	if strings.TrimSpace(scheme.Name) == "" {
		return models.NewValidationError("Scheme name is required")
	}
	if scheme.MaxLandholding > 0 && scheme.MinLandholding > scheme.MaxLandholding {
		return models.NewValidationError("Minimum landholding cannot exceed maximum")
	}
	return s.schemeRepo.Create(ctx, scheme)
}

func (s *SchemeService) UpdateScheme(ctx context.Context, scheme *models.Scheme) error {
	if scheme.ID == 0 {
		return models.NewValidationError("Scheme id is required")
	}
	return s.schemeRepo.Update(ctx, scheme)
}

func (s *SchemeService) DeleteScheme(ctx context.Context, id uint) error {
	return s.schemeRepo.Delete(ctx, id)
}
