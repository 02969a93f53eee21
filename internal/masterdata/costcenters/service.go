package costcenters

import (
	"context"
	"errors"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]CostCenter, int, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (CostCenter, error) {
	if id <= 0 {
		return CostCenter{}, errors.New("invalid cost center ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, center CostCenter) (CostCenter, error) {
	center = normalize(center)
	if err := s.validate(center); err != nil {
		return CostCenter{}, err
	}
	return s.repo.Create(ctx, center)
}

func (s *Service) Update(ctx context.Context, id int64, center CostCenter) error {
	if id <= 0 {
		return errors.New("invalid cost center ID")
	}
	center = normalize(center)
	if err := s.validate(center); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, center)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid cost center ID")
	}
	return s.repo.Delete(ctx, id)
}
