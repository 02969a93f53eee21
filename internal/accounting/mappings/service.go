package mappings

import "context"

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]GLMapping, error) {
	return s.repo.List(ctx)
}

func (s *Service) Resolve(ctx context.Context, category string) (GLMapping, error) {
	return s.repo.Resolve(ctx, category)
}
