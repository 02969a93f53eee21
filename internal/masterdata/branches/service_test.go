package branches

import (
	"context"
	"testing"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
	_ "github.com/qayd-erp/qayd/testing"
)

type fakeRepo struct {
	created []Branch
}

func (f *fakeRepo) List(_ context.Context, _ shared.ListFilters) ([]Branch, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Get(_ context.Context, _ int64) (Branch, error) {
	return Branch{}, shared.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, b Branch) (Branch, error) {
	b.ID = int64(len(f.created) + 1)
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeRepo) Update(_ context.Context, _ int64, _ Branch) error { return nil }
func (f *fakeRepo) Delete(_ context.Context, _ int64) error           { return nil }

func TestCreateValidatesBranch(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), Branch{Code: "  ", Name: "Riyadh"}); err == nil {
		t.Fatal("expected blank code to be rejected")
	}
	if _, err := svc.Create(context.Background(), Branch{Code: "RUH-01", Name: ""}); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid branches reached the repository: %d", len(repo.created))
	}

	b, err := svc.Create(context.Background(), Branch{Code: "RUH-01", Name: "Riyadh", IsActive: true})
	if err != nil {
		t.Fatalf("valid branch rejected: %v", err)
	}
	if b.ID != 1 {
		t.Fatalf("id = %d", b.ID)
	}
}

func TestUpdateRejectsBadID(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if err := svc.Update(context.Background(), 0, Branch{Code: "RUH-01", Name: "Riyadh"}); err == nil {
		t.Fatal("expected error for id 0")
	}
}
