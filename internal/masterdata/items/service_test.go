package items

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
	_ "github.com/qayd-erp/qayd/testing"
)

type fakeRepo struct {
	lastFilters shared.ListFilters
	items       map[int64]Item
	createErr   error
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[int64]Item{}, nextID: 1}
}

func (f *fakeRepo) List(_ context.Context, filters shared.ListFilters) ([]Item, int, error) {
	f.lastFilters = filters
	out := make([]Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Item, error) {
	it, ok := f.items[id]
	if !ok {
		return Item{}, shared.ErrNotFound
	}
	return it, nil
}

func (f *fakeRepo) GetBySKU(_ context.Context, sku string) (Item, error) {
	for _, it := range f.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return Item{}, shared.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, item Item) (Item, error) {
	if f.createErr != nil {
		return Item{}, f.createErr
	}
	item.ID = f.nextID
	f.nextID++
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, item Item) error {
	if _, ok := f.items[id]; !ok {
		return shared.ErrNotFound
	}
	item.ID = id
	f.items[id] = item
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	it, ok := f.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	it.IsActive = false
	f.items[id] = it
	return nil
}

func validItem() Item {
	return Item{
		SKU:      "ELEC-LT-001",
		Name:     "Laptop 14",
		Category: "electronics",
		Price:    decimal.NewFromInt(5750),
		Cost:     decimal.NewFromInt(4500),
		IsActive: true,
	}
}

func TestListNormalizesFilters(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, _, err := svc.List(context.Background(), shared.ListFilters{Page: -1, Limit: 0, SortDir: "up"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	got := repo.lastFilters
	if got.Page != shared.DefaultPage || got.Limit != shared.DefaultLimit || got.SortDir != shared.SortAsc {
		t.Fatalf("filters not normalized: %+v", got)
	}
}

func TestCreateValidatesItem(t *testing.T) {
	svc := NewService(newFakeRepo())

	cases := []struct {
		name   string
		mutate func(*Item)
	}{
		{"blank sku", func(it *Item) { it.SKU = "  " }},
		{"blank name", func(it *Item) { it.Name = "" }},
		{"blank category", func(it *Item) { it.Category = "" }},
		{"negative price", func(it *Item) { it.Price = decimal.NewFromInt(-1) }},
		{"negative cost", func(it *Item) { it.Cost = decimal.NewFromInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := validItem()
			tc.mutate(&it)
			if _, err := svc.Create(context.Background(), it); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if _, err := svc.Create(context.Background(), validItem()); err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}
}

func TestCreateNormalizesFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	it := validItem()
	it.SKU = " elec-lt-001 "
	it.Category = " Electronics "
	created, err := svc.Create(context.Background(), it)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SKU != "ELEC-LT-001" || created.Category != "electronics" {
		t.Fatalf("normalized to %q / %q", created.SKU, created.Category)
	}
}

func TestCreatePassesDuplicateThrough(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = shared.ErrDuplicate
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validItem())
	if !errors.Is(err, shared.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestGetRejectsBadID(t *testing.T) {
	svc := NewService(newFakeRepo())
	if _, err := svc.Get(context.Background(), 0); err == nil {
		t.Fatal("expected error for id 0")
	}
	if err := svc.Delete(context.Background(), -5); err == nil {
		t.Fatal("expected error for negative id")
	}
}
