package items

import (
	"errors"
	"strings"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
)

// normalize trims the fields and folds the category to lower case, matching
// how the GL mapping table keys categories.
func normalize(it Item) Item {
	it.SKU = strings.ToUpper(strings.TrimSpace(it.SKU))
	it.Name = strings.TrimSpace(it.Name)
	it.Category = strings.ToLower(strings.TrimSpace(it.Category))
	return it
}

func (s *Service) validate(it Item) error {
	if !shared.ValidCode(it.SKU) {
		return errors.New("item sku must be uppercase letters, digits and dashes")
	}
	if it.Name == "" {
		return errors.New("item name is required")
	}
	if it.Category == "" {
		return errors.New("item category is required")
	}
	if it.Price.Sign() < 0 {
		return errors.New("item price must be >= 0")
	}
	if it.Cost.Sign() < 0 {
		return errors.New("item cost must be >= 0")
	}
	return nil
}
