package costcenters

import (
	"errors"
	"strings"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
)

func normalize(c CostCenter) CostCenter {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	return c
}

func (s *Service) validate(c CostCenter) error {
	if !shared.ValidCode(c.Code) {
		return errors.New("cost center code must be uppercase letters, digits and dashes")
	}
	if c.Name == "" {
		return errors.New("cost center name is required")
	}
	return nil
}
