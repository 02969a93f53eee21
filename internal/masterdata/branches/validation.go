package branches

import (
	"errors"
	"strings"

	"github.com/qayd-erp/qayd/internal/masterdata/shared"
)

// normalize trims and uppercases the code so ruh-01 and RUH-01 land on the
// same unique row.
func normalize(b Branch) Branch {
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
	b.Name = strings.TrimSpace(b.Name)
	return b
}

func (s *Service) validate(b Branch) error {
	if !shared.ValidCode(b.Code) {
		return errors.New("branch code must be uppercase letters, digits and dashes")
	}
	if b.Name == "" {
		return errors.New("branch name is required")
	}
	return nil
}
