package app

import (
	"testing"

	"github.com/shopspring/decimal"

	_ "github.com/qayd-erp/qayd/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppAddr != ":8080" {
		t.Fatalf("addr = %s", cfg.AppAddr)
	}
	if !cfg.VATRate.Equal(decimal.RequireFromString("0.15")) {
		t.Fatalf("vat rate = %s", cfg.VATRate)
	}
	if cfg.CashAccount != "1-01-01-001-001" || cfg.PayableAccount != "2-01-01-000-000" {
		t.Fatalf("account defaults = %s / %s", cfg.CashAccount, cfg.PayableAccount)
	}
	if cfg.IsProduction() {
		t.Fatal("development config reported production")
	}
	if !cfg.ReturnUnitCostDecimal().IsZero() {
		t.Fatalf("return unit cost default = %s", cfg.ReturnUnitCostDecimal())
	}
}

func TestLoadConfigRejectsBadVATRate(t *testing.T) {
	t.Setenv("VAT_RATE", "1.5")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected VAT_RATE above 1 to be rejected")
	}
	t.Setenv("VAT_RATE", "-0.1")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected negative VAT_RATE to be rejected")
	}
}

func TestLoadConfigRejectsBadReturnCost(t *testing.T) {
	t.Setenv("RETURN_UNIT_COST", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected invalid RETURN_UNIT_COST to be rejected")
	}

	t.Setenv("RETURN_UNIT_COST", "4200.50")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ReturnUnitCostDecimal().String() != "4200.5" {
		t.Fatalf("return unit cost = %s", cfg.ReturnUnitCostDecimal())
	}
}
