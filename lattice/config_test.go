package lattice

import (
	"testing"

	"github.com/ctessum/unit"
)

func baseConfig() *Config {
	return &Config{
		Nx: 8, Ny: 8, Nz: 8,
		Px: 2, Py: 2, Pz: 2,
		N:        1,
		Nu:       unit.New(0.1, unit.Dimless),
		TTotal:   10,
		TOut:     10,
		RhoFloor: 1e-6,
	}
}

func TestConfigValidateOK(t *testing.T) {
	c := baseConfig()
	if err := c.Validate(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Tau.Value() <= 0.5 {
		t.Errorf("derived tau = %v, want > 0.5", c.Tau.Value())
	}
}

func TestConfigValidateRankMismatch(t *testing.T) {
	c := baseConfig()
	var cfgErr *ConfigError
	err := c.Validate(4)
	if err == nil {
		t.Fatal("expected a ConfigError for a process grid that doesn't match rank count")
	}
	if !asConfigError(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestConfigValidateNonDivisible(t *testing.T) {
	c := baseConfig()
	c.Nx = 9
	if err := c.Validate(8); err == nil {
		t.Fatal("expected a ConfigError for Nx not divisible by Px")
	}
}

func TestConfigValidateTauTooSmall(t *testing.T) {
	c := baseConfig()
	c.Nu = nil
	c.Tau = unit.New(0.4, unit.Dimless)
	if err := c.Validate(8); err == nil {
		t.Fatal("expected a ConfigError for tau <= 0.5")
	}
}

// asConfigError is errors.As without importing the errors package just
// for this narrow use in the test file.
func asConfigError(err error, target **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
