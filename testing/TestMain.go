// Package testing flips the process into test mode before any package under
// test reads configuration. Test files import it blank for the side effect.
package testing

import (
	"os"
	stdtesting "testing"
)

func init() {
	if os.Getenv("QAYD_TEST_MODE") == "" {
		_ = os.Setenv("QAYD_TEST_MODE", "1")
	}
}

// TestMain runs m with test mode guaranteed on, for packages that want an
// explicit entry point instead of the blank import.
func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
