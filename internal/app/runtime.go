package app

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"
)

const testModeEnv = "QAYD_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	v, err := strconv.ParseBool(os.Getenv(testModeEnv))
	testModeFlag.Store(err == nil && v)
}

// InTestMode reports whether the process runs under `go test`. The mains
// bail out early in that mode so importing them from a test cannot start
// servers or dial infrastructure.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode re-reads the flag after an environment change.
func RefreshTestMode() {
	detectTestMode()
}
