// ABOUTME: Test entry point for the storage package.
// ABOUTME: Verifies no goroutines outlive the tests.
package storage

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// badger pulls in opencensus, which starts a stats worker at init.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}
