// Package shared holds code used across SalesPulse packages that belongs to
// no single domain or layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- A buffered slog handler with log assertions
//	- Delivery row fixtures keyed by canonical field names
//	- A fixed clock and deterministic ID generator for the cleaner
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    // exercise code that logs through logger
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "upload stored")
//	}
package shared
