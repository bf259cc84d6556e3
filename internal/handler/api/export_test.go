//go:build unit

package api

// RespondError exposes the sentinel-to-status mapping to black-box tests.
var RespondError = respondError
