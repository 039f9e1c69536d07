// Package domain defines domain-level errors for the swot feature.
package domain

import "errors"

var (
	// ErrGenerationFailed indicates that the text-generation service call failed.
	// It is a per-request failure; callers should surface it and keep serving.
	ErrGenerationFailed = errors.New("swot generation failed")

	// ErrInputTooLarge indicates that the company details exceed the accepted size.
	ErrInputTooLarge = errors.New("company details too large")
)
