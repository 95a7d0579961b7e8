// Package ocr audits how legible the overlay text is, using Tesseract.
//
// Audit reads a rendered image back with Tesseract (via gosseract/v2) and
// reports which words of the overlay's text fragments were recognized. It is
// a diagnostic for tuning font size, boost and blend settings.
//
// # Build Tags
//
// Tesseract bindings need cgo and the native library, so they are only
// compiled with the ocr build tag:
//
//	go build -tags ocr ./cmd/artifact-mask
//
// Without the tag, Audit returns ErrUnavailable and GetInfo reports the
// backend as unavailable.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// # Matching
//
// Words are compared case-insensitively after trimming punctuation. Text on
// the overlay runs on without word breaks, so partial legibility is the
// normal outcome.
package ocr
