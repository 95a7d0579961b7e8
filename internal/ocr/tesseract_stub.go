//go:build !ocr

package ocr

import "image"

// Audit always fails with ErrUnavailable in builds without the ocr tag.
func Audit(img image.Image, fragments []string, opts Options) (*AuditResult, error) {
	return nil, ErrUnavailable
}

// GetInfo reports that OCR is unavailable.
func GetInfo() Info {
	return Info{Available: false, Backend: "none"}
}
