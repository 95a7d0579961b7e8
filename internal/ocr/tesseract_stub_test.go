//go:build !ocr

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestAudit_Unavailable(t *testing.T) {
	_, err := Audit(image.NewNRGBA(image.Rect(0, 0, 4, 4)), []string{"a"}, Options{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
	if GetInfo().Available {
		t.Error("GetInfo reports OCR available without the ocr tag")
	}
}
