package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"unicode"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr support not compiled in (build with -tags ocr)")

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is one recognized word with its location and confidence.
type Word struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// AuditResult reports how much of the overlay text OCR can read back.
type AuditResult struct {
	// FullText is all recognized text as Tesseract returned it.
	FullText string `json:"full_text"`

	// Words are the recognized words at or above the confidence cutoff.
	Words []Word `json:"words"`

	// Matched lists overlay fragment words that were recognized, in
	// fragment order, without duplicates.
	Matched []string `json:"matched"`

	// Legibility is len(Matched) divided by the number of distinct fragment
	// words, or 0 when there are none.
	Legibility float64 `json:"legibility"`
}

// Options control an audit.
type Options struct {
	// Language is the Tesseract language code; empty means DefaultLanguage.
	Language string

	// MinConfidence drops words below this confidence (0-1).
	MinConfidence float64
}

// Info describes the OCR backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
}

// normalizeWord lowercases w and strips surrounding punctuation.
func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

// fragmentWords splits fragments into distinct normalized words, in order.
func fragmentWords(fragments []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range fragments {
		for _, w := range strings.Fields(f) {
			n := normalizeWord(w)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// score fills Matched and Legibility of r from its Words.
func (r *AuditResult) score(fragments []string) {
	recognized := make(map[string]bool, len(r.Words))
	for _, w := range r.Words {
		recognized[normalizeWord(w.Text)] = true
	}

	want := fragmentWords(fragments)
	r.Matched = []string{}
	for _, w := range want {
		if recognized[w] {
			r.Matched = append(r.Matched, w)
		}
	}
	if len(want) > 0 {
		r.Legibility = float64(len(r.Matched)) / float64(len(want))
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for ocr: %w", err)
	}
	return buf.Bytes(), nil
}
