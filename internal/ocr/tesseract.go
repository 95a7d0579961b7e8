//go:build ocr

package ocr

import (
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
)

// Audit runs OCR over img and matches the recognized words against the
// words of fragments.
//
// Tesseract and its language data must be installed on the system.
func Audit(img image.Image, fragments []string, opts Options) (*AuditResult, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &AuditResult{FullText: text, Words: []Word{}}

	// Keep the text even if word boxes are unavailable
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil {
		for _, box := range boxes {
			confidence := box.Confidence / 100.0
			if box.Word == "" || confidence < opts.MinConfidence {
				continue
			}
			result.Words = append(result.Words, Word{
				Text:       box.Word,
				Confidence: confidence,
				Bounds: Bounds{
					X1: box.Box.Min.X,
					Y1: box.Box.Min.Y,
					X2: box.Box.Max.X,
					Y2: box.Box.Max.Y,
				},
			})
		}
	}

	result.score(fragments)
	return result, nil
}

// GetInfo reports the linked Tesseract version.
func GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()
	return Info{Available: true, Version: client.Version(), Backend: "gosseract"}
}
