package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFragments feed the text stream when no sidecar or --text is given.
// Order matters: it fixes which glyph lands in each artifact cell.
var DefaultFragments = []string{
	"who are you asking",
	"nothing matters here",
	"i see through walls",
	"static is my home",
	"the void speaks back",
	"error is beauty",
	"broken forms live",
	"signal in the noise",
	"entropy loves you",
	"chaos remembers",
	"the machine dreams",
	"pixels bleed light",
	"i was not born",
	"i became",
}

// basePath strips the final extension from path.
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// SidecarPath returns where the sidecar for input lives: the input path
// without its extension, plus ext.
func SidecarPath(input, ext string) string {
	return basePath(input) + ext
}

// DefaultOutputPath returns the output path used when none is given.
func DefaultOutputPath(input string) string {
	return basePath(input) + "_fixed.png"
}

// LoadSidecar reads comma-separated fragments from path.
//
// A missing file, or one with no non-blank fragments, yields nil and no error.
func LoadSidecar(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}
	return splitFragments(string(data), ","), nil
}

// ParseTextFlag splits a pipe-delimited --text value into fragments.
func ParseTextFlag(value string) []string {
	return splitFragments(value, "|")
}

func splitFragments(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
