package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// createTestImageFile writes a PNG built from fn into dir and returns its path.
func createTestImageFile(t *testing.T, dir, name string, width, height int, fn func(x, y int) color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fn(x, y))
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func uniformGray(v uint8) func(x, y int) color.Color {
	return func(x, y int) color.Color { return color.Gray{Y: v} }
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil || out == nil {
		return resp
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	return resp
}

func TestHandleToolsCall_ArtifactScore(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, t.TempDir(), "flat.png", 100, 80, uniformGray(128))

	var got struct {
		Width           int     `json:"width"`
		Height          int     `json:"height"`
		MeanScore       float64 `json:"mean_score"`
		HighArtifactPct float64 `json:"high_artifact_pct"`
	}
	resp := callTool(t, s, "artifact_score", map[string]interface{}{"path": imgPath}, &got)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if got.Width != 100 || got.Height != 80 {
		t.Errorf("size: got %dx%d, want 100x80", got.Width, got.Height)
	}
	if got.MeanScore != 0 || got.HighArtifactPct != 0 {
		t.Errorf("flat image scored mean %v high %v", got.MeanScore, got.HighArtifactPct)
	}
}

func TestHandleToolsCall_ArtifactScoreRegions(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, t.TempDir(), "flat.png", 100, 80, uniformGray(128))

	var got struct {
		Regions map[string]float64 `json:"regions"`
	}
	resp := callTool(t, s, "artifact_score", map[string]interface{}{
		"path":    imgPath,
		"regions": []string{"top-left", "center"},
	}, &got)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if len(got.Regions) != 2 {
		t.Fatalf("regions: got %v, want 2 entries", got.Regions)
	}
	if got.Regions["center"] != 0 {
		t.Errorf("flat image center scored %v", got.Regions["center"])
	}

	resp = callTool(t, s, "artifact_score", map[string]interface{}{
		"path":    imgPath,
		"regions": []string{"nowhere"},
	}, nil)
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("unknown region: got %+v, want tool error", resp.Error)
	}
}

func TestHandleToolsCall_ArtifactMask(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(5))
	imgPath := createTestImageFile(t, dir, "mixed.png", 160, 120, func(x, y int) color.Color {
		if x < 80 {
			return color.Gray{Y: uint8(60 + rng.Intn(141))}
		}
		return color.Gray{Y: uint8(100 + (x-80)/2)}
	})
	outPath := filepath.Join(dir, "out.png")

	var got struct {
		ArtifactGlyphs int    `json:"artifact_glyphs"`
		OutputPath     string `json:"output_path"`
		OutputBytes    int64  `json:"output_bytes"`
		Font           string `json:"font"`
	}
	resp := callTool(t, s, "artifact_mask", map[string]interface{}{
		"path":        imgPath,
		"output_path": outPath,
		"text":        []string{"masked", "region"},
	}, &got)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if got.OutputPath != outPath || got.OutputBytes <= 0 {
		t.Errorf("output: got %s (%d bytes)", got.OutputPath, got.OutputBytes)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if got.ArtifactGlyphs == 0 {
		t.Error("expected artifact glyphs over the smooth half")
	}
}

func TestHandleToolsCall_ArtifactMaskDefaultOutput(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	imgPath := createTestImageFile(t, dir, "plain.png", 64, 64, uniformGray(200))

	// Sidecar text is picked up when no text argument is given
	if err := os.WriteFile(filepath.Join(dir, "plain.yent.txt"), []byte("one, two"), 0o644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}

	resp := callTool(t, s, "artifact_mask", map[string]interface{}{"path": imgPath}, nil)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if _, err := os.Stat(filepath.Join(dir, "plain_fixed.png")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestHandleToolsCall_ArtifactMap(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	imgPath := createTestImageFile(t, dir, "flat.png", 50, 40, uniformGray(90))
	outPath := filepath.Join(dir, "map.png")

	var got struct {
		MeanScore  float64 `json:"mean_score"`
		Width      int     `json:"width"`
		Height     int     `json:"height"`
		OutputPath string  `json:"output_path"`
	}
	resp := callTool(t, s, "artifact_map", map[string]interface{}{"path": imgPath, "output_path": outPath}, &got)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if got.OutputPath != outPath || got.Width != 50 || got.Height != 40 {
		t.Errorf("saved: got %+v", got)
	}
	if got.MeanScore != 0 {
		t.Errorf("mean: got %v, want 0", got.MeanScore)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)
	missing := filepath.Join(t.TempDir(), "missing.png")

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"unknown tool", "image_load", map[string]interface{}{"path": missing}},
		{"missing path argument", "artifact_score", map[string]interface{}{}},
		{"nonexistent file", "artifact_score", map[string]interface{}{"path": missing}},
		{"nonexistent mask input", "artifact_mask", map[string]interface{}{"path": missing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args, nil)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestFragments_Precedence(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "img.png")

	got, err := s.fragments(input, nil)
	if err != nil {
		t.Fatalf("fragments failed: %v", err)
	}
	if len(got) == 0 || got[0] != "who are you asking" {
		t.Errorf("without sidecar: got %v, want the built-in list", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "img.yent.txt"), []byte("from, sidecar"), 0o644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}
	got, _ = s.fragments(input, nil)
	if len(got) != 2 || got[0] != "from" {
		t.Errorf("with sidecar: got %v", got)
	}

	got, _ = s.fragments(input, []string{"explicit"})
	if len(got) != 1 || got[0] != "explicit" {
		t.Errorf("with text: got %v", got)
	}
}
