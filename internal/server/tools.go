package server

import "github.com/ironsheep/artifact-mask/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Where to write the result. Default: <input>_fixed.png",
	}
}

func textProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Detection
		{
			Name:        "artifact_score",
			Description: "Score an image for smooth or smeared artifact regions. Returns the mean artifact score (0 clean, 1 artifact), the percentage of pixels scoring above 0.5, and optionally the mean score of named regions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"regions": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string", "enum": imaging.RegionNames},
						"description": "Named regions to score separately",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "artifact_map",
			Description: "Save a diagnostic heat map of artifact scores (red = artifact, blue = clean) blended 50/50 with the image. Returns the mean score and the saved file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Rendering
		{
			Name:        "artifact_mask",
			Description: "Mask artifact regions of an image with a film-grain and character overlay. Artifact regions are covered by the given text; clean regions keep the photo. Returns run statistics and the saved file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputPathProperty(),
					"text": textProperty(
						"Optional text fragments for artifact regions. Default: the sidecar file next to the image, else a built-in list"),
				},
				"required": []string{"path"},
			},
		},

		// OCR
		{
			Name:        "overlay_ocr_audit",
			Description: "Read a rendered image back with OCR and report which overlay words are legible. Requires a build with Tesseract support.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"text": textProperty("Text fragments the overlay was rendered with. Default: the built-in list"),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default: eng",
						"default":     "eng",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Ignore words below this confidence (0-1). Default: 0",
						"default":     0.0,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
