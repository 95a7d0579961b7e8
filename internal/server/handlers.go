package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/artifact-mask/internal/imaging"
	"github.com/ironsheep/artifact-mask/internal/ocr"
	"github.com/ironsheep/artifact-mask/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "artifact_mask").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return resultResponse(req.ID, textContent(result))
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "artifact_score":
		return s.handleArtifactScore(args)
	case "artifact_mask":
		return s.handleArtifactMask(args)
	case "artifact_map":
		return s.handleArtifactMap(args)
	case "overlay_ocr_audit":
		return s.handleOverlayOCRAudit(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}
