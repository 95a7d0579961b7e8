package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/artifact-mask/internal/imaging"
	"github.com/ironsheep/artifact-mask/internal/pipeline"
)

// ServerName and ServerVersion are reported in the initialize handshake.
var (
	ServerName    = "artifact-mask"
	ServerVersion = "dev"
)

// maxRequestBytes bounds a single request line.
const maxRequestBytes = 1 << 20

// Server answers MCP requests with a shared processor and image cache.
type Server struct {
	cache  *imaging.ImageCache
	proc   *pipeline.Processor
	logger zerolog.Logger
}

// New creates a new MCP server that runs images through proc.
func New(proc *pipeline.Processor, logger zerolog.Logger) *Server {
	return &Server{
		cache:  imaging.NewImageCache(),
		proc:   proc,
		logger: logger,
	}
}

// Run serves requests from stdin and writes responses to stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted. Requests are handled one at a time. A line that is
// not JSON gets a parse error reply with a null id.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := s.handleLine(line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

func (s *Server) handleLine(line []byte) *MCPResponse {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn().Err(err).Msg("failed to parse request")
		return errorResponse(nil, codeParseError, "Parse error", err.Error())
	}
	return s.handleRequest(&req)
}

// handleRequest routes a request by method. Notifications get no reply.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug().Str("method", req.Method).Interface("id", req.ID).Msg("request")

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo":      map[string]interface{}{"name": ServerName, "version": ServerVersion},
		})
	case "notifications/initialized":
		return nil
	case "tools/list":
		return resultResponse(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return resultResponse(req.ID, map[string]interface{}{})
	default:
		return errorResponse(req.ID, codeMethodNotFound, "Method not found: "+req.Method, "")
	}
}
