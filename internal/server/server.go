package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/image-filter-mcp/internal/imaging"
)

// DefaultMaxRequestBytes bounds a single JSON-RPC line. Uploads travel as
// base64 inside the request, so the limit is sized for images, not text.
const DefaultMaxRequestBytes = 32 << 20

// Config holds runtime settings for the server.
type Config struct {
	// Debug enables per-request diagnostic logging on stderr.
	Debug bool

	// MaxRequestBytes is the largest accepted request line.
	MaxRequestBytes int
}

// ConfigFromEnv builds a Config from environment variables:
//   - IMAGE_FILTER_LOG_LEVEL=debug enables debug logging
//   - IMAGE_FILTER_MAX_REQUEST_MB sets the request size limit in MiB
func ConfigFromEnv() Config {
	cfg := Config{
		Debug:           os.Getenv("IMAGE_FILTER_LOG_LEVEL") == "debug",
		MaxRequestBytes: DefaultMaxRequestBytes,
	}
	if v := os.Getenv("IMAGE_FILTER_MAX_REQUEST_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			cfg.MaxRequestBytes = mb << 20
		} else {
			log.Printf("Ignoring invalid IMAGE_FILTER_MAX_REQUEST_MB=%q", v)
		}
	}
	return cfg
}

// Server handles MCP protocol communication
type Server struct {
	cache *imaging.ImageCache
	cfg   Config
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance with default settings
func New() *Server {
	return NewWithConfig(Config{MaxRequestBytes: DefaultMaxRequestBytes})
}

// NewWithConfig creates a new MCP server instance
func NewWithConfig(cfg Config) *Server {
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = DefaultMaxRequestBytes
	}
	return &Server{
		cache: imaging.NewImageCache(),
		cfg:   cfg,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited JSON-RPC requests from in until EOF,
// writing one response line per request to out.
//
// A line longer than MaxRequestBytes is discarded and answered with
// a -32600 error carrying a null id; serving continues with the next line.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	size := 64 * 1024
	if size > s.cfg.MaxRequestBytes {
		size = s.cfg.MaxRequestBytes
	}
	reader := bufio.NewReaderSize(in, size)
	encoder := json.NewEncoder(out)

	for {
		line, tooLarge, err := readLine(reader, s.cfg.MaxRequestBytes)
		if err != nil && err != io.EOF {
			return fmt.Errorf("read error: %w", err)
		}

		if tooLarge {
			log.Printf("Dropped request larger than %d bytes", s.cfg.MaxRequestBytes)
			resp := s.errorResponse(nil, -32600, "Request too large",
				fmt.Sprintf("request exceeds %d bytes", s.cfg.MaxRequestBytes))
			if encErr := encoder.Encode(resp); encErr != nil {
				log.Printf("Failed to encode response: %v", encErr)
			}
		} else if len(line) > 0 {
			s.serveLine(line, encoder)
		}

		if err == io.EOF {
			return nil
		}
	}
}

// serveLine parses and answers a single request line.
func (s *Server) serveLine(line []byte, encoder *json.Encoder) {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		log.Printf("Failed to parse request: %v", err)
		return
	}

	resp := s.handleRequest(&req)
	if resp != nil {
		if err := encoder.Encode(resp); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

// readLine returns the next line from r without its line terminator.
// Once the line grows past limit bytes the rest of it is consumed and
// dropped, and tooLarge is set. err is io.EOF after the final line.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLarge bool, err error) {
	for {
		var chunk []byte
		chunk, err = r.ReadSlice('\n')
		if !tooLarge {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > limit {
				tooLarge = true
				line = nil
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimRight(line, "\r\n"), tooLarge, err
	}
}

// debugf logs only when debug logging is enabled.
func (s *Server) debugf(format string, args ...interface{}) {
	if s.cfg.Debug {
		log.Printf(format, args...)
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.debugf("Request %v: %s", req.ID, req.Method)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-filter-mcp",
				"version": "0.1.0",
			},
		},
	}
}
