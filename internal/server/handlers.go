package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_filter").
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
// Errors are mapped to JSON-RPC codes:
//   - -32602 "Invalid params": malformed arguments or filter.ErrInvalidParams
//   - -32000 "Invalid image": filter.ErrInvalidImage
//   - -32000 "Tool execution failed": anything else
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("Tool %s failed: %v", params.Name, err)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, filter.ErrInvalidParams), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		case errors.Is(err, filter.ErrInvalidImage):
			return s.errorResponse(req.ID, -32000, "Invalid image", err.Error())
		default:
			return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves the image from the cache or the uploaded payload
//  4. Calls the appropriate imaging/filter function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Filter Operations
	case "image_filter_list":
		return handleImageFilterList(), nil
	case "image_filter":
		return s.handleImageFilter(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// A marshal failure is logged and yields an empty string.
func mustMarshalJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal tool result: %v", err)
		return ""
	}
	return string(b)
}

// imageSource is embedded by every argument struct that takes an image.
type imageSource struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

// resolve returns the image named by the source. Paths go through the cache;
// uploads are decoded on every call.
func (s *Server) resolve(src imageSource) (image.Image, string, error) {
	switch {
	case src.Path != "":
		return s.cache.LoadWithFormat(src.Path)
	case src.ImageBase64 != "":
		return imaging.DecodeBase64(src.ImageBase64)
	default:
		return nil, "", fmt.Errorf("%w: either path or image_base64 is required", filter.ErrInvalidParams)
	}
}

// filterArgs selects a filter. Pointer fields distinguish "absent" (use the
// default) from an explicit zero, which is a valid low threshold.
type filterArgs struct {
	Filter        string `json:"filter"`
	LowThreshold  *int   `json:"low_threshold"`
	HighThreshold *int   `json:"high_threshold"`
	KernelSize    *int   `json:"kernel_size"`
}

// params builds filter parameters, falling back to the defaults for absent fields.
func (a filterArgs) params() filter.Params {
	p := filter.DefaultParams()
	if a.LowThreshold != nil {
		p.LowThreshold = *a.LowThreshold
	}
	if a.HighThreshold != nil {
		p.HighThreshold = *a.HighThreshold
	}
	if a.KernelSize != nil {
		p.KernelSize = *a.KernelSize
	}
	return p
}

// apply runs the selected filter over img and logs the invocation in debug mode.
func (s *Server) apply(img image.Image, a filterArgs) (image.Image, filter.Kind, error) {
	kind, err := filter.ParseKind(a.Filter)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	out, err := filter.Apply(img, kind, a.params())
	if err != nil {
		return nil, kind, err
	}
	s.debugf("Applied %s to %dx%d image in %s", kind, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start))
	return out, kind, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	imageSource
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path != "" {
		return imaging.LoadImageInfo(s.cache, a.Path)
	}
	img, format, err := s.resolve(a.imageSource)
	if err != nil {
		return nil, err
	}
	return imaging.Describe(img, format), nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, _, err := s.resolve(a.imageSource)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(img), nil
}

// === Filter Handlers ===

// ParamSpec describes the range and default of a numeric filter parameter.
type ParamSpec struct {
	Name    string `json:"name"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Default int    `json:"default"`
	Note    string `json:"note,omitempty"`
}

// FilterSpec describes one filter for image_filter_list.
type FilterSpec struct {
	Name           string      `json:"name"`
	Label          string      `json:"label"`
	RequiresColor  bool        `json:"requires_color"`
	OutputChannels string      `json:"output_channels"`
	Params         []ParamSpec `json:"params,omitempty"`
}

// FilterListResult is returned by image_filter_list.
type FilterListResult struct {
	Filters []FilterSpec `json:"filters"`
}

func handleImageFilterList() *FilterListResult {
	var specs []FilterSpec
	for _, k := range filter.Kinds() {
		spec := FilterSpec{
			Name:          k.String(),
			Label:         k.Label(),
			RequiresColor: k.RequiresColor(),
		}
		if k.OutputChannels(1) == k.OutputChannels(3) {
			spec.OutputChannels = fmt.Sprint(k.OutputChannels(3))
		} else {
			spec.OutputChannels = "same as input"
		}

		switch k {
		case filter.EdgeDetect:
			spec.Params = []ParamSpec{
				{Name: "low_threshold", Min: filter.MinLowThreshold, Max: filter.MaxLowThreshold, Default: filter.DefaultLowThreshold},
				{Name: "high_threshold", Min: filter.MinHighThreshold, Max: filter.MaxHighThreshold, Default: filter.DefaultHighThreshold, Note: "must exceed low_threshold"},
			}
		case filter.Blur:
			spec.Params = []ParamSpec{
				{Name: "kernel_size", Min: filter.MinKernelSize, Max: filter.MaxKernelSize, Default: filter.DefaultKernelSize, Note: "odd values only"},
			}
		}
		specs = append(specs, spec)
	}
	return &FilterListResult{Filters: specs}
}

type imageFilterArgs struct {
	imageSource
	filterArgs
	SideBySide  bool `json:"side_by_side"`
	ColumnWidth int  `json:"column_width"`
}

// FilterResult is returned by image_filter.
type FilterResult struct {
	// Filter is the machine name of the applied filter.
	Filter string `json:"filter"`

	// Label is the display name of the applied filter.
	Label string `json:"label"`

	// Params are the effective parameters, defaults included.
	// Omitted for filters without parameters.
	Params *filter.Params `json:"params,omitempty"`

	// SideBySide reports whether Image is the original|filtered composite.
	SideBySide bool `json:"side_by_side"`

	imaging.ImageResult
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ColumnWidth < 0 {
		return nil, fmt.Errorf("%w: column_width %d must not be negative", filter.ErrInvalidParams, a.ColumnWidth)
	}

	img, _, err := s.resolve(a.imageSource)
	if err != nil {
		return nil, err
	}
	out, kind, err := s.apply(img, a.filterArgs)
	if err != nil {
		return nil, err
	}

	result := &FilterResult{
		Filter:     kind.String(),
		Label:      kind.Label(),
		SideBySide: a.SideBySide,
	}
	if kind == filter.EdgeDetect || kind == filter.Blur {
		p := a.params()
		result.Params = &p
	}

	if a.SideBySide {
		out = imaging.SideBySide(img, out, "Original Image", kind.Label()+" Image", a.ColumnWidth)
	}
	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}
	result.ImageResult = *encoded
	if a.SideBySide {
		// The composite is RGB; report the filter's own channel count.
		result.Channels = kind.OutputChannels(filter.Channels(img))
	}
	return result, nil
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	imageSource
	filterArgs
	X int `json:"x"`
	Y int `json:"y"`
}

// SampleColorResult is returned by image_sample_color.
type SampleColorResult struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Filter string `json:"filter,omitempty"`

	imaging.ColorResult
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, _, err := s.resolve(a.imageSource)
	if err != nil {
		return nil, err
	}

	result := &SampleColorResult{X: a.X, Y: a.Y}
	if a.Filter != "" {
		out, kind, err := s.apply(img, a.filterArgs)
		if err != nil {
			return nil, err
		}
		img = out
		result.Filter = kind.String()
	}

	c, err := imaging.SampleColor(img, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	result.ColorResult = *c
	return result, nil
}
