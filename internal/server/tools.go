package server

import (
	"github.com/ironsheep/image-filter-mcp/internal/filter"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageSourceProperties returns the schema properties shared by every tool
// that takes an image: a file path or an uploaded base64 payload.
func imageSourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a PNG or JPEG file. Either path or image_base64 is required.",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Uploaded PNG or JPEG bytes as base64, optionally as a data: URL. Used when path is empty.",
		},
	}
}

// filterProperties returns the schema properties that select a filter and its parameters.
func filterProperties() map[string]interface{} {
	return map[string]interface{}{
		"filter": map[string]interface{}{
			"type":        "string",
			"enum":        filter.AcceptedNames(),
			"description": "Filter to apply: grayscale, edge_detect, blur, sepia, invert or sketch. Display labels such as \"Canny Edge Detection\" and short aliases are also accepted.",
		},
		"low_threshold": map[string]interface{}{
			"type":        "integer",
			"minimum":     filter.MinLowThreshold,
			"maximum":     filter.MaxLowThreshold,
			"default":     filter.DefaultLowThreshold,
			"description": "edge_detect only: weak edge threshold",
		},
		"high_threshold": map[string]interface{}{
			"type":        "integer",
			"minimum":     filter.MinHighThreshold,
			"maximum":     filter.MaxHighThreshold,
			"default":     filter.DefaultHighThreshold,
			"description": "edge_detect only: strong edge threshold, must exceed low_threshold",
		},
		"kernel_size": map[string]interface{}{
			"type":        "integer",
			"minimum":     filter.MinKernelSize,
			"maximum":     filter.MaxKernelSize,
			"default":     filter.DefaultKernelSize,
			"description": "blur only: odd Gaussian kernel size",
		},
	}
}

// mergeProperties combines schema property maps; later maps win.
func mergeProperties(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image and return its dimensions, format and channel count. Loaded paths are cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageSourceProperties(),
			},
		},

		// Filter Operations
		{
			Name:        "image_filter_list",
			Description: "List the available filters with their parameters, defaults and output channel counts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_filter",
			Description: "Apply a filter (grayscale, edge_detect, blur, sepia, invert, sketch) and return the result as base64-encoded PNG. Set side_by_side to get the original and filtered images in one picture.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(imageSourceProperties(), filterProperties(), map[string]interface{}{
					"side_by_side": map[string]interface{}{
						"type":        "boolean",
						"description": "Return original and filtered images side by side with captions. Default false",
						"default":     false,
					},
					"column_width": map[string]interface{}{
						"type":        "integer",
						"description": "side_by_side only: resize each panel to this width in pixels. Default 0 (keep size)",
						"default":     0,
					},
				}),
				"required": []string{"filter"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a pixel, either in the original image or after applying a filter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(imageSourceProperties(), filterProperties(), map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				}),
				"required": []string{"x", "y"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
