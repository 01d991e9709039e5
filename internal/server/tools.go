package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by scan_open",
	}
}

func displayProperties(props map[string]interface{}) map[string]interface{} {
	props["x"] = map[string]interface{}{
		"type":        "number",
		"description": "Touch X in display pixels",
	}
	props["y"] = map[string]interface{}{
		"type":        "number",
		"description": "Touch Y in display pixels",
	}
	props["display_width"] = map[string]interface{}{
		"type":        "number",
		"description": "Width of the displayed image in display pixels",
	}
	props["display_height"] = map[string]interface{}{
		"type":        "number",
		"description": "Height of the displayed image in display pixels",
	}
	return props
}

func interpolationProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"bilinear", "nearest"},
		"description": "Resampling mode. Defaults to the server setting (bilinear)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session Lifecycle
		{
			Name:        "scan_open",
			Description: "Open a photo of a document and start a scan session. Corners start at the full image bounds unless detect is true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"detect": map[string]interface{}{
						"type":        "boolean",
						"description": "Run corner detection immediately. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "scan_close",
			Description: "Close a scan session and release its image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
				},
				"required": []string{"session_id"},
			},
		},

		// Detection
		{
			Name:        "scan_detect_corners",
			Description: "Detect the document's four corners. Falls back to the full image bounds when no page outline is found; fallback_used reports this.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "scan_edge_map",
			Description: "Return the binary edge map used by detection as a base64-encoded PNG, at the working resolution.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
				},
				"required": []string{"session_id"},
			},
		},

		// Refinement
		{
			Name:        "scan_get_corners",
			Description: "Get the session's current normalized corners in [top_left, top_right, bottom_right, bottom_left] order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "scan_set_corners",
			Description: "Replace all four corners. Coordinates are normalized to [0,1].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"corners": map[string]interface{}{
						"type":        "array",
						"minItems":    4,
						"maxItems":    4,
						"description": "Four points {x, y} in [top_left, top_right, bottom_right, bottom_left] order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "number"},
								"y": map[string]interface{}{"type": "number"},
							},
							"required": []string{"x", "y"},
						},
					},
					"order": map[string]interface{}{
						"type":        "boolean",
						"description": "Assign the points to corners by position instead of array order. Default false",
						"default":     false,
					},
				},
				"required": []string{"session_id", "corners"},
			},
		},
		{
			Name:        "scan_hit_test",
			Description: "Find the corner handle within 30 display pixels of a touch point and start dragging it. Returns hit=false when no handle is close enough.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": displayProperties(map[string]interface{}{
					"session_id": sessionIDProperty(),
				}),
				"required": []string{"session_id", "x", "y", "display_width", "display_height"},
			},
		},
		{
			Name:        "scan_move_corner",
			Description: "Move a corner to a display-space point. The result is clamped to the image. Corners are never reordered, so crossing them is allowed and rectify will report it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": displayProperties(map[string]interface{}{
					"session_id": sessionIDProperty(),
					"index": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     3,
						"description": "Corner to move (0=top_left, 1=top_right, 2=bottom_right, 3=bottom_left). Omit to move the corner picked by scan_hit_test",
					},
					"end": map[string]interface{}{
						"type":        "boolean",
						"description": "Finish the drag after this move. Default false",
						"default":     false,
					},
				}),
				"required": []string{"session_id", "x", "y", "display_width", "display_height"},
			},
		},

		// Output
		{
			Name:        "scan_rectify",
			Description: "Warp the region inside the corners to a flat, top-down page and return it as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id":    sessionIDProperty(),
					"interpolation": interpolationProperty(),
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"description": "Downscale the page so its longer side is at most this many pixels. 0 keeps the full size",
						"default":     0,
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "scan_ocr",
			Description: "Rectify the page and extract its text using Tesseract. Returns full text, per-word confidence and bounding boxes in rectified page pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id":    sessionIDProperty(),
					"interpolation": interpolationProperty(),
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional rectangle of the rectified page to read, in page pixels (x2, y2 exclusive). Word bounds stay in page coordinates",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer", "minimum": 0},
							"y1": map[string]interface{}{"type": "integer", "minimum": 0},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
				},
				"required": []string{"session_id"},
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
