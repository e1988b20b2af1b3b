package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the page image",
	}
}

func reloadProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Decode the file again instead of using the cached page. Default false",
		"default":     false,
	}
}

func boundaryProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "omr_estimate_skew",
			Description: "Estimate the rotation in degrees (counter-clockwise positive) that straightens a scanned questionnaire page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"reload": reloadProperty(),
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"projection", "hough", "whitelines"},
						"description": "Skew strategy. Defaults to the configured strategy",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "omr_find_margins",
			Description: "Find the left and right pixel columns of the printed content of a page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"reload": reloadProperty(),
					"align": map[string]interface{}{
						"type":        "boolean",
						"description": "Straighten the page before measuring. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "omr_detect_bands",
			Description: "Straighten a page and compute its grade columns and question row boundaries, as stored in the band registry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"reload": reloadProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "omr_grade_page",
			Description: "Grade a page. With vertical and horizontal boundaries the page is taken as already aligned; without them it is aligned first and the detected bands are used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"reload":     reloadProperty(),
					"vertical":   boundaryProperty("Grade column boundaries (num_grades+1 x coordinates)"),
					"horizontal": boundaryProperty("Row boundaries starting at 0; question q spans horizontal[q] to horizontal[q+1]"),
				},
				"required": []string{"path"},
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
