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
		"description": "Absolute path to the image file",
	}
}

func radiusProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Expected circle radius in pixels, from 1 up to the server's max_radius setting (1024 by default). Only circles close to this radius are detected.",
		"minimum":     1,
	}
}

func quantileProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Fraction of accumulator values below the detection threshold, in [0, 1]. Higher keeps fewer, stronger candidates. Default 0.99 unless configured otherwise.",
		"minimum":     0,
		"maximum":     1,
	}
}

func invertProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Invert intensities first. Use for dark circles on a light background.",
		"default":     false,
	}
}

func blurProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Gaussian blur radius applied before detection. 0 disables blurring.",
		"default":     0,
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional rectangle to search. Coordinates in the result are still relative to the full image.",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Circle Detection
		{
			Name:        "hough_template",
			Description: "Describe the ring kernel used to match circles of a given radius: size, number of non-zero taps and a heat-map PNG. Optionally returns the full weight matrix.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"radius": radiusProperty(),
					"include_weights": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the (2n+1)x(2n+1) weight matrix in the result",
						"default":     false,
					},
				},
				"required": []string{"radius"},
			},
		},
		{
			Name:        "hough_transform",
			Description: "Compute the circle accumulator of an image for one radius. Bright spots in the returned heat map are likely circle centers. Returns per-channel min, max and mean.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"radius": radiusProperty(),
					"color": map[string]interface{}{
						"type":        "boolean",
						"description": "Score the red, green and blue channels separately instead of luminance",
						"default":     false,
					},
					"invert":     invertProperty(),
					"blur_sigma": blurProperty(),
					"region":     regionProperty(),
				},
				"required": []string{"path", "radius"},
			},
		},
		{
			Name:        "hough_find_circles",
			Description: "Find centers of circles of a known radius. Every pixel whose accumulator value reaches the quantile threshold is returned in row-major order, so one circle usually yields a small cluster of neighbouring centers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"radius":     radiusProperty(),
					"quantile":   quantileProperty(),
					"invert":     invertProperty(),
					"blur_sigma": blurProperty(),
					"region":     regionProperty(),
				},
				"required": []string{"path", "radius"},
			},
		},
		{
			Name:        "hough_overlay",
			Description: "Detect circles of a known radius and return the image with each detected center and its ring drawn on it, as a base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"radius":     radiusProperty(),
					"quantile":   quantileProperty(),
					"invert":     invertProperty(),
					"blur_sigma": blurProperty(),
					"region":     regionProperty(),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Marker color as hex (e.g., '#FF0000'). Default red.",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path", "radius"},
			},
		},
	}
}
