package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
	"github.com/ironsheep/hough-circles-mcp/internal/visualize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "hough_find_circles").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Error("server", err, map[string]interface{}{"tool": params.Name, "elapsed_ms": elapsed.Milliseconds()})
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.log.Debug("server", "tool completed", map[string]interface{}{"tool": params.Name, "elapsed_ms": elapsed.Milliseconds()})

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	case "hough_template":
		return s.handleHoughTemplate(ctx, args)
	case "hough_transform":
		return s.handleHoughTransform(ctx, args)
	case "hough_find_circles":
		return s.handleHoughFindCircles(ctx, args)
	case "hough_overlay":
		return s.handleHoughOverlay(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// checkRadius rejects radii above the configured maximum before any kernel
// is allocated. Lower bounds are left to the detection package.
func (s *Server) checkRadius(radius float64) error {
	if radius > s.cfg.MaxRadius {
		return fmt.Errorf("radius %v exceeds the configured maximum of %v", radius, s.cfg.MaxRadius)
	}
	return nil
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Hough Handlers ===

type houghTemplateArgs struct {
	Radius         float64 `json:"radius"`
	IncludeWeights bool    `json:"include_weights"`
}

// TemplateResult describes a ring kernel.
type TemplateResult struct {
	Radius  float64                 `json:"radius"`
	N       int                     `json:"n"`
	Side    int                     `json:"side"`
	Sum     float64                 `json:"sum"`
	Taps    int                     `json:"taps"`
	Weights [][]float64             `json:"weights,omitempty"`
	Heatmap *visualize.EncodedImage `json:"heatmap"`
}

func (s *Server) handleHoughTemplate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a houghTemplateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.checkRadius(a.Radius); err != nil {
		return nil, err
	}

	result, err := withTimeout(ctx, s.cfg.Timeout, "hough_template", func() (*TemplateResult, error) {
		return s.describeKernel(a.Radius, a.IncludeWeights)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) describeKernel(radius float64, includeWeights bool) (*TemplateResult, error) {
	k, err := s.kernels.Get(radius)
	if err != nil {
		return nil, err
	}
	raster, err := visualize.KernelRaster(k)
	if err != nil {
		return nil, err
	}
	heat, err := visualize.Heatmap(raster)
	if err != nil {
		return nil, err
	}
	enc, err := visualize.EncodeBase64PNG(heat)
	if err != nil {
		return nil, err
	}

	result := &TemplateResult{
		Radius:  k.Radius(),
		N:       k.N(),
		Side:    k.Size(),
		Sum:     k.Sum(),
		Taps:    k.Taps(),
		Heatmap: enc,
	}
	if includeWeights {
		result.Weights = make([][]float64, k.Size())
		for y := range result.Weights {
			row := make([]float64, k.Size())
			for x := range row {
				row[x] = k.At(y, x)
			}
			result.Weights[y] = row
		}
	}
	return result, nil
}

// preprocessArgs are shared by the tools that read an image.
type preprocessArgs struct {
	Invert    bool            `json:"invert"`
	BlurSigma float64         `json:"blur_sigma"`
	Region    *imaging.Region `json:"region,omitempty"`
}

func (p preprocessArgs) options() imaging.Options {
	return imaging.Options{Region: p.Region, BlurSigma: p.BlurSigma, Invert: p.Invert}
}

type houghTransformArgs struct {
	Path   string  `json:"path"`
	Radius float64 `json:"radius"`
	Color  bool    `json:"color"`
	preprocessArgs
}

// ChannelStats summarises one accumulator channel.
type ChannelStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// TransformResult is the accumulator summary returned by hough_transform.
type TransformResult struct {
	Width    int                     `json:"width"`
	Height   int                     `json:"height"`
	Radius   float64                 `json:"radius"`
	Method   string                  `json:"method"`
	Channels []ChannelStats          `json:"channels"`
	Heatmap  *visualize.EncodedImage `json:"heatmap"`
}

func (s *Server) handleHoughTransform(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a houghTransformArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.checkRadius(a.Radius); err != nil {
		return nil, err
	}

	result, err := withTimeout(ctx, s.cfg.Timeout, "hough_transform", func() (*TransformResult, error) {
		return s.transform(a)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// transform loads and preprocesses the image, then summarises its accumulator.
func (s *Server) transform(a houghTransformArgs) (*TransformResult, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Preprocess(img, a.options())
	if err != nil {
		return nil, err
	}

	var raster *detection.Raster
	if a.Color {
		raster, err = imaging.Channels(img)
	} else {
		raster, err = imaging.Luminance(img)
	}
	if err != nil {
		return nil, err
	}

	transformer := s.detector.Transformer()
	acc, err := transformer.Hough(raster, a.Radius)
	if err != nil {
		return nil, err
	}

	stats := make([]ChannelStats, acc.Channels())
	for c := range stats {
		plane := acc.Plane(c)
		stats[c] = ChannelStats{
			Min:  floats.Min(plane),
			Max:  floats.Max(plane),
			Mean: floats.Sum(plane) / float64(len(plane)),
		}
	}

	heat, err := visualize.Heatmap(acc)
	if err != nil {
		return nil, err
	}
	enc, err := visualize.EncodeBase64PNG(heat)
	if err != nil {
		return nil, err
	}

	return &TransformResult{
		Width:    acc.Width(),
		Height:   acc.Height(),
		Radius:   a.Radius,
		Method:   transformer.Method().String(),
		Channels: stats,
		Heatmap:  enc,
	}, nil
}

type houghFindCirclesArgs struct {
	Path     string   `json:"path"`
	Radius   float64  `json:"radius"`
	Quantile *float64 `json:"quantile,omitempty"`
	preprocessArgs
}

// quantile returns the requested quantile or the configured default.
func (s *Server) quantile(q *float64) float64 {
	if q == nil {
		return s.cfg.DefaultQuantile
	}
	return *q
}

// FindCirclesResult is a detection in full-image coordinates.
type FindCirclesResult struct {
	*detection.CirclesResult

	// Region is the searched rectangle when the search was restricted.
	// Centers have already been shifted out of the region's frame.
	Region *imaging.Region `json:"region,omitempty"`
}

func (s *Server) handleHoughFindCircles(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a houghFindCirclesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	res, err := s.detect(ctx, "hough_find_circles", a.Path, a.Radius, s.quantile(a.Quantile), a.preprocessArgs)
	if err != nil {
		return nil, err
	}
	return &FindCirclesResult{CirclesResult: res, Region: a.Region}, nil
}

// detect runs the detector on path under the configured deadline. Centers
// found inside a region are returned in full-image coordinates.
func (s *Server) detect(ctx context.Context, operation, path string, radius, quantile float64, pre preprocessArgs) (*detection.CirclesResult, error) {
	if err := s.checkRadius(radius); err != nil {
		return nil, err
	}
	loader := imaging.NewLuminanceLoader(s.cache, pre.options())
	res, err := withTimeout(ctx, s.cfg.Timeout, operation, func() (*detection.CirclesResult, error) {
		return s.detector.DetectIn(loader, path, radius, quantile)
	})
	if err != nil {
		return nil, err
	}
	if pre.Region != nil {
		for i := range res.Centers {
			res.Centers[i].Row += pre.Region.Y1
			res.Centers[i].Col += pre.Region.X1
		}
	}
	return res, nil
}

type houghOverlayArgs struct {
	Path     string   `json:"path"`
	Radius   float64  `json:"radius"`
	Quantile *float64 `json:"quantile,omitempty"`
	Color    string   `json:"color"`
	preprocessArgs
}

// OverlayResult is the source image with detections drawn on it.
type OverlayResult struct {
	Count     int                     `json:"count"`
	Threshold float64                 `json:"threshold"`
	Region    *imaging.Region         `json:"region,omitempty"`
	Image     *visualize.EncodedImage `json:"image"`
}

func (s *Server) handleHoughOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a houghOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	res, err := s.detect(ctx, "hough_overlay", a.Path, a.Radius, s.quantile(a.Quantile), a.preprocessArgs)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	marked, err := visualize.Overlay(img, res.Centers, a.Radius, a.Color)
	if err != nil {
		return nil, err
	}
	enc, err := visualize.EncodeBase64PNG(marked)
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		Count:     res.Count,
		Threshold: res.Threshold,
		Region:    a.Region,
		Image:     enc,
	}, nil
}
