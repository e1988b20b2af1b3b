package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/omr-grader/internal/grade"
	"github.com/ironsheep/omr-grader/internal/imaging"
	"github.com/ironsheep/omr-grader/internal/layout"
	"github.com/ironsheep/omr-grader/internal/registry"
	"github.com/ironsheep/omr-grader/internal/skew"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "omr_estimate_skew").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "omr_estimate_skew":
		return s.handleEstimateSkew(args)
	case "omr_find_margins":
		return s.handleFindMargins(args)
	case "omr_detect_bands":
		return s.handleDetectBands(args)
	case "omr_grade_page":
		return s.handleGradePage(args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and checks the page path.
func decodeArgs(args json.RawMessage, v interface{ pagePath() string }) error {
	if len(args) == 0 {
		return errors.New("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return err
	}
	if v.pagePath() == "" {
		return errors.New("path is required")
	}
	return nil
}

type pageArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (a *pageArgs) pagePath() string { return a.Path }

// loadPage returns the cached page, decoding it again when reload is set.
func (s *Server) loadPage(a pageArgs) (image.Image, error) {
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	return s.cache.Load(a.Path)
}

// === Skew ===

type estimateSkewArgs struct {
	pageArgs
	Strategy string `json:"strategy"`
}

func (s *Server) handleEstimateSkew(args json.RawMessage) (interface{}, error) {
	var a estimateSkewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cfg := s.pipeline.Config()
	if a.Strategy == "" {
		a.Strategy = cfg.Skew.Strategy
	}
	est, err := skew.New(a.Strategy, cfg.SkewParams())
	if err != nil {
		return nil, err
	}
	img, err := s.loadPage(a.pageArgs)
	if err != nil {
		return nil, err
	}
	return est.Estimate(img)
}

// === Margins ===

type findMarginsArgs struct {
	pageArgs
	Align bool `json:"align"`
}

type findMarginsResult struct {
	Margins layout.Margins `json:"margins"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Angle   float64        `json:"angle"`
}

func (s *Server) handleFindMargins(args json.RawMessage) (interface{}, error) {
	var a findMarginsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadPage(a.pageArgs)
	if err != nil {
		return nil, err
	}

	var res findMarginsResult
	page := img
	if a.Align {
		aligned, err := s.pipeline.AlignImage(img)
		if err != nil {
			return nil, err
		}
		page = aligned.Aligned
		res.Angle = aligned.Skew.Angle
	}

	lp := s.pipeline.Config().LayoutParams()
	res.Margins = layout.FindMargins(imaging.Gray(page), lp.MarginThreshold, lp.MarginPad)
	res.Width = page.Bounds().Dx()
	res.Height = page.Bounds().Dy()
	return res, nil
}

// === Bands ===

type detectBandsResult struct {
	Skew     skew.Result      `json:"skew"`
	Margins  layout.Margins   `json:"margins"`
	Bands    registry.BandSet `json:"bands"`
	Warnings []string         `json:"warnings,omitempty"`
}

func (s *Server) handleDetectBands(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadPage(a)
	if err != nil {
		return nil, err
	}
	res, err := s.pipeline.AlignImage(img)
	if err != nil {
		return nil, err
	}
	return detectBandsResult{
		Skew:     res.Skew,
		Margins:  res.Layout.Margins,
		Bands:    res.Bands(),
		Warnings: res.Layout.Warnings,
	}, nil
}

// === Grading ===

type gradePageArgs struct {
	pageArgs
	Vertical   []int `json:"vertical"`
	Horizontal []int `json:"horizontal"`
}

type gradePageResult struct {
	Aligned  bool             `json:"aligned"`
	Bands    registry.BandSet `json:"bands"`
	Results  []grade.Result   `json:"results"`
	Report   []string         `json:"report"`
	Warnings []string         `json:"warnings,omitempty"`
}

func (s *Server) handleGradePage(args json.RawMessage) (interface{}, error) {
	var a gradePageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if (a.Vertical == nil) != (a.Horizontal == nil) {
		return nil, errors.New("vertical and horizontal must be given together")
	}
	img, err := s.loadPage(a.pageArgs)
	if err != nil {
		return nil, err
	}

	out := gradePageResult{Bands: registry.BandSet{Vertical: a.Vertical, Horizontal: a.Horizontal}}
	page := img
	if a.Vertical == nil {
		aligned, err := s.pipeline.AlignImage(img)
		if err != nil {
			return nil, err
		}
		page = aligned.Aligned
		out.Aligned = true
		out.Bands = aligned.Bands()
		out.Warnings = append(out.Warnings, aligned.Layout.Warnings...)
	}

	res, err := s.pipeline.GradeImage(page, out.Bands)
	if err != nil {
		return nil, err
	}
	out.Results = res.Results
	out.Warnings = append(out.Warnings, res.Warnings...)

	var b strings.Builder
	if err := grade.WriteReport(&b, a.Path, res.Results); err != nil {
		return nil, err
	}
	out.Report = strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	return out, nil
}
