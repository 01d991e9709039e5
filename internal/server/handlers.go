package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
	"github.com/ironsheep/docscan-mcp/internal/refine"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "scan_open", "scan_rectify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolErrorData is the data member of a failed tools/call response.
type ToolErrorData struct {
	// Kind is the scanerr kind: validation, degenerate, resampling,
	// not_found or internal.
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response whose data carries
// the error kind. Validation failures use code -32602, all others -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", ToolErrorData{
			Kind:    string(scanerr.KindValidation),
			Message: err.Error(),
		})
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)

	entry := s.log.WithFields(logrus.Fields{
		"tool":        params.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if id := sessionIDOf(params.Arguments); id != "" {
		entry = entry.WithField("session", id)
	}

	if err != nil {
		kind := scanerr.KindOf(err)
		entry = entry.WithField("error_type", string(kind)).WithError(err)
		code := -32000
		if kind == scanerr.KindValidation {
			code = -32602
			entry.Warn("tool call rejected")
		} else if kind == scanerr.KindInternal {
			entry.Error("tool call failed")
		} else {
			entry.Info("tool call failed")
		}
		return s.errorResponse(req.ID, code, "Tool execution failed", ToolErrorData{
			Kind:    string(kind),
			Message: err.Error(),
		})
	}
	entry.Debug("tool call")

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
//  1. Decodes and validates its arguments
//  2. Looks up the session
//  3. Calls the pipeline stage
//  4. Returns the result or a scanerr error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session lifecycle
	case "scan_open":
		return s.handleScanOpen(args)
	case "scan_close":
		return s.handleScanClose(args)

	// Detection
	case "scan_detect_corners":
		return s.handleScanDetectCorners(args)
	case "scan_edge_map":
		return s.handleScanEdgeMap(args)

	// Refinement
	case "scan_get_corners":
		return s.handleScanGetCorners(args)
	case "scan_set_corners":
		return s.handleScanSetCorners(args)
	case "scan_hit_test":
		return s.handleScanHitTest(args)
	case "scan_move_corner":
		return s.handleScanMoveCorner(args)

	// Output
	case "scan_rectify":
		return s.handleScanRectify(args)
	case "scan_ocr":
		return s.handleScanOCR(args)

	default:
		return nil, scanerr.NotFound(fmt.Sprintf("unknown tool: %s", name), nil)
	}
}

// decodeArgs unmarshals and validates tool arguments into dst.
func (s *Server) decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return scanerr.Validation("invalid arguments", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return scanerr.Validation(err.Error(), err)
	}
	return nil
}

// sessionIDOf extracts session_id from raw arguments for logging.
func sessionIDOf(args json.RawMessage) string {
	var a struct {
		SessionID string `json:"session_id"`
	}
	_ = json.Unmarshal(args, &a)
	return a.SessionID
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Session Lifecycle Handlers ===

type scanOpenArgs struct {
	Path   string `json:"path" validate:"required"`
	Detect bool   `json:"detect"`
}

type scanOpenResult struct {
	SessionID string             `json:"session_id"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Corners   geometry.CornerSet `json:"corners"`
	Detection *detection.Result  `json:"detection,omitempty"`
}

func (s *Server) handleScanOpen(args json.RawMessage) (interface{}, error) {
	var a scanOpenArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	ss, evicted := s.sessions.open(a.Path, img)
	if evicted != nil {
		s.log.WithFields(logrus.Fields{
			"session": evicted.id,
			"age_ms":  time.Since(evicted.created).Milliseconds(),
			"max":     s.cfg.MaxSessions,
		}).Warn("session limit reached, closed oldest session")
		s.releaseImage(evicted.path)
	}

	b := img.Bounds()
	res := scanOpenResult{SessionID: ss.id, Width: b.Dx(), Height: b.Dy()}
	if a.Detect {
		det, err := s.detect(ss)
		if err != nil {
			return nil, err
		}
		res.Detection = det
	}
	res.Corners = ss.refine.Corners()
	return res, nil
}

type sessionArgs struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

func (s *Server) handleScanClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, inUse, err := s.sessions.close(a.SessionID)
	if err != nil {
		return nil, err
	}
	if !inUse {
		s.cache.Evict(ss.path)
	}
	return map[string]interface{}{"session_id": ss.id, "closed": true}, nil
}

// releaseImage drops path from the image cache unless a session uses it.
func (s *Server) releaseImage(path string) {
	if !s.sessions.pathInUse(path) {
		s.cache.Evict(path)
	}
}

// === Detection Handlers ===

func (s *Server) handleScanDetectCorners(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}
	return s.detect(ss)
}

// detect runs corner detection and stores the result as the session's
// corners.
func (s *Server) detect(ss *scanSession) (*detection.Result, error) {
	res, err := s.detector.Detect(ss.image)
	if err != nil {
		return nil, err
	}
	if err := ss.refine.Set(res.Corners); err != nil {
		return nil, err
	}
	ss.setDetection(res)

	s.log.WithFields(logrus.Fields{
		"session":    ss.id,
		"fallback":   res.FallbackUsed,
		"candidates": res.Candidates,
	}).Debug("corners detected")
	return res, nil
}

func (s *Server) handleScanEdgeMap(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}
	edges, err := s.detector.Edges(ss.image)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(edges.Image())
	if err != nil {
		return nil, scanerr.Internal("failed to encode edge map", err)
	}
	return map[string]interface{}{
		"edge_pixels": edges.Count(),
		"image":       encoded,
	}, nil
}

// === Refinement Handlers ===

type cornersResult struct {
	SessionID string             `json:"session_id"`
	Corners   geometry.CornerSet `json:"corners"`
	Dragging  *int               `json:"dragging,omitempty"`
	Detection *detection.Result  `json:"detection,omitempty"`
}

func (s *Server) cornersOf(ss *scanSession) cornersResult {
	res := cornersResult{SessionID: ss.id, Corners: ss.refine.Corners()}
	if active := ss.refine.Active(); active != refine.NoCorner {
		res.Dragging = &active
	}
	return res
}

func (s *Server) handleScanGetCorners(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}
	res := s.cornersOf(ss)
	res.Detection = ss.lastDetection()
	return res, nil
}

type pointArg struct {
	X float64 `json:"x" validate:"gte=0,lte=1"`
	Y float64 `json:"y" validate:"gte=0,lte=1"`
}

type scanSetCornersArgs struct {
	SessionID string     `json:"session_id" validate:"required,uuid"`
	Corners   []pointArg `json:"corners" validate:"len=4,dive"`
	// Order labels the points canonically first; otherwise they must
	// already be [top_left, top_right, bottom_right, bottom_left].
	Order bool `json:"order"`
}

func (s *Server) handleScanSetCorners(args json.RawMessage) (interface{}, error) {
	var a scanSetCornersArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}

	var pts [4]geometry.Point
	for i, p := range a.Corners {
		pts[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	corners := geometry.CornerSet(pts)
	if a.Order {
		corners = geometry.OrderCorners(pts)
	}
	if err := ss.refine.Set(corners); err != nil {
		return nil, err
	}
	return s.cornersOf(ss), nil
}

type scanHitTestArgs struct {
	SessionID     string  `json:"session_id" validate:"required,uuid"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	DisplayWidth  float64 `json:"display_width" validate:"gt=0"`
	DisplayHeight float64 `json:"display_height" validate:"gt=0"`
}

type hitTestResult struct {
	SessionID string  `json:"session_id"`
	Hit       bool    `json:"hit"`
	Index     *int    `json:"index"`
	Corner    *string `json:"corner"`
}

func (s *Server) handleScanHitTest(args json.RawMessage) (interface{}, error) {
	var a scanHitTestArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}

	idx := ss.refine.Begin(geometry.Pt(a.X, a.Y), a.DisplayWidth, a.DisplayHeight)
	res := hitTestResult{SessionID: ss.id}
	if idx != refine.NoCorner {
		name := geometry.CornerNames[idx]
		res.Hit, res.Index, res.Corner = true, &idx, &name
	}
	return res, nil
}

type scanMoveCornerArgs struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	// Index selects the corner to move. When omitted, the corner under the
	// last scan_hit_test is moved.
	Index         *int    `json:"index" validate:"omitempty,min=0,max=3"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	DisplayWidth  float64 `json:"display_width" validate:"gt=0"`
	DisplayHeight float64 `json:"display_height" validate:"gt=0"`
	// End finishes the drag after this move.
	End bool `json:"end"`
}

func (s *Server) handleScanMoveCorner(args json.RawMessage) (interface{}, error) {
	var a scanMoveCornerArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}

	p := geometry.Pt(a.X, a.Y)
	moved := true
	if a.Index != nil {
		if err := ss.refine.Move(*a.Index, p, a.DisplayWidth, a.DisplayHeight); err != nil {
			return nil, err
		}
	} else {
		if moved, err = ss.refine.Drag(p, a.DisplayWidth, a.DisplayHeight); err != nil {
			return nil, err
		}
	}
	if a.End {
		ss.refine.End()
	}

	return map[string]interface{}{
		"moved":   moved,
		"corners": s.cornersOf(ss),
	}, nil
}

// === Output Handlers ===

type scanRectifyArgs struct {
	SessionID     string `json:"session_id" validate:"required,uuid"`
	Interpolation string `json:"interpolation" validate:"omitempty,oneof=bilinear nearest"`
	MaxDimension  int    `json:"max_dimension" validate:"gte=0"`
}

type rectifyResult struct {
	SessionID string             `json:"session_id"`
	Corners   geometry.CornerSet `json:"corners"`

	// WarpWidth and WarpHeight are the dimensions derived from the corners,
	// before any max_dimension downscale.
	WarpWidth  int                   `json:"warp_width"`
	WarpHeight int                   `json:"warp_height"`
	Image      *imaging.EncodedImage `json:"image"`
}

func (s *Server) rectify(ss *scanSession, interp string, maxDim int) (*rectify.Result, geometry.CornerSet, error) {
	opts := rectify.Options{
		Interpolation: s.cfg.InterpolationMode(),
		MaxDimension:  maxDim,
	}
	if interp != "" {
		mode, err := imaging.ParseInterpolation(interp)
		if err != nil {
			return nil, geometry.CornerSet{}, scanerr.Validation(err.Error(), err)
		}
		opts.Interpolation = mode
	}

	corners := ss.refine.Corners()
	res, err := s.rectifier.Rectify(ss.image, corners, opts)
	if err != nil {
		return nil, corners, err
	}
	return res, corners, nil
}

func (s *Server) handleScanRectify(args json.RawMessage) (interface{}, error) {
	var a scanRectifyArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}

	res, corners, err := s.rectify(ss, a.Interpolation, a.MaxDimension)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(res.Image)
	if err != nil {
		return nil, scanerr.Internal("failed to encode rectified page", err)
	}
	return rectifyResult{
		SessionID:  ss.id,
		Corners:    corners,
		WarpWidth:  res.WarpWidth,
		WarpHeight: res.WarpHeight,
		Image:      encoded,
	}, nil
}

// regionArg is a rectangle in rectified page pixels, X2 and Y2 exclusive.
type regionArg struct {
	X1 int `json:"x1" validate:"gte=0"`
	Y1 int `json:"y1" validate:"gte=0"`
	X2 int `json:"x2" validate:"gtfield=X1"`
	Y2 int `json:"y2" validate:"gtfield=Y1"`
}

type scanOCRArgs struct {
	SessionID     string `json:"session_id" validate:"required,uuid"`
	Interpolation string `json:"interpolation" validate:"omitempty,oneof=bilinear nearest"`
	// Region limits recognition to part of the rectified page.
	Region *regionArg `json:"region"`
}

type ocrResult struct {
	SessionID string `json:"session_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Language  string `json:"language"`
	*ocr.Result
}

func (s *Server) handleScanOCR(args json.RawMessage) (interface{}, error) {
	var a scanOCRArgs
	if err := s.decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ss, err := s.sessions.get(a.SessionID)
	if err != nil {
		return nil, err
	}

	res, _, err := s.rectify(ss, a.Interpolation, 0)
	if err != nil {
		return nil, err
	}
	var text *ocr.Result
	if a.Region != nil {
		region := image.Rect(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		text, err = s.reader.ReadRegion(res.Image, region)
	} else {
		text, err = s.reader.Read(res.Image)
	}
	if err != nil {
		return nil, err
	}
	return ocrResult{
		SessionID: ss.id,
		Width:     res.Width,
		Height:    res.Height,
		Language:  s.reader.Language(),
		Result:    text,
	}, nil
}
