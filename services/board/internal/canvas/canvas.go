// Package canvas holds a tab's drawing as strokes and rasterises it into
// the image payload sent to the model.
package canvas

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gogpu/gg"
)

// Brush limits and colors of the board
const (
	MinRadius  = 1
	MaxRadius  = 15
	Pen        = "#FFF"
	Eraser     = "#000"
	Background = "#000"
)

// ErrInvalidStroke is returned for strokes the board cannot draw
var ErrInvalidStroke = errors.New("invalid stroke")

// Point is a position in canvas pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous brush movement
type Stroke struct {
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	Points []Point `json:"points"`
}

// Validate checks the stroke against the brush limits. Color syntax is
// checked by the API schema; an unparseable color draws black.
func (s Stroke) Validate() error {
	if s.Color == "" {
		return fmt.Errorf("%w: no color", ErrInvalidStroke)
	}
	if s.Radius < MinRadius || s.Radius > MaxRadius {
		return fmt.Errorf("%w: radius %v outside %d..%d", ErrInvalidStroke, s.Radius, MinRadius, MaxRadius)
	}
	if len(s.Points) == 0 {
		return fmt.Errorf("%w: no points", ErrInvalidStroke)
	}
	return nil
}

// Payload is the serialized raster image of a drawing
type Payload struct {
	MIMEType string
	Data     []byte
}

// Base64 returns the payload data as standard base64
func (p Payload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// Canvas is a fixed-size drawing surface. It is not safe for concurrent
// use; callers serialize access.
type Canvas struct {
	width   int
	height  int
	strokes []Stroke
}

// New creates an empty canvas
func New(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Add appends a stroke
func (c *Canvas) Add(s Stroke) error {
	if err := s.Validate(); err != nil {
		return err
	}
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	s.Points = points
	c.strokes = append(c.strokes, s)
	return nil
}

// Undo removes the last stroke and reports whether there was one
func (c *Canvas) Undo() bool {
	if len(c.strokes) == 0 {
		return false
	}
	c.strokes = c.strokes[:len(c.strokes)-1]
	return true
}

// Clear removes every stroke
func (c *Canvas) Clear() {
	c.strokes = nil
}

// Len returns the number of strokes
func (c *Canvas) Len() int {
	return len(c.strokes)
}

// Empty reports whether nothing is drawn
func (c *Canvas) Empty() bool {
	return len(c.strokes) == 0
}

// Render rasterises the strokes onto the black board as a PNG payload
func (c *Canvas) Render() (payload Payload, err error) {
	dc := gg.NewContext(c.width, c.height)
	defer func() {
		if closeErr := dc.Close(); closeErr != nil && err == nil {
			payload, err = Payload{}, fmt.Errorf("failed to release canvas: %w", closeErr)
		}
	}()

	dc.ClearWithColor(gg.Hex(Background))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, s := range c.strokes {
		dc.SetHexColor(s.Color)

		if len(s.Points) == 1 {
			dc.DrawCircle(s.Points[0].X, s.Points[0].Y, s.Radius)
			if err := dc.Fill(); err != nil {
				return Payload{}, fmt.Errorf("failed to draw dot: %w", err)
			}
			continue
		}

		dc.SetLineWidth(2 * s.Radius)
		dc.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, p := range s.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		if err := dc.Stroke(); err != nil {
			return Payload{}, fmt.Errorf("failed to draw stroke: %w", err)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return Payload{}, fmt.Errorf("failed to flush canvas: %w", err)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return Payload{}, fmt.Errorf("failed to encode canvas: %w", err)
	}
	return Payload{MIMEType: "image/png", Data: buf.Bytes()}, nil
}
