package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Linux0Hat/physicium/internal/view"
)

// SVG is a view.Sink that accumulates draw calls as SVG elements. The
// document is produced by WriteTo or String.
type SVG struct {
	Width, Height int
	Background    string
	Fill          string
	Stroke        string
	TextColor     string
	FontSize      float64

	body strings.Builder
}

var _ view.Sink = (*SVG)(nil)

func NewSVG(width, height int) *SVG {
	return &SVG{
		Width:      width,
		Height:     height,
		Background: "#0a0a0a",
		Fill:       "#00ff88",
		Stroke:     "#ffcc00",
		TextColor:  "#cccccc",
		FontSize:   12,
	}
}

func (s *SVG) DrawCircle(center view.Point, radius float64) {
	if !finite(center.X, center.Y, radius) {
		return
	}
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		center.X, center.Y, radius, s.Fill)
}

func (s *SVG) DrawLine(p0, p1 view.Point) {
	if !finite(p0.X, p0.Y, p1.X, p1.Y) {
		return
	}
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5"/>`+"\n",
		p0.X, p0.Y, p1.X, p1.Y, s.Stroke)
}

func (s *SVG) DrawText(pos view.Point, text string) {
	if !finite(pos.X, pos.Y) {
		return
	}
	fmt.Fprintf(&s.body, `<text x="%.2f" y="%.2f" fill="%s" font-size="%g" font-family="monospace">%s</text>`+"\n",
		pos.X, pos.Y, s.TextColor, s.FontSize, escape(text))
}

// DrawTrail draws a polyline through points, typically the projected
// history of one body.
func (s *SVG) DrawTrail(points []view.Point, color string) {
	if len(points) < 2 {
		return
	}
	s.body.WriteString(`<path fill="none" stroke="` + color + `" stroke-width="1" stroke-opacity="0.6" d="`)
	first := true
	for _, p := range points {
		if !finite(p.X, p.Y) {
			continue
		}
		if first {
			fmt.Fprintf(&s.body, "M%.1f,%.1f", p.X, p.Y)
			first = false
		} else {
			fmt.Fprintf(&s.body, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	s.body.WriteString(`"/>` + "\n")
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.Background)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTo writes the complete document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
