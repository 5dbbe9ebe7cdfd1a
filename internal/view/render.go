package view

import (
	"fmt"

	"github.com/Linux0Hat/physicium/internal/physics"
)

// Sink receives draw primitives in pixel space. Implementations own all
// surface management.
type Sink interface {
	DrawCircle(center Point, radius float64)
	DrawLine(p0, p1 Point)
	DrawText(pos Point, s string)
}

// Renderer turns snapshots into draw calls. It never mutates the snapshot
// or the viewport.
type Renderer struct {
	// MinRadius is the smallest pixel radius emitted, so tiny bodies stay
	// visible when zoomed out. Zero draws every radius at radius*meter size.
	MinRadius float64
	// LabelFormat formats velocity magnitudes.
	LabelFormat string
}

func NewRenderer() *Renderer {
	return &Renderer{LabelFormat: "%.2f"}
}

// Draw emits one filled circle per visible body.
func (r *Renderer) Draw(snap physics.Snapshot, vp *Viewport, sink Sink) {
	for _, b := range snap.Bodies {
		c := vp.Project(b.Position)
		radius := max(vp.ProjectLength(b.Radius), r.MinRadius)
		if !vp.Contains(c, radius) {
			continue
		}
		sink.DrawCircle(c, radius)
	}
}

// DrawVectors emits a velocity line per body, |v|*scale pixels long, and
// with showValues a label holding |v| at the tip.
func (r *Renderer) DrawVectors(snap physics.Snapshot, vp *Viewport, sink Sink, scale float64, showValues bool) {
	format := r.LabelFormat
	if format == "" {
		format = "%.2f"
	}
	for _, b := range snap.Bodies {
		start := vp.Project(b.Position)
		speed := b.Velocity.Length()
		end := start
		if speed > 0 {
			dir := b.Velocity.Scale(1 / speed)
			length := speed * scale
			// pixel Y grows downward
			end = Point{X: start.X + dir.X*length, Y: start.Y - dir.Y*length}
			sink.DrawLine(start, end)
		}
		if showValues {
			sink.DrawText(end, fmt.Sprintf(format, speed))
		}
	}
}
