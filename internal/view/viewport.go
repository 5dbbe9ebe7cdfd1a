// Package view maps simulation space to pixels and turns world snapshots
// into draw calls on a Sink.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/Linux0Hat/physicium/internal/physics"
)

// ErrInvalidParameter is returned by setters given out-of-range values.
var ErrInvalidParameter = errors.New("view: invalid parameter")

// DefaultMeterSize is the number of pixels per world unit of a new Viewport.
const DefaultMeterSize = 1.0

// Point is a position in pixel space, origin top-left, Y down.
type Point struct {
	X, Y float64
}

// Viewport is the camera: a fixed pixel size, a world-space center and a
// zoom factor in pixels per world unit. World space is Y-up.
type Viewport struct {
	width, height int
	center        physics.Vector2
	meterSize     float64
}

func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:     width,
		height:    height,
		meterSize: DefaultMeterSize,
	}
}

func (v *Viewport) Size() (width, height int) { return v.width, v.height }

func (v *Viewport) Center() physics.Vector2 { return v.center }

func (v *Viewport) MeterSize() float64 { return v.meterSize }

// SetViewCenter places world point (x, y) at the middle of the viewport.
func (v *Viewport) SetViewCenter(x, y float64) {
	v.center = physics.Vector2{X: x, Y: y}
}

func (v *Viewport) SetMeterSize(m float64) error {
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return fmt.Errorf("meter size must be positive, got %v: %w", m, ErrInvalidParameter)
	}
	v.meterSize = m
	return nil
}

// Project maps a world point to pixel coordinates.
func (v *Viewport) Project(p physics.Vector2) Point {
	return Point{
		X: (p.X-v.center.X)*v.meterSize + float64(v.width)/2,
		Y: float64(v.height)/2 - (p.Y-v.center.Y)*v.meterSize,
	}
}

// ProjectLength scales a world length to pixels.
func (v *Viewport) ProjectLength(l float64) float64 {
	return l * v.meterSize
}

// Unproject is the inverse of Project.
func (v *Viewport) Unproject(p Point) physics.Vector2 {
	return physics.Vector2{
		X: (p.X-float64(v.width)/2)/v.meterSize + v.center.X,
		Y: (float64(v.height)/2-p.Y)/v.meterSize + v.center.Y,
	}
}

// Contains reports whether a circle of pixel radius r at p touches the
// viewport.
func (v *Viewport) Contains(p Point, r float64) bool {
	return p.X+r >= 0 && p.Y+r >= 0 &&
		p.X-r <= float64(v.width) && p.Y-r <= float64(v.height)
}
