// Package scenario holds the built-in preset worlds and the YAML scenario
// file format they share.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Linux0Hat/physicium/internal/physics"
)

var (
	ErrUnknownPreset   = errors.New("scenario: unknown preset")
	ErrInvalidScenario = errors.New("scenario: invalid scenario")
)

// PresetKind selects one of the built-in worlds.
type PresetKind int

const (
	// Collision drops two bouncy balls onto a ground under uniform gravity.
	Collision PresetKind = iota
	// Universal is a small orbital system under mutual attraction only.
	Universal
	// Billiards is a frictionless table: static cushions and a rack of balls.
	Billiards
)

var presetNames = [...]string{
	Collision: "collision",
	Universal: "universal",
	Billiards: "billiards",
}

func (k PresetKind) String() string {
	if k < 0 || int(k) >= len(presetNames) {
		return fmt.Sprintf("PresetKind(%d)", int(k))
	}
	return presetNames[k]
}

// Next cycles through the presets in declaration order.
func (k PresetKind) Next() PresetKind {
	return PresetKind((int(k) + 1) % len(presetNames))
}

func ParsePreset(s string) (PresetKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range presetNames {
		if n == name {
			return PresetKind(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownPreset)
}

// Presets lists every preset kind.
func Presets() []PresetKind {
	out := make([]PresetKind, len(presetNames))
	for i := range out {
		out[i] = PresetKind(i)
	}
	return out
}

// Preset returns the scenario description of a built-in world.
func Preset(kind PresetKind) (*Scenario, error) {
	switch kind {
	case Collision:
		return collision(), nil
	case Universal:
		return universal(), nil
	case Billiards:
		return billiards(), nil
	default:
		return nil, fmt.Errorf("%v: %w", kind, ErrUnknownPreset)
	}
}

// Build constructs the world of a preset on top of base, which supplies
// the integration settings (max step, broadphase, parallel threshold).
func Build(kind PresetKind, base physics.Config) (*physics.World, Camera, error) {
	sc, err := Preset(kind)
	if err != nil {
		return nil, Camera{}, err
	}
	w, err := sc.World(base)
	if err != nil {
		return nil, Camera{}, err
	}
	return w, sc.Camera, nil
}

func restitution(e float64) *float64 { return &e }

func collision() *Scenario {
	return &Scenario{
		Name:        Collision.String(),
		Description: "two bouncy balls dropped onto the ground",
		Gravity:     &Vec{Y: -physics.StandardGravity},
		Camera:      Camera{MeterSize: 50},
		Bodies: []BodyDef{
			{Position: Vec{0, 7.6}, Velocity: Vec{0.8, 2}, Radius: 0.4, Mass: 20, Restitution: restitution(0.8)},
			{Position: Vec{-1.6, 0}, Velocity: Vec{2, 8}, Radius: 0.6, Mass: 30, Restitution: restitution(0.8)},
			// the ground is the top of a very large static circle
			{Position: Vec{0, -107}, Radius: 100, Mass: 1e6, Restitution: restitution(1), Static: true},
		},
	}
}

func universal() *Scenario {
	return &Scenario{
		Name:                 Universal.String(),
		Description:          "a satellite on a circular orbit and a second, eccentric one",
		Gravity:              &Vec{},
		UniversalGravitation: true,
		G:                    physics.GravitationalConstant,
		Camera:               Camera{MeterSize: 1, Follow: true},
		Bodies: []BodyDef{
			{Position: Vec{0, 0}, Radius: 50, Mass: 2.8e17, Restitution: restitution(0.5)},
			{Position: Vec{0, 300}, Velocity: Vec{250, 0}, Radius: 20, Mass: 1e7, Restitution: restitution(0.5)},
			{Position: Vec{0, -200}, Velocity: Vec{-300, 0}, Radius: 15, Mass: 5e6, Restitution: restitution(0.5)},
		},
	}
}

const (
	tableHalfWidth  = 6.5
	tableHalfHeight = 3.5
	cushionRadius   = 0.5
	ballRadius      = 0.25
)

func billiards() *Scenario {
	sc := &Scenario{
		Name:        Billiards.String(),
		Description: "a cue ball breaking a rack on a frictionless table",
		Gravity:     &Vec{},
		Camera:      Camera{MeterSize: 50},
	}

	cushion := func(x, y float64) BodyDef {
		return BodyDef{Position: Vec{x, y}, Radius: cushionRadius, Mass: 1e6, Restitution: restitution(0.9), Static: true}
	}
	for x := -tableHalfWidth; x <= tableHalfWidth; x++ {
		sc.Bodies = append(sc.Bodies,
			cushion(x, tableHalfHeight+cushionRadius),
			cushion(x, -tableHalfHeight-cushionRadius))
	}
	for y := -tableHalfHeight + 0.5; y <= tableHalfHeight-0.5; y++ {
		sc.Bodies = append(sc.Bodies,
			cushion(-tableHalfWidth-cushionRadius, y),
			cushion(tableHalfWidth+cushionRadius, y))
	}

	ball := func(x, y float64) BodyDef {
		return BodyDef{Position: Vec{x, y}, Radius: ballRadius, Mass: 0.17, Restitution: restitution(0.95)}
	}
	// rack of ten, apex towards the cue ball
	const apex = 2.0
	spacing := 2*ballRadius + 0.01
	for row := 0; row < 4; row++ {
		x := apex + float64(row)*spacing*0.8660254037844386
		for i := 0; i <= row; i++ {
			y := (float64(i) - float64(row)/2) * spacing
			sc.Bodies = append(sc.Bodies, ball(x, y))
		}
	}
	cue := ball(-4, 0)
	cue.Velocity = Vec{6, 0.05}
	sc.Bodies = append(sc.Bodies, cue)
	return sc
}
