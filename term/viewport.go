// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/viewport.go
// Summary: Scroll offset, fractional sub-row and inertial physics.
// Usage: Stepped once per rendered frame by the engine's Tick.
// Notes: Step is a pure function of (state, dt); dt=0 is a no-op.

package term

import "math"

// Default physics constants, taken from the reference front-end's feel:
// a wheel row kicks 12 rows/s of velocity, friction drains it at 8/s, and
// motion below 0.02 rows/s snaps to integer row alignment.
const (
	DefaultScrollGain     = 12.0
	DefaultScrollFriction = 8.0
	DefaultStopThreshold  = 0.02
)

// ViewportController maps a scroll position onto the combined
// scrollback+grid row space. Offset counts rows scrolled up from the live
// edge: 0 means stuck to the bottom, where new output keeps the viewport on
// the newest content. SubRow is a fractional offset in [0,1) for
// pixel-smooth rendering.
type ViewportController struct {
	offset   int
	subRow   float64
	velocity float64 // rows per second, positive = scrolling into history

	gain, friction, stop float64
}

// NewViewportController creates a controller with the default physics.
func NewViewportController() *ViewportController {
	return &ViewportController{
		gain:     DefaultScrollGain,
		friction: DefaultScrollFriction,
		stop:     DefaultStopThreshold,
	}
}

// SetPhysics overrides the inertia constants. Non-positive values keep the
// corresponding default.
func (v *ViewportController) SetPhysics(gain, friction, stop float64) {
	if gain > 0 {
		v.gain = gain
	}
	if friction > 0 {
		v.friction = friction
	}
	if stop > 0 {
		v.stop = stop
	}
}

// Offset returns the integer row offset (0 = bottom).
func (v *ViewportController) Offset() int { return v.offset }

// SubRow returns the fractional sub-row offset in [0,1).
func (v *ViewportController) SubRow() float64 { return v.subRow }

// StuckToBottom reports whether the viewport follows new output.
func (v *ViewportController) StuckToBottom() bool { return v.offset == 0 && v.subRow == 0 }

// ScrollBy adjusts the offset by whole and fractional rows, clamped to
// [0, maxOffset]. Positive deltas scroll into history.
func (v *ViewportController) ScrollBy(deltaRows int, deltaSubRow float64, maxOffset int) {
	v.subRow += deltaSubRow
	v.offset += deltaRows
	v.carry()
	v.clamp(maxOffset)
}

// Kick adds wheel velocity for inertial scrolling. deltaRows follows the
// ScrollBy sign convention.
func (v *ViewportController) Kick(deltaRows float64) {
	v.velocity += deltaRows * v.gain
}

// Step advances the inertia simulation by dt seconds and returns true while
// motion continues. Velocity decays exponentially; at either clamp edge it is
// zeroed immediately so the viewport never bounces or jitters, and below the
// stop threshold the position snaps to integer row alignment.
func (v *ViewportController) Step(dt float64, maxOffset int) bool {
	if dt <= 0 {
		return v.moving()
	}
	v.subRow += v.velocity * dt
	decay := 1 - v.friction*dt
	if decay < 0 {
		decay = 0
	}
	v.velocity *= decay

	v.carry()
	if v.clamp(maxOffset) {
		v.velocity = 0
	}
	if math.Abs(v.velocity) < v.stop {
		v.velocity = 0
		// Snap the fraction to the nearest whole row.
		if v.subRow >= 0.5 && v.offset < maxOffset {
			v.offset++
		}
		v.subRow = 0
	}
	return v.moving()
}

// Clamp re-clamps the offset after the history shrank or the view grew
// (resize, ED 3). Velocity is preserved unless an edge was hit.
func (v *ViewportController) Clamp(maxOffset int) {
	if v.clamp(maxOffset) {
		v.velocity = 0
	}
}

// ScrollToBottom sticks the viewport back to the live edge.
func (v *ViewportController) ScrollToBottom() {
	v.offset = 0
	v.subRow = 0
	v.velocity = 0
}

func (v *ViewportController) moving() bool {
	return math.Abs(v.velocity) >= v.stop || v.subRow != 0
}

// carry folds whole rows out of subRow so it stays in [0,1).
func (v *ViewportController) carry() {
	for v.subRow >= 1 {
		v.subRow--
		v.offset++
	}
	for v.subRow < 0 {
		v.subRow++
		v.offset--
	}
}

// clamp bounds the position to [0, maxOffset]; reports whether an edge was
// crossed. carry has already folded subRow into [0,1).
func (v *ViewportController) clamp(maxOffset int) bool {
	if maxOffset < 0 {
		maxOffset = 0
	}
	hit := false
	if v.offset < 0 {
		v.offset, v.subRow = 0, 0
		hit = true
	}
	if v.offset > maxOffset {
		v.offset, v.subRow = maxOffset, 0
		hit = true
	} else if v.offset == maxOffset && v.subRow > 0 {
		v.subRow = 0
		hit = true
	}
	return hit
}
