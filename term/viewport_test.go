// Copyright © 2026 Ember contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/viewport_test.go
// Summary: Tests for viewport scrolling, clamping and inertia physics.
// Usage: Run with `go test`.

package term

import (
	"math"
	"testing"
)

// TestScrollByClamps verifies offsets stay within [0, maxOffset] and the
// sub-row fraction folds into whole rows.
func TestScrollByClamps(t *testing.T) {
	v := NewViewportController()
	v.ScrollBy(5, 0, 100)
	if v.Offset() != 5 {
		t.Errorf("offset = %d, want 5", v.Offset())
	}
	v.ScrollBy(0, 2.5, 100)
	if v.Offset() != 7 || math.Abs(v.SubRow()-0.5) > 1e-9 {
		t.Errorf("offset = %d subrow = %v, want 7 / 0.5", v.Offset(), v.SubRow())
	}
	v.ScrollBy(-100, 0, 100)
	if v.Offset() != 0 || v.SubRow() != 0 {
		t.Errorf("bottom clamp failed: offset=%d subrow=%v", v.Offset(), v.SubRow())
	}
	v.ScrollBy(500, 0.9, 100)
	if v.Offset() != 100 || v.SubRow() != 0 {
		t.Errorf("top clamp failed: offset=%d subrow=%v", v.Offset(), v.SubRow())
	}
}

// TestInertiaDecay verifies a kick produces motion that decays to a stop with
// the sub-row snapped to zero.
func TestInertiaDecay(t *testing.T) {
	v := NewViewportController()
	v.Kick(1) // one wheel row: 12 rows/s
	moving := true
	steps := 0
	for moving && steps < 1000 {
		moving = v.Step(1.0/60, 1000)
		steps++
	}
	if steps >= 1000 {
		t.Fatal("inertia never stopped")
	}
	if v.Offset() == 0 {
		t.Error("kick produced no displacement")
	}
	if v.SubRow() != 0 {
		t.Errorf("sub-row did not snap to zero: %v", v.SubRow())
	}
}

// TestInertiaEdgeStop verifies hitting the bottom edge zeroes velocity
// immediately instead of bouncing.
func TestInertiaEdgeStop(t *testing.T) {
	v := NewViewportController()
	v.ScrollBy(2, 0, 100)
	v.Kick(-10) // hard kick toward the live edge
	for i := 0; i < 120; i++ {
		v.Step(1.0/60, 100)
	}
	if v.Offset() != 0 || v.SubRow() != 0 {
		t.Errorf("viewport not at rest on the edge: offset=%d subrow=%v", v.Offset(), v.SubRow())
	}
	if !v.StuckToBottom() {
		t.Error("not stuck to bottom after edge stop")
	}
	// The very next step must report no further motion.
	if v.Step(1.0/60, 100) {
		t.Error("motion reported after edge stop")
	}
}

// TestStepZeroIsNoop verifies dt<=0 changes nothing.
func TestStepZeroIsNoop(t *testing.T) {
	v := NewViewportController()
	v.ScrollBy(3, 0.25, 100)
	v.Kick(1)
	off, sub := v.Offset(), v.SubRow()
	v.Step(0, 100)
	v.Step(-1, 100)
	if v.Offset() != off || v.SubRow() != sub {
		t.Errorf("state changed on dt<=0: %d/%v -> %d/%v", off, sub, v.Offset(), v.SubRow())
	}
}

// TestClampAfterShrink verifies history shrinking below the offset pulls the
// viewport back and kills velocity.
func TestClampAfterShrink(t *testing.T) {
	v := NewViewportController()
	v.ScrollBy(50, 0, 100)
	v.Kick(5)
	v.Clamp(10)
	if v.Offset() != 10 {
		t.Errorf("offset = %d, want 10", v.Offset())
	}
	if v.Step(1.0/60, 10) {
		t.Error("velocity survived the clamp")
	}
}

// TestScrollToBottom verifies the stick-to-bottom reset.
func TestScrollToBottom(t *testing.T) {
	v := NewViewportController()
	v.ScrollBy(5, 0.5, 100)
	v.Kick(3)
	v.ScrollToBottom()
	if !v.StuckToBottom() {
		t.Error("not stuck to bottom")
	}
	if v.Step(1.0/60, 100) {
		t.Error("motion after ScrollToBottom")
	}
}

// TestSetPhysics verifies overrides apply and non-positive values keep the
// defaults.
func TestSetPhysics(t *testing.T) {
	v := NewViewportController()
	v.SetPhysics(24, 0, -1)
	v.Kick(1)
	if v.velocity != 24 {
		t.Errorf("velocity = %v, want 24 after doubled gain", v.velocity)
	}
	if v.friction != DefaultScrollFriction || v.stop != DefaultStopThreshold {
		t.Error("non-positive overrides replaced defaults")
	}
}
