// Package overlay owns the position and size of the image box shown on top
// of a rendered page. All coordinates are display pixels relative to the
// page raster's top-left corner.
package overlay

import (
	"pdf-stamper/pkg/geometry"
)

// MinSize is the smallest width and height of the overlay box in pixels.
const MinSize = 50

// Nudge step sizes in pixels for keyboard moves.
const (
	NudgeStep     = 1
	NudgeStepFast = 10
)

// Default geometry assigned when an image is accepted or the box is reset.
var defaultBox = geometry.Rect{X: 50, Y: 50, Width: 150, Height: 100}

// Default returns the geometry a freshly accepted image starts with.
func Default() geometry.Rect {
	return defaultBox
}

// Phase is the controller's interaction state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMoving
	PhaseResizing
)

// ReleaseFunc undoes whatever pointer capture the view acquired for an
// interaction. The controller guarantees it runs exactly once per begun
// interaction, on End or on Teardown.
type ReleaseFunc func()

// CommitFunc receives the final geometry of a finished interaction. It is
// called once per commit (End, Nudge, Reset, SetBounds re-clamp), never for
// intermediate preview updates.
type CommitFunc func(geometry.Rect)

// Controller is the overlay box state machine. Only one interaction is
// active at a time; beginning a new one while another is active first ends
// the active one cleanly. The controller is not safe for concurrent use; all
// calls are expected on the UI event loop.
type Controller struct {
	bounds   geometry.Size // page raster size; zero until a page is rendered
	box      geometry.Rect
	phase    Phase
	grab     geometry.Point2D // pointer offset from box origin (move only)
	release  ReleaseFunc
	onCommit CommitFunc
}

// NewController creates a controller with the default box geometry.
func NewController(onCommit CommitFunc) *Controller {
	return &Controller{box: defaultBox, onCommit: onCommit}
}

// Box returns the current (possibly un-committed preview) geometry.
func (c *Controller) Box() geometry.Rect {
	return c.box
}

// Phase returns the current interaction phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// SetBounds installs the page raster size the box must stay inside and
// re-clamps the current geometry. A changed box is committed so the session
// never holds a stale rectangle after a page change or container resize.
func (c *Controller) SetBounds(width, height float64) {
	c.bounds = geometry.Size{Width: width, Height: height}
	clamped := c.clampPosition(c.clampSize(c.box))
	if clamped != c.box {
		c.box = clamped
		c.commit()
	}
}

// Reset restores the default geometry and commits it.
func (c *Controller) Reset() geometry.Rect {
	c.endActive()
	c.box = c.clampPosition(c.clampSize(defaultBox))
	c.commit()
	return c.box
}

// BeginMove starts a move interaction grabbed at the given pointer position.
// release is retained and invoked when the interaction finishes.
func (c *Controller) BeginMove(pointer geometry.Point2D, release ReleaseFunc) {
	c.endActive()
	c.phase = PhaseMoving
	c.grab = pointer.Sub(c.box.Origin())
	c.release = release
}

// BeginResize starts a bottom-right-handle resize interaction.
func (c *Controller) BeginResize(release ReleaseFunc) {
	c.endActive()
	c.phase = PhaseResizing
	c.release = release
}

// UpdatePointer advances the active interaction to the given pointer
// position and returns the preview geometry. It does not commit. Calls while
// idle return the current box unchanged.
func (c *Controller) UpdatePointer(pointer geometry.Point2D) geometry.Rect {
	switch c.phase {
	case PhaseMoving:
		c.box.X = pointer.X - c.grab.X
		c.box.Y = pointer.Y - c.grab.Y
		c.box = c.clampPosition(c.box)
	case PhaseResizing:
		// Position stays put; the pointer drags the bottom-right corner.
		c.box.Width = pointer.X - c.box.X
		c.box.Height = pointer.Y - c.box.Y
		c.box = c.clampSize(c.box)
	}
	return c.box
}

// End finishes the active interaction, releases pointer capture, and commits
// the final geometry. Ending while idle is a no-op so that repeated
// pointer-up/blur events cannot double-commit.
func (c *Controller) End() geometry.Rect {
	if c.phase == PhaseIdle {
		return c.box
	}
	c.endActive()
	c.commit()
	return c.box
}

// Nudge moves the box by one keyboard step in the given direction and
// commits immediately. fast selects the larger modifier step.
func (c *Controller) Nudge(dx, dy int, fast bool) geometry.Rect {
	c.endActive()
	step := float64(NudgeStep)
	if fast {
		step = NudgeStepFast
	}
	c.box.X += float64(dx) * step
	c.box.Y += float64(dy) * step
	c.box = c.clampPosition(c.box)
	c.commit()
	return c.box
}

// Teardown releases any held pointer capture without committing. Used when
// the owning widget is destroyed mid-interaction.
func (c *Controller) Teardown() {
	c.endActive()
}

// endActive returns to idle and runs the release hook exactly once.
func (c *Controller) endActive() {
	c.phase = PhaseIdle
	c.grab = geometry.Point2D{}
	if c.release != nil {
		release := c.release
		c.release = nil
		release()
	}
}

func (c *Controller) commit() {
	if c.onCommit != nil {
		c.onCommit(c.box)
	}
}

// clampSize enforces the minimum size and keeps the bottom-right corner on
// the page. The origin does not move. Before the first page render the
// bounds are unknown and only the minimum applies.
func (c *Controller) clampSize(r geometry.Rect) geometry.Rect {
	if c.bounds.Width <= 0 || c.bounds.Height <= 0 {
		r.Width = geometry.Clamp(r.Width, MinSize, r.Width)
		r.Height = geometry.Clamp(r.Height, MinSize, r.Height)
		return r
	}
	r.Width = geometry.Clamp(r.Width, MinSize, c.bounds.Width-r.X)
	r.Height = geometry.Clamp(r.Height, MinSize, c.bounds.Height-r.Y)
	return r
}

// clampPosition keeps the whole box inside the page bounds.
func (c *Controller) clampPosition(r geometry.Rect) geometry.Rect {
	if c.bounds.Width <= 0 || c.bounds.Height <= 0 {
		return r
	}
	r.X = geometry.Clamp(r.X, 0, c.bounds.Width-r.Width)
	r.Y = geometry.Clamp(r.Y, 0, c.bounds.Height-r.Height)
	return r
}
