package tui

import "time"

// quickClick is the longest press that still counts as a click after a drag.
const quickClick = 300 * time.Millisecond

// ClickTracker tells clicks from drags for one mouse button.
type ClickTracker struct {
	now      func() time.Time
	down     time.Time
	pressed  bool
	dragging bool
}

func NewClickTracker(now func() time.Time) *ClickTracker {
	if now == nil {
		now = time.Now
	}
	return &ClickTracker{now: now}
}

// Press starts a gesture.
func (c *ClickTracker) Press() {
	c.down = c.now()
	c.pressed = true
	c.dragging = false
}

// Move records pointer motion. It reports whether the button is held.
func (c *ClickTracker) Move() bool {
	if c.pressed {
		c.dragging = true
	}
	return c.pressed
}

// Release ends the gesture and reports whether it was a click. A drag only
// cancels the click when the button was held for quickClick or longer.
func (c *ClickTracker) Release() bool {
	if !c.pressed {
		return false
	}
	quick := c.now().Sub(c.down) < quickClick
	click := !c.dragging || quick
	c.pressed = false
	c.dragging = false
	return click
}

func (c *ClickTracker) Pressed() bool { return c.pressed }
