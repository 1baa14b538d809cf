package executor

// Input is the pointer/keyboard injection surface the executor dispatches
// through. The real implementation drives the OS; tests substitute it.
type Input interface {
	// Available reports whether input injection can work in this
	// environment. The executor consults it before dispatching instead of
	// probing per call site.
	Available() bool

	// ScreenSize returns the primary display dimensions.
	ScreenSize() (width, height int)

	// MousePosition returns the current pointer location.
	MousePosition() (x, y int)

	// Move moves the pointer; a positive duration requests a smooth glide.
	Move(x, y int, duration float64)

	// Click moves to the coordinates and presses the given button the
	// given number of times.
	Click(x, y int, button string, clicks int) error

	// TypeChar injects a single character.
	TypeChar(ch rune) error

	// KeyTap dispatches a key, with optional simultaneous modifiers.
	KeyTap(key string, modifiers ...string) error

	// Scroll scrolls by amount (positive is up); non-nil coordinates pin
	// the scroll to a screen location.
	Scroll(amount int, x, y *int) error
}
