package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW   = 87  // W key (ASCII), move forward
	KeyA   = 65  // A key (ASCII), strafe left
	KeyS   = 83  // S key (ASCII), move back
	KeyD   = 68  // D key (ASCII), strafe right
	KeyQ   = 81  // Q key (ASCII), move down
	KeyE   = 69  // E key (ASCII), move up
	KeyF   = 70  // F key (ASCII), floor pattern toggle
	KeyEsc = 256 // Escape key (GLFW)
)
