package common

// Virtual key codes used by the viewer.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyM   = 77  // M key (ASCII)
	KeyR   = 82  // R key (ASCII)
	KeyEsc = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// DigitIndex maps the number keys 1-9 to a zero-based index.
//
// Parameters:
//   - keyCode: the virtual key code
//
// Returns:
//   - int: 0 for Key1 through 8 for Key9
//   - bool: false if keyCode is not a number key 1-9
func DigitIndex(keyCode uint32) (int, bool) {
	if keyCode < Key1 || keyCode > Key9 {
		return 0, false
	}
	return int(keyCode - Key1), true
}
