package common

// Key codes delivered by the window's key callbacks. Printable keys use their uppercase
// ASCII value, matching GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	// Movement
	KeyW     = 87
	KeyA     = 65
	KeyS     = 83
	KeyD     = 68
	KeyQ     = 81
	KeySpace = 32

	// Shadow demo toggles
	Key1 = 49 // light 1 casts shadows
	Key2 = 50 // light 2 casts shadows
	Key3 = 51 // light 3 casts shadows
	Key4 = 52 // light 4 casts shadows
	KeyR = 82 // switch shadow map resolution
	KeyP = 80 // log shadow stats
	KeyL = 76 // pause light animation

	KeyEsc = 256 // closes the window
)

// LightToggleKeys lists the keys that toggle shadow casting, in light order.
var LightToggleKeys = [...]uint32{Key1, Key2, Key3, Key4}
