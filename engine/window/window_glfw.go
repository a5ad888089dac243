package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// glfwButtons maps the buttons the viewer reacts to. Extra buttons are dropped.
var glfwButtons = map[glfw.MouseButton]MouseButton{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}

func glfwWindowOf(w *engineWindow) (*glfwWindow, bool) {
	if w.internalWindow == nil {
		return nil, false
	}
	gw, ok := w.internalWindow.(*glfwWindow)
	return gw, ok
}

// newPlatformWindow opens a GLFW window without a client API, since WebGPU
// builds its own surface from the native handle, and forwards input to the
// engineWindow callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	w.internalWindow = &glfwWindow{parent: w, window: win, running: true}

	// Repeats are ignored; the input latch tracks held keys itself.
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press && w.onKeyDown != nil {
			w.onKeyDown(uint32(key))
		} else if action == glfw.Release && w.onKeyUp != nil {
			w.onKeyUp(uint32(key))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := glfwButtons[button]
		if !ok {
			return
		}
		x, y := win.GetCursorPos()
		if action == glfw.Press && w.onMouseDown != nil {
			w.onMouseDown(b, x, y)
		} else if action == glfw.Release && w.onMouseUp != nil {
			w.onMouseUp(b, x, y)
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(x, y)
		}
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if w.onFocus != nil {
			w.onFocus(focused)
		}
	})

	// Accumulation targets are sized in framebuffer pixels, which differ from
	// window coordinates on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	w.width, w.height = win.GetFramebufferSize()

	return nil
}

// platformSetCursorLocked captures and hides the cursor for locked look, using
// raw motion where the platform offers it.
//
// Reference: https://www.glfw.org/docs/latest/input_guide.html#cursor_mode
func platformSetCursorLocked(w *engineWindow, locked bool) {
	gw, ok := glfwWindowOf(w)
	if !ok {
		return
	}
	raw := glfw.RawMouseMotionSupported()
	if locked {
		gw.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if raw {
			gw.window.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
		return
	}
	if raw {
		gw.window.SetInputMode(glfw.RawMouseMotion, glfw.False)
	}
	gw.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := glfwWindowOf(w)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := glfwWindowOf(w)
	return ok && gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	gw, ok := glfwWindowOf(w)
	if !ok {
		return
	}
	gw.running = false
	gw.window.SetShouldClose(true)
}

// platformCloseWindow destroys the window and shuts GLFW down. Closing twice
// reports an error.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := glfwWindowOf(w)
	if !ok {
		return fmt.Errorf("window is not initialized")
	}
	platformRequestClose(w)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages drains pending events without blocking and reports
// whether the window is still open.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
