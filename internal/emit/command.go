package emit

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// commandTimeout bounds every spawned helper. A helper that stalls
// past this is killed and reported as an error, never waited on.
const commandTimeout = 250 * time.Millisecond

// CommandEmitter shells out to the platform input helper (xdotool on
// Linux, osascript on macOS). It is the fallback when no direct device
// interface is available, and the default off Linux.
type CommandEmitter struct {
	goos string
}

// NewCommandEmitter returns an emitter for the current platform.
func NewCommandEmitter() (*CommandEmitter, error) {
	e := &CommandEmitter{goos: runtime.GOOS}
	switch e.goos {
	case "linux":
		if _, err := exec.LookPath("xdotool"); err != nil {
			return nil, fmt.Errorf("emit: xdotool not found: %w", err)
		}
	case "darwin":
		if _, err := exec.LookPath("cliclick"); err != nil {
			return nil, fmt.Errorf("emit: cliclick not found: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: command emitter on %s", ErrUnsupported, e.goos)
	}
	return e, nil
}

func (e *CommandEmitter) run(name string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("emit: %s: %w (%s)", name, err, out)
	}
	return nil
}

func (e *CommandEmitter) MoveCursor(dx, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	switch e.goos {
	case "linux":
		return e.run("xdotool", "mousemove_relative", "--", strconv.Itoa(dx), strconv.Itoa(dy))
	case "darwin":
		return e.run("cliclick", fmt.Sprintf("m:+%d,+%d", dx, dy))
	}
	return ErrUnsupported
}

func xdotoolButton(b MouseButton) (string, error) {
	switch b {
	case MouseLeft:
		return "1", nil
	case MouseMiddle:
		return "2", nil
	case MouseRight:
		return "3", nil
	default:
		return "", fmt.Errorf("%w: mouse button %d", ErrUnsupported, b)
	}
}

func (e *CommandEmitter) ButtonDown(b MouseButton) error {
	switch e.goos {
	case "linux":
		n, err := xdotoolButton(b)
		if err != nil {
			return err
		}
		return e.run("xdotool", "mousedown", n)
	case "darwin":
		switch b {
		case MouseLeft:
			return e.run("cliclick", "dd:.")
		case MouseRight:
			return e.run("cliclick", "kd:ctrl", "dd:.")
		}
		return fmt.Errorf("%w: mouse button %s", ErrUnsupported, b)
	}
	return ErrUnsupported
}

func (e *CommandEmitter) ButtonUp(b MouseButton) error {
	switch e.goos {
	case "linux":
		n, err := xdotoolButton(b)
		if err != nil {
			return err
		}
		return e.run("xdotool", "mouseup", n)
	case "darwin":
		switch b {
		case MouseLeft:
			return e.run("cliclick", "du:.")
		case MouseRight:
			return e.run("cliclick", "du:.", "ku:ctrl")
		}
		return fmt.Errorf("%w: mouse button %s", ErrUnsupported, b)
	}
	return ErrUnsupported
}

func (e *CommandEmitter) KeyDown(key string) error {
	switch e.goos {
	case "linux":
		return e.run("xdotool", "keydown", key)
	case "darwin":
		return e.run("cliclick", "kd:"+key)
	}
	return ErrUnsupported
}

func (e *CommandEmitter) KeyUp(key string) error {
	switch e.goos {
	case "linux":
		return e.run("xdotool", "keyup", key)
	case "darwin":
		return e.run("cliclick", "ku:"+key)
	}
	return ErrUnsupported
}

func (e *CommandEmitter) Scroll(vertical, horizontal int) error {
	if e.goos != "linux" {
		return ErrUnsupported
	}
	// xdotool buttons: 4 up, 5 down, 6 left, 7 right.
	if vertical != 0 {
		btn := "5"
		n := vertical
		if n < 0 {
			btn = "4"
			n = -n
		}
		if err := e.run("xdotool", "click", "--repeat", strconv.Itoa(n), btn); err != nil {
			return err
		}
	}
	if horizontal != 0 {
		btn := "7"
		n := horizontal
		if n < 0 {
			btn = "6"
			n = -n
		}
		if err := e.run("xdotool", "click", "--repeat", strconv.Itoa(n), btn); err != nil {
			return err
		}
	}
	return nil
}

func (e *CommandEmitter) Close() error {
	return nil
}
