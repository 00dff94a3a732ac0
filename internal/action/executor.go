package action

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/padmux/padmux/internal/emit"
)

// doubleClickGap separates the two clicks of a staged double-click.
const doubleClickGap = 60 * time.Millisecond

// launchTimeout bounds the platform opener process.
const launchTimeout = 3 * time.Second

// errLogInterval rate-limits emission failure logging so a dead
// emitter cannot flood the log at tick frequency.
const errLogInterval = time.Second

// Executor performs actions against an emitter. Every Do call returns
// quickly; multi-stage effects run on their own timers.
type Executor struct {
	emitter emit.Emitter

	mu         sync.Mutex
	lastErrLog time.Time
	pending    *time.Timer
}

// NewExecutor wraps an emitter.
func NewExecutor(e emit.Emitter) *Executor {
	return &Executor{emitter: e}
}

// Do performs one action. KindSwitchMode is the engine's concern and
// is rejected here.
func (x *Executor) Do(a Action) error {
	switch a.Kind {
	case KindNoOp:
		return nil
	case KindMouseClick:
		return x.click(a.Button, a.Clicks)
	case KindMouseDown:
		return x.emitter.ButtonDown(a.Button)
	case KindMouseUp:
		return x.emitter.ButtonUp(a.Button)
	case KindKeyTap:
		return x.tap(a.Key)
	case KindKeyCombo:
		return x.combo(a.Keys)
	case KindScroll:
		return x.emitter.Scroll(a.Vertical, a.Horizontal)
	case KindLaunchApp:
		return x.launch(a.App)
	case KindSwitchMode:
		return fmt.Errorf("%w: switch_mode dispatched to executor", ErrInvalidAction)
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidAction, a.Kind)
	}
}

// DoLogged performs the action and logs failures instead of returning
// them, at most once per errLogInterval.
func (x *Executor) DoLogged(a Action) {
	if err := x.Do(a); err != nil {
		x.mu.Lock()
		if time.Since(x.lastErrLog) >= errLogInterval {
			x.lastErrLog = time.Now()
			log.Printf("Action %s failed: %v", a, err)
		}
		x.mu.Unlock()
	}
}

func (x *Executor) click(b emit.MouseButton, clicks int) error {
	if err := x.clickOnce(b); err != nil {
		return err
	}
	if clicks < 2 {
		return nil
	}
	// Second click fires on its own timer so the caller never waits
	// out the inter-click gap.
	x.mu.Lock()
	x.pending = time.AfterFunc(doubleClickGap, func() {
		if err := x.clickOnce(b); err != nil {
			log.Printf("Second click failed: %v", err)
		}
	})
	x.mu.Unlock()
	return nil
}

func (x *Executor) clickOnce(b emit.MouseButton) error {
	if err := x.emitter.ButtonDown(b); err != nil {
		return err
	}
	return x.emitter.ButtonUp(b)
}

func (x *Executor) tap(key string) error {
	if err := x.emitter.KeyDown(key); err != nil {
		return err
	}
	return x.emitter.KeyUp(key)
}

// combo holds all leading keys, taps the last, then releases the
// modifiers in reverse order.
func (x *Executor) combo(keys []string) error {
	mods := keys[:len(keys)-1]
	main := keys[len(keys)-1]

	for i, m := range mods {
		if err := x.emitter.KeyDown(m); err != nil {
			for j := i - 1; j >= 0; j-- {
				x.emitter.KeyUp(mods[j])
			}
			return err
		}
	}
	err := x.tap(main)
	for i := len(mods) - 1; i >= 0; i-- {
		if e := x.emitter.KeyUp(mods[i]); err == nil {
			err = e
		}
	}
	return err
}

func (x *Executor) launch(app string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{"-a", app}
	case "windows":
		name, args = "cmd", []string{"/c", "start", "", app}
	default:
		name, args = "xdg-open", []string{app}
	}
	ctx, cancel := context.WithTimeout(context.Background(), launchTimeout)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("launch %s: %w", app, err)
	}
	go func() {
		defer cancel()
		cmd.Wait()
	}()
	return nil
}

// Close waits out any staged click and closes the emitter.
func (x *Executor) Close() error {
	x.mu.Lock()
	if x.pending != nil {
		x.pending.Stop()
		x.pending = nil
	}
	x.mu.Unlock()
	return x.emitter.Close()
}
