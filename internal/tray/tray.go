// Package tray provides the system tray icon with pause/resume and
// exit controls.
package tray

import (
	"log"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
)

// Pauser is the engine surface the tray toggles.
type Pauser interface {
	SetPaused(paused bool)
	Paused() bool
}

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	pauser       Pauser
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuPause    *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance
func New(pauser Pauser, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		pauser:       pauser,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// onReady is called when the tray is ready
func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("padmux")
	systray.SetTooltip("padmux - controller input translation")

	t.menuPause = systray.AddMenuItem("Pause", "Suspend input translation")
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Println("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuPause.ClickedCh:
			if t.shuttingDown.Load() {
				continue
			}
			if t.pauser.Paused() {
				t.pauser.SetPaused(false)
				t.menuPause.SetTitle("Pause")
			} else {
				t.pauser.SetPaused(true)
				t.menuPause.SetTitle("Resume")
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Println("System tray exiting")
}
