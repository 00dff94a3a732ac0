package gamepad

import (
	"fmt"
	"log"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"
)

// Source supplies one raw report per connected device per poll.
// Implementations are pull-only; no callback model is assumed.
type Source interface {
	Open() error
	Poll(now time.Time) ([]DeviceSnapshot, error)
	Close()
}

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *DeviceMapping
	name     string
	id       sdl.JoystickID
	index    int
}

// SDLSource reads controllers through the SDL3 Joystick API.
// Open, Poll and Close must all be called from the same OS thread; the
// engine loop locks itself to one before opening the source.
type SDLSource struct {
	joysticks map[sdl.JoystickID]*joystickInfo
	nextIndex int
}

// NewSDLSource returns an unopened SDL joystick source.
func NewSDLSource() *SDLSource {
	return &SDLSource{joysticks: make(map[sdl.JoystickID]*joystickInfo)}
}

// Open initializes the SDL joystick subsystem and opens any controllers
// that are already connected.
func (s *SDLSource) Open() error {
	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdl init failed: %s", sdl.GetError())
	}
	log.Println("SDL3 Joystick subsystem initialized")

	for _, id := range sdl.GetJoysticks() {
		s.openJoystick(id)
	}
	return nil
}

// Poll pumps hotplug events and reads every open joystick into a
// normalized snapshot. Devices that fail to read are skipped; the
// caller treats their absence as a disconnect.
func (s *SDLSource) Poll(now time.Time) ([]DeviceSnapshot, error) {
	s.processEvents()

	snaps := make([]DeviceSnapshot, 0, len(s.joysticks))
	for id, info := range s.joysticks {
		if !sdl.JoystickConnected(info.joystick) {
			s.removeJoystick(id)
			continue
		}
		snaps = append(snaps, Normalize(s.report(info), now))
	}
	return snaps, nil
}

// Close releases all opened joysticks and shuts SDL down.
func (s *SDLSource) Close() {
	for id, info := range s.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(s.joysticks, id)
	}
	sdl.Quit()
}

func (s *SDLSource) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			s.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			s.removeJoystick(event.JDevice().Which)
		}
	}
}

func (s *SDLSource) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := s.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := GetMapping(vendorID, productID)

	info := &joystickInfo{
		joystick: js,
		mapping:  mapping,
		name:     name,
		id:       jsID,
		index:    s.nextIndex,
	}
	s.nextIndex++
	s.joysticks[jsID] = info

	log.Printf("Joystick connected: %s (VID=%04X PID=%04X) mapping=%s axes=%d buttons=%d hats=%d",
		name, vendorID, productID, mapping.Name,
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js), sdl.GetNumJoystickHats(js))
}

func (s *SDLSource) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := s.joysticks[instanceID]
	if !exists {
		return
	}
	log.Printf("Joystick disconnected: %s", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(s.joysticks, instanceID)
}

func (s *SDLSource) report(info *joystickInfo) RawReport {
	js := info.joystick

	numAxes := sdl.GetNumJoystickAxes(js)
	axes := make([]int16, numAxes)
	for i := int32(0); i < numAxes; i++ {
		axes[i] = sdl.GetJoystickAxis(js, i)
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	buttons := make([]bool, numButtons)
	for i := int32(0); i < numButtons; i++ {
		buttons[i] = sdl.GetJoystickButton(js, i)
	}

	var hat uint8
	if info.mapping.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		hat = sdl.GetJoystickHat(js, 0)
	}

	return RawReport{
		ID:        fmt.Sprintf("%s (%d)", info.name, info.index),
		Index:     info.index,
		Layout:    info.mapping,
		Axes:      axes,
		Buttons:   buttons,
		Hat:       hat,
		Actuators: 2, // rumble motor pair on every supported pad
	}
}
