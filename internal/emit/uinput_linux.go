package emit

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input event types and codes used by the virtual device.
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0x00

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	busUSB = 0x03

	maxNameSize = 80
	absSize     = 64
)

// ioctl request encoding (Linux _IOC macro).
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

var (
	uiSetEvBit   = ioc(iocWrite, 'U', 100, uint32(unsafe.Sizeof(int32(0))))
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, uint32(unsafe.Sizeof(int32(0))))
	uiSetRelBit  = ioc(iocWrite, 'U', 102, uint32(unsafe.Sizeof(int32(0))))
	uiDevCreate  = ioc(iocNone, 'U', 1, 0)
	uiDevDestroy = ioc(iocNone, 'U', 2, 0)
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type userDev struct {
	Name       [maxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// UinputEmitter emits pointer and key events through a virtual
// /dev/uinput device combining relative mouse and keyboard capability.
type UinputEmitter struct {
	fd int
}

// NewUinputEmitter creates and registers the virtual device. Requires
// write access to /dev/uinput.
func NewUinputEmitter() (*UinputEmitter, error) {
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w", err)
	}
	e := &UinputEmitter{fd: fd}

	if err := e.setup(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return e, nil
}

func (e *UinputEmitter) setup() error {
	for _, ev := range []int32{evKey, evRel, evSyn} {
		if err := e.ioctlInt(uiSetEvBit, ev); err != nil {
			return fmt.Errorf("UI_SET_EVBIT %d: %w", ev, err)
		}
	}
	for _, rel := range []int32{relX, relY, relWheel, relHWheel} {
		if err := e.ioctlInt(uiSetRelBit, rel); err != nil {
			return fmt.Errorf("UI_SET_RELBIT %d: %w", rel, err)
		}
	}
	for _, btn := range []int32{btnLeft, btnRight, btnMiddle} {
		if err := e.ioctlInt(uiSetKeyBit, btn); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %#x: %w", btn, err)
		}
	}
	for _, code := range linuxKeyCodes {
		if err := e.ioctlInt(uiSetKeyBit, int32(code)); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %d: %w", code, err)
		}
	}

	var dev userDev
	copy(dev.Name[:], "padmux virtual input")
	dev.ID = inputID{Bustype: busUSB, Vendor: 0x1d50, Product: 0x6077, Version: 1}
	if _, err := unix.Write(e.fd, (*(*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev)))[:]); err != nil {
		return fmt.Errorf("write uinput_user_dev: %w", err)
	}
	if err := e.ioctlNone(uiDevCreate); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

func (e *UinputEmitter) ioctlInt(req uintptr, val int32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(e.fd), req, uintptr(val))
	if errno != 0 {
		return errno
	}
	return nil
}

func (e *UinputEmitter) ioctlNone(req uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(e.fd), req, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func (e *UinputEmitter) send(etype, code uint16, value int32) error {
	ev := inputEvent{Type: etype, Code: code, Value: value}
	if _, err := unix.Write(e.fd, (*(*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev)))[:]); err != nil {
		return fmt.Errorf("write input_event: %w", err)
	}
	return nil
}

func (e *UinputEmitter) sync() error {
	return e.send(evSyn, synReport, 0)
}

// MoveCursor emits a relative pointer displacement.
func (e *UinputEmitter) MoveCursor(dx, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	if dx != 0 {
		if err := e.send(evRel, relX, int32(dx)); err != nil {
			return err
		}
	}
	if dy != 0 {
		if err := e.send(evRel, relY, int32(dy)); err != nil {
			return err
		}
	}
	return e.sync()
}

func buttonCode(b MouseButton) (uint16, error) {
	switch b {
	case MouseLeft:
		return btnLeft, nil
	case MouseRight:
		return btnRight, nil
	case MouseMiddle:
		return btnMiddle, nil
	default:
		return 0, fmt.Errorf("%w: mouse button %d", ErrUnsupported, b)
	}
}

// ButtonDown presses a pointer button.
func (e *UinputEmitter) ButtonDown(b MouseButton) error {
	code, err := buttonCode(b)
	if err != nil {
		return err
	}
	if err := e.send(evKey, code, 1); err != nil {
		return err
	}
	return e.sync()
}

// ButtonUp releases a pointer button.
func (e *UinputEmitter) ButtonUp(b MouseButton) error {
	code, err := buttonCode(b)
	if err != nil {
		return err
	}
	if err := e.send(evKey, code, 0); err != nil {
		return err
	}
	return e.sync()
}

func (e *UinputEmitter) key(name string, value int32) error {
	code, ok := linuxKeyCodes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	if err := e.send(evKey, code, value); err != nil {
		return err
	}
	return e.sync()
}

// KeyDown presses a named key.
func (e *UinputEmitter) KeyDown(name string) error {
	return e.key(name, 1)
}

// KeyUp releases a named key.
func (e *UinputEmitter) KeyUp(name string) error {
	return e.key(name, 0)
}

// Scroll emits wheel deltas. Positive vertical scrolls down, matching
// the engine's sign convention, so the wheel value is negated here.
func (e *UinputEmitter) Scroll(vertical, horizontal int) error {
	if vertical != 0 {
		if err := e.send(evRel, relWheel, int32(-vertical)); err != nil {
			return err
		}
	}
	if horizontal != 0 {
		if err := e.send(evRel, relHWheel, int32(horizontal)); err != nil {
			return err
		}
	}
	if vertical == 0 && horizontal == 0 {
		return nil
	}
	return e.sync()
}

// Close destroys the virtual device.
func (e *UinputEmitter) Close() error {
	if err := e.ioctlNone(uiDevDestroy); err != nil {
		unix.Close(e.fd)
		return err
	}
	return unix.Close(e.fd)
}
