//go:build windows

package input

import (
	"errors"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// windowsSampler polls GetCursorPos and GetAsyncKeyState for the full
// virtual-key range. Both calls are fast, synchronous and never block.
type windowsSampler struct{}

func newPlatformSampler() Sampler {
	return &windowsSampler{}
}

type winPoint struct {
	X, Y int32
}

// Available probes a single cursor query.
func (w *windowsSampler) Available() (bool, string) {
	if _, err := cursorPos(); err != nil {
		return false, "cursor query failed: " + err.Error()
	}
	return true, "user32 polling"
}

// Sample captures the pointer position and the held state of every
// representable virtual key.
func (w *windowsSampler) Sample() (Sample, error) {
	sample := Sample{
		Keys:      make(map[uint16]bool),
		Timestamp: time.Now(),
	}

	if pt, err := cursorPos(); err == nil {
		sample.Pointer = Point{X: pt.X, Y: pt.Y}
		sample.PointerOK = true
	}

	for vk := uint16(1); vk < 256; vk++ {
		state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
		if state&0x8000 != 0 {
			sample.Keys[vk] = true
		}
	}

	if !sample.PointerOK && len(sample.Keys) == 0 {
		// Nothing was observable this tick; treat it as a dropped sample
		// rather than reporting an all-released state.
		return Sample{}, errors.New("input state query failed")
	}
	return sample, nil
}

func cursorPos() (winPoint, error) {
	var pt winPoint
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return winPoint{}, err
	}
	return pt, nil
}
