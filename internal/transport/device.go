package transport

import (
	"encoding/hex"
	"runtime"
	"strings"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/clearvoice/superhear/internal/errors"
)

// captureSource holds the identity of a selected capture device.
type captureSource struct {
	Name    string
	ID      string
	Pointer unsafe.Pointer
}

// DeviceInfo describes one available capture device.
type DeviceInfo struct {
	Index int
	Name  string
	ID    string
}

// preferredBackend picks the native audio backend for the host OS, falling
// back to miniaudio's automatic selection elsewhere.
func preferredBackend() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return nil
	}
}

// ListDevices enumerates the available capture devices.
func ListDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(preferredBackend(), malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.New(err).
			Component(errors.ComponentTransport).
			Category(errors.CategoryDevice).
			Context("operation", "init_context").
			Build()
	}
	defer ctx.Uninit() //nolint:errcheck

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(err).
			Component(errors.ComponentTransport).
			Category(errors.CategoryDevice).
			Context("operation", "enumerate_devices").
			Build()
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			continue
		}
		devices = append(devices, DeviceInfo{Index: i, Name: info.Name(), ID: decodedID})
	}
	return devices, nil
}

// selectCaptureSource picks the capture device matching deviceName from the
// enumerated devices. An empty deviceName selects the system default.
func selectCaptureSource(infos []malgo.DeviceInfo, deviceName string) (captureSource, error) {
	for _, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			continue
		}
		if matchesDeviceSetting(decodedID, info, deviceName) {
			return captureSource{
				Name:    info.Name(),
				ID:      decodedID,
				Pointer: info.ID.Pointer(),
			}, nil
		}
	}

	return captureSource{}, errors.Newf("no capture device matches %q", deviceName).
		Component(errors.ComponentTransport).
		Category(errors.CategoryDevice).
		Context("operation", "select_device").
		Build()
}

// matchesDeviceSetting checks whether a device matches the user's setting.
func matchesDeviceSetting(decodedID string, info malgo.DeviceInfo, deviceName string) bool {
	if deviceName == "" {
		return info.IsDefault == 1
	}
	if runtime.GOOS == "windows" && deviceName == "sysdefault" {
		// Windows has no "sysdefault" device, use miniaudio's default.
		return info.IsDefault == 1
	}
	return decodedID == deviceName || strings.Contains(info.Name(), deviceName)
}

// hexToASCII converts a hexadecimal device ID string to ASCII.
func hexToASCII(hexStr string) (string, error) {
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
