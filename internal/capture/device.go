package capture

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/lexiqai/speech-pipeline/internal/config"
)

// Realtime start failures, distinguished so callers can tell a machine
// with no microphone from a device that refused the requested stream.
// Missing hardware is an expected runtime condition, never a panic.
var (
	ErrDeviceUnavailable = errors.New("no audio input device available")
	ErrStreamInit        = errors.New("audio stream initialization failed")
)

// Device is a started capture stream. Stop detaches it from the hardware,
// halting further callbacks synchronously from the driver's perspective.
type Device interface {
	Stop() error
}

// DeviceOpener acquires the default input device and starts a stream that
// delivers normalized samples to onSamples from the driver's thread.
type DeviceOpener func(cfg *config.Config, onSamples func([]float64)) (Device, error)

// OpenDefaultDevice opens the system default capture device through
// miniaudio with the configured sample rate, channel count and callback
// chunk size
func OpenDefaultDevice(cfg *config.Config, onSamples func([]float64)) (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("%w: enumerating devices: %v", ErrDeviceUnavailable, err)
	}
	if len(infos) == 0 {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, ErrDeviceUnavailable
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.CaptureBufferSize)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onSamples(decodePCM16(input))
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("%w: %v", ErrStreamInit, err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("%w: starting stream: %v", ErrStreamInit, err)
	}

	return &malgoDevice{device: device, ctx: ctx}, nil
}

type malgoDevice struct {
	device *malgo.Device
	ctx    *malgo.AllocatedContext
}

// Stop detaches the hardware stream and releases the audio context
func (d *malgoDevice) Stop() error {
	d.device.Uninit()
	if err := d.ctx.Uninit(); err != nil {
		return fmt.Errorf("releasing audio context: %w", err)
	}
	d.ctx.Free()
	return nil
}

// decodePCM16 converts little-endian 16-bit frames delivered by the driver
// into normalized floats, matching the file loader's conversion
func decodePCM16(data []byte) []float64 {
	samples := make([]float64, len(data)/2)
	for i := range samples {
		raw := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(raw) / 32768.0
	}
	return samples
}
