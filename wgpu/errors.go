package wgpu

import "errors"

var (
	// ErrNilDevice is returned when a HAL device is required but nil.
	ErrNilDevice = errors.New("wgpu: nil device")

	// ErrNilQueue is returned when a HAL queue is required but nil.
	ErrNilQueue = errors.New("wgpu: nil queue")

	// ErrNilView is returned when Upload is called with a nil atlas view.
	ErrNilView = errors.New("wgpu: nil atlas view")

	// ErrUploaderClosed is returned when using an uploader after Close.
	ErrUploaderClosed = errors.New("wgpu: uploader closed")
)

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "wgpu: invalid config." + e.Field + ": " + e.Reason
}
