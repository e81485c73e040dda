package shape

import "errors"

var (
	// ErrNilShaper is returned by NewResultCache when no shaper is
	// given.
	ErrNilShaper = errors.New("shape: nil shaper")

	// ErrNilFace is returned when a shaping request carries no face.
	ErrNilFace = errors.New("shape: nil face")
)

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "shape: invalid config." + e.Field + ": " + e.Reason
}
