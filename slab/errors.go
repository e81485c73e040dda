package slab

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "slab: invalid config." + e.Field + ": " + e.Reason
}
