package config

// Reloadable is implemented by components that apply a new configuration
// section at runtime. Implementations keep their previous state when they
// return an error.
type Reloadable interface {
	OnConfigChange(newConfig any) error
}
