package gindex

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotAlive is returned when writing a component through a handle
	// whose generation no longer matches its slot.
	ErrEntityNotAlive = eris.New("entity is not alive")

	// ErrComponentNotRegistered is returned when a component type has no store
	// in the world's component registry.
	ErrComponentNotRegistered = eris.New("component type is not registered")

	// ErrStoreTypeMismatch is the panic value raised when an erased store can
	// not be converted back to the type it was registered under.
	ErrStoreTypeMismatch = eris.New("component store type mismatch")

	// ErrInvalidSnapshot is returned when allocator state fails validation.
	ErrInvalidSnapshot = eris.New("invalid allocator snapshot")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = eris.New("invalid config")
)
