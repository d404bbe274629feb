package tx

import (
	"errors"
	"sort"
	"sync"
)

// ErrUnknownOperationType is returned when an operation type is not registered
var ErrUnknownOperationType = errors.New("unknown operation type")

// Factory creates an empty operation of a registered type.
type Factory func() Operation

var (
	registryMu sync.RWMutex
	factories  = make(map[Type]Factory)
)

// Register makes an operation type constructible by NewFromType.
// Operation packages call it from init().
func Register(t Type, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[t] = factory
}

// NewFromType creates a new operation of the given type
func NewFromType(t Type) (Operation, error) {
	registryMu.RLock()
	factory, ok := factories[t]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrUnknownOperationType
	}
	return factory(), nil
}

// NewFromName creates a new operation from its name, e.g. "place_bet"
func NewFromName(name string) (Operation, error) {
	t, ok := TypeFromName(name)
	if !ok {
		return nil, ErrUnknownOperationType
	}
	return NewFromType(t)
}

// RegisteredTypes returns all registered operation types in code order
func RegisteredTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]Type, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
