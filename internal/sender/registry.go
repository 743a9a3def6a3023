package sender

import "fmt"

// Constructor is a function that creates a new Sender instance.
type Constructor func(s Settings) (Sender, error)

var registry = map[string]Constructor{}

// Register adds a sender constructor under the given kind name.
func Register(kind string, ctor Constructor) {
	registry[kind] = ctor
}

// Get returns the sender constructor for the given kind name.
func Get(kind string) (Constructor, error) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown sender kind: %s", kind)
	}
	return ctor, nil
}

// Kinds returns the names of all registered sender kinds.
func Kinds() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
