package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/coolsim/internal/dynamo"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var constructors = map[string]func() dynamo.Integrator{
	"euler": func() dynamo.Integrator { return NewEuler() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
	"rk45":  func() dynamo.Integrator { return NewRK45() },
}

// Lookup returns a fresh integrator by name.
func Lookup(name string) (dynamo.Integrator, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownIntegrator, name, Names())
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
