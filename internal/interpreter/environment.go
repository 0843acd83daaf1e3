package interpreter

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/loxlang/golox/internal/loxerrors"
	"github.com/loxlang/golox/internal/token"
)

// Environment is one lexical scope: a name to value map plus the scope
// that encloses it. Globals is the outermost environment.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Define binds name in this scope, silently replacing an earlier binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get walks outwards until it finds name.
func (e *Environment) Get(name *token.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if value, ok := env.values[name.Lexeme]; ok {
			return value, nil
		}
	}

	return nil, e.undefinedVariable(name)
}

// Assign walks outwards and replaces the nearest existing binding.
func (e *Environment) Assign(name *token.Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}

	return e.undefinedVariable(name)
}

// GetAt reads name exactly distance scopes out.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	if value, ok := e.ancestor(distance).values[name]; ok {
		return value, nil
	}

	return nil, loxerrors.ErrRuntimeUndefinedVariableName(name)
}

// AssignAt writes name exactly distance scopes out.
func (e *Environment) AssignAt(distance int, name *token.Token, value Value) {
	e.ancestor(distance).values[name.Lexeme] = value
}

func (e *Environment) Nest() *Environment {
	env := NewEnvironment()
	env.enclosing = e
	return env
}

func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for ; distance > 0; distance-- {
		env = env.enclosing
	}

	return env
}

func (e *Environment) undefinedVariable(name *token.Token) error {
	return loxerrors.NewRuntimeError(name, loxerrors.ErrRuntimeUndefinedVariableName(name.Lexeme))
}

// String prints the chain innermost first, keys sorted.
func (e *Environment) String() string {
	w := new(strings.Builder)

	for env := e; env != nil; env = env.enclosing {
		keys := maps.Keys(env.values)
		slices.Sort(keys)

		w.WriteString("{")
		for idx, k := range keys {
			if idx > 0 {
				w.WriteString(", ")
			}
			_, _ = fmt.Fprintf(w, "%s=%s", k, echo(env.values[k]))
		}
		w.WriteString("}")
		if env.enclosing != nil {
			w.WriteString(" -> ")
		}
	}

	return w.String()
}

var _ fmt.Stringer = (*Environment)(nil)
