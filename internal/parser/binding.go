package parser

import "fmt"

// Binding records how many scopes out a variable reference was declared.
// The zero value means unresolved, which the interpreter treats as global.
type Binding struct {
	depth int
	bound bool
}

// Bind fixes the depth. Rebinding to the same depth is a no-op so that the
// resolver can run over the same tree twice, rebinding to a different depth
// means two passes disagree and panics.
func (b *Binding) Bind(depth int) {
	if b.bound && b.depth != depth {
		panic(fmt.Sprintf("binding already resolved at depth %d, got %d", b.depth, depth))
	}
	b.depth = depth
	b.bound = true
}

// Depth returns the bound depth, ok is false for globals.
func (b *Binding) Depth() (depth int, ok bool) {
	return b.depth, b.bound
}
