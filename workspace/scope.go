package workspace

// Scope maps identifiers to handles. A project's scope and the
// workspace's global scope are each a Scope; Workspace.Lookup chains
// the two with project-then-global precedence.
type Scope struct {
	bindings map[string]Handle
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]Handle)}
}

// Get returns the binding for name, if any.
func (s *Scope) Get(name string) (Handle, bool) {
	h, ok := s.bindings[name]
	return h, ok
}

// Set binds (or rebinds) name to h.
func (s *Scope) Set(name string, h Handle) {
	s.bindings[name] = h
}
