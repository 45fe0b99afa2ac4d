package tree

import (
	"errors"
	"maps"
)

// SkipChildren may be returned by a VisitFunc to skip the node's descendants.
var SkipChildren = errors.New("skip children")

// Stop may be returned by a VisitFunc to end the walk without error.
var Stop = errors.New("stop walk")

// State is threaded through a walk. Each child receives its own copy, so a
// visitor may change it for the current subtree without affecting siblings.
type State struct {
	Path   string
	Depth  int
	values map[string]any
}

// Value returns a caller-defined state value.
func (s *State) Value(key string) any { return s.values[key] }

// SetValue sets a caller-defined state value for this node and its descendants.
func (s *State) SetValue(key string, value any) {
	if s.values == nil {
		s.values = map[string]any{}
	}
	s.values[key] = value
}

func (s State) descend(name string) State {
	next := State{Path: name, Depth: s.Depth + 1, values: maps.Clone(s.values)}
	if s.Path != "" {
		next.Path = s.Path + "/" + name
	}
	return next
}

// VisitFunc is called for every node below the walk's root.
type VisitFunc func(n *Node, name string, state *State) error

// Walker runs a pre-order traversal over a tree.
type Walker struct {
	root *Node
	seed State
}

// Traverse returns a walker over the descendants of root. The seed state
// starts with an empty path at depth 0.
func Traverse(root *Node) *Walker {
	return &Walker{root: root}
}

// WithPath seeds the path the root's children are joined to.
func (w *Walker) WithPath(path string) *Walker {
	w.seed.Path = path
	return w
}

// WithDepth seeds the depth of the walk's root.
func (w *Walker) WithDepth(depth int) *Walker {
	w.seed.Depth = depth
	return w
}

// WithValue seeds a caller-defined state value.
func (w *Walker) WithValue(key string, value any) *Walker {
	w.seed.SetValue(key, value)
	return w
}

// Walk visits every descendant of the root in pre-order. It returns the first
// error returned by visit other than SkipChildren and Stop.
func (w *Walker) Walk(visit VisitFunc) error {
	err := walk(w.root, w.seed, visit)
	if errors.Is(err, Stop) {
		return nil
	}
	return err
}

func walk(n *Node, state State, visit VisitFunc) error {
	for _, child := range n.Children() {
		childState := state.descend(child.Name)
		err := visit(child.Node, child.Name, &childState)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if child.Node.HasChildren() {
			if err := walk(child.Node, childState, visit); err != nil {
				return err
			}
		}
	}
	return nil
}
