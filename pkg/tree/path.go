package tree

import "strings"

// Step describes the node reached by one segment of TraversePath.
type Step struct {
	// Path is the portion of the requested path walked so far.
	Path  string
	Depth int
}

// StepFunc is called for every node TraversePath passes through.
type StepFunc func(n *Node, step Step)

// TraverseOptions configures TraversePath.
type TraverseOptions struct {
	// MakeMissing creates an empty container for every absent segment.
	MakeMissing bool
}

// TraversePath walks root one "/" separated segment at a time and returns the
// final node. An empty path returns root itself.
func TraversePath(root *Node, path string, onStep StepFunc, opts TraverseOptions) (*Node, error) {
	node := root
	walked := make([]string, 0, strings.Count(path, "/")+1)

	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		walked = append(walked, segment)
		current := strings.Join(walked, "/")

		if !node.HasChildren() {
			return nil, NewError(InvalidTreeOperation, current, "cannot traverse through a %s node", node.kind)
		}

		next, ok := node.Child(segment)
		if !ok {
			if !opts.MakeMissing {
				return nil, NewError(TreePathNotFound, path, "no node at %q", current)
			}
			next = NewContainer(ContainerOptions{})
			if err := Attach(node, segment, next); err != nil {
				return nil, err
			}
		}

		node = next
		if onStep != nil {
			onStep(node, Step{Path: current, Depth: len(walked)})
		}
	}
	return node, nil
}

// EnsureContainerPath resolves path under root, creating missing containers.
func EnsureContainerPath(root *Node, path string) (*Node, error) {
	return TraversePath(root, path, nil, TraverseOptions{MakeMissing: true})
}
