package models

import "fmt"

// ContainerType is the kind of Guru container a directory of cards becomes.
// Kinds are ordered: each level may only be nested inside the one before it.
type ContainerType int

const (
	// ContainerUnset marks a container that has not been typified yet.
	ContainerUnset ContainerType = iota
	// ContainerBoardGroup may only contain boards.
	ContainerBoardGroup
	// ContainerBoard may contain cards and board sections.
	ContainerBoard
	// ContainerBoardSection may contain cards only.
	ContainerBoardSection
)

type containerTypeInfo struct {
	name  string
	level int
}

// containerTypes is indexed by ContainerType. Entry 0 is the unset value.
var containerTypes = [...]containerTypeInfo{
	ContainerUnset:        {name: "", level: 0},
	ContainerBoardGroup:   {name: "board_group", level: 1},
	ContainerBoard:        {name: "board", level: 2},
	ContainerBoardSection: {name: "board_section", level: 3},
}

// ContainerLevels is the number of nesting levels Guru supports.
const ContainerLevels = len(containerTypes) - 1

// ContainerTypes returns every defined kind in level order.
func ContainerTypes() []ContainerType {
	return []ContainerType{ContainerBoardGroup, ContainerBoard, ContainerBoardSection}
}

// Valid reports whether t is one of the defined kinds.
func (t ContainerType) Valid() bool {
	return t > ContainerUnset && int(t) < len(containerTypes)
}

// String returns the configuration name of the kind, e.g. "board_group".
func (t ContainerType) String() string {
	if !t.Valid() {
		return "unset"
	}
	return containerTypes[t].name
}

// Level is the 1-based nesting level of the kind.
func (t ContainerType) Level() int {
	if !t.Valid() {
		return 0
	}
	return containerTypes[t].level
}

// SupportedDepth is the number of additional container levels the kind can hold.
func (t ContainerType) SupportedDepth() int {
	if !t.Valid() {
		return 0
	}
	return ContainerLevels - t.Level()
}

// ContainerTypeFrom returns the first kind matching pred.
func ContainerTypeFrom(pred func(ContainerType) bool) (ContainerType, bool) {
	for _, t := range ContainerTypes() {
		if pred(t) {
			return t, true
		}
	}
	return ContainerUnset, false
}

// ContainerTypeForLevel returns the kind at the given level.
func ContainerTypeForLevel(level int) (ContainerType, bool) {
	return ContainerTypeFrom(func(t ContainerType) bool { return t.Level() == level })
}

// ContainerTypeForDepth returns the kind able to hold exactly depth more levels.
func ContainerTypeForDepth(depth int) (ContainerType, bool) {
	return ContainerTypeFrom(func(t ContainerType) bool { return t.SupportedDepth() == depth })
}

// ParseContainerType resolves a configuration name such as "board".
func ParseContainerType(name string) (ContainerType, error) {
	t, ok := ContainerTypeFrom(func(t ContainerType) bool { return t.String() == name })
	if !ok {
		return ContainerUnset, fmt.Errorf("unknown container type %q (expected one of board_group, board, board_section)", name)
	}
	return t, nil
}
