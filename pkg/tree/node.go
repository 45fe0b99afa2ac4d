package tree

import (
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mattsolo1/grove-guru/pkg/models"
)

// Kind categorizes the nodes of a collection tree.
type Kind int

const (
	KindRoot      Kind = iota // The unnamed top of the tree
	KindContainer             // A directory or virtual grouping of cards
	KindCard                  // A single Markdown file
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindContainer:
		return "container"
	case KindCard:
		return "card"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Info is the human facing metadata of a card or container.
// An empty field is unset.
type Info struct {
	Title       string
	Description string
	ExternalURL string
}

// Node is a single entry in a collection tree. Root and container nodes own
// their children, keyed by name in insertion order; cards have no children.
type Node struct {
	kind          Kind
	children      *orderedmap.OrderedMap[string, *Node]
	info          Info
	file          string
	content       string
	containerType models.ContainerType
}

// Child pairs a node with the name it is stored under.
type Child struct {
	Name string
	Node *Node
}

// ContainerOptions configures NewContainer.
type ContainerOptions struct {
	Info Info
	// File is the backing directory, if any.
	File string
}

// CardOptions configures NewCard.
type CardOptions struct {
	Info    Info
	File    string
	Content string
}

// NewRoot creates an empty root node.
func NewRoot() *Node {
	return &Node{kind: KindRoot, children: orderedmap.New[string, *Node]()}
}

// NewContainer creates an empty container node.
func NewContainer(opts ContainerOptions) *Node {
	return &Node{
		kind:     KindContainer,
		children: orderedmap.New[string, *Node](),
		info:     opts.Info,
		file:     opts.File,
	}
}

// NewCard creates a card node backed by opts.File.
func NewCard(opts CardOptions) *Node {
	return &Node{
		kind:    KindCard,
		info:    opts.Info,
		file:    opts.File,
		content: opts.Content,
	}
}

func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) IsRoot() bool      { return n.kind == KindRoot }
func (n *Node) IsContainer() bool { return n.kind == KindContainer }
func (n *Node) IsCard() bool      { return n.kind == KindCard }
func (n *Node) Info() Info        { return n.info }
func (n *Node) File() string      { return n.file }
func (n *Node) Content() string   { return n.content }

// ContainerType is models.ContainerUnset until the node has been typified.
func (n *Node) ContainerType() models.ContainerType { return n.containerType }

// HasChildren reports whether the node can hold children.
func (n *Node) HasChildren() bool { return n.children != nil }

// Len returns the number of direct children.
func (n *Node) Len() int {
	if n.children == nil {
		return 0
	}
	return n.children.Len()
}

// Child looks up a direct child by name.
func (n *Node) Child(name string) (*Node, bool) {
	if n.children == nil {
		return nil, false
	}
	return n.children.Get(name)
}

// Children returns the direct children in insertion order.
func (n *Node) Children() []Child {
	if n.children == nil {
		return nil
	}
	out := make([]Child, 0, n.children.Len())
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Child{Name: pair.Key, Node: pair.Value})
	}
	return out
}

// Attach stores node under name in parent, replacing any existing child with
// that name in place.
func Attach(parent *Node, name string, node *Node) error {
	if !parent.HasChildren() {
		return NewError(InvalidTreeOperation, name, "cannot attach to a %s node", parent.kind)
	}
	parent.children.Set(name, node)
	return nil
}

// SetContainerType assigns the Guru container kind of a container node.
func (n *Node) SetContainerType(t models.ContainerType) error {
	if n.kind != KindContainer {
		return NewError(InvalidTreeOperation, n.file, "cannot assign a container type to a %s node", n.kind)
	}
	n.containerType = t
	return nil
}

// SetFile sets the backing file or directory of the node.
func (n *Node) SetFile(file string) { n.file = file }

// SetContent stores the Markdown body of a card.
func (n *Node) SetContent(content string) { n.content = content }

// AllowedInfoKeys returns the info keys the node's kind accepts.
func (n *Node) AllowedInfoKeys() []string {
	switch n.kind {
	case KindCard:
		return models.CardInfoKeys
	case KindContainer:
		return models.ContainerInfoKeys
	default:
		return nil
	}
}

// MergeInfo overlays values onto the node's info. Keys the node's kind does not
// accept are left out and returned, sorted. A nil value unsets the key.
func (n *Node) MergeInfo(values map[string]any) (stripped []string) {
	allowed := n.AllowedInfoKeys()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !models.AllowedKey(allowed, key) {
			stripped = append(stripped, key)
			continue
		}
		value := infoString(values[key])
		switch key {
		case models.InfoTitle:
			n.info.Title = value
		case models.InfoDescription:
			n.info.Description = value
		case models.InfoExternalURL:
			n.info.ExternalURL = value
		}
	}
	return stripped
}

func infoString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
