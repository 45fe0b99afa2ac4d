package collection

import (
	"path"
	"strings"

	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

// NameSeparator joins the segments of a fully qualified name.
const NameSeparator = "__"

// ItemType distinguishes the entries of a board.
type ItemType string

const (
	ItemCard    ItemType = "card"
	ItemSection ItemType = "section"
)

// Card is a flattened card.
type Card struct {
	// Name is the fully qualified name, e.g. "guides__setup__install".
	Name string
	// Path is the card's location in the tree.
	Path string
	// File is the source Markdown file.
	File    string
	Info    tree.Info
	Content string
}

// BoardItem is a card reference or a section inside a board.
type BoardItem struct {
	Type  ItemType
	ID    string      // set for cards
	Title string      // set for sections
	Items []BoardItem // set for sections
}

// Board is a flattened board.
type Board struct {
	Name  string
	Path  string
	Info  tree.Info
	Items []BoardItem
}

// BoardGroup is a flattened board group.
type BoardGroup struct {
	Name   string
	Path   string
	Info   tree.Info
	Boards []string
}

// Collection is the flat form of a typed tree.
type Collection struct {
	Cards       []Card
	Boards      []Board
	BoardGroups []BoardGroup
}

const fullNameKey = "fullName"

// QualifiedName appends a node name to its parent's fully qualified name.
func QualifiedName(parent, name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	if parent == "" {
		return name
	}
	return parent + NameSeparator + name
}

// FlattenTree walks a typed tree and collects its cards, boards and board
// groups in pre-order.
func FlattenTree(root *tree.Node, log *logging.Logger) Collection {
	out := Collection{Cards: []Card{}, Boards: []Board{}, BoardGroups: []BoardGroup{}}

	// The visitor never fails.
	_ = tree.Traverse(root).WithValue(fullNameKey, "").Walk(func(n *tree.Node, name string, st *tree.State) error {
		parentName, _ := st.Value(fullNameKey).(string)
		fullName := QualifiedName(parentName, name)
		st.SetValue(fullNameKey, fullName)

		switch {
		case n.IsCard():
			out.Cards = append(out.Cards, Card{
				Name:    fullName,
				Path:    st.Path,
				File:    n.File(),
				Info:    n.Info(),
				Content: n.Content(),
			})
		case n.ContainerType() == models.ContainerBoard:
			out.Boards = append(out.Boards, Board{
				Name:  fullName,
				Path:  st.Path,
				Info:  n.Info(),
				Items: boardItems(n, fullName, st.Path, log),
			})
		case n.ContainerType() == models.ContainerBoardGroup:
			group := BoardGroup{Name: fullName, Path: st.Path, Info: n.Info(), Boards: []string{}}
			for _, child := range n.Children() {
				if child.Node.ContainerType() == models.ContainerBoard {
					group.Boards = append(group.Boards, QualifiedName(fullName, child.Name))
				}
			}
			out.BoardGroups = append(out.BoardGroups, group)
		}
		return nil
	})

	log.Debugf("Flattened %d cards, %d boards, %d board groups", len(out.Cards), len(out.Boards), len(out.BoardGroups))
	return out
}

// boardItems lists the direct children of a board or section in order.
func boardItems(n *tree.Node, fullName, treePath string, log *logging.Logger) []BoardItem {
	items := []BoardItem{}
	for _, child := range n.Children() {
		childName := QualifiedName(fullName, child.Name)
		childPath := treePath + "/" + child.Name

		if child.Node.IsCard() {
			items = append(items, BoardItem{Type: ItemCard, ID: childName})
			continue
		}

		info := child.Node.Info()
		if info.Description != "" || info.ExternalURL != "" {
			log.Warnf("Board section %s does not support description or externalUrl, dropping them", childPath)
		}
		items = append(items, BoardItem{
			Type:  ItemSection,
			Title: info.Title,
			Items: boardItems(child.Node, childName, childPath, log),
		})
	}
	return items
}
