package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-guru/pkg/models"
)

// sampleTree builds:
//
//	a/
//	  b/
//	    one.md
//	  two.md
//	c/
//	  three.md
func sampleTree(t *testing.T) *Node {
	t.Helper()
	root := NewRoot()
	b, err := EnsureContainerPath(root, "a/b")
	require.NoError(t, err)
	require.NoError(t, Attach(b, "one.md", NewCard(CardOptions{File: "a/b/one.md"})))
	a, _ := root.Child("a")
	require.NoError(t, Attach(a, "two.md", NewCard(CardOptions{File: "a/two.md"})))
	c, err := EnsureContainerPath(root, "c")
	require.NoError(t, err)
	require.NoError(t, Attach(c, "three.md", NewCard(CardOptions{File: "c/three.md"})))
	return root
}

type visit struct {
	name  string
	path  string
	depth int
}

func collect(t *testing.T, root *Node) []visit {
	t.Helper()
	var got []visit
	err := Traverse(root).Walk(func(n *Node, name string, st *State) error {
		got = append(got, visit{name: name, path: st.Path, depth: st.Depth})
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestFactoriesLeaveInfoUnset(t *testing.T) {
	assert.Equal(t, Info{}, NewContainer(ContainerOptions{}).Info())
	assert.Equal(t, Info{}, NewCard(CardOptions{File: "x.md"}).Info())
	assert.Equal(t, models.ContainerUnset, NewContainer(ContainerOptions{}).ContainerType())
	assert.True(t, NewRoot().HasChildren())
	assert.False(t, NewCard(CardOptions{File: "x.md"}).HasChildren())
}

func TestAttach(t *testing.T) {
	root := NewRoot()
	require.NoError(t, Attach(root, "first", NewContainer(ContainerOptions{})))
	require.NoError(t, Attach(root, "second", NewContainer(ContainerOptions{})))

	replacement := NewContainer(ContainerOptions{File: "first"})
	require.NoError(t, Attach(root, "first", replacement))

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "first", children[0].Name)
	assert.Same(t, replacement, children[0].Node)
	assert.Equal(t, "second", children[1].Name)
}

func TestAttachToCardFails(t *testing.T) {
	card := NewCard(CardOptions{File: "card.md"})
	err := Attach(card, "child", NewContainer(ContainerOptions{}))
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidTreeOperation))
	assert.ErrorIs(t, err, ErrInvalidTreeOperation)
}

func TestTraversePath(t *testing.T) {
	root := sampleTree(t)

	var steps []Step
	node, err := TraversePath(root, "a/b/one.md", func(n *Node, s Step) {
		steps = append(steps, s)
	}, TraverseOptions{})
	require.NoError(t, err)
	assert.True(t, node.IsCard())
	assert.Equal(t, "a/b/one.md", node.File())
	assert.Equal(t, []Step{{Path: "a", Depth: 1}, {Path: "a/b", Depth: 2}, {Path: "a/b/one.md", Depth: 3}}, steps)
}

func TestTraversePathMissing(t *testing.T) {
	root := sampleTree(t)

	_, err := TraversePath(root, "a/missing/deeper", nil, TraverseOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTreePathNotFound)
	var te *Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "a/missing/deeper", te.Path)
}

func TestTraversePathThroughCard(t *testing.T) {
	root := sampleTree(t)

	_, err := TraversePath(root, "a/two.md/x", nil, TraverseOptions{MakeMissing: true})
	assert.True(t, IsKind(err, InvalidTreeOperation))
}

func TestEnsureContainerPathCreatesVirtualContainers(t *testing.T) {
	root := NewRoot()
	node, err := EnsureContainerPath(root, "x/y/z")
	require.NoError(t, err)
	assert.True(t, node.IsContainer())
	assert.Empty(t, node.File())

	again, err := EnsureContainerPath(root, "x/y/z")
	require.NoError(t, err)
	assert.Same(t, node, again)
	assert.Equal(t, 1, root.Len())
}

func TestEnsureContainerPathEmpty(t *testing.T) {
	root := NewRoot()
	node, err := EnsureContainerPath(root, "")
	require.NoError(t, err)
	assert.Same(t, root, node)
}

func TestTraverseOrderAndAccounting(t *testing.T) {
	root := sampleTree(t)

	want := []visit{
		{name: "a", path: "a", depth: 1},
		{name: "b", path: "a/b", depth: 2},
		{name: "one.md", path: "a/b/one.md", depth: 3},
		{name: "two.md", path: "a/two.md", depth: 2},
		{name: "c", path: "c", depth: 1},
		{name: "three.md", path: "c/three.md", depth: 2},
	}
	assert.Equal(t, want, collect(t, root))
	// Walking an unchanged tree again gives the same result.
	assert.Equal(t, want, collect(t, root))
}

func TestTraverseSeededState(t *testing.T) {
	root := sampleTree(t)
	c, _ := root.Child("c")

	var got []visit
	err := Traverse(c).WithPath("c").WithDepth(1).Walk(func(n *Node, name string, st *State) error {
		got = append(got, visit{name: name, path: st.Path, depth: st.Depth})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []visit{{name: "three.md", path: "c/three.md", depth: 2}}, got)
}

func TestTraverseStateIsolation(t *testing.T) {
	root := sampleTree(t)

	seen := map[string]any{}
	err := Traverse(root).WithValue("mark", "seed").Walk(func(n *Node, name string, st *State) error {
		seen[st.Path] = st.Value("mark")
		// Mark only the subtree below "a/b".
		if st.Path == "a/b" {
			st.SetValue("mark", "b")
			st.Path = "renamed"
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "seed", seen["a"])
	assert.Equal(t, "seed", seen["a/b"])
	assert.Equal(t, "b", seen["renamed/one.md"])
	assert.Equal(t, "seed", seen["a/two.md"])
	assert.Equal(t, "seed", seen["c"])
	assert.Equal(t, "seed", seen["c/three.md"])
	assert.Len(t, seen, 6)
}

func TestTraverseStopAndSkip(t *testing.T) {
	root := sampleTree(t)

	var names []string
	err := Traverse(root).Walk(func(n *Node, name string, st *State) error {
		names = append(names, name)
		if name == "a" {
			return SkipChildren
		}
		if name == "c" {
			return Stop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestTraversePropagatesErrors(t *testing.T) {
	root := sampleTree(t)
	boom := errors.New("boom")

	err := Traverse(root).Walk(func(n *Node, name string, st *State) error {
		if name == "one.md" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestMergeInfo(t *testing.T) {
	card := NewCard(CardOptions{File: "card.md"})
	stripped := card.MergeInfo(map[string]any{
		"title":       "Card",
		"externalUrl": "https://example.com",
		"description": "not for cards",
		"tags":        []string{"x"},
	})
	assert.Equal(t, []string{"description", "tags"}, stripped)
	assert.Equal(t, Info{Title: "Card", ExternalURL: "https://example.com"}, card.Info())

	container := NewContainer(ContainerOptions{})
	assert.Empty(t, container.MergeInfo(map[string]any{"description": "About", "title": 42}))
	assert.Equal(t, Info{Title: "42", Description: "About"}, container.Info())

	assert.Empty(t, container.MergeInfo(map[string]any{"title": nil}))
	assert.Equal(t, "", container.Info().Title)
}

func TestSetContainerType(t *testing.T) {
	container := NewContainer(ContainerOptions{})
	require.NoError(t, container.SetContainerType(models.ContainerBoard))
	assert.Equal(t, models.ContainerBoard, container.ContainerType())

	err := NewCard(CardOptions{File: "c.md"}).SetContainerType(models.ContainerBoard)
	assert.True(t, IsKind(err, InvalidTreeOperation))
}
