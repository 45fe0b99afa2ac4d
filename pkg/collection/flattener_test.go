package collection

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

func handbookFS() fstest.MapFS {
	return fstest.MapFS{
		"handbook/.info.yaml":                 {Data: []byte("title: Handbook\ndescription: Everything about us\n")},
		"handbook/onboarding/welcome.md":      {Data: []byte("---\ntitle: Welcome!\n---\nHello.\n")},
		"handbook/onboarding/setup/laptop.md": {Data: []byte("Get a laptop.\n")},
		"handbook/onboarding/setup/.info.yml": {Data: []byte("title: Laptop Setup\ndescription: Not kept\n")},
		"handbook/policies/pto.md":            {Data: []byte("Take time off.\n")},
		"faq/general.md":                      {Data: []byte("General questions.\n")},
		"faq/billing/invoices.md":             {Data: []byte("Invoices.\n")},
		"readme.md":                           {Data: []byte("Read me.\n")},
	}
}

func handbookRules() []models.CardRule {
	return []models.CardRule{
		{Glob: "handbook/onboarding/welcome.md"},
		{Glob: "handbook/onboarding/setup/laptop.md"},
		{Glob: "handbook/policies/pto.md"},
		{Glob: "faq/general.md"},
		{Glob: "faq/billing/invoices.md"},
		{Glob: "readme.md", ExternalURL: "https://example.com/readme"},
	}
}

func TestFlattenTree(t *testing.T) {
	fsys := handbookFS()
	log, hook := newTestLogger()

	root, err := BuildTree(fsys, handbookRules(), log)
	require.NoError(t, err)
	require.NoError(t, InformTree(fsys, root, log))
	require.NoError(t, TypifyTree(root, models.ContainerBoardGroup, log))

	got := FlattenTree(root, log)

	want := Collection{
		Cards: []Card{
			{Name: "handbook__onboarding__welcome", Path: "handbook/onboarding/welcome.md", File: "handbook/onboarding/welcome.md", Info: tree.Info{Title: "Welcome!"}, Content: "Hello.\n"},
			{Name: "handbook__onboarding__setup__laptop", Path: "handbook/onboarding/setup/laptop.md", File: "handbook/onboarding/setup/laptop.md", Info: tree.Info{Title: "Laptop"}, Content: "Get a laptop.\n"},
			{Name: "handbook__policies__pto", Path: "handbook/policies/pto.md", File: "handbook/policies/pto.md", Info: tree.Info{Title: "Pto"}, Content: "Take time off.\n"},
			{Name: "faq__general", Path: "faq/general.md", File: "faq/general.md", Info: tree.Info{Title: "General"}, Content: "General questions.\n"},
			{Name: "faq__billing__invoices", Path: "faq/billing/invoices.md", File: "faq/billing/invoices.md", Info: tree.Info{Title: "Invoices"}, Content: "Invoices.\n"},
			{Name: "readme", Path: "readme.md", File: "readme.md", Info: tree.Info{Title: "Readme", ExternalURL: "https://example.com/readme"}, Content: "Read me.\n"},
		},
		Boards: []Board{
			{
				Name: "handbook__onboarding",
				Path: "handbook/onboarding",
				Info: tree.Info{Title: "Onboarding"},
				Items: []BoardItem{
					{Type: ItemCard, ID: "handbook__onboarding__welcome"},
					{Type: ItemSection, Title: "Laptop Setup", Items: []BoardItem{
						{Type: ItemCard, ID: "handbook__onboarding__setup__laptop"},
					}},
				},
			},
			{
				Name:  "handbook__policies",
				Path:  "handbook/policies",
				Info:  tree.Info{Title: "Policies"},
				Items: []BoardItem{{Type: ItemCard, ID: "handbook__policies__pto"}},
			},
			{
				Name: "faq",
				Path: "faq",
				Info: tree.Info{Title: "Faq"},
				Items: []BoardItem{
					{Type: ItemCard, ID: "faq__general"},
					{Type: ItemSection, Title: "Billing", Items: []BoardItem{
						{Type: ItemCard, ID: "faq__billing__invoices"},
					}},
				},
			},
		},
		BoardGroups: []BoardGroup{
			{
				Name:   "handbook",
				Path:   "handbook",
				Info:   tree.Info{Title: "Handbook", Description: "Everything about us"},
				Boards: []string{"handbook__onboarding", "handbook__policies"},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FlattenTree() mismatch (-want +got):\n%s", diff)
	}

	warns := warnings(hook)
	require.Len(t, warns, 2)
	assert.Contains(t, warns[0], "Branch faq")
	assert.Contains(t, warns[1], "handbook/onboarding/setup")
}

func TestFlattenTreePreservesInsertionOrder(t *testing.T) {
	root := buildFromPaths(t, "board/z.md", "board/section/x.md", "board/a.md", "board/section/b.md")
	log, _ := newTestLogger()
	require.NoError(t, TypifyTree(root, models.ContainerBoard, log))

	got := FlattenTree(root, log)

	require.Len(t, got.Boards, 1)
	want := []BoardItem{
		{Type: ItemCard, ID: "board__z"},
		{Type: ItemSection, Items: []BoardItem{
			{Type: ItemCard, ID: "board__section__x"},
			{Type: ItemCard, ID: "board__section__b"},
		}},
		{Type: ItemCard, ID: "board__a"},
	}
	if diff := cmp.Diff(want, got.Boards[0].Items); diff != "" {
		t.Errorf("board items mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, c := range got.Cards {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"board__z", "board__section__x", "board__section__b", "board__a"}, names)
}

func TestFlattenTreeEmpty(t *testing.T) {
	log, _ := newTestLogger()
	root, err := BuildTree(fstest.MapFS{}, nil, log)
	require.NoError(t, err)
	require.NoError(t, TypifyTree(root, models.ContainerBoardGroup, log))

	got := FlattenTree(root, log)
	assert.Empty(t, got.Cards)
	assert.Empty(t, got.Boards)
	assert.Empty(t, got.BoardGroups)
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "card", QualifiedName("", "card.md"))
	assert.Equal(t, "dir__card", QualifiedName("dir", "card.md"))
	assert.Equal(t, "a__b.c", QualifiedName("a", "b.c.md"))
	assert.Equal(t, "a__folder", QualifiedName("a", "folder"))
}
