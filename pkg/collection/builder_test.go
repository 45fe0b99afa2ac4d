package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

func TestBuildTreeFromDirectories(t *testing.T) {
	fsys := sourceFS("dir/one/test.md", "dir/one/test2.md", "dir/two/test3.md", "some/direct/card.md")
	rules := []models.CardRule{{Glob: "some/direct/card.md"}, {Glob: "dir/*/*.md"}}
	log, _ := newTestLogger()

	root, err := BuildTree(fsys, rules, log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"some container file=some",
		"some/direct container file=some/direct",
		"some/direct/card.md card file=some/direct/card.md",
		"dir container file=dir",
		"dir/one container file=dir/one",
		"dir/one/test.md card file=dir/one/test.md",
		"dir/one/test2.md card file=dir/one/test2.md",
		"dir/two container file=dir/two",
		"dir/two/test3.md card file=dir/two/test3.md",
	}, describe(root))
}

func TestBuildTreeEmptyRules(t *testing.T) {
	log, _ := newTestLogger()
	root, err := BuildTree(sourceFS("a.md"), nil, log)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Equal(t, 0, root.Len())
}

func TestBuildTreeNoMatches(t *testing.T) {
	log, _ := newTestLogger()
	root, err := BuildTree(sourceFS("a.md"), []models.CardRule{{Glob: "missing/*.md"}}, log)
	require.NoError(t, err)
	assert.Equal(t, 0, root.Len())
}

func TestBuildTreeRuleInfo(t *testing.T) {
	log, _ := newTestLogger()
	rules := []models.CardRule{{Glob: "readme.md", Title: "Read Me", ExternalURL: "https://example.com/readme"}}
	root, err := BuildTree(sourceFS("readme.md"), rules, log)
	require.NoError(t, err)

	card, ok := root.Child("readme.md")
	require.True(t, ok)
	assert.Equal(t, tree.Info{Title: "Read Me", ExternalURL: "https://example.com/readme"}, card.Info())
}

func TestBuildTreeExplicitContainer(t *testing.T) {
	log, _ := newTestLogger()
	rules := []models.CardRule{{Glob: "docs/**/*.md", Container: "Handbook/Basics"}}
	root, err := BuildTree(sourceFS("docs/a.md", "docs/deep/b.md"), rules, log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Handbook container",
		"Handbook/Basics container",
		"Handbook/Basics/a.md card file=docs/a.md",
		"Handbook/Basics/b.md card file=docs/deep/b.md",
	}, describe(root))
}

func TestBuildTreeRootContainer(t *testing.T) {
	log, _ := newTestLogger()
	rules := []models.CardRule{{Glob: "guides/*.md", RootContainer: "Docs"}}
	root, err := BuildTree(sourceFS("guides/setup.md"), rules, log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Docs container",
		"Docs/guides container file=guides",
		"Docs/guides/setup.md card file=guides/setup.md",
	}, describe(root))
}

func TestBuildTreeRootDir(t *testing.T) {
	fsys := sourceFS(
		"packages/api/docs/intro.md",
		"packages/api/docs/usage/calls.md",
		"packages/web/docs/intro.md",
		"packages/README.md",
	)
	log, hook := newTestLogger()
	rules := []models.CardRule{{Glob: "docs/**/*.md", RootDir: "packages/*"}}

	root, err := BuildTree(fsys, rules, log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"docs container file=packages/api/docs",
		"docs/intro.md card file=packages/web/docs/intro.md",
		"docs/usage container file=packages/api/docs/usage",
		"docs/usage/calls.md card file=packages/api/docs/usage/calls.md",
	}, describe(root))

	require.Len(t, warnings(hook), 1)
	assert.Contains(t, warnings(hook)[0], "should end with '/'")
}

func TestBuildTreeMergesContainers(t *testing.T) {
	log, _ := newTestLogger()
	rules := []models.CardRule{
		{Glob: "a/one.md"},
		{Glob: "b.md", Container: "a"},
		{Glob: "a/two.md"},
	}
	root, err := BuildTree(sourceFS("a/one.md", "a/two.md", "b.md"), rules, log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a container file=a",
		"a/one.md card file=a/one.md",
		"a/b.md card file=b.md",
		"a/two.md card file=a/two.md",
	}, describe(root))
}

func TestBuildTreeFillsVirtualContainerFile(t *testing.T) {
	log, _ := newTestLogger()
	rules := []models.CardRule{
		{Glob: "x.md", Container: "a"},
		{Glob: "a/one.md"},
	}
	root, err := BuildTree(sourceFS("x.md", "a/one.md"), rules, log)
	require.NoError(t, err)

	a, ok := root.Child("a")
	require.True(t, ok)
	// The container was created virtually first, the directory rule fills in its file.
	assert.Equal(t, "a", a.File())
}

func TestBuildTreeInvalidGlob(t *testing.T) {
	log, _ := newTestLogger()
	_, err := BuildTree(sourceFS("a.md"), []models.CardRule{{Glob: "[a"}}, log)
	assert.Error(t, err)
}
