package collection

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

func newTestLogger() (*logging.Logger, *test.Hook) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.TraceLevel)
	return logging.Wrap(base), hook
}

func warnings(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e.Message)
		}
	}
	return out
}

// sourceFS builds an in-memory source tree where every file holds a short
// Markdown body.
func sourceFS(files ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[f] = &fstest.MapFile{Data: []byte("# " + f + "\n")}
	}
	return fsys
}

// buildFromPaths creates a tree holding a card for every path, with the
// directories as virtual containers.
func buildFromPaths(t *testing.T, paths ...string) *tree.Node {
	t.Helper()
	rules := make([]models.CardRule, 0, len(paths))
	for _, p := range paths {
		rules = append(rules, models.CardRule{Glob: p})
	}
	log, _ := newTestLogger()
	root, err := BuildTree(sourceFS(paths...), rules, log)
	require.NoError(t, err)
	return root
}

// describe renders one line per node: path, kind, file and container type.
func describe(root *tree.Node) []string {
	var lines []string
	_ = tree.Traverse(root).Walk(func(n *tree.Node, _ string, st *tree.State) error {
		line := fmt.Sprintf("%s %s", st.Path, n.Kind())
		if n.File() != "" {
			line += " file=" + n.File()
		}
		if n.IsContainer() && n.ContainerType() != models.ContainerUnset {
			line += " type=" + n.ContainerType().String()
		}
		lines = append(lines, line)
		return nil
	})
	return lines
}
