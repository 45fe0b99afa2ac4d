package collection

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-guru/pkg/frontmatter"
	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	titleCaser      = cases.Title(language.Und, cases.NoLower)
)

// sidecar file names read for containers backed by a directory
var containerInfoFiles = []string{".info.yaml", ".info.yml"}

// Titleize turns a file or directory name into a display title:
// "getting-started.md" becomes "Getting Started".
func Titleize(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.TrimSpace(nonAlphanumeric.ReplaceAllString(name, " "))
	return titleCaser.String(name)
}

// InformTree fills in titles, card content and metadata from front matter and
// sidecar YAML files. It mutates the tree in place.
func InformTree(fsys fs.FS, root *tree.Node, log *logging.Logger) error {
	return tree.Traverse(root).Walk(func(n *tree.Node, name string, st *tree.State) error {
		log.Tracef("Informing %s", st.Path)
		if n.Info().Title == "" {
			n.MergeInfo(map[string]any{models.InfoTitle: Titleize(name)})
		}

		switch {
		case n.IsCard():
			return informCard(fsys, n, st.Path, log)
		case n.IsContainer() && n.File() != "":
			return informContainer(fsys, n, st.Path, log)
		}
		return nil
	})
}

func informCard(fsys fs.FS, n *tree.Node, treePath string, log *logging.Logger) error {
	raw, err := fs.ReadFile(fsys, n.File())
	if err != nil {
		return fmt.Errorf("read card %s: %w", n.File(), err)
	}
	data, body, err := frontmatter.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("card %s: %w", n.File(), err)
	}
	n.SetContent(body)
	warnStripped(log, treePath, n.MergeInfo(data))

	base := strings.TrimSuffix(n.File(), path.Ext(n.File()))
	sidecar, found, err := readFirstYAML(fsys, base+".yaml", base+".yml")
	if err != nil {
		return err
	}
	if found {
		warnStripped(log, treePath, n.MergeInfo(sidecar))
	}
	return nil
}

func informContainer(fsys fs.FS, n *tree.Node, treePath string, log *logging.Logger) error {
	candidates := make([]string, 0, len(containerInfoFiles))
	for _, f := range containerInfoFiles {
		candidates = append(candidates, path.Join(n.File(), f))
	}
	info, found, err := readFirstYAML(fsys, candidates...)
	if err != nil {
		return err
	}
	if found {
		warnStripped(log, treePath, n.MergeInfo(info))
	}
	return nil
}

// readFirstYAML loads the first of files that exists.
func readFirstYAML(fsys fs.FS, files ...string) (map[string]any, bool, error) {
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("read info file %s: %w", file, err)
		}
		data, err := frontmatter.LoadYAML(raw)
		if err != nil {
			return nil, false, fmt.Errorf("parse info file %s: %w", file, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

func warnStripped(log *logging.Logger, treePath string, stripped []string) {
	if len(stripped) > 0 {
		log.Warnf("Ignoring unsupported info keys %v for %s", stripped, treePath)
	}
}
