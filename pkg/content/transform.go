// Package content prepares card bodies for upload: local files referenced by a
// card are collected as attachments and the links are rewritten to point at
// the archive's resources directory.
package content

import (
	"context"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mattsolo1/grove-guru/pkg/collection"
	"github.com/mattsolo1/grove-guru/pkg/logging"
)

// ResourcesDir is where attachments live, relative to a card's Markdown file.
const ResourcesDir = "../resources/"

// Attachment is a source file copied into the archive's resources directory.
type Attachment struct {
	// Name is the file name inside resources/.
	Name string
	// Path is the file's location in the source tree.
	Path string
}

// Result is a transformed card body.
type Result struct {
	Content     string
	Attachments []Attachment
}

// Transformer rewrites the body of one card.
type Transformer interface {
	Transform(ctx context.Context, card collection.Card) (Result, error)
}

// LocalResources rewrites relative links to files that exist in the source
// tree. Remote URLs, anchors and links to other Markdown files are kept.
type LocalResources struct {
	fsys     fs.FS
	log      *logging.Logger
	markdown goldmark.Markdown
}

// NewLocalResources creates a transformer resolving links against fsys.
func NewLocalResources(fsys fs.FS, log *logging.Logger) *LocalResources {
	return &LocalResources{fsys: fsys, log: log, markdown: goldmark.New()}
}

// Transform implements Transformer.
func (t *LocalResources) Transform(ctx context.Context, card collection.Card) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	source := []byte(card.Content)
	doc := t.markdown.Parser().Parse(text.NewReader(source))

	var destinations []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			destinations = append(destinations, string(node.Destination))
		case *ast.Link:
			destinations = append(destinations, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Result{}, err
	}

	result := Result{Content: card.Content}
	seen := map[string]bool{}
	var replacements []string
	for _, dest := range destinations {
		if seen[dest] {
			continue
		}
		seen[dest] = true

		resolved, ok := t.resolve(card.File, dest)
		if !ok {
			continue
		}
		name := ResourceName(resolved)
		result.Attachments = append(result.Attachments, Attachment{Name: name, Path: resolved})
		replacements = append(replacements, "]("+dest, "]("+ResourcesDir+name, "]: "+dest, "]: "+ResourcesDir+name)
		t.log.Debugf("Attaching %s to %s", resolved, card.Name)
	}

	if len(replacements) > 0 {
		result.Content = strings.NewReplacer(replacements...).Replace(card.Content)
	}
	sort.Slice(result.Attachments, func(i, j int) bool { return result.Attachments[i].Name < result.Attachments[j].Name })
	return result, nil
}

// resolve maps a link destination in cardFile to an existing, non-Markdown
// file in the source tree.
func (t *LocalResources) resolve(cardFile, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if strings.EqualFold(path.Ext(u.Path), ".md") {
		return "", false
	}

	resolved := path.Join(path.Dir(cardFile), u.Path)
	if !fs.ValidPath(resolved) {
		t.log.Warnf("Link %s in %s points outside the source tree, leaving it as is", dest, cardFile)
		return "", false
	}
	info, err := fs.Stat(t.fsys, resolved)
	if err != nil || info.IsDir() {
		t.log.Warnf("Link %s in %s does not point to a file, leaving it as is", dest, cardFile)
		return "", false
	}
	return resolved, true
}

// ResourceName flattens a source path into a unique resources/ file name.
func ResourceName(sourcePath string) string {
	return strings.ReplaceAll(sourcePath, "/", collection.NameSeparator)
}
