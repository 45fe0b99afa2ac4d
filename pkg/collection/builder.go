// Package collection turns a directory of Markdown files into the typed tree of
// Guru containers and cards that a synced collection is uploaded from.
//
// A run goes through four passes: BuildTree creates the raw tree from card
// rules, InformTree attaches titles and metadata, TypifyTree decides which
// nodes become board groups, boards and board sections, and FlattenTree emits
// the flat lists Guru expects.
package collection

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/models"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

// BuildTree applies every rule to the files in fsys and returns the raw tree.
// Paths in the tree are relative to the root of fsys.
func BuildTree(fsys fs.FS, rules []models.CardRule, log *logging.Logger) (*tree.Node, error) {
	root := tree.NewRoot()
	for i, rule := range rules {
		log.Debugf("Applying card rule %d: %s", i, rule.Glob)
		log.Indent()
		err := applyRule(fsys, root, rule, log)
		log.Unindent()
		if err != nil {
			return nil, fmt.Errorf("card rule %d (%s): %w", i, rule.Glob, err)
		}
	}
	return root, nil
}

func applyRule(fsys fs.FS, root *tree.Node, rule models.CardRule, log *logging.Logger) error {
	if rule.RootDir == "" {
		return applyRuleInDir(fsys, root, rule, "", log)
	}

	rootDir := rule.RootDir
	if !strings.HasSuffix(rootDir, "/") {
		log.Warnf("rootDir %q should end with '/', treating it as %q", rootDir, rootDir+"/")
		rootDir += "/"
	}

	dirs, err := globDirs(fsys, rootDir)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		log.Debugf("rootDir %s matched no directories", rootDir)
	}
	for _, dir := range dirs {
		log.Debugf("Root directory %s", dir)
		if err := applyRuleInDir(fsys, root, rule, dir, log); err != nil {
			return err
		}
	}
	return nil
}

// applyRuleInDir attaches a card for every file matching rule.Glob below parentDir.
// parentDir is either empty or ends with "/".
func applyRuleInDir(fsys fs.FS, root *tree.Node, rule models.CardRule, parentDir string, log *logging.Logger) error {
	files, err := globFiles(fsys, parentDir, rule.Glob)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Debugf("No files matched %s%s", parentDir, rule.Glob)
	}

	for _, file := range files {
		container, err := containerFor(root, rule, parentDir, file)
		if err != nil {
			return err
		}

		name := path.Base(file)
		card := tree.NewCard(tree.CardOptions{File: parentDir + file})
		card.MergeInfo(rule.Info())
		if err := tree.Attach(container, name, card); err != nil {
			return err
		}
		log.Tracef("Card %s", parentDir+file)
	}
	return nil
}

// containerFor resolves the node a matched file's card is attached to. file is
// relative to parentDir.
func containerFor(root *tree.Node, rule models.CardRule, parentDir, file string) (*tree.Node, error) {
	// An explicit container has no matching directory, so no file is attached.
	if rule.Container != "" {
		return tree.EnsureContainerPath(root, rule.Container)
	}

	base := root
	if rule.RootContainer != "" {
		var err error
		if base, err = tree.EnsureContainerPath(root, rule.RootContainer); err != nil {
			return nil, err
		}
	}

	dir := path.Dir(file)
	if dir == "." {
		return base, nil
	}
	return tree.TraversePath(base, dir, func(n *tree.Node, step tree.Step) {
		if n.IsContainer() && n.File() == "" {
			n.SetFile(parentDir + step.Path)
		}
	}, tree.TraverseOptions{MakeMissing: true})
}

// globFiles expands pattern below dir and returns matching files relative to dir.
func globFiles(fsys fs.FS, dir, pattern string) ([]string, error) {
	full := path.Clean(dir + pattern)
	matches, err := doublestar.Glob(fsys, full, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", full, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, strings.TrimPrefix(m, dir))
	}
	return files, nil
}

// globDirs expands a directory pattern ending in "/" and returns the matching
// directories, each with a trailing "/".
func globDirs(fsys fs.FS, pattern string) ([]string, error) {
	trimmed := strings.TrimSuffix(pattern, "/")
	if trimmed == "" || trimmed == "." {
		return []string{""}, nil
	}
	matches, err := doublestar.Glob(fsys, trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid rootDir glob %q: %w", pattern, err)
	}
	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, m+"/")
	}
	return dirs, nil
}
