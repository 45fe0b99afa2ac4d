// Package archive packs a flattened collection into the zip layout Guru's
// synced collection upload expects.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/klauspost/compress/zip"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-guru/pkg/collection"
	"github.com/mattsolo1/grove-guru/pkg/content"
)

// Top-level layout of the archive.
const (
	CardsDir       = "cards/"
	BoardsDir      = "boards/"
	BoardGroupsDir = "board-groups/"
	ResourcesDir   = "resources/"
	CollectionFile = "collection.yaml"
)

// entries carry a fixed timestamp so identical collections produce identical bytes
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type collectionDoc struct {
	Tags []string `yaml:"Tags"`
}

type cardDoc struct {
	Title       string `yaml:"Title"`
	ExternalURL string `yaml:"ExternalUrl,omitempty"`
}

type boardItemDoc struct {
	Type  string         `yaml:"Type"`
	ID    string         `yaml:"ID,omitempty"`
	Title string         `yaml:"Title,omitempty"`
	Items []boardItemDoc `yaml:"Items,omitempty"`
}

type boardDoc struct {
	Title       string         `yaml:"Title"`
	Description string         `yaml:"Description,omitempty"`
	ExternalURL string         `yaml:"ExternalUrl,omitempty"`
	Items       []boardItemDoc `yaml:"Items"`
}

type boardGroupDoc struct {
	Title       string   `yaml:"Title"`
	Description string   `yaml:"Description,omitempty"`
	ExternalURL string   `yaml:"ExternalUrl,omitempty"`
	Boards      []string `yaml:"Boards"`
}

// Stats counts what was written.
type Stats struct {
	Cards       int
	Boards      int
	BoardGroups int
	Resources   int
}

// Write packs coll into a zip archive on w. rendered holds the transformed
// body of each card, keyed by card name; cards missing from it keep their
// original content. Attachments are read from fsys.
func Write(w io.Writer, fsys fs.FS, coll collection.Collection, rendered map[string]content.Result) (Stats, error) {
	var stats Stats
	zw := zip.NewWriter(w)

	for _, dir := range []string{CardsDir, BoardsDir, BoardGroupsDir, ResourcesDir} {
		if _, err := zw.CreateHeader(&zip.FileHeader{Name: dir, Modified: entryTime}); err != nil {
			return stats, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := writeYAML(zw, CollectionFile, collectionDoc{Tags: []string{}}); err != nil {
		return stats, err
	}

	resources := map[string]bool{}
	for _, card := range coll.Cards {
		body := card.Content
		if r, ok := rendered[card.Name]; ok {
			body = r.Content
			for _, att := range r.Attachments {
				if resources[att.Name] {
					continue
				}
				if err := copyFile(zw, fsys, att.Path, ResourcesDir+att.Name); err != nil {
					return stats, err
				}
				resources[att.Name] = true
				stats.Resources++
			}
		}

		doc := cardDoc{Title: card.Info.Title, ExternalURL: card.Info.ExternalURL}
		if err := writeYAML(zw, CardsDir+card.Name+".yaml", doc); err != nil {
			return stats, err
		}
		if err := writeFile(zw, CardsDir+card.Name+".md", []byte(body)); err != nil {
			return stats, err
		}
		stats.Cards++
	}

	for _, board := range coll.Boards {
		doc := boardDoc{
			Title:       board.Info.Title,
			Description: board.Info.Description,
			ExternalURL: board.Info.ExternalURL,
			Items:       itemDocs(board.Items),
		}
		if err := writeYAML(zw, BoardsDir+board.Name+".yaml", doc); err != nil {
			return stats, err
		}
		stats.Boards++
	}

	for _, group := range coll.BoardGroups {
		doc := boardGroupDoc{
			Title:       group.Info.Title,
			Description: group.Info.Description,
			ExternalURL: group.Info.ExternalURL,
			Boards:      group.Boards,
		}
		if err := writeYAML(zw, BoardGroupsDir+group.Name+".yaml", doc); err != nil {
			return stats, err
		}
		stats.BoardGroups++
	}

	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("finish archive: %w", err)
	}
	return stats, nil
}

func itemDocs(items []collection.BoardItem) []boardItemDoc {
	docs := make([]boardItemDoc, 0, len(items))
	for _, item := range items {
		docs = append(docs, boardItemDoc{
			Type:  string(item.Type),
			ID:    item.ID,
			Title: item.Title,
			Items: itemDocs(item.Items),
		})
	}
	return docs
}

func writeYAML(zw *zip.Writer, name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return writeFile(zw, name, data)
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: entryTime})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func copyFile(zw *zip.Writer, fsys fs.FS, src, name string) error {
	data, err := fs.ReadFile(fsys, src)
	if err != nil {
		return fmt.Errorf("read attachment %s: %w", src, err)
	}
	return writeFile(zw, name, data)
}
