package sync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mattsolo1/grove-guru/pkg/archive"
	"github.com/mattsolo1/grove-guru/pkg/collection"
	"github.com/mattsolo1/grove-guru/pkg/content"
	"github.com/mattsolo1/grove-guru/pkg/logging"
	"github.com/mattsolo1/grove-guru/pkg/state"
	"github.com/mattsolo1/grove-guru/pkg/tree"
)

// Plan is a typed tree and the collection flattened from it.
type Plan struct {
	Root       *tree.Node
	Collection collection.Collection
}

// Syncer orchestrates the synchronization process.
type Syncer struct {
	cfg         *Config
	fsys        fs.FS
	uploader    Uploader
	store       StateStore
	transformer content.Transformer
	log         *logging.Logger
	now         func() time.Time
}

// NewSyncer creates a new Syncer reading sources from fsys. uploader and
// store may be nil for runs that never upload.
func NewSyncer(cfg *Config, fsys fs.FS, uploader Uploader, store StateStore, log *logging.Logger) *Syncer {
	if log == nil {
		log = logging.Default()
	}
	return &Syncer{
		cfg:         cfg,
		fsys:        fsys,
		uploader:    uploader,
		store:       store,
		transformer: content.NewLocalResources(fsys, log),
		log:         log,
		now:         time.Now,
	}
}

// SetTransformer replaces the card content transformer.
func (s *Syncer) SetTransformer(t content.Transformer) {
	s.transformer = t
}

// Plan builds, informs, typifies and flattens the source tree.
func (s *Syncer) Plan(ctx context.Context) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.StartGroup("Building tree")
	root, err := collection.BuildTree(s.fsys, s.cfg.Rules, s.log)
	s.log.EndGroup()
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	s.log.StartGroup("Reading card and container info")
	err = collection.InformTree(s.fsys, root, s.log)
	s.log.EndGroup()
	if err != nil {
		return nil, fmt.Errorf("failed to read info: %w", err)
	}

	s.log.StartGroup("Assigning container types")
	err = collection.TypifyTree(root, s.cfg.Preferred, s.log)
	s.log.EndGroup()
	if err != nil {
		return nil, fmt.Errorf("failed to assign container types: %w", err)
	}

	s.log.StartGroup("Flattening tree")
	coll := collection.FlattenTree(root, s.log)
	s.log.EndGroup()

	return &Plan{Root: root, Collection: coll}, nil
}

// Run plans the collection, packs it and uploads it unless nothing changed
// since the last recorded upload.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Report, error) {
	start := s.now()

	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}

	s.log.StartGroup("Transforming card content")
	rendered := make(map[string]content.Result, len(plan.Collection.Cards))
	for _, card := range plan.Collection.Cards {
		res, err := s.transformer.Transform(ctx, card)
		if err != nil {
			s.log.EndGroup()
			return nil, fmt.Errorf("failed to transform card %s: %w", card.Name, err)
		}
		rendered[card.Name] = res
	}
	s.log.EndGroup()

	var buf bytes.Buffer
	stats, err := archive.Write(&buf, s.fsys, plan.Collection, rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())

	report := &Report{
		Cards:       stats.Cards,
		Boards:      stats.Boards,
		BoardGroups: stats.BoardGroups,
		Resources:   stats.Resources,
		Digest:      hex.EncodeToString(sum[:]),
		Size:        buf.Len(),
	}
	s.log.Infof("Packed %d cards, %d boards, %d board groups and %d resources (%d bytes)",
		report.Cards, report.Boards, report.BoardGroups, report.Resources, report.Size)

	if opts.ArchivePath != "" {
		if err := os.WriteFile(opts.ArchivePath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write archive to %s: %w", opts.ArchivePath, err)
		}
		s.log.Infof("Wrote archive to %s", opts.ArchivePath)
	}

	if opts.DryRun {
		report.Duration = s.now().Sub(start)
		return report, nil
	}

	if s.uploader == nil {
		return nil, fmt.Errorf("no uploader configured")
	}
	report.Uploader = s.uploader.Name()
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	if s.store != nil && !opts.Force {
		last, err := s.store.LastUpload(s.cfg.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload state: %w", err)
		}
		if last != nil && last.Digest == report.Digest {
			s.log.Infof("Collection %s is unchanged since %s, skipping upload", s.cfg.CollectionID, last.UploadedAt.Format(time.RFC3339))
			report.Unchanged = true
			report.Duration = s.now().Sub(start)
			return report, nil
		}
	}

	result, err := s.uploader.UploadCollection(ctx, s.cfg.CollectionID, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s upload failed: %w", s.uploader.Name(), err)
	}
	report.Uploaded = true
	report.JobID = result.JobID

	if s.store != nil {
		err := s.store.RecordUpload(&state.Upload{
			CollectionID: s.cfg.CollectionID,
			Digest:       report.Digest,
			Cards:        report.Cards,
			Boards:       report.Boards,
			BoardGroups:  report.BoardGroups,
			Resources:    report.Resources,
			UploadedAt:   s.now(),
		})
		if err != nil {
			s.log.Warnf("Uploaded, but failed to record upload state: %v", err)
		}
	}

	report.Duration = s.now().Sub(start)
	return report, nil
}
