package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// watchDebounce coalesces bursts of filesystem events (editors and
// copies emit several per file) into a single reindex.
const watchDebounce = 2 * time.Second

// Watch blocks until ctx is cancelled, reindexing whenever a PDF
// under the docs directory is created, written, renamed, or removed.
func (s *IndexService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.docsDir); err != nil {
		return fmt.Errorf("watching %s: %w", s.docsDir, err)
	}

	logger.Info("Watching %s for changes", s.docsDir)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPDFEvent(event) {
				continue
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-pending:
			pending = nil
			if err := s.syncAndReindex(ctx); err != nil {
				logger.Warn("Reindex after change failed: %v", err)
			}
		}
	}
}

// syncAndReindex reconciles the catalog with the docs directory and
// rebuilds the index: new and modified PDFs are re-extracted, and
// documents whose file is gone leave the catalog.
func (s *IndexService) syncAndReindex(ctx context.Context) error {
	paths, err := s.scanDocsDir()
	if err != nil {
		return err
	}

	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("%w: listing documents: %s", domain.ErrCollaborator, err)
	}

	present := make(map[string]string, len(paths))
	for _, path := range paths {
		present[filepath.Base(path)] = path
	}

	indexedAt := make(map[string]time.Time, len(docs))
	for _, doc := range docs {
		if _, ok := present[doc.ID]; !ok {
			logger.Debug("Dropping %s: file removed", doc.ID)
			if err := s.corpus.DeleteDocument(ctx, doc.ID); err != nil {
				return fmt.Errorf("%w: dropping %s: %s", domain.ErrCollaborator, doc.ID, err)
			}
			continue
		}
		indexedAt[doc.ID] = doc.IndexedAt
	}

	for id, path := range present {
		last, known := indexedAt[id]
		if known {
			info, err := os.Stat(path)
			if err != nil || !info.ModTime().After(last) {
				continue
			}
			logger.Debug("Re-extracting %s: modified since last index", id)
		}
		if _, err := s.catalog(ctx, path); err != nil {
			return err
		}
	}

	_, err = s.Reindex(ctx)
	return err
}

// isPDFEvent reports whether the event concerns a PDF file in a way
// that changes index contents.
func isPDFEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
		return false
	}
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Rename) ||
		event.Op.Has(fsnotify.Remove)
}
