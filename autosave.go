package txt2pdf

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alnah/go-txt2pdf/internal/store"
)

// DefaultStoreKey is the key the editor content is saved under.
const DefaultStoreKey = "txt2pdf-content"

// Placeholder is the content of a surface with nothing saved.
const Placeholder = "<p>Start typing your document here...</p>"

// autosaveTimeout bounds a save triggered by an editor change.
const autosaveTimeout = 5 * time.Second

// AutoSaver persists surface content to a store under a fixed key.
// A nil store disables persistence: Restore loads the placeholder and Save
// does nothing.
type AutoSaver struct {
	store  store.Store
	key    string
	logger *slog.Logger
}

// NewAutoSaver returns a saver for key, DefaultStoreKey when empty. A nil
// logger discards messages.
func NewAutoSaver(s store.Store, key string, logger *slog.Logger) *AutoSaver {
	if key == "" {
		key = DefaultStoreKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AutoSaver{store: s, key: key, logger: logger}
}

// Restore loads the saved markup into s verbatim, or the placeholder when
// nothing is stored. It reports whether saved content was found.
func (a *AutoSaver) Restore(ctx context.Context, s Surface) (bool, error) {
	if a.store == nil {
		return false, s.SetContent(Placeholder)
	}
	markup, err := a.store.Load(ctx, a.key)
	if errors.Is(err, store.ErrNotFound) {
		return false, s.SetContent(Placeholder)
	}
	if err != nil {
		return false, err
	}
	return true, s.SetContent(markup)
}

// Save stores the current content of s. It reports whether anything was
// written; unchanged content is skipped.
func (a *AutoSaver) Save(ctx context.Context, s Surface) (bool, error) {
	return a.SaveMarkup(ctx, s.Content())
}

// SaveMarkup stores markup directly.
func (a *AutoSaver) SaveMarkup(ctx context.Context, markup string) (bool, error) {
	if a.store == nil {
		return false, nil
	}
	return a.store.Save(ctx, a.key, markup)
}

// Forget deletes the saved content.
func (a *AutoSaver) Forget(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	return a.store.Delete(ctx, a.key)
}

// Attach saves on every change of ed. Failures are logged, not returned.
func (a *AutoSaver) Attach(ed *Editor) {
	ed.OnChange(func(markup string) {
		ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
		defer cancel()
		wrote, err := a.SaveMarkup(ctx, markup)
		if err != nil {
			a.logger.Error("autosave failed", "key", a.key, "error", err)
			return
		}
		if wrote {
			a.logger.Debug("autosaved", "key", a.key, "bytes", len(markup))
		}
	})
}
