package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// pendingPick holds the first half of an hours selection.
type pendingPick struct {
	side  Side
	value string
}

// HoursWizard collects opening and closing times across two picks.
// The first pick for a room is held in memory; nothing is written until
// the other side arrives, at which point both values are persisted in a
// single save. Re-picking the same side replaces the pending value.
type HoursWizard struct {
	repo Repository

	mu      sync.Mutex
	pending map[string]pendingPick
}

// NewHoursWizard creates a wizard over repo.
func NewHoursWizard(repo Repository) *HoursWizard {
	return &HoursWizard{
		repo:    repo,
		pending: make(map[string]pendingPick),
	}
}

// Pick records a time for one side of a room's hours. It returns the
// saved record and done=true once both sides have been picked, or
// (nil, false) while the selection is still half complete.
func (w *HoursWizard) Pick(ctx context.Context, slug string, side Side, value string) (*Record, bool, error) {
	if slug == "" {
		return nil, false, fmt.Errorf("prefs: slug is required")
	}
	if !side.Valid() {
		return nil, false, fmt.Errorf("prefs: invalid side %q", side)
	}
	if value == "" {
		return nil, false, fmt.Errorf("prefs: time value is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	prior, ok := w.pending[slug]
	if !ok || prior.side == side {
		w.pending[slug] = pendingPick{side: side, value: value}
		return nil, false, nil
	}

	rec, err := w.repo.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		rec = &Record{Slug: slug, NotifyMode: NotifyOff, SchemaVersion: SchemaVersion}
	} else if err != nil {
		return nil, false, err
	}

	rec.setSide(side, value)
	rec.setSide(prior.side, prior.value)

	if err := w.repo.Save(ctx, rec); err != nil {
		return nil, false, err
	}
	delete(w.pending, slug)
	return rec, true, nil
}

// Cancel discards any half-complete selection for slug.
func (w *HoursWizard) Cancel(slug string) {
	w.mu.Lock()
	delete(w.pending, slug)
	w.mu.Unlock()
}

// Pending reports whether a half-complete selection exists for slug,
// and which side was picked.
func (w *HoursWizard) Pending(slug string) (Side, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.pending[slug]
	return p.side, ok
}

func (r *Record) setSide(side Side, value string) {
	if side == SideOpening {
		r.OpeningTime = value
	} else {
		r.ClosingTime = value
	}
}
