package prefs

import (
	"context"
	"errors"

	"github.com/lastlock/lockmap-core/internal/audit"
	"github.com/lastlock/lockmap-core/internal/infrastructure/logging"
)

// Service coordinates preference storage, the hours wizard and the
// audit trail. Identity is the authenticated user making the change.
type Service struct {
	repo   Repository
	wizard *HoursWizard
	audit  audit.Repository
	logger *logging.Logger
}

// NewService wires a preference service.
func NewService(repo Repository, auditRepo audit.Repository, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		wizard: NewHoursWizard(repo),
		audit:  auditRepo,
		logger: logger,
	}
}

// Get returns the stored record for slug, or nil when none exists.
func (s *Service) Get(ctx context.Context, slug string) (*Record, error) {
	rec, err := s.repo.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// List returns all stored records.
func (s *Service) List(ctx context.Context) ([]*Record, error) {
	return s.repo.List(ctx)
}

// Hours returns the display string for a room's saved hours.
func (s *Service) Hours(ctx context.Context, slug string) (string, error) {
	rec, err := s.repo.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return NotSpecified, nil
	}
	if err != nil {
		return "", err
	}
	return rec.HoursString(), nil
}

// PickHour feeds one side of an hours selection into the wizard. When
// the second side completes the pair, the record is saved and audited.
func (s *Service) PickHour(ctx context.Context, identity, slug string, side Side, value string) (*Record, bool, error) {
	rec, done, err := s.wizard.Pick(ctx, slug, side, value)
	if err != nil || !done {
		return nil, done, err
	}

	s.logger.Info("operating hours saved",
		"slug", slug, "opening", rec.OpeningTime, "closing", rec.ClosingTime, "identity", identity)

	if err := s.audit.Create(ctx, &audit.AuditLog{
		Action:   "hours_set",
		Entity:   slug,
		Identity: identity,
		Details: map[string]any{
			"opening_time": rec.OpeningTime,
			"closing_time": rec.ClosingTime,
		},
	}); err != nil {
		s.logger.Warn("audit write failed", "action", "hours_set", "error", err)
	}
	return rec, true, nil
}

// CancelHours discards a half-complete hours selection.
func (s *Service) CancelHours(slug string) {
	s.wizard.Cancel(slug)
}

// SetNotifyMode updates the notification mode for a room immediately,
// creating the record if it does not exist yet.
func (s *Service) SetNotifyMode(ctx context.Context, identity, slug string, mode NotifyMode) (*Record, error) {
	if !mode.Valid() {
		return nil, errors.New("prefs: invalid notify mode")
	}

	rec, err := s.repo.Get(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		rec = &Record{Slug: slug, SchemaVersion: SchemaVersion}
	} else if err != nil {
		return nil, err
	}

	rec.NotifyMode = mode
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("notify mode saved", "slug", slug, "mode", string(mode), "identity", identity)

	if err := s.audit.Create(ctx, &audit.AuditLog{
		Action:   "notify_set",
		Entity:   slug,
		Identity: identity,
		Details:  map[string]any{"notify_mode": string(mode)},
	}); err != nil {
		s.logger.Warn("audit write failed", "action", "notify_set", "error", err)
	}
	return rec, nil
}
