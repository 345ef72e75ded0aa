package userdetails

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"resume-builder-backend/internal/shared/metrics"
	"resume-builder-backend/internal/shared/telemetry"
)

// FormStatus reports whether a user has completed the onboarding form. The
// users service satisfies it.
type FormStatus interface {
	FilledForm(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	Repo      Repo
	Forms     FormStatus
	OpTimeout time.Duration
}

func NewService(repo Repo, forms FormStatus, opTimeout time.Duration) *Service {
	return &Service{Repo: repo, Forms: forms, OpTimeout: opTimeout}
}

// Upsert stores data as the user's complete resume, replacing any previous
// one. The document is stored as sent; missing data is stored as null.
func (s *Service) Upsert(ctx context.Context, userID string, data json.RawMessage) (UserDetails, bool, error) {
	if s == nil || s.Repo == nil {
		return UserDetails{}, false, errors.New("user details service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return UserDetails{}, false, errors.Wrap(ErrValidation, "userId is required")
	}
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	rec, created, err := s.Repo.Upsert(opCtx, userID, cloneData(data))
	observe("upsert", start, err)
	if err != nil {
		return UserDetails{}, false, storeError(err, "upsert user details")
	}
	metrics.ObserveUpsert("userdetails", created)
	telemetry.Info("userdetails.upsert", map[string]any{
		"user_id": userID,
		"created": created,
	})
	return s.decorate(ctx, rec), created, nil
}

func (s *Service) FetchByID(ctx context.Context, userID string) (UserDetails, error) {
	if s == nil || s.Repo == nil {
		return UserDetails{}, errors.New("user details service not configured")
	}
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	rec, err := s.Repo.GetByID(opCtx, userID)
	observe("get", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return UserDetails{}, ErrNotFound
		}
		return UserDetails{}, storeError(err, "get user details")
	}
	return s.decorate(ctx, rec), nil
}

// decorate fills the derived FilledForm flag. A failing lookup leaves the
// flag false rather than failing the request.
func (s *Service) decorate(ctx context.Context, rec UserDetails) UserDetails {
	if s.Forms == nil {
		return rec
	}
	filled, err := s.Forms.FilledForm(ctx, rec.UserID)
	if err != nil {
		telemetry.Warn("userdetails.filled_form.lookup_failed", map[string]any{
			"user_id": rec.UserID,
			"error":   err,
		})
		return rec
	}
	rec.FilledForm = filled
	return rec
}

func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.OpTimeout)
}

func observe(op string, start time.Time, err error) {
	metrics.ObserveStoreDuration(time.Since(start))
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.IncStoreError("userdetails", op)
	}
}
