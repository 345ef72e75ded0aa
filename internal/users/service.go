package users

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"resume-builder-backend/internal/shared/metrics"
	"resume-builder-backend/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
	// OpTimeout bounds each store call; zero leaves the caller's deadline alone.
	OpTimeout time.Duration
}

func NewService(repo Repo, opTimeout time.Duration) *Service {
	return &Service{Repo: repo, OpTimeout: opTimeout}
}

// Upsert creates the user or overwrites filledForm (and profileImage when
// supplied) on the existing one. The bool reports whether it was created.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (User, bool, error) {
	if s == nil || s.Repo == nil {
		return User{}, false, errors.New("users service not configured")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return User{}, false, errors.Wrap(ErrValidation, "userId is required")
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	user, created, err := s.Repo.Upsert(ctx, in)
	observe("upsert", start, err)
	if err != nil {
		return User{}, false, storeError(err, "upsert user")
	}
	metrics.ObserveUpsert("users", created)
	telemetry.Info("user.upsert", map[string]any{
		"user_id":     user.UserID,
		"created":     created,
		"filled_form": user.FilledForm,
	})
	return user, created, nil
}

// FetchByID looks the id up as given; an id no user has is ErrNotFound.
func (s *Service) FetchByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	user, err := s.Repo.GetByID(ctx, userID)
	observe("get", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, storeError(err, "get user")
	}
	return user, nil
}

// List returns every user ordered by creation time.
func (s *Service) List(ctx context.Context) ([]User, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("users service not configured")
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := s.Repo.List(ctx)
	observe("list", start, err)
	if err != nil {
		return nil, storeError(err, "list users")
	}
	return out, nil
}

// FilledForm reports the user's form flag. A missing user has not filled it.
func (s *Service) FilledForm(ctx context.Context, userID string) (bool, error) {
	user, err := s.FetchByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.FilledForm, nil
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
		metrics.IncStoreError("users", op)
	}
}
