package userdetails

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	details map[string]UserDetails
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{details: make(map[string]UserDetails)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, userID string, data json.RawMessage) (UserDetails, bool, error) {
	if err := ctx.Err(); err != nil {
		return UserDetails{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	rec, ok := r.details[userID]
	if !ok {
		rec = UserDetails{UserID: userID, CreatedAt: now}
	}
	rec.ResumeData = cloneData(data)
	rec.UpdatedAt = now
	r.details[userID] = rec
	out := rec
	out.ResumeData = cloneData(rec.ResumeData)
	return out, !ok, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (UserDetails, error) {
	if err := ctx.Err(); err != nil {
		return UserDetails{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.details[userID]
	if !ok {
		return UserDetails{}, ErrNotFound
	}
	rec.ResumeData = cloneData(rec.ResumeData)
	return rec, nil
}
