// Package session resolves authenticated sessions into user profiles.
//
// Resolver is the shared profile cache used both by the API middleware and by
// the posctl client. Manager tracks one client's session state on top of it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"umkm-pos/internal/model"
)

// ProfileSource looks up the rows a profile is composed from.
type ProfileSource interface {
	FindUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindCompany(ctx context.Context, id uuid.UUID) (*model.Company, error)
}

// Resolver caches one profile per user id. Concurrent lookups of the same id
// share a single fetch.
type Resolver struct {
	source ProfileSource
	log    zerolog.Logger

	mu    sync.RWMutex
	cache map[uuid.UUID]*model.UserProfile
	// A fetch stores its result only if neither the epoch (bumped by Clear)
	// nor its id's entry in gens (set by Invalidate) moved while it ran.
	epoch uint64
	seq   uint64
	gens  map[uuid.UUID]uint64
	group singleflight.Group
}

type stamp struct {
	epoch, gen uint64
}

func NewResolver(source ProfileSource, log zerolog.Logger) *Resolver {
	return &Resolver{
		source: source,
		log:    log.With().Str("component", "profile_resolver").Logger(),
		cache:  make(map[uuid.UUID]*model.UserProfile),
		gens:   make(map[uuid.UUID]uint64),
	}
}

// GetCurrentProfile returns the profile of userID, fetching it on a cache miss.
// The returned value is a copy and may be modified by the caller.
func (r *Resolver) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	r.mu.RLock()
	p, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok {
		return clone(p), nil
	}

	// One fetch per id is in flight at a time. The shared fetch must outlive
	// any single caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(userID.String(), func() (interface{}, error) {
		return r.fetch(fetchCtx, userID, r.stampOf(userID))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.(*model.UserProfile)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) stampOf(userID uuid.UUID) stamp {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return stamp{epoch: r.epoch, gen: r.gens[userID]}
}

func (r *Resolver) fetch(ctx context.Context, userID uuid.UUID, st stamp) (*model.UserProfile, error) {
	user, err := r.source.FindUser(ctx, userID)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch user profile")
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}

	var company *model.Company
	if user.CompanyID != nil && *user.CompanyID != uuid.Nil {
		company, err = r.source.FindCompany(ctx, *user.CompanyID)
		if err != nil {
			r.log.Error().Err(err).
				Str("user_id", userID.String()).
				Str("company_id", user.CompanyID.String()).
				Msg("Failed to fetch company for profile")
			return nil, fmt.Errorf("fetch company %s: %w", *user.CompanyID, err)
		}
	}

	profile := model.NewUserProfile(user, company)

	r.mu.Lock()
	if r.epoch == st.epoch && r.gens[userID] == st.gen {
		r.cache[userID] = profile
	}
	r.mu.Unlock()

	return profile, nil
}

// Invalidate drops the cached profile of one user.
func (r *Resolver) Invalidate(userID uuid.UUID) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.seq++
	r.gens[userID] = r.seq
	r.mu.Unlock()
}

// Clear drops every cached profile.
func (r *Resolver) Clear() {
	r.mu.Lock()
	r.cache = make(map[uuid.UUID]*model.UserProfile)
	r.gens = make(map[uuid.UUID]uint64)
	r.epoch++
	r.mu.Unlock()
}

// Len is the number of cached profiles.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func clone(p *model.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Company != nil {
		ref := *p.Company
		cp.Company = &ref
	}
	if p.CompanyID != nil {
		id := *p.CompanyID
		cp.CompanyID = &id
	}
	return &cp
}
