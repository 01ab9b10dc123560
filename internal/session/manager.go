package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"umkm-pos/internal/model"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "uninitialized"
}

// AuthEvent names a change reported by the auth provider.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// AuthUser is the identity carried by a session.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is an authenticated credential as seen by a client.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        AuthUser  `json:"user"`
}

// Snapshot is the state exposed to consumers.
type Snapshot struct {
	State       State              `json:"-"`
	User        *AuthUser          `json:"user"`
	Session     *Session           `json:"session"`
	UserProfile *model.UserProfile `json:"userProfile"`
	Loading     bool               `json:"loading"`
}

// Can reports whether the resolved profile grants a privilege. Without a
// profile nothing is granted.
func (s Snapshot) Can(privilege string) bool {
	return s.UserProfile.Can(privilege)
}

// Provider is the remote authentication service.
type Provider interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*Session, error)
	// SignOut ends the session identified by accessToken on the server.
	SignOut(ctx context.Context, accessToken string) error
}

// Manager owns one client's session state. Create it with NewManager and
// call Bootstrap once.
type Manager struct {
	resolver *Resolver
	provider Provider
	store    CredentialStore
	log      zerolog.Logger

	once sync.Once

	mu   sync.Mutex
	seq  uint64
	snap Snapshot
	subs map[chan Snapshot]struct{}
}

func NewManager(resolver *Resolver, provider Provider, store CredentialStore, log zerolog.Logger) *Manager {
	return &Manager{
		resolver: resolver,
		provider: provider,
		store:    store,
		log:      log.With().Str("component", "session_manager").Logger(),
		snap:     Snapshot{State: StateUninitialized},
		subs:     make(map[chan Snapshot]struct{}),
	}
}

// Bootstrap reads the provider's current session and resolves its profile.
// Only the first call has any effect; it returns once the profile is resolved.
func (m *Manager) Bootstrap(ctx context.Context) error {
	var err error
	m.once.Do(func() {
		m.mu.Lock()
		m.snap = Snapshot{State: StateLoading, Loading: true}
		m.publishLocked()
		m.mu.Unlock()

		var sess *Session
		sess, err = m.provider.GetSession(ctx)
		if err != nil {
			m.log.Error().Err(err).Msg("Failed to read initial session")
			sess = nil
		}
		<-m.OnAuthStateChanged(ctx, EventInitialSession, sess)
	})
	return err
}

// OnAuthStateChanged applies a provider event. User and session are updated
// immediately; the profile is resolved in the background and the returned
// channel is closed when that finishes. A later event always wins over the
// resolution of an earlier one.
func (m *Manager) OnAuthStateChanged(ctx context.Context, event AuthEvent, sess *Session) <-chan struct{} {
	done := make(chan struct{})

	m.mu.Lock()
	m.seq++
	seq := m.seq

	if sess == nil {
		m.snap = Snapshot{State: StateAnonymous}
		m.publishLocked()
		m.mu.Unlock()
		m.log.Debug().Str("event", string(event)).Msg("Signed out")
		close(done)
		return done
	}

	user := sess.User
	s := *sess
	m.snap = Snapshot{
		State:   StateLoading,
		User:    &user,
		Session: &s,
		Loading: true,
	}
	m.publishLocked()
	m.mu.Unlock()

	go func() {
		defer close(done)

		profile, err := m.resolver.GetCurrentProfile(ctx, user.ID)
		if err != nil {
			m.log.Warn().Err(err).
				Str("event", string(event)).
				Str("user_id", user.ID.String()).
				Msg("Profile unavailable, continuing without permissions")
			profile = nil
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.seq != seq {
			return
		}
		m.snap.UserProfile = profile
		m.snap.Loading = false
		m.snap.State = StateAuthenticated
		m.publishLocked()
	}()

	return done
}

// SignOut clears cached profiles and the owned credential keys, resets the
// local state and ends the session on the provider. When the provider call
// fails the provider's current session is resolved again and false is
// returned.
func (m *Manager) SignOut(ctx context.Context) bool {
	m.resolver.Clear()

	m.mu.Lock()
	var token string
	if m.snap.Session != nil {
		token = m.snap.Session.AccessToken
	}
	m.seq++
	m.snap = Snapshot{State: StateAnonymous}
	m.publishLocked()
	m.mu.Unlock()

	if err := m.store.Delete(OwnedKeys...); err != nil {
		m.log.Error().Err(err).Msg("Failed to clear stored credentials")
	}

	if err := m.provider.SignOut(ctx, token); err != nil {
		m.log.Error().Err(err).Msg("Sign out failed")
		sess, gerr := m.provider.GetSession(ctx)
		if gerr != nil {
			m.log.Error().Err(gerr).Msg("Failed to re-read session after sign out")
			return false
		}
		<-m.OnAuthStateChanged(ctx, EventSignedOut, sess)
		return false
	}
	return true
}

// RefetchProfile drops the current user's cached profile and resolves it again.
func (m *Manager) RefetchProfile(ctx context.Context) <-chan struct{} {
	m.mu.Lock()
	sess := m.snap.Session
	m.mu.Unlock()

	if sess == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	m.resolver.Invalidate(sess.User.ID)
	return m.OnAuthStateChanged(ctx, EventUserUpdated, sess)
}

// Current returns the latest snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe returns a channel that always holds the most recent snapshot.
// Intermediate snapshots may be skipped. Call the returned func to stop.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	ch <- m.snap
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[ch]; ok {
			delete(m.subs, ch)
			close(ch)
		}
	}
}

func (m *Manager) publishLocked() {
	for ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- m.snap:
		default:
		}
	}
}
