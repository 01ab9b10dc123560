package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"umkm-pos/internal/model"
)

type fakeSource struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*model.User
	companies map[uuid.UUID]*model.Company
	gates     map[uuid.UUID]chan struct{}
	failUser  error
	calls     atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		users:     make(map[uuid.UUID]*model.User),
		companies: make(map[uuid.UUID]*model.Company),
		gates:     make(map[uuid.UUID]chan struct{}),
	}
}

func (f *fakeSource) addUser(role model.Role, company *model.Company) *model.User {
	u := &model.User{Email: "kasir@toko.id", Role: role, IsActive: true}
	u.ID = uuid.New()
	if company != nil {
		id := company.ID
		u.CompanyID = &id
		f.companies[company.ID] = company
	}
	f.users[u.ID] = u
	return u
}

// gate makes lookups of id block until the returned func is called.
func (f *fakeSource) gate(id uuid.UUID) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[id] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *fakeSource) FindUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	f.calls.Add(1)
	f.mu.Lock()
	ch := f.gates[id]
	err := f.failUser
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
	if err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (f *fakeSource) FindCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func newCompany() *model.Company {
	c := &model.Company{Name: "Toko Maju", Slug: "toko-maju", IsActive: true}
	c.ID = uuid.New()
	return c
}

func TestResolverComposesProfile(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	company := newCompany()
	u := src.addUser(model.RolePemilik, company)
	r := NewResolver(src, zerolog.Nop())

	p, err := r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(p.ID, qt.Equals, u.ID)
	c.Assert(p.Role, qt.Equals, model.RolePemilik)
	c.Assert(*p.CompanyID, qt.Equals, company.ID)
	c.Assert(p.Company, qt.DeepEquals, &model.CompanyRef{ID: company.ID, Name: "Toko Maju", Slug: "toko-maju"})

	_, err = r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(src.calls.Load(), qt.Equals, int32(1))
}

func TestResolverUserWithoutCompany(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, nil)
	r := NewResolver(src, zerolog.Nop())

	p, err := r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(p.Company, qt.IsNil)
	c.Assert(p.HasCompany(), qt.IsFalse)
}

func TestResolverConcurrentLookupsShareFetch(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleAdmin, newCompany())
	release := src.gate(u.ID)
	r := NewResolver(src, zerolog.Nop())

	const n = 8
	var wg sync.WaitGroup
	results := make([]*model.UserProfile, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.GetCurrentProfile(context.Background(), u.ID)
			if err == nil {
				results[i] = p
			}
		}(i)
	}

	// Let every goroutine reach the shared fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	c.Assert(src.calls.Load(), qt.Equals, int32(1))
	c.Assert(r.Len(), qt.Equals, 1)
	for _, p := range results {
		c.Assert(p, qt.IsNotNil)
		c.Assert(p.ID, qt.Equals, u.ID)
	}
}

func TestResolverErrorsAreNotCached(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	src.failUser = errors.New("connection refused")
	r := NewResolver(src, zerolog.Nop())

	_, err := r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.ErrorMatches, ".*connection refused")
	c.Assert(r.Len(), qt.Equals, 0)

	src.mu.Lock()
	src.failUser = nil
	src.mu.Unlock()
	p, err := r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(p.ID, qt.Equals, u.ID)
}

func TestResolverClearDuringFetch(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	release := src.gate(u.ID)
	r := NewResolver(src, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.GetCurrentProfile(context.Background(), u.ID)
	}()
	time.Sleep(20 * time.Millisecond)
	r.Clear()
	release()
	<-done

	c.Assert(r.Len(), qt.Equals, 0)
}

func TestResolverInvalidateOtherUserKeepsSingleFetch(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	release := src.gate(u.ID)
	r := NewResolver(src, zerolog.Nop())

	var wg sync.WaitGroup
	lookup := func() {
		defer wg.Done()
		_, _ = r.GetCurrentProfile(context.Background(), u.ID)
	}
	wg.Add(1)
	go lookup()
	time.Sleep(20 * time.Millisecond)

	r.Invalidate(uuid.New())
	wg.Add(1)
	go lookup()
	time.Sleep(20 * time.Millisecond)

	release()
	wg.Wait()

	c.Assert(src.calls.Load(), qt.Equals, int32(1))
	c.Assert(r.Len(), qt.Equals, 1)
}

func TestResolverInvalidateDuringFetchSkipsCache(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	release := src.gate(u.ID)
	r := NewResolver(src, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.GetCurrentProfile(context.Background(), u.ID)
	}()
	time.Sleep(20 * time.Millisecond)
	r.Invalidate(u.ID)
	release()
	<-done

	c.Assert(r.Len(), qt.Equals, 0)
}

func TestResolverInvalidate(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	r := NewResolver(src, zerolog.Nop())

	_, err := r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.IsNil)

	src.users[u.ID].Role = model.RoleManajer
	r.Invalidate(u.ID)
	p, err := r.GetCurrentProfile(context.Background(), u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(p.Role, qt.Equals, model.RoleManajer)
	c.Assert(src.calls.Load(), qt.Equals, int32(2))
}

// fakeProvider reports whatever session the credential store holds.
type fakeProvider struct {
	store      CredentialStore
	signOutErr error
	signedOut  []string
}

func (p *fakeProvider) GetSession(ctx context.Context) (*Session, error) {
	token, ok := p.store.Get(KeyAccessToken)
	if !ok {
		return nil, nil
	}
	id, _ := p.store.Get(KeyUserID)
	email, _ := p.store.Get(KeyUserEmail)
	return &Session{AccessToken: token, User: AuthUser{ID: uuid.MustParse(id), Email: email}}, nil
}

func (p *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	p.signedOut = append(p.signedOut, accessToken)
	return p.signOutErr
}

func storeSession(store CredentialStore, u *model.User) {
	_ = store.Set(map[string]string{
		KeyAccessToken: "token-" + u.ID.String(),
		KeyExpiresAt:   time.Now().Add(time.Hour).Format(time.RFC3339),
		KeyUserID:      u.ID.String(),
		KeyUserEmail:   u.Email,
	})
}

func sessionFor(u *model.User) *Session {
	return &Session{AccessToken: "token-" + u.ID.String(), User: AuthUser{ID: u.ID, Email: u.Email}}
}

func TestManagerBootstrap(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	store := NewMemoryStore()
	storeSession(store, u)
	m := NewManager(NewResolver(src, zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())

	c.Assert(m.Current().State, qt.Equals, StateUninitialized)
	c.Assert(m.Bootstrap(context.Background()), qt.IsNil)

	snap := m.Current()
	c.Assert(snap.State, qt.Equals, StateAuthenticated)
	c.Assert(snap.Loading, qt.IsFalse)
	c.Assert(snap.User.ID, qt.Equals, u.ID)
	c.Assert(snap.UserProfile.ID, qt.Equals, u.ID)
	c.Assert(snap.Can(model.PrivTransactionCreate), qt.IsTrue)
	c.Assert(snap.Can(model.PrivUserDelete), qt.IsFalse)

	// Only the first call does anything.
	_ = store.Delete(OwnedKeys...)
	c.Assert(m.Bootstrap(context.Background()), qt.IsNil)
	c.Assert(m.Current().State, qt.Equals, StateAuthenticated)
}

func TestManagerBootstrapAnonymous(t *testing.T) {
	c := qt.New(t)

	store := NewMemoryStore()
	m := NewManager(NewResolver(newFakeSource(), zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())
	c.Assert(m.Bootstrap(context.Background()), qt.IsNil)

	snap := m.Current()
	c.Assert(snap.State, qt.Equals, StateAnonymous)
	c.Assert(snap.User, qt.IsNil)
	c.Assert(snap.UserProfile, qt.IsNil)
}

func TestManagerLoadingUntilResolved(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	release := src.gate(u.ID)
	store := NewMemoryStore()
	m := NewManager(NewResolver(src, zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())

	done := m.OnAuthStateChanged(context.Background(), EventSignedIn, sessionFor(u))
	snap := m.Current()
	c.Assert(snap.Loading, qt.IsTrue)
	c.Assert(snap.User.ID, qt.Equals, u.ID)
	c.Assert(snap.UserProfile, qt.IsNil)

	release()
	<-done
	c.Assert(m.Current().Loading, qt.IsFalse)
	c.Assert(m.Current().UserProfile, qt.IsNotNil)
}

func TestManagerLastEventWins(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	company := newCompany()
	slow := src.addUser(model.RoleAdmin, company)
	fast := src.addUser(model.RoleUser, company)
	release := src.gate(slow.ID)
	store := NewMemoryStore()
	m := NewManager(NewResolver(src, zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())

	first := m.OnAuthStateChanged(context.Background(), EventSignedIn, sessionFor(slow))
	second := m.OnAuthStateChanged(context.Background(), EventSignedIn, sessionFor(fast))
	<-second
	release()
	<-first

	snap := m.Current()
	c.Assert(snap.User.ID, qt.Equals, fast.ID)
	c.Assert(snap.UserProfile.ID, qt.Equals, fast.ID)
	c.Assert(snap.UserProfile.Role, qt.Equals, model.RoleUser)
}

func TestManagerProfileFailureFailsClosed(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RolePemilik, newCompany())
	src.failUser = errors.New("timeout")
	store := NewMemoryStore()
	m := NewManager(NewResolver(src, zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())

	<-m.OnAuthStateChanged(context.Background(), EventSignedIn, sessionFor(u))
	snap := m.Current()
	c.Assert(snap.State, qt.Equals, StateAuthenticated)
	c.Assert(snap.UserProfile, qt.IsNil)
	c.Assert(snap.Can(model.PrivProductView), qt.IsFalse)
}

func TestManagerSignOut(t *testing.T) {
	tests := []struct {
		name       string
		signOutErr error
		want       bool
	}{
		{name: "success", want: true},
		{name: "provider failure", signOutErr: errors.New("network down"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			src := newFakeSource()
			u := src.addUser(model.RoleUser, newCompany())
			store := NewMemoryStore()
			storeSession(store, u)
			_ = store.Set(map[string]string{"printer": "thermal-58"})
			provider := &fakeProvider{store: store, signOutErr: tt.signOutErr}
			resolver := NewResolver(src, zerolog.Nop())
			m := NewManager(resolver, provider, store, zerolog.Nop())
			c.Assert(m.Bootstrap(context.Background()), qt.IsNil)
			c.Assert(resolver.Len(), qt.Equals, 1)

			c.Assert(m.SignOut(context.Background()), qt.Equals, tt.want)

			snap := m.Current()
			c.Assert(snap.User, qt.IsNil)
			c.Assert(snap.UserProfile, qt.IsNil)
			c.Assert(snap.State, qt.Equals, StateAnonymous)
			c.Assert(resolver.Len(), qt.Equals, 0)
			c.Assert(provider.signedOut, qt.DeepEquals, []string{"token-" + u.ID.String()})
			for _, k := range OwnedKeys {
				_, ok := store.Get(k)
				c.Assert(ok, qt.IsFalse, qt.Commentf("key %s", k))
			}
			v, ok := store.Get("printer")
			c.Assert(ok, qt.IsTrue)
			c.Assert(v, qt.Equals, "thermal-58")
		})
	}
}

func TestManagerRefetchProfile(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	store := NewMemoryStore()
	storeSession(store, u)
	m := NewManager(NewResolver(src, zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())
	c.Assert(m.Bootstrap(context.Background()), qt.IsNil)

	src.users[u.ID].Role = model.RoleManajer
	<-m.RefetchProfile(context.Background())
	c.Assert(m.Current().UserProfile.Role, qt.Equals, model.RoleManajer)
}

func TestManagerSubscribe(t *testing.T) {
	c := qt.New(t)

	src := newFakeSource()
	u := src.addUser(model.RoleUser, newCompany())
	store := NewMemoryStore()
	m := NewManager(NewResolver(src, zerolog.Nop()), &fakeProvider{store: store}, store, zerolog.Nop())

	ch, stop := m.Subscribe()
	defer stop()
	c.Assert((<-ch).State, qt.Equals, StateUninitialized)

	<-m.OnAuthStateChanged(context.Background(), EventSignedIn, sessionFor(u))
	latest := <-ch
	c.Assert(latest.State, qt.Equals, StateAuthenticated)
	c.Assert(latest.UserProfile.ID, qt.Equals, u.ID)
}
