package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"chronoplan/internal/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProfiles struct {
	mu        sync.Mutex
	upserts   []models.Profile
	stored    map[string]*models.Profile
	fetchGate chan struct{} // when set, GetProfile blocks until closed
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{stored: map[string]*models.Profile{}}
}

func (m *mockProfiles) UpsertProfile(_ context.Context, p models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, p)
	if _, ok := m.stored[p.ID]; !ok {
		stored := p
		m.stored[p.ID] = &stored
	}
	return nil
}

func (m *mockProfiles) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	if m.fetchGate != nil {
		<-m.fetchGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored[id], nil
}

func TestStart_Authenticated(t *testing.T) {
	auth := NewStaticProvider(User{ID: "user-1", Email: "a@b.c", Name: "Ada"})
	profiles := newMockProfiles()
	c := New(auth, profiles)
	defer c.Close()

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateAuthenticated, c.State())
	assert.Equal(t, "user-1", c.UserID())

	require.Eventually(t, func() bool {
		return c.Profile() != nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Ada", c.Profile().Name)
}

func TestStart_NoSession(t *testing.T) {
	c := New(NewStaticProvider(User{}), newMockProfiles())
	defer c.Close()

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateUnauthenticated, c.State())
	assert.Empty(t, c.UserID())
	assert.Nil(t, c.Profile())
}

func TestIdentityDoesNotWaitOnProfile(t *testing.T) {
	auth := NewStaticProvider(User{ID: "user-1", Name: "Ada"})
	profiles := newMockProfiles()
	profiles.fetchGate = make(chan struct{})
	c := New(auth, profiles)
	defer c.Close()

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StateAuthenticated, c.State(), "identity must resolve while the profile fetch hangs")
	assert.Nil(t, c.Profile())

	close(profiles.fetchGate)
	require.Eventually(t, func() bool { return c.Profile() != nil }, time.Second, 10*time.Millisecond)
}

func TestAuthChange_DrivesTransitions(t *testing.T) {
	auth := NewStaticProvider(User{})
	c := New(auth, newMockProfiles())
	defer c.Close()

	var mu sync.Mutex
	var seen []State
	c.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	require.NoError(t, c.Start(context.Background()))

	auth.SetUser(&User{ID: "user-1", Name: "Ada"})
	assert.Equal(t, StateAuthenticated, c.State())

	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, StateUnauthenticated, c.State())
	assert.Empty(t, c.UserID())
	assert.Nil(t, c.Profile())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, StateAuthenticated)
	assert.Equal(t, StateUnauthenticated, seen[len(seen)-1])
}

func TestProfileUpsertFromMetadata(t *testing.T) {
	auth := NewStaticProvider(User{ID: "user-1", Email: "ada@example.com"})
	profiles := newMockProfiles()
	c := New(auth, profiles)
	defer c.Close()

	require.NoError(t, c.Start(context.Background()))
	require.Eventually(t, func() bool {
		profiles.mu.Lock()
		defer profiles.mu.Unlock()
		return len(profiles.upserts) > 0
	}, time.Second, 10*time.Millisecond)

	profiles.mu.Lock()
	defer profiles.mu.Unlock()
	// No display name in metadata: the email stands in.
	assert.Equal(t, "ada@example.com", profiles.upserts[0].Name)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	auth := NewStaticProvider(User{})
	c := New(auth, newMockProfiles())
	defer c.Close()
	require.NoError(t, c.Start(context.Background()))

	calls := 0
	unsub := c.Subscribe(func(State) { calls++ })

	auth.SetUser(&User{ID: "u"})
	assert.Equal(t, 1, calls)

	unsub()
	unsub() // second call is a no-op
	auth.SetUser(nil)
	assert.Equal(t, 1, calls)
}

func TestClose_Idempotent(t *testing.T) {
	auth := NewStaticProvider(User{ID: "u"})
	c := New(auth, newMockProfiles())
	require.NoError(t, c.Start(context.Background()))

	c.Close()
	c.Close()

	// After teardown, provider changes no longer reach the context.
	auth.SetUser(nil)
	assert.Equal(t, StateAuthenticated, c.State())
}
