package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"net/http"
	"sync"
	"time"

	domainauth "github.com/seclens/dashgate/internal/domain/auth"
	"github.com/seclens/dashgate/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthInfoClient = (*MockAuthInfoClient)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.SAMLBroker     = (*MockSAMLBroker)(nil)
	_ ports.IdentityCache  = (*MemoryIdentityCache)(nil)
)

// MockAuthInfoClient simulates the authorization backend with a fixed
// identity or a per-call function.
type MockAuthInfoClient struct {
	AuthInfoFunc func(ctx context.Context, headers http.Header) (domainauth.Identity, error)

	// Identity and Err are returned when AuthInfoFunc is nil.
	Identity domainauth.Identity
	Err      error

	// Calls counts AuthInfo invocations.
	Calls int
}

func (m *MockAuthInfoClient) AuthInfo(ctx context.Context, headers http.Header) (domainauth.Identity, error) {
	m.Calls++
	if m.AuthInfoFunc != nil {
		return m.AuthInfoFunc(ctx, headers)
	}
	return m.Identity, m.Err
}

// MemorySessionStore keeps one session in memory, standing in for the cookie
// store. Read serves the stored session regardless of the request, which is
// what handler tests want.
type MemorySessionStore struct {
	mu      sync.Mutex
	sess    domainauth.Session
	present bool

	// Cleared counts Clear invocations.
	Cleared int
	// WriteErr, when set, is returned from Write.
	WriteErr error
}

// Seed stores a session as if a strategy had written it.
func (m *MemorySessionStore) Seed(sess domainauth.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = sess
	m.present = true
}

func (m *MemorySessionStore) Read(_ *http.Request) (domainauth.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present || m.sess.IsExpired(time.Now()) {
		return domainauth.Session{}, false
	}
	return m.sess, true
}

func (m *MemorySessionStore) IsAuthenticated(r *http.Request) bool {
	sess, ok := m.Read(r)
	return ok && sess.Username != ""
}

func (m *MemorySessionStore) Write(_ http.ResponseWriter, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.sess = sess
	m.present = true
	return nil
}

func (m *MemorySessionStore) Clear(_ http.ResponseWriter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.present = false
	m.sess = domainauth.Session{}
	m.Cleared++
}

// MockSAMLBroker simulates the backend's SAML brokerage surface.
type MockSAMLBroker struct {
	AuthRequestFunc func(ctx context.Context) (location, requestID string, err error)
	AuthTokenFunc   func(ctx context.Context, requestID, samlResponse string) (string, error)

	Location  string
	RequestID string
	Token     string
	Err       error
}

func (m *MockSAMLBroker) SAMLAuthRequest(ctx context.Context) (string, string, error) {
	if m.AuthRequestFunc != nil {
		return m.AuthRequestFunc(ctx)
	}
	return m.Location, m.RequestID, m.Err
}

func (m *MockSAMLBroker) SAMLAuthToken(ctx context.Context, requestID, samlResponse string) (string, error) {
	if m.AuthTokenFunc != nil {
		return m.AuthTokenFunc(ctx, requestID, samlResponse)
	}
	return m.Token, m.Err
}

// MemoryIdentityCache is an in-memory ports.IdentityCache without TTL
// eviction; tests assert on stored values directly.
type MemoryIdentityCache struct {
	mu      sync.Mutex
	entries map[string]domainauth.Identity

	// SetErr and GetErr, when set, are returned from the respective calls.
	SetErr error
	GetErr error
}

func (m *MemoryIdentityCache) Get(_ context.Context, key string) (domainauth.Identity, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domainauth.Identity{}, false, m.GetErr
	}
	id, ok := m.entries[key]
	return id, ok, nil
}

func (m *MemoryIdentityCache) Set(_ context.Context, key string, id domainauth.Identity, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.entries == nil {
		m.entries = make(map[string]domainauth.Identity)
	}
	m.entries[key] = id
	return nil
}

// Stored returns the cached identity for key, for assertions.
func (m *MemoryIdentityCache) Stored(key string) (domainauth.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.entries[key]
	return id, ok
}
