// Package session owns the authenticated-user state of the client:
// login, registration, logout and restoring a persisted session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atarasov/contactbook/internal/client/api"
	"github.com/atarasov/contactbook/internal/client/ux"
	"github.com/atarasov/contactbook/internal/models"
)

// credentialTTL is the retention hint passed to the credential store,
// matching the server-side token lifetime.
const credentialTTL = 7 * 24 * time.Hour

// State is the session lifecycle state.
type State int

const (
	// Unauthenticated means no valid credential is held.
	Unauthenticated State = iota
	// Authenticating means a login or restore round trip is in flight.
	Authenticating
	// Authenticated means the credential was validated and a user is set.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// CredentialStore persists the bearer credential across restarts.
type CredentialStore interface {
	Save(token string, ttl time.Duration) error
	Load() (token string, ok bool)
	Clear() error
}

// AuthAPI is the slice of the remote service the session manager needs.
type AuthAPI interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

// Manager holds the session state machine. A user is present if and only if
// the last validation of the credential succeeded.
type Manager struct {
	api    AuthAPI
	creds  CredentialStore
	notify ux.Notifier
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	token    string
	user     *models.User
	subs     []func()
	onLogout []func()
}

// New constructs a Manager. log may be nil.
func New(apiClient AuthAPI, creds CredentialStore, notify ux.Notifier, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{api: apiClient, creds: creds, notify: notify, log: log}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the current credential, if one is held.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// User returns a copy of the authenticated user, if present.
func (m *Manager) User() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// Subscribe registers fn to run after every state change and returns a
// function that removes the subscription.
func (m *Manager) Subscribe(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
	i := len(m.subs) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subs[i] = nil
	}
}

// OnLogout registers fn to run whenever the session is cleared. The contact
// repository hooks its DiscardAll here.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

func (m *Manager) emit() {
	m.mu.Lock()
	subs := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
	m.emit()
}

// Restore re-establishes a persisted session at startup. It returns
// api.ErrNoSession when no credential is stored, and the validation error
// when the stored credential is no longer accepted; both paths leave the
// manager Unauthenticated and emit no notification, so the caller can
// redirect to login silently.
func (m *Manager) Restore(ctx context.Context) error {
	token, ok := m.creds.Load()
	if !ok {
		m.setState(Unauthenticated)
		return api.ErrNoSession
	}

	m.setState(Authenticating)
	user, err := m.api.Me(ctx, token)
	if err != nil {
		m.log.Debug("session restore failed", zap.Error(err))
		_ = m.creds.Clear()
		m.mu.Lock()
		m.state = Unauthenticated
		m.token = ""
		m.user = nil
		m.mu.Unlock()
		m.emit()
		return err
	}

	m.mu.Lock()
	m.state = Authenticated
	m.token = token
	m.user = user
	m.mu.Unlock()
	m.emit()
	m.notify.Notify(ux.LevelSuccess, "Welcome back, "+user.Name)
	return nil
}

// Login authenticates with the remote service and persists the credential.
// Both inputs are required; missing input fails before any network call.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := requireFields(map[string]string{"email": email, "password": password}); err != nil {
		m.notify.Notify(ux.LevelError, err.Error())
		return err
	}

	prev := m.State()
	m.setState(Authenticating)

	token, user, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.setState(prev)
		m.notify.Notify(ux.LevelError, failureMessage(err))
		return err
	}

	if err := m.creds.Save(token, credentialTTL); err != nil {
		// The session still works for this process; only persistence failed.
		m.log.Error("failed to persist credential", zap.Error(err))
	}

	m.mu.Lock()
	m.state = Authenticated
	m.token = token
	m.user = user
	m.mu.Unlock()
	m.emit()
	m.notify.Notify(ux.LevelSuccess, "Logged in "+user.Name)
	return nil
}

// Register provisions an account. It never authenticates: on success the
// caller is told to log in separately.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	if err := requireFields(map[string]string{"name": name, "email": email, "password": password}); err != nil {
		m.notify.Notify(ux.LevelError, err.Error())
		return err
	}

	if err := m.api.Register(ctx, name, email, password); err != nil {
		m.notify.Notify(ux.LevelError, failureMessage(err))
		return err
	}

	m.notify.Notify(ux.LevelSuccess, "User registered successfully! Login to your account.")
	return nil
}

// Logout clears the user, the credential and every dependent collection.
// It needs no network call and always succeeds locally.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.state = Unauthenticated
	m.token = ""
	m.user = nil
	hooks := append([]func(){}, m.onLogout...)
	m.mu.Unlock()

	_ = m.creds.Clear()
	for _, fn := range hooks {
		fn()
	}
	m.emit()
	m.notify.Notify(ux.LevelSuccess, "Logged out.")
}

// requireFields returns a ValidationError naming every empty value.
func requireFields(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"name", "email", "password"} {
		if v, ok := fields[name]; ok && v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &api.ValidationError{Fields: missing}
	}
	return nil
}

// failureMessage maps an operation error to what the user sees. Server
// rejections pass through verbatim; transport failures get a generic line.
func failureMessage(err error) string {
	var rejected *api.RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	var validation *api.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	return "Something went wrong. Please try again later."
}
