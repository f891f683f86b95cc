package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/authuser/accounts/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub stores
// ---------------------------------------------------------------------------

type stubUserStore struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	seq       int64
	createErr error
	findErr   error
	roleErr   error
	// beforeCreate runs without the lock held, widening race windows in tests.
	beforeCreate func()
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

// Create behaves like a transactional store: a failing role step leaves
// neither the user nor a consumed ordinal behind.
func (r *stubUserStore) Create(_ context.Context, user *domain.User, assign domain.RoleAssigner) (int64, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	if _, exists := r.byEmail[user.NormalizedEmail]; exists {
		return 0, domain.IdentityErrors{domain.DuplicateEmailError(user.Email)}
	}
	ordinal := r.seq + 1
	role := assign(ordinal)
	if r.roleErr != nil {
		return 0, r.roleErr
	}
	stored := cloneUser(user)
	stored.Roles = []string{role}
	r.seq = ordinal
	r.byEmail[user.NormalizedEmail] = stored
	return ordinal, nil
}

func (r *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserStore) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byEmail)), nil
}

func (r *stubUserStore) rolesOf(email string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[domain.NormalizeEmail(email)]; ok {
		return append([]string(nil), u.Roles...)
	}
	return nil
}

type stubRoleStore struct {
	roles      map[string]bool
	existsErrs []error // consumed one per Exists call
	createErr  error
	created    []string
}

func newStubRoleStore() *stubRoleStore {
	return &stubRoleStore{roles: make(map[string]bool)}
}

func (r *stubRoleStore) Exists(_ context.Context, name string) (bool, error) {
	if len(r.existsErrs) > 0 {
		err := r.existsErrs[0]
		r.existsErrs = r.existsErrs[1:]
		if err != nil {
			return false, err
		}
	}
	return r.roles[name], nil
}

func (r *stubRoleStore) Create(_ context.Context, name string) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.roles[name] {
		return domain.ErrRoleExists
	}
	r.roles[name] = true
	r.created = append(r.created, name)
	return nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttls     map[string]time.Duration
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]*domain.Session),
		ttls:     make(map[string]time.Duration),
	}
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *sess
	s.sessions[sess.ID] = &clone
	s.ttls[sess.ID] = ttl
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.AccountEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AccountEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

var errStoreDown = errors.New("store unavailable")
