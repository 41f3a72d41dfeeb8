package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/storage"
)

// Store holds at most one authenticated identity and persists it under a
// single key. Load, Login, Logout and UpdateUser are the only operations that
// touch persistence; they are serialized by mu.
type Store struct {
	kv       storage.KV
	key      string
	logger   *zap.Logger
	recorder Recorder

	mu      sync.RWMutex
	current *models.Identity
}

// NewStore returns an unauthenticated store bound to key. Call Load to rehydrate.
func NewStore(kv storage.KV, key string, logger *zap.Logger, recorder Recorder) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Store{kv: kv, key: key, logger: logger, recorder: recorder}
}

// Key returns the storage key the record lives under.
func (s *Store) Key() string {
	return s.key
}

// Load rehydrates the persisted identity. A record that cannot be decoded is
// deleted and the store stays unauthenticated; only storage failures are returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	identity, err := decode(data)
	if err != nil {
		s.logger.Warn("discarding corrupted session record", zap.String("key", s.key), zap.Error(err))
		s.recorder.RestoreDiscarded()
		if delErr := s.kv.Delete(ctx, s.key); delErr != nil {
			return fmt.Errorf("discard session: %w", delErr)
		}
		return nil
	}
	identity.Permissions = auth.PermissionsFor(identity.Role)
	s.current = &identity
	return nil
}

// Login replaces the current identity. Default metadata is merged under the
// caller's metadata and permissions are derived from the role.
func (s *Store) Login(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if !identity.Role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: %q", models.ErrUnknownRole, identity.Role)
	}
	next := identity.Clone()
	md := models.DefaultMetadata().Merge(identity.Metadata)
	next.Metadata = &md
	next.Permissions = auth.PermissionsFor(next.Role)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, next); err != nil {
		return models.Identity{}, err
	}
	s.current = &next
	s.recorder.LoggedIn(next.Role)
	s.logger.Info("session login", zap.String("key", s.key), zap.String("user_id", next.ID), zap.String("role", string(next.Role)))
	return next.Clone(), nil
}

// Logout clears the in-memory and persisted identity.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	wasAuthenticated := s.current != nil
	s.current = nil
	if wasAuthenticated {
		s.recorder.LoggedOut()
		s.logger.Info("session logout", zap.String("key", s.key))
	}
	return nil
}

// UpdateUser shallow-merges patch into the current identity and re-persists it.
// Without a current identity nothing happens and ok is false.
func (s *Store) UpdateUser(ctx context.Context, patch models.IdentityPatch) (updated models.Identity, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Identity{}, false, nil
	}
	next := s.current.Clone()

	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Phone != nil {
		next.Phone = *patch.Phone
	}
	if patch.Avatar != nil {
		next.Avatar = models.String(*patch.Avatar)
	}
	if patch.Verified != nil {
		next.Verified = *patch.Verified
	}
	if patch.Metadata != nil {
		md := *patch.Metadata
		next.Metadata = &md
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return models.Identity{}, true, fmt.Errorf("%w: %q", models.ErrUnknownRole, *patch.Role)
		}
		next.Role = *patch.Role
		next.Permissions = auth.PermissionsFor(next.Role)
	}

	if err := s.persist(ctx, next); err != nil {
		return models.Identity{}, true, err
	}
	s.current = &next
	return next.Clone(), true, nil
}

// Current returns a copy of the current identity.
func (s *Store) Current() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Identity{}, false
	}
	return s.current.Clone(), true
}

// IsAuthenticated reports whether an identity is current.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Checker snapshots the current identity for permission checks.
func (s *Store) Checker() auth.Checker {
	identity, ok := s.Current()
	if !ok {
		return auth.Checker{}
	}
	return auth.NewChecker(&identity)
}

func (s *Store) HasPermission(name string) bool {
	return s.Checker().HasPermission(name)
}

func (s *Store) HasRole(roles ...models.Role) bool {
	return s.Checker().HasRole(roles...)
}

func (s *Store) persist(ctx context.Context, identity models.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func decode(data []byte) (models.Identity, error) {
	var identity models.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return models.Identity{}, err
	}
	if identity.ID == "" {
		return models.Identity{}, errors.New("record has no id")
	}
	if !identity.Role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: %q", models.ErrUnknownRole, identity.Role)
	}
	return identity, nil
}
