package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/storage"
)

// StorageKey is where the identity record is persisted for the default device.
const StorageKey = "ets_user"

// Recorder observes session lifecycle events.
type Recorder interface {
	LoggedIn(role models.Role)
	LoggedOut()
	RestoreDiscarded()
}

type nopRecorder struct{}

func (nopRecorder) LoggedIn(models.Role) {}
func (nopRecorder) LoggedOut()           {}
func (nopRecorder) RestoreDiscarded()    {}

// Manager opens one Store per device over a shared backend. Callers that
// open the same device while another holds it share a single Store, so a
// logout is seen by every in-flight request for that device.
type Manager struct {
	kv       storage.KV
	logger   *zap.Logger
	recorder Recorder

	mu   sync.Mutex
	open map[string]*entry
}

type entry struct {
	store *Store
	refs  int
	load  sync.Once
	err   error
}

// NewManager wires a backend, logger, and optional recorder.
func NewManager(kv storage.KV, logger *zap.Logger, recorder Recorder) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{kv: kv, logger: logger, recorder: recorder, open: make(map[string]*entry)}
}

// Key returns the storage key for device. The empty device maps to StorageKey.
func Key(device string) string {
	device = strings.TrimSpace(device)
	if device == "" {
		return StorageKey
	}
	return StorageKey + ":" + device
}

// Open returns the store for device, rehydrating it when no one else holds it.
// release must be called once the caller is done; the last release evicts the store.
func (m *Manager) Open(ctx context.Context, device string) (*Store, func(), error) {
	key := Key(device)

	m.mu.Lock()
	e, ok := m.open[key]
	if !ok {
		e = &entry{store: NewStore(m.kv, key, m.logger.With(zap.String("device", device)), m.recorder)}
		m.open[key] = e
	}
	e.refs++
	m.mu.Unlock()

	release := sync.OnceFunc(func() { m.release(key, e) })
	e.load.Do(func() { e.err = e.store.Load(ctx) })
	if e.err != nil {
		release()
		return nil, nil, e.err
	}
	return e.store, release, nil
}

func (m *Manager) release(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 && m.open[key] == e {
		delete(m.open, key)
	}
}

// Held reports how many devices currently have a store open.
func (m *Manager) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// NewDeviceID issues an identifier for a device that has none yet.
func NewDeviceID() string {
	return uuid.NewString()
}

// ValidDeviceID reports whether id looks like one NewDeviceID issued.
func ValidDeviceID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
