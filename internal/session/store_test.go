package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/storage"
	"github.com/hongminglow/ets-hub/internal/storage/memory"
)

type countingRecorder struct {
	logins    map[models.Role]int
	logouts   int
	discarded int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{logins: map[models.Role]int{}}
}

func (r *countingRecorder) LoggedIn(role models.Role) { r.logins[role]++ }
func (r *countingRecorder) LoggedOut()                { r.logouts++ }
func (r *countingRecorder) RestoreDiscarded()         { r.discarded++ }

type failingKV struct {
	storage.KV
	err error
}

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }

func newTestStore(t *testing.T) (*Store, *memory.Store, *countingRecorder) {
	t.Helper()
	kv := memory.New()
	rec := newCountingRecorder()
	store := NewStore(kv, StorageKey, nil, rec)
	require.NoError(t, store.Load(context.Background()))
	return store, kv, rec
}

func TestLoginLogoutEveryRole(t *testing.T) {
	ctx := context.Background()
	for _, role := range models.Roles() {
		t.Run(string(role), func(t *testing.T) {
			store, kv, rec := newTestStore(t)

			_, err := store.Login(ctx, models.Identity{ID: "u-" + string(role), Phone: "1", Name: "n", Role: role, Verified: true})
			require.NoError(t, err)
			assert.True(t, store.IsAuthenticated())
			assert.True(t, store.HasRole(role))
			assert.Equal(t, 1, kv.Len())

			require.NoError(t, store.Logout(ctx))
			assert.False(t, store.IsAuthenticated())
			assert.False(t, store.HasRole(role))
			assert.Equal(t, 0, kv.Len())
			assert.Equal(t, 1, rec.logins[role])
			assert.Equal(t, 1, rec.logouts)
		})
	}
}

func TestLoginDriverPermissions(t *testing.T) {
	store, _, _ := newTestStore(t)
	got, err := store.Login(context.Background(), models.Identity{ID: "d", Role: models.RoleDriver})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"orders.view", "orders.accept", "orders.complete", "navigation.access",
		"earnings.view", "profile.edit", "support.contact",
	}, got.Permissions)
	assert.True(t, store.HasPermission("orders.accept"))
	assert.False(t, store.HasPermission("finances.view"))
}

func TestLoginAdminWildcard(t *testing.T) {
	store, _, _ := newTestStore(t)
	_, err := store.Login(context.Background(), models.Identity{ID: "a", Role: models.RoleAdmin})
	require.NoError(t, err)

	for _, perm := range []string{"finances.view", "users.manage", "anything"} {
		assert.True(t, store.HasPermission(perm), perm)
	}
	assert.True(t, store.Checker().CanManageUsers())
}

func TestLoginMergesDefaultMetadata(t *testing.T) {
	store, _, _ := newTestStore(t)
	got, err := store.Login(context.Background(), models.Identity{
		ID:       "c",
		Role:     models.RoleClient,
		Metadata: &models.Metadata{Balance: models.Float(99)},
	})
	require.NoError(t, err)

	require.NotNil(t, got.Metadata)
	assert.Equal(t, 99.0, *got.Metadata.Balance)
	assert.Equal(t, 4.9, *got.Metadata.Rating)
	assert.Equal(t, 127, *got.Metadata.TotalTrips)
	assert.Equal(t, 1240.0, *got.Metadata.Bonuses)
}

func TestLoginIgnoresCallerPermissions(t *testing.T) {
	store, _, _ := newTestStore(t)
	got, err := store.Login(context.Background(), models.Identity{ID: "c", Role: models.RoleClient, Permissions: []string{"*"}})
	require.NoError(t, err)
	assert.NotContains(t, got.Permissions, "*")
	assert.False(t, store.HasPermission("users.manage"))
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	store, kv, _ := newTestStore(t)
	_, err := store.Login(context.Background(), models.Identity{ID: "x", Role: "root"})
	assert.ErrorIs(t, err, models.ErrUnknownRole)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())
}

func TestLoginReplacesCurrentIdentity(t *testing.T) {
	store, kv, _ := newTestStore(t)
	ctx := context.Background()
	_, err := store.Login(ctx, models.Identity{ID: "first", Role: models.RoleClient})
	require.NoError(t, err)
	_, err = store.Login(ctx, models.Identity{ID: "second", Role: models.RolePartner})
	require.NoError(t, err)

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.ID)
	assert.Equal(t, 1, kv.Len())
}

func TestUpdateUserWithoutIdentityIsNoop(t *testing.T) {
	store, kv, _ := newTestStore(t)
	_, ok, err := store.UpdateUser(context.Background(), models.IdentityPatch{Name: models.String("x")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())
}

func TestUpdateUserMergesAndPersists(t *testing.T) {
	store, kv, _ := newTestStore(t)
	ctx := context.Background()
	_, err := store.Login(ctx, models.Identity{ID: "c", Name: "old", Phone: "1", Role: models.RoleClient})
	require.NoError(t, err)

	got, ok, err := store.UpdateUser(ctx, models.IdentityPatch{Name: models.String("new"), Avatar: models.String("a.png")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "1", got.Phone)
	assert.Equal(t, "a.png", *got.Avatar)

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	var persisted models.Identity
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, "new", persisted.Name)
}

func TestUpdateUserRoleRecomputesPermissions(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	_, err := store.Login(ctx, models.Identity{ID: "c", Role: models.RoleClient})
	require.NoError(t, err)

	partner := models.RolePartner
	_, _, err = store.UpdateUser(ctx, models.IdentityPatch{Role: &partner})
	require.NoError(t, err)
	assert.True(t, store.HasPermission("finances.view"))
	assert.False(t, store.HasPermission("services.book"))

	bad := models.Role("root")
	_, ok, err := store.UpdateUser(ctx, models.IdentityPatch{Role: &bad})
	assert.True(t, ok)
	assert.ErrorIs(t, err, models.ErrUnknownRole)
	assert.True(t, store.HasRole(models.RolePartner), "failed update leaves state unchanged")
}

func TestLoadRehydratesPersistedIdentity(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	first := NewStore(kv, StorageKey, nil, nil)
	_, err := first.Login(ctx, models.Identity{ID: "p", Role: models.RolePartner})
	require.NoError(t, err)

	second := NewStore(kv, StorageKey, nil, nil)
	require.NoError(t, second.Load(ctx))
	cur, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, "p", cur.ID)
	assert.True(t, second.HasPermission("staff.manage"))
}

func TestLoadRecomputesPermissionsFromRole(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, StorageKey, []byte(`{"id":"x","role":"driver","verified":true,"permissions":["*"]}`)))

	store := NewStore(kv, StorageKey, nil, nil)
	require.NoError(t, store.Load(ctx))
	assert.False(t, store.HasPermission("users.manage"))
	assert.True(t, store.HasPermission("orders.view"))
}

func TestLoadDiscardsCorruptedRecord(t *testing.T) {
	payloads := map[string]string{
		"not json":     `{"id":`,
		"unknown role": `{"id":"x","role":"emperor"}`,
		"missing id":   `{"role":"client"}`,
		"wrong types":  `{"id":42,"role":"client"}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			kv := memory.New()
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, StorageKey, []byte(payload)))
			rec := newCountingRecorder()

			store := NewStore(kv, StorageKey, nil, rec)
			require.NoError(t, store.Load(ctx))
			assert.False(t, store.IsAuthenticated())
			assert.Equal(t, 0, kv.Len(), "corrupted record is removed")
			assert.Equal(t, 1, rec.discarded)
		})
	}
}

func TestLoadSurfacesStorageErrors(t *testing.T) {
	boom := errors.New("boom")
	store := NewStore(failingKV{KV: memory.New(), err: boom}, StorageKey, nil, nil)
	assert.ErrorIs(t, store.Load(context.Background()), boom)

	_, err := store.Login(context.Background(), models.Identity{ID: "x", Role: models.RoleClient})
	assert.ErrorIs(t, err, boom)
	assert.False(t, store.IsAuthenticated())
}

func TestCurrentReturnsCopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	_, err := store.Login(context.Background(), models.Identity{ID: "c", Role: models.RoleClient})
	require.NoError(t, err)

	cur, _ := store.Current()
	cur.Permissions[0] = "*"
	assert.False(t, store.HasPermission("users.manage"))
}
