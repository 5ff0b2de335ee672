package locations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "registry", "locations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func countDefaults(t *testing.T, s *Store) int {
	t.Helper()
	locs, err := s.List(context.Background())
	require.NoError(t, err)
	n := 0
	for _, loc := range locs {
		if loc.IsDefault {
			n++
		}
	}
	return n
}

func TestStore_RegisterAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	loc, err := s.Register(ctx, Registration{
		ID:    " loc_123 ",
		Name:  "Acme",
		Token: "pit-1234567890abcdef",
		Notes: "main account",
	})
	require.NoError(t, err)
	assert.Equal(t, "loc_123", loc.ID)
	assert.Equal(t, KindSubAccount, loc.Kind)
	assert.False(t, loc.IsDefault)
	assert.False(t, loc.CreatedAt.IsZero())

	got, err := s.Get(ctx, "loc_123")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "pit-1234567890abcdef", got.Token)
	assert.Equal(t, "main account", got.Notes)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RegisterUpsertKeepsCreatedAt(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.Register(ctx, Registration{ID: "loc_1", Name: "Old", Token: "token-one-xxxx"})
	require.NoError(t, err)

	second, err := s.Register(ctx, Registration{ID: "loc_1", Name: "New", Token: "token-two-xxxx", Kind: KindAgency})
	require.NoError(t, err)

	assert.Equal(t, "New", second.Name)
	assert.Equal(t, "token-two-xxxx", second.Token)
	assert.Equal(t, KindAgency, second.Kind)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_RegisterValidation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	cases := []Registration{
		{Name: "x", Token: "t"},
		{ID: "a", Token: "t"},
		{ID: "a", Name: "x"},
	}
	for _, reg := range cases {
		_, err := s.Register(ctx, reg)
		assert.Error(t, err)
	}

	_, err := s.Register(ctx, Registration{ID: "a", Name: "x", Token: "t", Kind: "reseller"})
	assert.ErrorIs(t, err, ErrInvalidKind)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_SingleDefaultAcrossRegistrations(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	ids := []string{"loc_a", "loc_b", "loc_c", "loc_d"}
	for _, id := range ids {
		_, err := s.Register(ctx, Registration{ID: id, Name: id, Token: "tok-" + id, IsDefault: true})
		require.NoError(t, err)
		assert.Equal(t, 1, countDefaults(t, s))

		def, err := s.Default(ctx)
		require.NoError(t, err)
		require.NotNil(t, def)
		assert.Equal(t, id, def.ID)
	}

	// Upserting without the flag keeps the current default.
	_, err := s.Register(ctx, Registration{ID: "loc_a", Name: "A again", Token: "tok"})
	require.NoError(t, err)
	def, err := s.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "loc_d", def.ID)
}

func TestStore_ReRegisterDefaultWithoutFlagStaysDefault(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_a", Name: "Acme", Token: "tok-old", IsDefault: true})
	require.NoError(t, err)
	_, err = s.Register(ctx, Registration{ID: "loc_b", Name: "Beta", Token: "tok-b"})
	require.NoError(t, err)

	loc, err := s.Register(ctx, Registration{ID: "loc_a", Name: "Acme Renamed", Token: "tok-new"})
	require.NoError(t, err)
	assert.True(t, loc.IsDefault)
	assert.Equal(t, "Acme Renamed", loc.Name)
	assert.Equal(t, "tok-new", loc.Token)

	def, err := s.Default(ctx)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "loc_a", def.ID)
	assert.Equal(t, "tok-new", def.Token)
	assert.Equal(t, 1, countDefaults(t, s))
}

func TestStore_AcmeScenario(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_123", Name: "Acme", Token: "pit-aaaa-bbbb-cccc", IsDefault: true})
	require.NoError(t, err)

	locs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.True(t, locs[0].IsDefault)

	_, err = s.Register(ctx, Registration{ID: "loc_456", Name: "Beta", Token: "pit-dddd-eeee-ffff", IsDefault: true})
	require.NoError(t, err)

	a, err := s.Get(ctx, "loc_123")
	require.NoError(t, err)
	b, err := s.Get(ctx, "loc_456")
	require.NoError(t, err)
	assert.False(t, a.IsDefault)
	assert.True(t, b.IsDefault)
}

func TestStore_SetDefault(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "t1", IsDefault: true})
	require.NoError(t, err)
	_, err = s.Register(ctx, Registration{ID: "loc_2", Name: "Two", Token: "t2"})
	require.NoError(t, err)

	loc, err := s.SetDefault(ctx, "loc_2")
	require.NoError(t, err)
	assert.True(t, loc.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s))

	_, err = s.SetDefault(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	def, err := s.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "loc_2", def.ID)
}

func TestStore_RemoveClearsDefault(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "t1", IsDefault: true})
	require.NoError(t, err)

	removed, err := s.Remove(ctx, "loc_1")
	require.NoError(t, err)
	assert.Equal(t, "One", removed.Name)

	def, err := s.Default(ctx)
	require.NoError(t, err)
	assert.Nil(t, def)

	// Re-registering the same id does not resurrect the default.
	_, err = s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "t1"})
	require.NoError(t, err)
	def, err = s.Default(ctx)
	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestStore_RemoveMissingDoesNotMutate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "t1", IsDefault: true})
	require.NoError(t, err)
	before, err := s.List(ctx)
	require.NoError(t, err)

	_, err = s.Remove(ctx, "loc_404")
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_RotateToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	orig, err := s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "old-token"})
	require.NoError(t, err)

	loc, err := s.RotateToken(ctx, "loc_1", "new-token")
	require.NoError(t, err)
	assert.Equal(t, "new-token", loc.Token)
	assert.False(t, loc.UpdatedAt.Before(orig.UpdatedAt))

	_, err = s.RotateToken(ctx, "loc_2", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.RotateToken(ctx, "loc_1", "  ")
	assert.Error(t, err)
}

func TestStore_EnsureSchemaIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "t1", IsDefault: true})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.EnsureSchema(ctx))
	}

	def, err := s.Default(ctx)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "loc_1", def.ID)
}
