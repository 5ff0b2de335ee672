package locations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ExplicitRegisteredWinsOverDefault(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_default", Name: "Default", Token: "tok-default", IsDefault: true})
	require.NoError(t, err)
	_, err = s.Register(ctx, Registration{ID: "loc_other", Name: "Other", Token: "tok-other"})
	require.NoError(t, err)

	r := NewResolver(s, Fallback{Token: "tok-env", LocationID: "loc_env"})

	creds, err := r.Resolve(ctx, "loc_other")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-other", LocationID: "loc_other", Source: SourceRegistry}, creds)
}

func TestResolver_ExplicitUnregisteredUsesFallbackToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_default", Name: "Default", Token: "tok-default", IsDefault: true})
	require.NoError(t, err)

	r := NewResolver(s, Fallback{Token: "tok-env", LocationID: "loc_env"})

	creds, err := r.Resolve(ctx, "loc_unknown")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-env", LocationID: "loc_unknown", Source: SourceUnregistered}, creds)
}

func TestResolver_DefaultWhenNoID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_default", Name: "Default", Token: "tok-default", IsDefault: true})
	require.NoError(t, err)

	r := NewResolver(s, Fallback{Token: "tok-env", LocationID: "loc_env"})

	creds, err := r.Resolve(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-default", LocationID: "loc_default", Source: SourceDefault}, creds)
}

func TestResolver_FallbackPairUnchanged(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_x", Name: "Not default", Token: "tok-x"})
	require.NoError(t, err)

	r := NewResolver(s, Fallback{Token: "tok-env", LocationID: "loc_env"})
	creds, err := r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-env", LocationID: "loc_env", Source: SourceFallback}, creds)

	empty := NewResolver(s, Fallback{})
	creds, err = empty.Lookup(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Source: SourceFallback}, creds)

	_, err = empty.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestResolver_ReadsRegistryEveryCall(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	r := NewResolver(s, Fallback{Token: "tok-env", LocationID: "loc_env"})

	creds, err := r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, creds.Source)

	_, err = s.Register(ctx, Registration{ID: "loc_new", Name: "New", Token: "tok-new", IsDefault: true})
	require.NoError(t, err)

	creds, err = r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "loc_new", creds.LocationID)
	assert.Equal(t, SourceDefault, creds.Source)
}

func TestResolver_RecreatesDroppedTables(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, Registration{ID: "loc_1", Name: "One", Token: "tok-1", IsDefault: true})
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `DROP TABLE registry_settings`)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `DROP TABLE locations`)
	require.NoError(t, err)

	r := NewResolver(s, Fallback{Token: "tok-env", LocationID: "loc_env"})
	creds, err := r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-env", LocationID: "loc_env", Source: SourceFallback}, creds)

	_, err = s.Register(ctx, Registration{ID: "loc_2", Name: "Two", Token: "tok-2", IsDefault: true})
	require.NoError(t, err)
	creds, err = r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok-2", LocationID: "loc_2", Source: SourceDefault}, creds)
}

func TestResolver_UnregisteredWithoutFallbackToken(t *testing.T) {
	s := setupTestStore(t)
	r := NewResolver(s, Fallback{})

	_, err := r.Resolve(context.Background(), "loc_unknown")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", MaskToken(""))
	assert.Equal(t, "****", MaskToken("short"))
	assert.Equal(t, "pit-...cdef", MaskToken("pit-1234567890abcdef"))
}
