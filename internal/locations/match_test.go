package locations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNames(t *testing.T, s *Store, names map[string]string) {
	t.Helper()
	for id, name := range names {
		_, err := s.Register(context.Background(), Registration{ID: id, Name: name, Token: "tok-" + id})
		require.NoError(t, err)
	}
}

func TestFindByName_PartialCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	seedNames(t, s, map[string]string{
		"loc_1": "Acme Dental",
		"loc_2": "Blue Roofing",
	})

	loc, err := s.FindByName(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "loc_1", loc.ID)

	loc, err = s.FindByName(context.Background(), "ROOF")
	require.NoError(t, err)
	assert.Equal(t, "loc_2", loc.ID)
}

func TestFindByName_ExactWinsAmongSeveral(t *testing.T) {
	s := setupTestStore(t)
	seedNames(t, s, map[string]string{
		"loc_1": "Acme",
		"loc_2": "Acme West",
		"loc_3": "Acme East",
	})

	loc, err := s.FindByName(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "loc_1", loc.ID)

	_, err = s.FindByName(context.Background(), "Acme E")
	require.NoError(t, err)
}

func TestFindByName_Ambiguous(t *testing.T) {
	s := setupTestStore(t)
	seedNames(t, s, map[string]string{
		"loc_2": "Acme West",
		"loc_3": "Acme East",
	})

	_, err := s.FindByName(context.Background(), "acme")
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.ErrorContains(t, err, "loc_2")
	assert.ErrorContains(t, err, "loc_3")
}

func TestFindByName_FuzzyFallback(t *testing.T) {
	s := setupTestStore(t)
	seedNames(t, s, map[string]string{
		"loc_1": "Northwind Traders",
		"loc_2": "Contoso",
	})

	loc, err := s.FindByName(context.Background(), "nwtraders")
	require.NoError(t, err)
	assert.Equal(t, "loc_1", loc.ID)

	_, err = s.FindByName(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByName_LikeWildcardsAreLiteral(t *testing.T) {
	s := setupTestStore(t)
	seedNames(t, s, map[string]string{
		"loc_1": "Acme",
		"loc_2": "100% Fitness",
	})

	loc, err := s.FindByName(context.Background(), "100%")
	require.NoError(t, err)
	assert.Equal(t, "loc_2", loc.ID)

	_, err = s.FindByName(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}
