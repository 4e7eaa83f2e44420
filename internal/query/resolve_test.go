package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/query"
)

func TestFindByID_Policies(t *testing.T) {
	recs := []domain.Record{
		{"id": 10001.0, "name": "numeric"},
		{"id": "10001", "name": "string"},
		{"id": "stay-10000", "name": "stay"},
	}

	r, ok := query.FindByID(recs, query.IDNormalized, "10001")
	require.True(t, ok)
	assert.Equal(t, "numeric", r["name"])

	r, ok = query.FindByID(recs, query.IDStrict, "10001")
	require.True(t, ok)
	assert.Equal(t, "string", r["name"])

	r, ok = query.FindByID(recs, query.IDInteger, "10001")
	require.True(t, ok)
	assert.Equal(t, "numeric", r["name"])

	_, ok = query.FindByID(recs, query.IDStrict, "stay-10000")
	assert.True(t, ok)
}

func TestFindByID_MissIsEmpty(t *testing.T) {
	r, ok := query.FindByID([]domain.Record{{"id": "a"}}, query.IDStrict, "id-does-not-exist")
	assert.False(t, ok)
	assert.NotNil(t, r)
	assert.Empty(t, r)
}

func TestFindByID_FirstMatchWins(t *testing.T) {
	recs := []domain.Record{{"id": "x", "n": 1.0}, {"id": "x", "n": 2.0}}
	r, _ := query.FindByID(recs, query.IDStrict, "x")
	assert.Equal(t, 1.0, r["n"])
}

func TestIDPolicy_Check(t *testing.T) {
	assert.NoError(t, query.IDStrict.Check("abc"))
	assert.ErrorIs(t, query.IDInteger.Check("abc"), domain.ErrMalformedCriteria)
	assert.NoError(t, query.IDInteger.Check("42"))
}

func TestRelated(t *testing.T) {
	recs := []domain.Record{
		{"id": "r1", "stay_id": "stay-1"},
		{"id": "r2", "stay_id": "stay-2"},
		{"id": "r3", "stay_id": "stay-1"},
	}
	got := query.Related(recs, "stay_id", "stay-1")
	require.Len(t, got, 2)
	assert.Equal(t, "r3", got[1]["id"])
	assert.Empty(t, query.Related(recs, "stay_id", "nope"))
}
