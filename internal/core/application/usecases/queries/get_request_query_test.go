package queries_test

import (
	"testing"

	"laundrybot/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetRequestQuery_Valid(t *testing.T) {
	query, err := queries.NewGetRequestQuery(42)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, int64(42), query.RequestID())
}

func TestNewGetRequestQuery_RequestIDIsRequired(t *testing.T) {
	_, err := queries.NewGetRequestQuery(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrQueryRequestIDIsRequired)
}

func TestGetRequestQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetRequestQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetRequestQueryIsNotConstructed)
}
