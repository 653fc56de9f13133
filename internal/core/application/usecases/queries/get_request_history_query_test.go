package queries_test

import (
	"testing"

	"laundrybot/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetRequestHistoryQuery_Valid(t *testing.T) {
	query, err := queries.NewGetRequestHistoryQuery("cust-1")
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "cust-1", query.CustomerID())
}

func TestNewGetRequestHistoryQuery_CustomerIDIsRequired(t *testing.T) {
	_, err := queries.NewGetRequestHistoryQuery("")
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrQueryCustomerIDIsRequired)
}

func TestGetRequestHistoryQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetRequestHistoryQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetRequestHistoryQueryIsNotConstructed)
}
