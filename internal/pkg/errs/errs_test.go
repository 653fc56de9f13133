package errs_test

import (
	"errors"
	"testing"

	"laundrybot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("request_id", "42")

		assert.Equal(t, "request_id", err.ParamName)
		assert.Equal(t, "42", err.ID)
		assert.Equal(t, "object not found: 42", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("robot_name", "washy-1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: robot_name, ID is: washy-1 (cause: record not found)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("beacon_mac")

		assert.Equal(t, "beacon_mac", err.ParamName)
		assert.Equal(t, "value is invalid: beacon_mac", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("not a MAC address")
		err := errs.NewValueIsInvalidErrorWithCause("beacon_mac", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: beacon_mac (cause: not a MAC address)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("reports the bounds", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("rssi", -120, -100, 0)

		assert.Equal(t, -120, err.Value)
		assert.Equal(t, -100, err.Min)
		assert.Equal(t, 0, err.Max)
		assert.Equal(t, "value is invalid: -120 is rssi, min value is -100, max value is 0", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("telemetry out of spec")
		err := errs.NewValueIsOutOfRangeErrorWithCause("line_position", 1.5, -1.0, 1.0, cause)

		assert.Equal(t,
			"value is invalid: 1.5 is line_position, min value is -1, max value is 1 (cause: telemetry out of spec)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("flattens multi-line values", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("payload", "line\nbreak", 0, 10)
		assert.NotContains(t, err.Error(), "\n")
		assert.Contains(t, err.Error(), "line break")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("customer_id")
		assert.Equal(t, "value is required: customer_id", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("header missing")
		err := errs.NewValueIsRequiredErrorWithCause("customer_id", cause)
		assert.Equal(t, "value is required: customer_id (cause: header missing)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("request_version")
	assert.Equal(t, "version is invalid: request_version", err.Error())
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)

	cause := errors.New("stale write")
	withCause := errs.NewVersionIsInvalidErrorWithCause("request_version", cause)
	assert.Equal(t, "version is invalid: request_version (cause: stale write)", withCause.Error())
	require.ErrorIs(t, withCause, errs.ErrVersionIsInvalid)
}

// Handlers classify these errors through errors.Is on the sentinel, so
// each typed error must unwrap to exactly its own sentinel.
func TestSentinelClassification(t *testing.T) {
	require.NotErrorIs(t, errs.NewObjectNotFoundError("request_id", "42"), errs.ErrValueIsInvalid)
	require.NotErrorIs(t, errs.NewValueIsRequiredError("customer_id"), errs.ErrValueIsInvalid)
	require.NotErrorIs(t, errs.NewValueIsOutOfRangeError("rssi", -120, -100, 0), errs.ErrValueIsRequired)
}
