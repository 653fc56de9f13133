package guard_test

import (
	"errors"
	"testing"

	"laundrybot/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("tariff must be created via NewTariff")

	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the caller's error", func(t *testing.T) {
		var g guard.ConstructorGuard
		require.ErrorIs(t, g.Validate(errNotConstructed), errNotConstructed)
	})

	t.Run("zero value with nil falls back to the default", func(t *testing.T) {
		var g guard.ConstructorGuard
		err := g.Validate(nil)
		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})

	t.Run("copies validate like the original", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		copied := g
		require.NoError(t, copied.Validate(errNotConstructed))
	})
}

// TestConstructorGuard_InValueObject exercises the embedding pattern the
// domain model uses: the guard rides inside a value object and Validate
// tells literals apart from constructed instances.
func TestConstructorGuard_InValueObject(t *testing.T) {
	errRoomNotConstructed := errors.New("room must be created via newRoom")

	type room struct {
		name  string
		floor int
		guard guard.ConstructorGuard
	}

	newRoom := func(name string, floor int) (room, error) {
		if name == "" {
			return room{}, errors.New("room name is required")
		}
		return room{name: name, floor: floor, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed room validates", func(t *testing.T) {
		r, err := newRoom("Room 204", 2)
		require.NoError(t, err)
		require.NoError(t, r.guard.Validate(errRoomNotConstructed))
		assert.Equal(t, "Room 204", r.name)
	})

	t.Run("struct literal is caught", func(t *testing.T) {
		r := room{name: "Room 204", floor: 2}
		require.ErrorIs(t, r.guard.Validate(errRoomNotConstructed), errRoomNotConstructed)
	})

	t.Run("rejected construction leaves a zero value", func(t *testing.T) {
		r, err := newRoom("", 2)
		require.Error(t, err)
		require.ErrorIs(t, r.guard.Validate(errRoomNotConstructed), errRoomNotConstructed)
	})
}
