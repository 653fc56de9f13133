package queries_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"laundrybot/internal/core/application/usecases/queries"
	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRobotRepository backs the registry in tests without a database.
type memRobotRepository struct {
	mu     sync.Mutex
	robots map[string]robot.Snapshot
}

func newMemRobotRepository() *memRobotRepository {
	return &memRobotRepository{robots: make(map[string]robot.Snapshot)}
}

func (m *memRobotRepository) Save(_ context.Context, r *robot.Robot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.robots[r.Name()] = r.ToSnapshot()
	return nil
}

func (m *memRobotRepository) Get(_ context.Context, name string) (*robot.Robot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return robot.Restore(m.robots[name])
}

func (m *memRobotRepository) GetAll(_ context.Context) ([]*robot.Robot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*robot.Robot, 0, len(m.robots))
	for _, s := range m.robots {
		r, err := robot.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func summaryFleet(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	fleet := registry.NewRegistry(newMemRobotRepository(), slog.New(slog.DiscardHandler))
	for _, name := range names {
		_, err := fleet.RegisterHeartbeat(t.Context(), name, robot.Heartbeat{IP: "10.0.0.7"}, time.Now())
		require.NoError(t, err)
	}
	return fleet
}

func TestGetFleetSummaryQueryHandler_EmptyFleet(t *testing.T) {
	handler := queries.NewGetFleetSummaryQueryHandler(summaryFleet(t))

	result, err := handler.Handle(t.Context(), queries.GetFleetSummaryQuery{})

	require.NoError(t, err)
	assert.Empty(t, result.Robots)
	assert.Zero(t, result.Available)
	assert.Zero(t, result.Busy)
	assert.Zero(t, result.Offline)
}

func TestGetFleetSummaryQueryHandler_SortsAndCounts(t *testing.T) {
	fleet := summaryFleet(t, "washy-3", "washy-1", "washy-2")

	outcome, err := fleet.TryReserve(t.Context(), "washy-2", 42)
	require.NoError(t, err)
	require.Equal(t, registry.Reserved, outcome)

	handler := queries.NewGetFleetSummaryQueryHandler(fleet)

	result, err := handler.Handle(t.Context(), queries.GetFleetSummaryQuery{})

	require.NoError(t, err)
	require.Len(t, result.Robots, 3)
	assert.Equal(t, "washy-1", result.Robots[0].Name)
	assert.Equal(t, "washy-2", result.Robots[1].Name)
	assert.Equal(t, "washy-3", result.Robots[2].Name)

	assert.Equal(t, "Dispatching", result.Robots[1].Status)
	require.NotNil(t, result.Robots[1].BoundRequestID)
	assert.Equal(t, int64(42), *result.Robots[1].BoundRequestID)

	assert.Equal(t, 2, result.Available)
	assert.Equal(t, 1, result.Busy)
	assert.Zero(t, result.Offline)
}

func TestGetFleetSummaryQueryHandler_OfflineRobotIsCounted(t *testing.T) {
	fleet := summaryFleet(t, "washy-1", "washy-2")

	swept, err := fleet.SweepOffline(t.Context(), time.Nanosecond, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, swept, 2)

	handler := queries.NewGetFleetSummaryQueryHandler(fleet)

	result, err := handler.Handle(t.Context(), queries.GetFleetSummaryQuery{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Offline)
	assert.Zero(t, result.Available)
	for _, r := range result.Robots {
		assert.Equal(t, "Offline", r.Status)
		assert.Equal(t, "10.0.0.7", r.IP)
	}
}
