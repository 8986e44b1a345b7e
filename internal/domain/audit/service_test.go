package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	events []Event
}

func (m *memStore) Insert(ctx context.Context, evt Event) error {
	m.events = append(m.events, evt)
	return nil
}

func (m *memStore) Count(ctx context.Context, filter Filter) (int, error) {
	return len(m.match(filter)), nil
}

func (m *memStore) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	return m.match(filter), nil
}

func (m *memStore) match(filter Filter) []Event {
	var out []Event
	for _, evt := range m.events {
		if filter.EntityType != "" && evt.EntityType != filter.EntityType {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func TestRecordSerializesSnapshots(t *testing.T) {
	store := &memStore{}
	svc := New(store)

	err := svc.Record(context.Background(), "u1", "payroll.update", EntityPayroll, "p1", "req-1", "10.0.0.1",
		map[string]any{"netSalary": 100}, map[string]any{"netSalary": 200})
	require.NoError(t, err)

	require.Len(t, store.events, 1)
	evt := store.events[0]
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "req-1", evt.RequestID)
	var after map[string]float64
	require.NoError(t, json.Unmarshal(evt.After, &after))
	assert.Equal(t, 200.0, after["netSalary"])
}

func TestRecordAllowsMissingSnapshots(t *testing.T) {
	store := &memStore{}
	svc := New(store)
	require.NoError(t, svc.Record(context.Background(), "u1", "leave.delete", EntityLeave, "l1", "", "", nil, nil))
	assert.Nil(t, store.events[0].Before)
	assert.Nil(t, store.events[0].After)
}

func TestListFilters(t *testing.T) {
	store := &memStore{}
	svc := New(store)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, "u1", "payroll.create", EntityPayroll, "p1", "", "", nil, nil))
	require.NoError(t, svc.Record(ctx, "u1", "leave.create", EntityLeave, "l1", "", "", nil, nil))

	items, total, err := svc.List(ctx, Filter{EntityType: EntityPayroll}, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "p1", items[0].EntityID)
}
