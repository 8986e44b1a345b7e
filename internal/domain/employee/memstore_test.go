package employee

import (
	"context"
	"sort"
)

type memStore struct {
	items map[string]Employee
}

func newMemStore() *memStore {
	return &memStore{items: map[string]Employee{}}
}

func (m *memStore) Create(ctx context.Context, emp Employee) error {
	for _, existing := range m.items {
		if existing.Email == emp.Email {
			return ErrEmailTaken
		}
	}
	m.items[emp.ID] = emp
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (Employee, error) {
	emp, ok := m.items[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memStore) GetByCode(ctx context.Context, code string) (Employee, error) {
	for _, emp := range m.items {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

func (m *memStore) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

func (m *memStore) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	var out []Employee
	for _, emp := range m.items {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, emp Employee) error {
	if _, ok := m.items[emp.ID]; !ok {
		return ErrEmployeeNotFound
	}
	m.items[emp.ID] = emp
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(m.items, id)
	return nil
}
