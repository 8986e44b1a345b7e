package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type StoreAPI interface {
	Insert(ctx context.Context, evt Event) error
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error)
}

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

// Record stores one audit event. before and after are serialized as JSON;
// nil leaves them empty.
func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	if s == nil {
		return nil
	}
	evt := Event{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ip,
		CreatedAt:  time.Now().UTC(),
	}
	var err error
	if evt.Before, err = marshalOptional(before); err != nil {
		return err
	}
	if evt.After, err = marshalOptional(after); err != nil {
		return err
	}
	return s.store.Insert(ctx, evt)
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, int, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, filter, includeDetails, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func marshalOptional(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
