package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/room_booking/internal/model"
	"go.uber.org/zap"
)

type RoomService struct {
	store  Store
	logger *zap.Logger
}

func NewRoomService(store Store, logger *zap.Logger) *RoomService {
	return &RoomService{store: store, logger: logger}
}

// CreateRoom создаёт комнату с именем name
func (s *RoomService) CreateRoom(ctx context.Context, name string) (*model.Room, model.Violations, error) {
	room := &model.Room{ID: strings.TrimSpace(name)}
	if v := model.ValidateRoom(room); !v.Empty() {
		return nil, v, nil
	}

	err := s.store.Within(ctx, func(ctx context.Context, tx Tx) error {
		return tx.InsertRoom(ctx, room)
	})
	if errors.Is(err, model.ErrDuplicate) {
		var v model.Violations
		v.Add(model.FieldRoomID, fmt.Sprintf("Room %s already exists.", room.ID))
		return nil, v, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create room: %w", err)
	}

	s.logger.Info("Room created", zap.String("room_id", room.ID))

	return room, nil, nil
}

// ListRooms возвращает все комнаты
func (s *RoomService) ListRooms(ctx context.Context) ([]model.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
