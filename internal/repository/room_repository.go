package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/base"
)

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(db base.Querier) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(db)}
}

// InsertRoom создаёт комнату
func (r *RoomRepository) InsertRoom(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id)
		VALUES ($1)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, room.ID).Scan(&room.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("insert room: %w", err)
	}

	return nil
}

// GetRoom получает комнату по ID
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	query := `
		SELECT id, created_at
		FROM rooms
		WHERE id = $1
	`

	var room model.Room
	err := r.QueryRow(ctx, query, id).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	return &room, nil
}

// ListRooms получает все комнаты
func (r *RoomRepository) ListRooms(ctx context.Context) ([]model.Room, error) {
	query := `
		SELECT id, created_at
		FROM rooms
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}
