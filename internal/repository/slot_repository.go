package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/base"
)

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.Querier) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

// InsertSlot создаёт новый слот
func (r *SlotRepository) InsertSlot(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (room_id, start_time, staff_id, student_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.RoomID,
		slot.StartTime,
		slot.StaffID,
		slot.StudentID,
	).Scan(&slot.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrSlotConflict
		}
		return fmt.Errorf("insert slot: %w", err)
	}

	return nil
}

// ListSlots получает слоты по фильтру, отсортированные по времени и комнате
func (r *SlotRepository) ListSlots(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.RoomID != "" {
		add("room_id = $%d", filter.RoomID)
	}
	if filter.StaffID != "" {
		add("staff_id = $%d", filter.StaffID)
	}
	if filter.StudentID != "" {
		add("student_id = $%d", filter.StudentID)
	}
	if !filter.From.IsZero() {
		add("start_time >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("start_time < $%d", filter.To)
	}

	query := `SELECT room_id, start_time, staff_id, student_id, created_at FROM slots`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY start_time, room_id`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.RoomID,
			&slot.StartTime,
			&slot.StaffID,
			&slot.StudentID,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slot.StartTime = slot.StartTime.UTC()
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// UpdateSlotStudent ставит или снимает студента в слоте
func (r *SlotRepository) UpdateSlotStudent(ctx context.Context, key model.SlotKey, studentID *string) error {
	query := `
		UPDATE slots
		SET student_id = $3
		WHERE room_id = $1 AND start_time = $2
	`

	affected, err := r.ExecAffected(ctx, query, key.RoomID, key.StartTime, studentID)
	if err != nil {
		return fmt.Errorf("update slot student: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

// DeleteSlot удаляет слот
func (r *SlotRepository) DeleteSlot(ctx context.Context, key model.SlotKey) error {
	query := `DELETE FROM slots WHERE room_id = $1 AND start_time = $2`

	affected, err := r.ExecAffected(ctx, query, key.RoomID, key.StartTime)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}
