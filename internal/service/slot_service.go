package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
)

// SlotService выборки слотов
type SlotService struct {
	store Store
}

func NewSlotService(store Store) *SlotService {
	return &SlotService{store: store}
}

// ListAll возвращает все слоты
func (s *SlotService) ListAll(ctx context.Context) ([]model.Slot, error) {
	return s.list(ctx, model.SlotFilter{})
}

// ListByDay возвращает слоты календарного дня
func (s *SlotService) ListByDay(ctx context.Context, day time.Time) ([]model.Slot, error) {
	return s.list(ctx, model.DayFilter(day))
}

// ListRange возвращает слоты с началом в [from, to)
func (s *SlotService) ListRange(ctx context.Context, from, to time.Time) ([]model.Slot, error) {
	return s.list(ctx, model.SlotFilter{From: from, To: to})
}

// ListByStudent возвращает слоты, занятые студентом
func (s *SlotService) ListByStudent(ctx context.Context, studentID string) ([]model.Slot, model.Violations, error) {
	return s.listByAccount(ctx, studentID, model.RoleStudent, model.FieldStudentID, "Student does not exist.",
		model.SlotFilter{StudentID: studentID})
}

// ListByStaff возвращает слоты, созданные сотрудником
func (s *SlotService) ListByStaff(ctx context.Context, staffID string) ([]model.Slot, model.Violations, error) {
	return s.listByAccount(ctx, staffID, model.RoleStaff, model.FieldStaffID, "Staff does not exist.",
		model.SlotFilter{StaffID: staffID})
}

func (s *SlotService) listByAccount(ctx context.Context, id string, role model.Role, field, missing string, filter model.SlotFilter) ([]model.Slot, model.Violations, error) {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil || account.Role != role {
		var v model.Violations
		v.Add(field, missing)
		return nil, v, nil
	}

	slots, err := s.list(ctx, filter)
	return slots, nil, err
}

func (s *SlotService) list(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	slots, err := s.store.ListSlots(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}
