package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/rules"
	"go.uber.org/zap"
)

// Названия операций для логов и метрик
const (
	WorkflowCreate = "create"
	WorkflowBook   = "book"
	WorkflowCancel = "cancel"
	WorkflowRemove = "remove"
)

// ErrUnknownAccount инициатор операции не зарегистрирован или имеет другую роль
var ErrUnknownAccount = errors.New("unknown account")

// Result итог операции со слотом. Если Violations не пуст, хранилище не изменилось.
type Result struct {
	Slot       *model.Slot
	Violations model.Violations
}

// OK проверяет что операция выполнена
func (r *Result) OK() bool {
	return r.Violations.Empty()
}

// rejection откатывает транзакцию и возвращает нарушения вызывающему
type rejection struct {
	violations model.Violations
}

func (r *rejection) Error() string {
	return r.violations.String()
}

type BookingService struct {
	store   Store
	metrics *Metrics
	logger  *zap.Logger
}

func NewBookingService(store Store, metrics *Metrics, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Create создаёт свободный слот от имени сотрудника.
// Во всех операциях время приводится к UTC: календарный день и блокировка считаются в UTC.
func (s *BookingService) Create(ctx context.Context, req model.CreateSlot) (*Result, error) {
	req.StartTime = req.StartTime.UTC()

	if v := req.Validate(); !v.Empty() {
		return s.rejected(WorkflowCreate, v), nil
	}

	slot := &model.Slot{
		RoomID:    req.RoomID,
		StartTime: req.StartTime,
		StaffID:   req.StaffID,
	}

	err := s.store.WithinDay(ctx, req.StartTime, func(ctx context.Context, tx Tx) error {
		if err := requireAccount(ctx, tx, req.StaffID, model.RoleStaff); err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx, tx, req.StartTime)
		if err != nil {
			return err
		}

		if v := rules.CheckCreate(snap, req); !v.Empty() {
			return &rejection{violations: v}
		}

		if err := tx.InsertSlot(ctx, slot); err != nil {
			if errors.Is(err, model.ErrSlotConflict) {
				return slotExistsRejection(req.RoomID, req.StartTime)
			}
			return err
		}

		return appendSlotEvent(ctx, tx, model.EventSlotCreated, slot, req.StaffID)
	})

	return s.finish(WorkflowCreate, slot, err)
}

// Book занимает существующий слот студентом
func (s *BookingService) Book(ctx context.Context, req model.BookSlot) (*Result, error) {
	req.StartTime = req.StartTime.UTC()

	if v := req.Validate(); !v.Empty() {
		return s.rejected(WorkflowBook, v), nil
	}

	var slot *model.Slot
	err := s.store.WithinDay(ctx, req.StartTime, func(ctx context.Context, tx Tx) error {
		if err := requireAccount(ctx, tx, req.StudentID, model.RoleStudent); err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx, tx, req.StartTime)
		if err != nil {
			return err
		}

		if v := rules.CheckBook(snap, req); !v.Empty() {
			return &rejection{violations: v}
		}

		found := rules.GetSlot(snap, req.RoomID, req.StartTime)
		booked := *found
		studentID := req.StudentID
		booked.StudentID = &studentID

		if err := tx.UpdateSlotStudent(ctx, booked.Key(), booked.StudentID); err != nil {
			return err
		}
		slot = &booked

		return appendSlotEvent(ctx, tx, model.EventSlotBooked, slot, req.StudentID)
	})

	return s.finish(WorkflowBook, slot, err)
}

// Cancel освобождает слот, занятый студентом StudentID
func (s *BookingService) Cancel(ctx context.Context, req model.CancelSlot) (*Result, error) {
	req.StartTime = req.StartTime.UTC()

	if v := req.Validate(); !v.Empty() {
		return s.rejected(WorkflowCancel, v), nil
	}

	var slot *model.Slot
	err := s.store.WithinDay(ctx, req.StartTime, func(ctx context.Context, tx Tx) error {
		snap, err := loadSnapshot(ctx, tx, req.StartTime, req.StudentID)
		if err != nil {
			return err
		}

		if v := rules.CheckCancel(snap, req); !v.Empty() {
			return &rejection{violations: v}
		}

		found := rules.GetSlot(snap, req.RoomID, req.StartTime)
		vacated := *found
		vacated.StudentID = nil

		if err := tx.UpdateSlotStudent(ctx, vacated.Key(), nil); err != nil {
			return err
		}
		slot = &vacated

		event := *found
		return appendSlotEvent(ctx, tx, model.EventSlotCancelled, &event, req.StudentID)
	})

	return s.finish(WorkflowCancel, slot, err)
}

// Remove удаляет свободный слот
func (s *BookingService) Remove(ctx context.Context, req model.RemoveSlot) (*Result, error) {
	req.StartTime = req.StartTime.UTC()

	if v := req.Validate(); !v.Empty() {
		return s.rejected(WorkflowRemove, v), nil
	}

	var slot *model.Slot
	err := s.store.WithinDay(ctx, req.StartTime, func(ctx context.Context, tx Tx) error {
		snap, err := loadSnapshot(ctx, tx, req.StartTime)
		if err != nil {
			return err
		}

		if v := rules.CheckRemove(snap, req); !v.Empty() {
			return &rejection{violations: v}
		}

		found := *rules.GetSlot(snap, req.RoomID, req.StartTime)
		if err := tx.DeleteSlot(ctx, found.Key()); err != nil {
			return err
		}
		slot = &found

		return appendSlotEvent(ctx, tx, model.EventSlotRemoved, slot, req.StaffID)
	})

	return s.finish(WorkflowRemove, slot, err)
}

func (s *BookingService) finish(workflow string, slot *model.Slot, err error) (*Result, error) {
	var rej *rejection
	if errors.As(err, &rej) {
		return s.rejected(workflow, rej.violations), nil
	}
	if err != nil {
		s.metrics.observe(workflow, OutcomeFailed, nil)
		return nil, fmt.Errorf("%s slot: %w", workflow, err)
	}

	s.metrics.observe(workflow, OutcomeCommitted, nil)
	s.logger.Info("Slot workflow committed",
		zap.String("workflow", workflow),
		zap.String("room_id", slot.RoomID),
		zap.Time("start_time", slot.StartTime),
		zap.String("staff_id", slot.StaffID),
		zap.String("student_id", slot.Occupant()),
	)

	return &Result{Slot: slot}, nil
}

func (s *BookingService) rejected(workflow string, v model.Violations) *Result {
	s.metrics.observe(workflow, OutcomeRejected, v)
	s.logger.Info("Slot workflow rejected",
		zap.String("workflow", workflow),
		zap.Int("violations", len(v)),
		zap.Strings("fields", v.Fields()),
	)
	return &Result{Violations: v}
}

// loadSnapshot читает комнаты, слоты календарного дня и перечисленные аккаунты
func loadSnapshot(ctx context.Context, tx Tx, day time.Time, accountIDs ...string) (rules.Snapshot, error) {
	var snap rules.Snapshot

	rooms, err := tx.ListRooms(ctx)
	if err != nil {
		return snap, fmt.Errorf("load rooms: %w", err)
	}
	snap.Rooms = rooms

	slots, err := tx.ListSlots(ctx, model.DayFilter(day))
	if err != nil {
		return snap, fmt.Errorf("load slots: %w", err)
	}
	snap.Slots = slots

	for _, id := range accountIDs {
		account, err := tx.GetAccount(ctx, id)
		if err != nil {
			return snap, fmt.Errorf("load account: %w", err)
		}
		if account != nil {
			snap.Accounts = append(snap.Accounts, *account)
		}
	}

	return snap, nil
}

func requireAccount(ctx context.Context, tx Tx, id string, role model.Role) error {
	account, err := tx.GetAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if account == nil || account.Role != role {
		return fmt.Errorf("%w: %s %s", ErrUnknownAccount, role, id)
	}
	return nil
}

func slotExistsRejection(roomID string, start time.Time) *rejection {
	var v model.Violations
	v.Add(model.FieldRoomID, fmt.Sprintf("Slot at room %s %s already exists.", roomID, model.FormatDateShortHour(start)))
	return &rejection{violations: v}
}

func appendSlotEvent(ctx context.Context, tx Tx, eventType string, slot *model.Slot, actorID string) error {
	payload, err := json.Marshal(model.SlotEvent{
		RoomID:    slot.RoomID,
		StartTime: slot.StartTime,
		StaffID:   slot.StaffID,
		StudentID: slot.Occupant(),
		ActorID:   actorID,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return tx.AppendEvent(ctx, &model.Event{
		Type:        eventType,
		AggregateID: slot.Key().AggregateID(),
		Payload:     payload,
	})
}
