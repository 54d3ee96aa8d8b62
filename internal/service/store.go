package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
)

// Reader чтение комнат, аккаунтов и слотов.
// Одиночные выборки возвращают (nil, nil) если записи нет.
type Reader interface {
	ListRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetAccountByTelegramID(ctx context.Context, telegramID int64) (*model.Account, error)
	ListSlots(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error)
}

// Tx операции внутри одной транзакции хранилища
type Tx interface {
	Reader
	InsertRoom(ctx context.Context, room *model.Room) error
	InsertAccount(ctx context.Context, account *model.Account) error
	SetTelegramID(ctx context.Context, accountID string, telegramID int64) error
	InsertSlot(ctx context.Context, slot *model.Slot) error
	UpdateSlotStudent(ctx context.Context, key model.SlotKey, studentID *string) error
	DeleteSlot(ctx context.Context, key model.SlotKey) error
	AppendEvent(ctx context.Context, event *model.Event) error
}

// PublishFunc отправляет одно событие outbox
type PublishFunc func(ctx context.Context, event model.Event) error

// Store хранилище, которым пользуются сервисы
type Store interface {
	Reader

	// WithinDay выполняет fn в транзакции, эксклюзивно заблокировав календарный день day.
	// Если fn вернула ошибку, транзакция откатывается.
	WithinDay(ctx context.Context, day time.Time, fn func(ctx context.Context, tx Tx) error) error

	// Within выполняет fn в транзакции без блокировки дня
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// PublishPending отдаёт до limit неопубликованных событий в publish по порядку
	// и помечает опубликованными те, что ушли успешно. Возвращает число опубликованных.
	PublishPending(ctx context.Context, limit int, publish PublishFunc) (int, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
}
