// Package memory хранилище в памяти процесса. Используется в тестах и при STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"github.com/google/uuid"
)

type slotKey struct {
	roomID string
	start  int64
}

func keyOf(k model.SlotKey) slotKey {
	return slotKey{roomID: k.RoomID, start: k.StartTime.UnixNano()}
}

type state struct {
	rooms    map[string]model.Room
	accounts map[string]model.Account
	slots    map[slotKey]model.Slot
	events   []model.Event
}

func newState() *state {
	return &state{
		rooms:    make(map[string]model.Room),
		accounts: make(map[string]model.Account),
		slots:    make(map[slotKey]model.Slot),
	}
}

func (s *state) clone() *state {
	c := &state{
		rooms:    make(map[string]model.Room, len(s.rooms)),
		accounts: make(map[string]model.Account, len(s.accounts)),
		slots:    make(map[slotKey]model.Slot, len(s.slots)),
		events:   make([]model.Event, len(s.events)),
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	copy(c.events, s.events)
	return c
}

// Store хранилище в памяти. Все транзакции выполняются по одной, что
// заодно сериализует работу с каждым календарным днём.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

var _ service.Store = (*Store)(nil)

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{
		state: newState(),
		now:   time.Now,
	}
}

// Within выполняет fn над копией состояния и подменяет состояние при успехе
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx service.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(ctx, &tx{state: work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// WithinDay то же что Within: мьютекс уже исключает параллельную работу с днём
func (s *Store) WithinDay(ctx context.Context, _ time.Time, fn func(ctx context.Context, tx service.Tx) error) error {
	return s.Within(ctx, fn)
}

// PublishPending публикует неопубликованные события по порядку.
// publish вызывается без блокировки, чтобы брокер не задерживал операции со слотами.
func (s *Store) PublishPending(ctx context.Context, limit int, publish service.PublishFunc) (int, error) {
	pending := s.pending(limit)

	published := 0
	for _, event := range pending {
		if err := publish(ctx, event); err != nil {
			return published, err
		}
		s.markPublished(event.ID)
		published++
	}
	return published, nil
}

// pending копирует до limit неопубликованных событий
func (s *Store) pending(limit int) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Event
	for _, event := range s.state.events {
		if len(out) >= limit {
			break
		}
		if event.PublishedAt == nil {
			out = append(out, event)
		}
	}
	return out
}

func (s *Store) markPublished(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.events {
		if s.state.events[i].ID == id {
			at := s.now()
			s.state.events[i].PublishedAt = &at
			return
		}
	}
}

// Ping всегда успешен
func (s *Store) Ping(context.Context) error {
	return nil
}

// Events возвращает копию всех событий outbox
func (s *Store) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.state.events))
	copy(out, s.state.events)
	return out
}

func (s *Store) ListRooms(ctx context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{state: s.state}).ListRooms(ctx)
}

func (s *Store) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{state: s.state}).GetRoom(ctx, id)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{state: s.state}).GetAccount(ctx, id)
}

func (s *Store) GetAccountByTelegramID(ctx context.Context, telegramID int64) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{state: s.state}).GetAccountByTelegramID(ctx, telegramID)
}

func (s *Store) ListSlots(ctx context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&tx{state: s.state}).ListSlots(ctx, filter)
}

// tx работает с копией состояния внутри Within
type tx struct {
	state *state
	now   func() time.Time
}

func (t *tx) ListRooms(context.Context) ([]model.Room, error) {
	rooms := make([]model.Room, 0, len(t.state.rooms))
	for _, room := range t.state.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (t *tx) GetRoom(_ context.Context, id string) (*model.Room, error) {
	room, ok := t.state.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (t *tx) GetAccount(_ context.Context, id string) (*model.Account, error) {
	account, ok := t.state.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (t *tx) GetAccountByTelegramID(_ context.Context, telegramID int64) (*model.Account, error) {
	for _, account := range t.state.accounts {
		if account.TelegramID != nil && *account.TelegramID == telegramID {
			return &account, nil
		}
	}
	return nil, nil
}

func (t *tx) ListSlots(_ context.Context, filter model.SlotFilter) ([]model.Slot, error) {
	var slots []model.Slot
	for _, slot := range t.state.slots {
		if filter.Match(&slot) {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].RoomID < slots[j].RoomID
	})
	return slots, nil
}

func (t *tx) InsertRoom(_ context.Context, room *model.Room) error {
	if _, ok := t.state.rooms[room.ID]; ok {
		return model.ErrDuplicate
	}
	room.CreatedAt = t.now()
	t.state.rooms[room.ID] = *room
	return nil
}

func (t *tx) InsertAccount(_ context.Context, account *model.Account) error {
	if _, ok := t.state.accounts[account.ID]; ok {
		return model.ErrDuplicate
	}
	if account.TelegramID != nil {
		if other, _ := t.GetAccountByTelegramID(context.Background(), *account.TelegramID); other != nil {
			return model.ErrDuplicate
		}
	}
	account.CreatedAt = t.now()
	t.state.accounts[account.ID] = *account
	return nil
}

func (t *tx) SetTelegramID(ctx context.Context, accountID string, telegramID int64) error {
	account, ok := t.state.accounts[accountID]
	if !ok {
		return model.ErrNotFound
	}
	if other, _ := t.GetAccountByTelegramID(ctx, telegramID); other != nil && other.ID != accountID {
		return model.ErrDuplicate
	}
	account.TelegramID = &telegramID
	t.state.accounts[accountID] = account
	return nil
}

func (t *tx) InsertSlot(_ context.Context, slot *model.Slot) error {
	key := keyOf(slot.Key())
	if _, ok := t.state.slots[key]; ok {
		return model.ErrSlotConflict
	}
	slot.CreatedAt = t.now()
	t.state.slots[key] = *slot
	return nil
}

func (t *tx) UpdateSlotStudent(_ context.Context, key model.SlotKey, studentID *string) error {
	k := keyOf(key)
	slot, ok := t.state.slots[k]
	if !ok {
		return model.ErrNotFound
	}
	if studentID != nil {
		id := *studentID
		studentID = &id
	}
	slot.StudentID = studentID
	t.state.slots[k] = slot
	return nil
}

func (t *tx) DeleteSlot(_ context.Context, key model.SlotKey) error {
	k := keyOf(key)
	if _, ok := t.state.slots[k]; !ok {
		return model.ErrNotFound
	}
	delete(t.state.slots, k)
	return nil
}

func (t *tx) AppendEvent(_ context.Context, event *model.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = t.now()
	t.state.events = append(t.state.events, *event)
	return nil
}
