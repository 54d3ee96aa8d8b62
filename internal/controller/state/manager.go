package state

import (
	"sync"
	"time"
)

// Manager управляет состояниями пользователей. Состояние, не обновлявшееся
// дольше ttl, считается сброшенным.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		states: make(map[int64]UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists || sm.now().Sub(userData.UpdatedAt) > sm.ttl {
		return StateNone
	}
	return userData.State
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		// Если состояние None, удаляем запись
		delete(sm.states, telegramID)
		return
	}

	sm.states[telegramID] = UserData{State: state, UpdatedAt: sm.now()}
}

// ClearState очищает состояние пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Sweep удаляет просроченные состояния и возвращает их количество
func (sm *Manager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	now := sm.now()
	for id, userData := range sm.states {
		if now.Sub(userData.UpdatedAt) > sm.ttl {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}
