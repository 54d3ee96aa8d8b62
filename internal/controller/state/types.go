package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ожидаем "комната дата время" для операции со слотом
	StateCreateSlot    UserState = "create_slot"
	StateRemoveSlot    UserState = "remove_slot"
	StateBookSlot      UserState = "book_slot"
	StateCancelBooking UserState = "cancel_booking"

	// Ожидаем имя новой комнаты
	StateAddRoom UserState = "add_room"
)

// DefaultTTL сколько живёт незавершённый диалог
const DefaultTTL = 10 * time.Minute

// UserData хранит состояние пользователя во время диалога
type UserData struct {
	State     UserState
	UpdatedAt time.Time
}
