package model

import "strings"

// Ключи полей для нарушений, совпадают с именами полей форм
const (
	FieldRoomID    = "RoomId"
	FieldStartTime = "StartTime"
	FieldStudentID = "StudentId"
	FieldStaffID   = "StaffId"
	FieldAccountID = "Id"
	FieldFirstName = "FirstName"
	FieldLastName  = "LastName"
	FieldGeneral   = ""
)

// Violation нарушение бизнес-правила или формата ввода
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations упорядоченный список нарушений одной операции.
// Пустой список означает что операцию можно выполнять.
type Violations []Violation

// Add добавляет нарушение для поля
func (v *Violations) Add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

// Empty проверяет что нарушений нет
func (v Violations) Empty() bool {
	return len(v) == 0
}

// Messages возвращает сообщения в порядке добавления
func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		out = append(out, item.Message)
	}
	return out
}

// ForField возвращает сообщения для поля
func (v Violations) ForField(field string) []string {
	var out []string
	for _, item := range v {
		if item.Field == field {
			out = append(out, item.Message)
		}
	}
	return out
}

// Fields возвращает уникальные ключи полей
func (v Violations) Fields() []string {
	seen := make(map[string]bool, len(v))
	var out []string
	for _, item := range v {
		if seen[item.Field] {
			continue
		}
		seen[item.Field] = true
		out = append(out, item.Field)
	}
	return out
}

// String склеивает сообщения построчно
func (v Violations) String() string {
	return strings.Join(v.Messages(), "\n")
}
