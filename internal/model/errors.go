package model

import "errors"

// ErrSlotConflict запись нарушила уникальность (комната, время)
var ErrSlotConflict = errors.New("slot already exists")

// ErrNotFound изменяемая строка не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicate запись с таким ключом уже существует (комната, аккаунт)
var ErrDuplicate = errors.New("duplicate key")
