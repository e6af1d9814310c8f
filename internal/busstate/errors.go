package busstate

import "errors"

// Ошибки операций над состоянием автобуса. Обработчики HTTP транслируют их
// в коды ответов через errors.Is.
var (
	ErrBusNotFound  = errors.New("автобус не найден")
	ErrForbidden    = errors.New("автобус принадлежит другому оператору")
	ErrInvalidInput = errors.New("некорректные входные данные")
	ErrNotOnRoute   = errors.New("автобус не находится на маршруте")
	ErrAtCapacity   = errors.New("автобус заполнен")
	ErrStorage      = errors.New("ошибка хранилища")
)
