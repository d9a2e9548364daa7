// Package apperr определяет типизированные доменные ошибки ядра.
//
// Ядро возвращает только эти типы; преобразование в HTTP-статусы —
// ответственность слоя обработчиков. Любая из ошибок прерывает
// объемлющую транзакцию, частичного состояния операции не оставляют.
package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError — запрошенная сущность отсутствует в хранилище.
type NotFoundError struct {
	Entity string // Вид сущности: user, publication, subscription, review
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// NotFound создает NotFoundError для сущности с данным идентификатором.
func NotFound(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// UnauthorizedError — актор не владеет ресурсом, над которым выполняет операцию.
type UnauthorizedError struct {
	Actor    string
	Resource string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("user %s is not allowed to access %s", e.Actor, e.Resource)
}

// Unauthorized создает UnauthorizedError для актора и ресурса.
func Unauthorized(actor, resource string) *UnauthorizedError {
	return &UnauthorizedError{Actor: actor, Resource: resource}
}

// InvalidStateError — операция неприменима к текущему состоянию записи,
// например одобрение не-PENDING рецензии или отмена не-ACTIVE подписки.
type InvalidStateError struct {
	Op           string
	CurrentState string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("operation %s is not allowed in state %s", e.Op, e.CurrentState)
}

// InvalidState создает InvalidStateError для операции и текущего состояния.
func InvalidState(op, currentState string) *InvalidStateError {
	return &InvalidStateError{Op: op, CurrentState: currentState}
}

// InsufficientPointsError — на балансе меньше баллов, чем требует списание.
type InsufficientPointsError struct {
	Required  int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}

// InsufficientPoints создает InsufficientPointsError с требуемым и доступным балансом.
func InsufficientPoints(required, available int) *InsufficientPointsError {
	return &InsufficientPointsError{Required: required, Available: available}
}

// ValidationError — входные данные нарушают доменные правила:
// окно рецензирования, минимумы слов и предложений.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation создает ValidationError с причиной.
func Validation(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// ConflictError — операция исчерпала бюджет повторов из-за конкурентного
// конфликта, например генерация номера подписки.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// Conflict создает ConflictError с причиной.
func Conflict(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// IsDomain сообщает, относится ли ошибка к доменной таксономии ядра.
// Все прочие ошибки трактуются как недоступность хранилища.
func IsDomain(err error) bool {
	var (
		nf *NotFoundError
		ua *UnauthorizedError
		is *InvalidStateError
		ip *InsufficientPointsError
		ve *ValidationError
		ce *ConflictError
	)
	return errors.As(err, &nf) || errors.As(err, &ua) || errors.As(err, &is) ||
		errors.As(err, &ip) || errors.As(err, &ve) || errors.As(err, &ce)
}
