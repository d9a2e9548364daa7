// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате,
// а также преобразование типизированных доменных ошибок в HTTP-статусы.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/readsphere/readsphere-backend/internal/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "gt", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is out of range", err.Field()))
		case "datetime=2006-01-02":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only date in format 2006-01-02", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// AppError преобразует типизированную доменную ошибку в HTTP-статус и
// JSON-ответ. Недоменные ошибки трактуются как недоступность хранилища
// и отдаются как 500 с обезличенным сообщением.
func AppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		nf *apperr.NotFoundError
		ua *apperr.UnauthorizedError
		is *apperr.InvalidStateError
		ip *apperr.InsufficientPointsError
		ve *apperr.ValidationError
		ce *apperr.ConflictError
	)
	switch {
	case errors.As(err, &nf):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, Error(nf.Error()))
	case errors.As(err, &ua):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, Error(ua.Error()))
	case errors.As(err, &is):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, Error(is.Error()))
	case errors.As(err, &ip):
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, Error(ip.Error()))
	case errors.As(err, &ve):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, Error(ve.Error()))
	case errors.As(err, &ce):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, Error(ce.Error()))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, Error("internal error"))
	}
}
