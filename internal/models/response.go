package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
// Каждый неуспешный ответ содержит единственное человекочитаемое поле error.
type ErrorResponse struct {
	Error string `json:"error"`
}
