// Package api содержит DTO, общие для клиента и эталонного сервера.
package api

import "time"

const (
	// HeaderContentSHA256 hex SHA-256 тела upload запроса
	HeaderContentSHA256 = "X-Content-SHA256"

	// HeaderDeviceID идентификатор устройства клиента
	HeaderDeviceID = "X-Device-ID"

	// QueryForceUpdate флаг PUT запроса: перезаписать сущность без проверки версии (client-wins)
	QueryForceUpdate = "forceUpdate"

	// BasePath префикс всех маршрутов API
	BasePath = "/api/v1"

	// EntitiesPath префикс маршрутов сущностей, дальше идет /{entityType}/{id}
	EntitiesPath = BasePath + "/entities"
)

// EntityResponse конверт ответа на операции с сущностью: {success, data}
type EntityResponse struct {
	Data    map[string]any `json:"data,omitempty"`    // представление сущности, включая id и version
	Message string         `json:"message,omitempty"` // дополнительное сообщение
	Success bool           `json:"success"`
}

// VersionData текущая версия сущности на сервере
type VersionData struct {
	Version int64 `json:"version"`
}

// VersionResponse ответ GET /{entityType}/{id}/version
type VersionResponse struct {
	Data    VersionData `json:"data"`
	Success bool        `json:"success"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Time    time.Time `json:"time"`
	Status  string    `json:"status"`
	Version string    `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Data    map[string]any `json:"data,omitempty"`    // текущая серверная запись при 409
	Error   string         `json:"error"`             // описание ошибки
	Message string         `json:"message,omitempty"` // дополнительное сообщение
	Success bool           `json:"success"`
}
