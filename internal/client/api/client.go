package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/fieldsync/internal/crypto"
	"github.com/iudanet/fieldsync/pkg/api"
)

// DefaultTimeout таймаут HTTP запроса по умолчанию
const DefaultTimeout = 30 * time.Second

// ErrRemoteUnavailable означает, что сервер не ответил (транспортная ошибка или таймаут)
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// StatusError ответ сервера с кодом вне 2xx или с "success": false
type StatusError struct {
	// Data текущая серверная запись, если сервер ее вернул (409)
	Data       map[string]any
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsTransient reports whether err is worth retrying: transport failures,
// timeouts, 5xx, 408 and 429. Other 4xx responses are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 ||
			se.StatusCode == http.StatusRequestTimeout ||
			se.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client представляет HTTP клиент удаленного хранилища сущностей
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	deviceID    string
}

// NewClient создает новый API клиент. accessToken может быть пустым,
// тогда заголовок Authorization не отправляется.
func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetDeviceID задает идентификатор устройства, отправляемый в заголовке X-Device-ID
func (c *Client) SetDeviceID(deviceID string) {
	c.deviceID = deviceID
}

func entityPath(entityType string, parts ...string) string {
	p := api.EntitiesPath + "/" + url.PathEscape(entityType)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// Create выполняет POST /{entityType}
func (c *Client) Create(ctx context.Context, entityType string, payload map[string]any) (map[string]any, error) {
	var resp api.EntityResponse
	if err := c.doRequest(ctx, http.MethodPost, entityPath(entityType), payload, &resp); err != nil {
		return nil, fmt.Errorf("create %s failed: %w", entityType, err)
	}
	return resp.Data, nil
}

// Update выполняет PUT /{entityType}/{id}; force перезаписывает сущность без проверки версии
func (c *Client) Update(ctx context.Context, entityType, entityID string, payload map[string]any, force bool) (map[string]any, error) {
	path := entityPath(entityType, entityID)
	if force {
		path += "?" + api.QueryForceUpdate + "=true"
	}

	var resp api.EntityResponse
	if err := c.doRequest(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return nil, fmt.Errorf("update %s/%s failed: %w", entityType, entityID, err)
	}
	return resp.Data, nil
}

// Delete выполняет DELETE /{entityType}/{id}
func (c *Client) Delete(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	var resp api.EntityResponse
	if err := c.doRequest(ctx, http.MethodDelete, entityPath(entityType, entityID), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete %s/%s failed: %w", entityType, entityID, err)
	}
	return resp.Data, nil
}

// Get выполняет GET /{entityType}/{id}
func (c *Client) Get(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	var resp api.EntityResponse
	if err := c.doRequest(ctx, http.MethodGet, entityPath(entityType, entityID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get %s/%s failed: %w", entityType, entityID, err)
	}
	return resp.Data, nil
}

// GetVersion выполняет GET /{entityType}/{id}/version
func (c *Client) GetVersion(ctx context.Context, entityType, entityID string) (int64, error) {
	var resp api.VersionResponse
	if err := c.doRequest(ctx, http.MethodGet, entityPath(entityType, entityID, "version"), nil, &resp); err != nil {
		return 0, fmt.Errorf("get version of %s/%s failed: %w", entityType, entityID, err)
	}
	return resp.Data.Version, nil
}

// Upload отправляет бинарное содержимое в POST /{entityType}/{id}/upload
// с SHA-256 в заголовке X-Content-SHA256
func (c *Client) Upload(ctx context.Context, entityType, entityID string, content []byte, contentType string) (map[string]any, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := c.newRequest(ctx, http.MethodPost, entityPath(entityType, entityID, "upload"), bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(api.HeaderContentSHA256, crypto.PayloadDigest(content))

	var resp api.EntityResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("upload %s/%s failed: %w", entityType, entityID, err)
	}
	return resp.Data, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.BasePath+"/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.deviceID != "" {
		req.Header.Set(api.HeaderDeviceID, c.deviceID)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doRequest выполняет HTTP запрос с JSON телом
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrRemoteUnavailable, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := decodeJSON(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Error
			}
			statusErr.Data = errResp.Data
		} else if len(respBody) > 0 {
			statusErr.Message = string(bytes.TrimSpace(respBody))
		}
		return statusErr
	}

	if len(respBody) == 0 {
		return nil
	}

	// 2xx с {"success": false} тоже ошибка: сервер не применил изменение
	var envelope struct {
		Success *bool          `json:"success"`
		Data    map[string]any `json:"data"`
		Message string         `json:"message"`
		Error   string         `json:"error"`
	}
	if err := decodeJSON(respBody, &envelope); err == nil && envelope.Success != nil && !*envelope.Success {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: envelope.Message, Data: envelope.Data}
		if statusErr.Message == "" {
			statusErr.Message = envelope.Error
		}
		if statusErr.Message == "" {
			statusErr.Message = "server reported failure"
		}
		return statusErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := decodeJSON(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeJSON декодирует числа как json.Number, чтобы версии не теряли точность
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
