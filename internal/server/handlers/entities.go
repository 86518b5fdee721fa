package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/iudanet/fieldsync/internal/crypto"
	"github.com/iudanet/fieldsync/internal/models"
	"github.com/iudanet/fieldsync/internal/server/storage"
	"github.com/iudanet/fieldsync/internal/validation"
	"github.com/iudanet/fieldsync/pkg/api"
)

// DefaultMaxUploadSize предел тела upload запроса по умолчанию
const DefaultMaxUploadSize = 32 << 20

// maxJSONBodySize предел тела JSON запроса
const maxJSONBodySize = 4 << 20

// EntityHandler реализует REST контракт удаленного хранилища сущностей
type EntityHandler struct {
	logger        *slog.Logger
	storage       storage.EntityStorage
	newID         func() string
	maxUploadSize int64
}

// NewEntityHandler создает handler сущностей
func NewEntityHandler(logger *slog.Logger, entityStorage storage.EntityStorage, maxUploadSize int64) *EntityHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &EntityHandler{
		logger:        logger,
		storage:       entityStorage,
		maxUploadSize: maxUploadSize,
		newID:         uuid.NewString,
	}
}

// Register регистрирует маршруты сущностей; wrap оборачивает каждый маршрут (auth, rate limit)
func (h *EntityHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}

	prefix := api.EntitiesPath + "/{entityType}"
	mux.Handle("POST "+prefix, wrap(http.HandlerFunc(h.Create)))
	mux.Handle("GET "+prefix+"/{id}", wrap(http.HandlerFunc(h.Get)))
	mux.Handle("PUT "+prefix+"/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+prefix+"/{id}", wrap(http.HandlerFunc(h.Delete)))
	mux.Handle("GET "+prefix+"/{id}/version", wrap(http.HandlerFunc(h.GetVersion)))
	mux.Handle("POST "+prefix+"/{id}/upload", wrap(http.HandlerFunc(h.Upload)))
}

// Create обрабатывает POST /api/v1/entities/{entityType}
// id берется из тела; без id сервер генерирует UUID. Повторный POST
// того же id заменяет поля, поэтому повтор доставки безопасен.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityType, ok := h.entityType(w, r)
	if !ok {
		return
	}

	body, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	entityID := h.newID()
	if raw, exists := body["id"]; exists {
		id, isString := raw.(string)
		if !isString {
			sendError(h.logger, w, "id must be a string", http.StatusBadRequest, nil)
			return
		}
		entityID = id
	}
	if err := validation.ValidateEntityID(entityID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	entity, err := h.storage.CreateEntity(ctx, entityType, entityID, body)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to create entity", h.attrs(r, entityType, entityID, err)...)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError, nil)
		return
	}

	h.logger.InfoContext(ctx, "Entity created",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.Int64("version", entity.Version))

	sendJSON(h.logger, w, api.EntityResponse{Success: true, Data: entity.Representation()}, http.StatusCreated)
}

// Get обрабатывает GET /api/v1/entities/{entityType}/{id}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityType, entityID, ok := h.entityKey(w, r)
	if !ok {
		return
	}

	entity, err := h.storage.GetEntity(r.Context(), entityType, entityID)
	if err != nil {
		h.sendStorageError(w, r, "Failed to get entity", entityType, entityID, err)
		return
	}

	sendJSON(h.logger, w, api.EntityResponse{Success: true, Data: entity.Representation()}, http.StatusOK)
}

// GetVersion обрабатывает GET /api/v1/entities/{entityType}/{id}/version
func (h *EntityHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	entityType, entityID, ok := h.entityKey(w, r)
	if !ok {
		return
	}

	entity, err := h.storage.GetEntity(r.Context(), entityType, entityID)
	if err != nil {
		h.sendStorageError(w, r, "Failed to get entity version", entityType, entityID, err)
		return
	}

	sendJSON(h.logger, w, api.VersionResponse{Success: true, Data: api.VersionData{Version: entity.Version}}, http.StatusOK)
}

// Update обрабатывает PUT /api/v1/entities/{entityType}/{id}
// Поле version тела задает базовую версию; если она отстает от серверной,
// ответ 409 с текущей записью. ?forceUpdate=true отключает проверку.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityType, entityID, ok := h.entityKey(w, r)
	if !ok {
		return
	}

	force, err := parseForce(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	body, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	var expected *int64
	if !force {
		if _, exists := body[models.VersionField]; exists {
			v, valid := models.VersionOf(body)
			if !valid {
				sendError(h.logger, w, "version must be an integer", http.StatusBadRequest, nil)
				return
			}
			expected = &v
		}
	}

	entity, err := h.storage.UpdateEntity(ctx, entityType, entityID, body, expected)
	if errors.Is(err, storage.ErrVersionConflict) {
		h.logger.InfoContext(ctx, "Version conflict",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.Int64("base_version", *expected),
			slog.Int64("server_version", entity.Version))
		sendError(h.logger, w, fmt.Sprintf("version %d is behind server version %d", *expected, entity.Version),
			http.StatusConflict, entity.Representation())
		return
	}
	if err != nil {
		h.sendStorageError(w, r, "Failed to update entity", entityType, entityID, err)
		return
	}

	h.logger.InfoContext(ctx, "Entity updated",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.Int64("version", entity.Version),
		slog.Bool("force", force))

	sendJSON(h.logger, w, api.EntityResponse{Success: true, Data: entity.Representation()}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/entities/{entityType}/{id}
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityType, entityID, ok := h.entityKey(w, r)
	if !ok {
		return
	}

	entity, err := h.storage.DeleteEntity(ctx, entityType, entityID)
	if err != nil {
		h.sendStorageError(w, r, "Failed to delete entity", entityType, entityID, err)
		return
	}

	h.logger.InfoContext(ctx, "Entity deleted",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.Int64("version", entity.Version))

	sendJSON(h.logger, w, api.EntityResponse{Success: true, Data: entity.Representation()}, http.StatusOK)
}

// Upload обрабатывает POST /api/v1/entities/{entityType}/{id}/upload
// Тело запроса - сырое содержимое, заголовок X-Content-SHA256 обязателен
func (h *EntityHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entityType, entityID, ok := h.entityKey(w, r)
	if !ok {
		return
	}

	digest := r.Header.Get(api.HeaderContentSHA256)
	if digest == "" {
		sendError(h.logger, w, api.HeaderContentSHA256+" header is required", http.StatusBadRequest, nil)
		return
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(h.logger, w, fmt.Sprintf("upload exceeds %d bytes", h.maxUploadSize), http.StatusRequestEntityTooLarge, nil)
			return
		}
		sendError(h.logger, w, "failed to read upload body", http.StatusBadRequest, nil)
		return
	}

	if err := crypto.VerifyPayloadDigest(content, digest); err != nil {
		h.logger.WarnContext(ctx, "Upload digest mismatch",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	entity, err := h.storage.SaveUpload(ctx, entityType, entityID, &storage.Upload{
		Content:     content,
		ContentType: contentType,
		SHA256:      digest,
	})
	if err != nil {
		h.sendStorageError(w, r, "Failed to save upload", entityType, entityID, err)
		return
	}

	h.logger.InfoContext(ctx, "Upload stored",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.Int("size", len(content)),
		slog.Int64("version", entity.Version))

	sendJSON(h.logger, w, api.EntityResponse{Success: true, Data: entity.Representation()}, http.StatusCreated)
}

func (h *EntityHandler) entityType(w http.ResponseWriter, r *http.Request) (string, bool) {
	entityType := r.PathValue("entityType")
	if err := validation.ValidateEntityType(entityType); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest, nil)
		return "", false
	}
	return entityType, true
}

func (h *EntityHandler) entityKey(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	entityType, ok := h.entityType(w, r)
	if !ok {
		return "", "", false
	}

	entityID := r.PathValue("id")
	if err := validation.ValidateEntityID(entityID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest, nil)
		return "", "", false
	}
	return entityType, entityID, true
}

// decodeBody читает JSON объект; числа остаются json.Number
func (h *EntityHandler) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err != nil {
		sendError(h.logger, w, "failed to read request body", http.StatusRequestEntityTooLarge, nil)
		return nil, false
	}

	body := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, true
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		sendError(h.logger, w, "request body must be a JSON object", http.StatusBadRequest, nil)
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

func (h *EntityHandler) sendStorageError(w http.ResponseWriter, r *http.Request, msg, entityType, entityID string, err error) {
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
		sendError(h.logger, w, "entity not found", http.StatusNotFound, nil)
	default:
		h.logger.ErrorContext(r.Context(), msg, h.attrs(r, entityType, entityID, err)...)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError, nil)
	}
}

func (h *EntityHandler) attrs(r *http.Request, entityType, entityID string, err error) []any {
	attrs := []any{
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.Any("error", err),
	}
	if deviceID, ok := GetDeviceID(r.Context()); ok {
		attrs = append(attrs, slog.String("device_id", deviceID))
	}
	return attrs
}

func parseForce(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get(api.QueryForceUpdate)
	if raw == "" {
		return false, nil
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", api.QueryForceUpdate, raw)
	}
	return force, nil
}
