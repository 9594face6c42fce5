package handler

import (
	"net/http"
	"time"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// importMaxUpload caps CSV upload size at 5 MiB
const importMaxUpload = 5 << 20

// CollectionHandler serves sandwich collection endpoints
type CollectionHandler struct {
	collectionService *service.CollectionService
	importService     *service.ImportService
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collectionService *service.CollectionService, importService *service.ImportService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService, importService: importService}
}

// Create handles POST /v1/collections
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateCollectionInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	collection, err := h.collectionService.Create(r.Context(), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, collection, map[string]string{"self": "/v1/collections/" + collection.ID})
}

// List handles GET /v1/collections
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	from, ok := queryTime(r, "from")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid from date"))
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid to date"))
		return
	}

	filters := &model.CollectionFilters{
		HostID: r.URL.Query().Get("host_id"),
		From:   from,
		To:     to,
		Limit:  queryInt(r, "limit", 0),
	}

	collections, err := h.collectionService.List(r.Context(), filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, collections, len(collections))
}

// Get handles GET /v1/collections/{collectionId}
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, err := h.collectionService.Get(r.Context(), r.PathValue("collectionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, collection, map[string]string{"self": "/v1/collections/" + collection.ID})
}

// Update handles PATCH /v1/collections/{collectionId}
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.UpdateCollectionInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	collection, err := h.collectionService.Update(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("collectionId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, collection, nil)
}

// Delete handles DELETE /v1/collections/{collectionId}
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	err := h.collectionService.Delete(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("collectionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// Import handles POST /v1/collections/import. The CSV file is uploaded as
// multipart form data under the "file" field.
func (h *CollectionHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(importMaxUpload); err != nil {
		WriteError(w, model.NewBadRequestError("expected multipart form with a file field"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		WriteError(w, model.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	report, err := h.importService.Import(r.Context(), userID, file)
	if err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return
	}
	WriteData(w, http.StatusOK, report, nil)
}

// DeleteBatch handles DELETE /v1/collections/import/{batchId}
func (h *CollectionHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	count, err := h.collectionService.DeleteBatch(r.Context(), r.PathValue("batchId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": count})
}

// Duplicates handles GET /v1/collections/duplicates. Defaults to scanning
// the last 90 days.
func (h *CollectionHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	from, ok := queryTime(r, "from")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid from date"))
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid to date"))
		return
	}

	rangeFrom := time.Now().AddDate(0, 0, -90)
	rangeTo := time.Now()
	if from != nil {
		rangeFrom = *from
	}
	if to != nil {
		rangeTo = *to
	}

	groups, err := h.collectionService.FindDuplicates(r.Context(), rangeFrom, rangeTo)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, groups, len(groups))
}

// ResolveDuplicates handles POST /v1/collections/duplicates/resolve. Admin
// only; keeps the earliest record of each exact-duplicate group.
func (h *CollectionHandler) ResolveDuplicates(w http.ResponseWriter, r *http.Request) {
	from, ok := queryTime(r, "from")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid from date"))
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid to date"))
		return
	}

	rangeFrom := time.Now().AddDate(0, 0, -90)
	rangeTo := time.Now()
	if from != nil {
		rangeFrom = *from
	}
	if to != nil {
		rangeTo = *to
	}

	deleted, err := h.collectionService.ResolveDuplicates(r.Context(), rangeFrom, rangeTo)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

// Stats handles GET /v1/collections/stats
func (h *CollectionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	from, ok := queryTime(r, "from")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid from date"))
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid to date"))
		return
	}

	stats, err := h.collectionService.Stats(r.Context(), from, to)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, stats, nil)
}
