package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janvolk/upkeep/internal/dates"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// TasksHandler handles task CRUD endpoints.
type TasksHandler struct {
	DB *sql.DB
}

type taskRequest struct {
	AssetID          int64  `json:"asset_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	DueDate          string `json:"due_date"`
	RecurrenceRule   string `json:"recurrence_rule"`
	Status           string `json:"status"`
	Priority         int    `json:"priority"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Cost             string `json:"cost"`
	Vendor           string `json:"vendor"`
}

// toModel validates the request and builds a task for the given user.
func (req *taskRequest) toModel(userID int64) (*model.Task, string) {
	if req.Title == "" {
		return nil, "title required"
	}
	if req.AssetID == 0 {
		return nil, "asset required"
	}
	if req.Status != "" && !model.ValidTaskStatus(req.Status) {
		return nil, "invalid status"
	}

	t := &model.Task{
		UserID:           userID,
		AssetID:          req.AssetID,
		Title:            req.Title,
		Description:      req.Description,
		RecurrenceRule:   req.RecurrenceRule,
		Status:           req.Status,
		Priority:         req.Priority,
		EstimatedMinutes: req.EstimatedMinutes,
		Vendor:           req.Vendor,
	}
	if req.DueDate != "" {
		due, ok := dates.ParseISODate(req.DueDate)
		if !ok {
			return nil, "invalid due date"
		}
		t.DueDate = &due
	}
	if req.Cost != "" {
		c, err := decimal.NewFromString(req.Cost)
		if err != nil || c.IsNegative() {
			return nil, "invalid cost"
		}
		t.Cost = decimal.NullDecimal{Decimal: c, Valid: true}
	}
	return t, ""
}

// List handles GET /api/tasks with optional status, window, asset, and search
// filters taken from the query string.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	q := r.URL.Query()

	filter := store.TaskFilter{
		Status: q.Get("status"),
		Window: q.Get("window"),
		Search: q.Get("q"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	}
	if assetID, err := strconv.ParseInt(q.Get("asset_id"), 10, 64); err == nil {
		filter.AssetID = assetID
	}

	tasks, err := store.ListTasks(r.Context(), h.DB, claims.UserID, dates.DateOnly(time.Now()), filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	jsonResponse(w, http.StatusOK, tasks)
}

// Create handles POST /api/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, msg := req.toModel(claims.UserID)
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, claims.UserID, t.AssetID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to check asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusBadRequest, "asset not found")
		return
	}

	created, err := store.CreateTask(r.Context(), h.DB, t)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/tasks/{id}.
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := store.GetTask(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task == nil {
		jsonError(w, http.StatusNotFound, "task not found")
		return
	}

	jsonResponse(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	existing, err := store.GetTask(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "task not found")
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, msg := req.toModel(claims.UserID)
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	t.ID = id
	if t.Status == "" {
		t.Status = existing.Status
	}

	if err := store.UpdateTask(r.Context(), h.DB, t); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	updated, _ := store.GetTask(r.Context(), h.DB, claims.UserID, id)
	jsonResponse(w, http.StatusOK, updated)
}

// Complete handles POST /api/tasks/{id}/complete.
func (h *TasksHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	existing, err := store.GetTask(r.Context(), h.DB, claims.UserID, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := store.CompleteTask(r.Context(), h.DB, claims.UserID, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to complete task")
		return
	}

	updated, _ := store.GetTask(r.Context(), h.DB, claims.UserID, id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := store.DeleteTask(r.Context(), h.DB, claims.UserID, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
