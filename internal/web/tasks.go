package web

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janvolk/upkeep/internal/dates"
	"github.com/janvolk/upkeep/internal/imaging"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// TasksPage handles GET /tasks with filters from the query string.
func (s *Server) TasksPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	q := r.URL.Query()

	filter := store.TaskFilter{
		Status: q.Get("status"),
		Window: q.Get("window"),
		Search: q.Get("q"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	}

	today := dates.DateOnly(time.Now())
	tasks, err := store.ListTasks(r.Context(), s.DB, claims.UserID, today, filter)
	if err != nil {
		slog.Error("failed to list tasks", "error", err)
	}
	assets, err := store.ListAssets(r.Context(), s.DB, claims.UserID, "")
	if err != nil {
		slog.Error("failed to list assets", "error", err)
	}

	s.Templates.Render(w, "tasks.html", &struct {
		PageData
		Tasks  []model.Task
		Assets []model.Asset
		Filter store.TaskFilter
	}{
		PageData: PageData{Title: "Tasks", User: claims},
		Tasks:    tasks,
		Assets:   assets,
		Filter:   filter,
	})
}

// taskFromForm builds a task from the submitted form fields.
func taskFromForm(r *http.Request, userID int64) (*model.Task, error) {
	title := r.FormValue("title")
	if title == "" {
		return nil, fmt.Errorf("title required")
	}
	assetID, err := strconv.ParseInt(r.FormValue("asset_id"), 10, 64)
	if err != nil || assetID == 0 {
		return nil, fmt.Errorf("asset required")
	}

	t := &model.Task{
		UserID:         userID,
		AssetID:        assetID,
		Title:          title,
		Description:    r.FormValue("description"),
		RecurrenceRule: r.FormValue("recurrence_rule"),
		Vendor:         r.FormValue("vendor"),
	}
	t.Priority, _ = strconv.Atoi(r.FormValue("priority"))
	t.EstimatedMinutes, _ = strconv.Atoi(r.FormValue("estimated_minutes"))

	if v := r.FormValue("due_date"); v != "" {
		due, ok := dates.ParseISODate(v)
		if !ok {
			return nil, fmt.Errorf("invalid due date")
		}
		t.DueDate = &due
	}
	if v := r.FormValue("cost"); v != "" {
		c, err := decimal.NewFromString(v)
		if err != nil || c.IsNegative() {
			return nil, fmt.Errorf("invalid cost")
		}
		t.Cost = decimal.NullDecimal{Decimal: c, Valid: true}
	}
	if v := r.FormValue("status"); v != "" {
		if !model.ValidTaskStatus(v) {
			return nil, fmt.Errorf("invalid status")
		}
		t.Status = v
	}
	return t, nil
}

// TaskCreateSubmit handles POST /tasks.
func (s *Server) TaskCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	t, err := taskFromForm(r, claims.UserID)
	if err != nil {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}

	asset, err := store.GetAsset(r.Context(), s.DB, claims.UserID, t.AssetID)
	if err != nil || asset == nil {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}

	if _, err := store.CreateTask(r.Context(), s.DB, t); err != nil {
		slog.Error("failed to create task", "error", err)
	} else {
		slog.Info("task created", "user", claims.Email, "task", t.Title)
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// TaskDetailPage handles GET /tasks/{id}.
func (s *Server) TaskDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	task, err := store.GetTask(r.Context(), s.DB, claims.UserID, id)
	if err != nil {
		slog.Error("failed to get task", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if task == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	attachments, err := store.ListTaskAttachments(r.Context(), s.DB, claims.UserID, id)
	if err != nil {
		slog.Error("failed to list attachments", "error", err)
	}
	assets, err := store.ListAssets(r.Context(), s.DB, claims.UserID, "")
	if err != nil {
		slog.Error("failed to list assets", "error", err)
	}

	s.Templates.Render(w, "task_detail.html", &struct {
		PageData
		Task        *model.Task
		Attachments []model.Attachment
		Assets      []model.Asset
	}{
		PageData:    PageData{Title: task.Title, User: claims},
		Task:        task,
		Attachments: attachments,
		Assets:      assets,
	})
}

// TaskUpdateSubmit handles POST /tasks/{id}.
func (s *Server) TaskUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := store.GetTask(r.Context(), s.DB, claims.UserID, id)
	if err != nil || existing == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	t, err := taskFromForm(r, claims.UserID)
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/tasks/%d", id), http.StatusSeeOther)
		return
	}
	t.ID = id
	if t.Status == "" {
		t.Status = existing.Status
	}

	if err := store.UpdateTask(r.Context(), s.DB, t); err != nil {
		slog.Error("failed to update task", "error", err)
		http.Error(w, "failed to update", http.StatusInternalServerError)
		return
	}

	slog.Info("task updated", "user", claims.Email, "task", t.Title)
	http.Redirect(w, r, fmt.Sprintf("/tasks/%d", id), http.StatusSeeOther)
}

// TaskCompleteSubmit handles POST /tasks/{id}/complete.
func (s *Server) TaskCompleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := store.CompleteTask(r.Context(), s.DB, claims.UserID, id); err != nil {
		slog.Error("failed to complete task", "error", err)
		http.Error(w, "failed to complete", http.StatusInternalServerError)
		return
	}

	slog.Info("task completed", "user", claims.Email, "task_id", id)
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// TaskDeleteSubmit handles POST /tasks/{id}/delete.
func (s *Server) TaskDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := store.DeleteTask(r.Context(), s.DB, claims.UserID, id); err != nil {
		slog.Error("failed to delete task", "error", err)
		http.Error(w, "failed to delete", http.StatusInternalServerError)
		return
	}

	slog.Info("task deleted", "user", claims.Email, "task_id", id)
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// TasksExportCSV handles GET /tasks/export. Streams every task as CSV.
func (s *Server) TasksExportCSV(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	tasks, err := store.ExportTasks(r.Context(), s.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to export tasks", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"Title", "Asset", "Due", "Status", "Priority", "Cost", "Vendor", "Completed"})
	for i := range tasks {
		t := &tasks[i]
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(dates.ISODate)
		}
		cost := ""
		if t.Cost.Valid {
			cost = t.Cost.Decimal.StringFixed(2)
		}
		completed := ""
		if t.Status == model.TaskStatusDone {
			completed = t.CompletedAt().Format(dates.ISODate)
		}
		cw.Write([]string{
			t.Title, t.AssetName, due, t.Status,
			strconv.Itoa(t.Priority), cost, t.Vendor, completed,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write CSV", "error", err)
	}
}

// AttachmentUploadSubmit handles POST /tasks/{id}/attachments.
func (s *Server) AttachmentUploadSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	task, err := store.GetTask(r.Context(), s.DB, claims.UserID, id)
	if err != nil || task == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxPDFSize)
	if err := r.ParseMultipartForm(imaging.MaxPDFSize); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meta := &model.Attachment{
		UserID:       claims.UserID,
		AssetID:      &task.AssetID,
		TaskID:       &task.ID,
		OriginalName: header.Filename,
		MIME:         result.MIME,
	}
	if _, err := store.CreateAttachment(r.Context(), s.DB, meta, result.Data); err != nil {
		slog.Error("failed to save attachment", "error", err)
		http.Error(w, "failed to save attachment", http.StatusInternalServerError)
		return
	}

	slog.Info("attachment uploaded", "user", claims.Email, "task", task.Title, "file", header.Filename)
	http.Redirect(w, r, fmt.Sprintf("/tasks/%d", id), http.StatusSeeOther)
}

// AttachmentGet handles GET /attachments/{id}, serving the stored bytes.
func (s *Server) AttachmentGet(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, name, err := store.GetAttachmentData(r.Context(), s.DB, claims.UserID, id)
	if err != nil {
		slog.Error("failed to get attachment", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write attachment response", "error", err)
	}
}

// AttachmentDeleteSubmit handles POST /attachments/{id}/delete.
func (s *Server) AttachmentDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	att, err := store.GetAttachment(r.Context(), s.DB, claims.UserID, id)
	if err != nil || att == nil {
		http.Error(w, "attachment not found", http.StatusNotFound)
		return
	}

	if err := store.DeleteAttachment(r.Context(), s.DB, claims.UserID, id); err != nil {
		slog.Error("failed to delete attachment", "error", err)
		http.Error(w, "failed to delete", http.StatusInternalServerError)
		return
	}

	if att.TaskID != nil {
		http.Redirect(w, r, fmt.Sprintf("/tasks/%d", *att.TaskID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}
