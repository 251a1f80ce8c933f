package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janvolk/upkeep/internal/model"
)

// CreateAttachment stores an uploaded file's bytes and metadata.
func CreateAttachment(ctx context.Context, db *sql.DB, a *model.Attachment, data []byte) (*model.Attachment, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO attachments (user_id, asset_id, task_id, original_name, mime, size, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.AssetID, a.TaskID, a.OriginalName, a.MIME, len(data), data,
	)
	if err != nil {
		return nil, fmt.Errorf("creating attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting attachment id: %w", err)
	}

	return GetAttachment(ctx, db, a.UserID, id)
}

// GetAttachment returns a user's attachment metadata by ID (no file bytes).
func GetAttachment(ctx context.Context, db *sql.DB, userID, id int64) (*model.Attachment, error) {
	a := &model.Attachment{}
	var name, mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, asset_id, task_id, original_name, mime, size, created_at
		 FROM attachments WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&a.ID, &a.UserID, &a.AssetID, &a.TaskID, &name, &mime, &a.Size, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting attachment: %w", err)
	}
	a.OriginalName = name.String
	a.MIME = mime.String
	return a, nil
}

// GetAttachmentData returns a user's attachment bytes, MIME type, and
// original file name. Returns nil data if the attachment does not exist.
func GetAttachmentData(ctx context.Context, db *sql.DB, userID, id int64) ([]byte, string, string, error) {
	var data []byte
	var mime, name sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT data, mime, original_name FROM attachments WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&data, &mime, &name)
	if err == sql.ErrNoRows {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("getting attachment data: %w", err)
	}
	return data, mime.String, name.String, nil
}

// ListTaskAttachments returns the metadata of a task's attachments.
func ListTaskAttachments(ctx context.Context, db *sql.DB, userID, taskID int64) ([]model.Attachment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, asset_id, task_id, original_name, mime, size, created_at
		 FROM attachments WHERE user_id = ? AND task_id = ? ORDER BY created_at DESC`,
		userID, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		var a model.Attachment
		var name, mime sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.AssetID, &a.TaskID, &name, &mime, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		a.OriginalName = name.String
		a.MIME = mime.String
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// DeleteAttachment deletes a user's attachment.
func DeleteAttachment(ctx context.Context, db *sql.DB, userID, id int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM attachments WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return nil
}
