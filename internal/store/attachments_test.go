package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/janvolk/upkeep/internal/db"
	"github.com/janvolk/upkeep/internal/model"
)

func TestAttachmentRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)
	assetID := testAsset(t, database, userID, "Boiler")
	task, _ := CreateTask(ctx, database, &model.Task{UserID: userID, AssetID: assetID, Title: "Service"})
	taskID := task.ID

	payload := []byte("fake pdf bytes")
	att, err := CreateAttachment(ctx, database, &model.Attachment{
		UserID:       userID,
		TaskID:       &taskID,
		OriginalName: "invoice.pdf",
		MIME:         "application/pdf",
	}, payload)
	if err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}
	if att.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), att.Size)
	}

	data, mime, name, err := GetAttachmentData(ctx, database, userID, att.ID)
	if err != nil {
		t.Fatalf("GetAttachmentData: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("attachment bytes did not round-trip")
	}
	if mime != "application/pdf" || name != "invoice.pdf" {
		t.Errorf("unexpected metadata: %q %q", mime, name)
	}

	list, err := ListTaskAttachments(ctx, database, userID, taskID)
	if err != nil {
		t.Fatalf("ListTaskAttachments: %v", err)
	}
	if len(list) != 1 || list[0].OriginalName != "invoice.pdf" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestAttachmentScopedToUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)
	other, _ := CreateUser(ctx, database, "other@example.com", "hash")
	assetID := testAsset(t, database, userID, "Car")
	task, _ := CreateTask(ctx, database, &model.Task{UserID: userID, AssetID: assetID, Title: "Wash"})
	taskID := task.ID

	att, _ := CreateAttachment(ctx, database, &model.Attachment{UserID: userID, TaskID: &taskID}, []byte("x"))

	data, _, _, err := GetAttachmentData(ctx, database, other.ID, att.ID)
	if err != nil {
		t.Fatalf("GetAttachmentData: %v", err)
	}
	if data != nil {
		t.Error("expected nil data for another user's attachment")
	}
}

func TestDeleteAttachment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)
	assetID := testAsset(t, database, userID, "Car")
	task, _ := CreateTask(ctx, database, &model.Task{UserID: userID, AssetID: assetID, Title: "Wash"})
	taskID := task.ID

	att, _ := CreateAttachment(ctx, database, &model.Attachment{UserID: userID, TaskID: &taskID}, []byte("x"))
	if err := DeleteAttachment(ctx, database, userID, att.ID); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}

	got, err := GetAttachment(ctx, database, userID, att.ID)
	if err != nil {
		t.Fatalf("GetAttachment: %v", err)
	}
	if got != nil {
		t.Error("expected attachment to be gone")
	}
}
