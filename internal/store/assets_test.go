package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/janvolk/upkeep/internal/db"
	"github.com/janvolk/upkeep/internal/model"
)

func testUser(t *testing.T, database *sql.DB) int64 {
	t.Helper()
	user, err := CreateUser(context.Background(), database, "owner@example.com", "hash")
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user.ID
}

func TestCreateAndGetAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)

	warranty := time.Date(2027, time.March, 1, 0, 0, 0, 0, time.Local)
	asset, err := CreateAsset(ctx, database, &model.Asset{
		UserID:             userID,
		Name:               "Washing Machine",
		Type:               model.AssetTypeAppliance,
		Make:               "Bosch",
		Model:              "WAN28280",
		Serial:             "SN-123",
		WarrantyExpiration: &warranty,
		Notes:              "Basement",
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if asset.Name != "Washing Machine" {
		t.Errorf("expected name, got %q", asset.Name)
	}
	if asset.WarrantyExpiration == nil || asset.WarrantyExpiration.Format("2006-01-02") != "2027-03-01" {
		t.Errorf("expected warranty 2027-03-01, got %v", asset.WarrantyExpiration)
	}

	got, err := GetAsset(ctx, database, userID, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got == nil || got.Make != "Bosch" {
		t.Errorf("GetAsset returned %+v", got)
	}
}

func TestGetAssetScopedToUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)
	other, _ := CreateUser(ctx, database, "other@example.com", "hash")

	asset, _ := CreateAsset(ctx, database, &model.Asset{UserID: userID, Name: "Car"})

	got, err := GetAsset(ctx, database, other.ID, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got != nil {
		t.Error("expected nil when fetching another user's asset")
	}
}

func TestListAssetsSearch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)

	CreateAsset(ctx, database, &model.Asset{UserID: userID, Name: "Lawn Mower"})
	CreateAsset(ctx, database, &model.Asset{UserID: userID, Name: "Dishwasher"})

	all, err := ListAssets(ctx, database, userID, "")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 assets, got %d", len(all))
	}

	matches, err := ListAssets(ctx, database, userID, "mower")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Lawn Mower" {
		t.Errorf("expected the mower, got %+v", matches)
	}
}

func TestUpdateAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)

	asset, _ := CreateAsset(ctx, database, &model.Asset{UserID: userID, Name: "Boiler"})
	asset.Name = "Gas Boiler"
	asset.Type = model.AssetTypeHome
	if err := UpdateAsset(ctx, database, asset); err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}

	got, _ := GetAsset(ctx, database, userID, asset.ID)
	if got.Name != "Gas Boiler" || got.Type != model.AssetTypeHome {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDeleteAssetCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := testUser(t, database)

	asset, _ := CreateAsset(ctx, database, &model.Asset{UserID: userID, Name: "Furnace"})
	task, _ := CreateTask(ctx, database, &model.Task{UserID: userID, AssetID: asset.ID, Title: "Replace filter"})
	taskID := task.ID
	CreateAttachment(ctx, database, &model.Attachment{UserID: userID, TaskID: &taskID}, []byte("receipt"))

	if err := DeleteAsset(ctx, database, userID, asset.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}

	gotTask, _ := GetTask(ctx, database, userID, task.ID)
	if gotTask != nil {
		t.Error("expected task to be deleted with its asset")
	}
	attachments, _ := ListTaskAttachments(ctx, database, userID, task.ID)
	if len(attachments) != 0 {
		t.Errorf("expected attachments to be deleted with the asset, got %d", len(attachments))
	}
}
