package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janvolk/upkeep/internal/model"
)

const assetColumns = `id, user_id, name, type, make, model, serial,
	purchase_date, warranty_expiration, notes, created_at, updated_at`

// CreateAsset creates a new asset for a user.
func CreateAsset(ctx context.Context, db *sql.DB, a *model.Asset) (*model.Asset, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO assets (user_id, name, type, make, model, serial, purchase_date, warranty_expiration, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Type, a.Make, a.Model, a.Serial,
		nullDate(a.PurchaseDate), nullDate(a.WarrantyExpiration), a.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting asset id: %w", err)
	}

	return GetAsset(ctx, db, a.UserID, id)
}

// GetAsset returns a user's asset by ID.
func GetAsset(ctx context.Context, db *sql.DB, userID, id int64) (*model.Asset, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ? AND user_id = ?`, id, userID,
	)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return a, nil
}

// ListAssets returns a user's assets, newest first, optionally filtered by a
// case-insensitive name search.
func ListAssets(ctx context.Context, db *sql.DB, userID int64, search string) ([]model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = ?`
	args := []any{userID}
	if search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

// UpdateAsset updates an asset's fields and refreshes its updated_at.
func UpdateAsset(ctx context.Context, db *sql.DB, a *model.Asset) error {
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET name = ?, type = ?, make = ?, model = ?, serial = ?,
		        purchase_date = ?, warranty_expiration = ?, notes = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		a.Name, a.Type, a.Make, a.Model, a.Serial,
		nullDate(a.PurchaseDate), nullDate(a.WarrantyExpiration), a.Notes,
		a.ID, a.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}
	return nil
}

// DeleteAsset deletes an asset. Its tasks and attachments go with it via
// foreign key cascade.
func DeleteAsset(ctx context.Context, db *sql.DB, userID, id int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM assets WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.Asset, error) {
	a := &model.Asset{}
	var typ, mk, mdl, serial, notes sql.NullString
	var purchase, warranty sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &typ, &mk, &mdl, &serial,
		&purchase, &warranty, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Type = typ.String
	a.Make = mk.String
	a.Model = mdl.String
	a.Serial = serial.String
	a.Notes = notes.String
	if purchase.Valid {
		a.PurchaseDate = &purchase.Time
	}
	if warranty.Valid {
		a.WarrantyExpiration = &warranty.Time
	}
	return a, nil
}
