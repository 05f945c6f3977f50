package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nannybook-service/internal/models"
)

const userCols = `id, name, role, email, phone, lat, lng, nickname, last_initial, profile_photo_url`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Role, &u.Email, &u.Phone, &u.Lat, &u.Lng,
		&u.Nickname, &u.LastInitial, &u.ProfilePhotoURL)
	return u, err
}

// GetUser loads one account; found=false when unknown.
func GetUser(ctx context.Context, db DBTX, id int64) (models.User, bool, error) {
	u, err := scanUser(db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return u, true, nil
}

// EmailInUse reports whether another account already owns the address.
func EmailInUse(ctx context.Context, db DBTX, email string, excludeUserID int64) (bool, error) {
	var id int64
	err := db.QueryRow(ctx,
		`SELECT id FROM users WHERE email=$1 AND id != $2`, email, excludeUserID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("email in use: %w", err)
	}
	return true, nil
}

// UpdateUser writes the full editable field set.
func UpdateUser(ctx context.Context, db DBTX, u models.User) error {
	q := `UPDATE users
	      SET name=$1, role=$2, email=$3, phone=$4, lat=$5, lng=$6,
	          nickname=$7, last_initial=$8, profile_photo_url=$9
	      WHERE id=$10`
	if _, err := db.Exec(ctx, q, u.Name, u.Role, u.Email, u.Phone, u.Lat, u.Lng,
		u.Nickname, u.LastInitial, u.ProfilePhotoURL, u.ID); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// CountsSnapshot backs the health endpoint.
type CountsSnapshot struct {
	Users   int64 `json:"users"`
	Nannies int64 `json:"nannies"`
	Reviews int64 `json:"reviews"`
}

// Counts returns basic table counts for the health check.
func Counts(ctx context.Context, db DBTX) (CountsSnapshot, error) {
	var c CountsSnapshot
	q := `SELECT
	        (SELECT COUNT(*) FROM users),
	        (SELECT COUNT(*) FROM nanny_profiles),
	        (SELECT COUNT(*) FROM reviews)`
	if err := db.QueryRow(ctx, q).Scan(&c.Users, &c.Nannies, &c.Reviews); err != nil {
		return CountsSnapshot{}, fmt.Errorf("counts: %w", err)
	}
	return c, nil
}
