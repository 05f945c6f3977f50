package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"nannybook-service/internal/models"
)

const parentCols = `id, user_id, area_id, lat, lng, location_confirmed_at, location_confirm_version`

func scanParent(row pgx.Row) (models.ParentProfile, error) {
	var p models.ParentProfile
	var areaID *int64
	err := row.Scan(&p.ID, &p.UserID, &areaID, &p.Lat, &p.Lng,
		&p.LocationConfirmedAt, &p.LocationConfirmVersion)
	if areaID != nil {
		p.AreaID = *areaID
	}
	return p, err
}

// GetParentProfile loads a parent profile by account id; found=false when
// the parent has none.
func GetParentProfile(ctx context.Context, db DBTX, userID int64) (models.ParentProfile, bool, error) {
	q := `SELECT ` + parentCols + ` FROM parent_profiles WHERE user_id=$1`
	p, err := scanParent(db.QueryRow(ctx, q, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ParentProfile{}, false, nil
	}
	if err != nil {
		return models.ParentProfile{}, false, fmt.Errorf("get parent profile: %w", err)
	}
	return p, true, nil
}

// UpsertParentArea sets the parent's home area, creating the profile on
// first use.
func UpsertParentArea(ctx context.Context, db DBTX, userID, areaID int64) error {
	q := `INSERT INTO parent_profiles (user_id, area_id) VALUES ($1,$2)
	      ON CONFLICT (user_id) DO UPDATE SET area_id=EXCLUDED.area_id`
	if _, err := db.Exec(ctx, q, userID, areaID); err != nil {
		return fmt.Errorf("upsert parent area: %w", err)
	}
	return nil
}

// SetParentDefaultLocation stores the confirmed default coordinates.
func SetParentDefaultLocation(ctx context.Context, db DBTX, userID int64, lat, lng float64, confirmedAt time.Time, version string) error {
	q := `INSERT INTO parent_profiles (user_id, lat, lng, location_confirmed_at, location_confirm_version)
	      VALUES ($1,$2,$3,$4,$5)
	      ON CONFLICT (user_id) DO UPDATE
	      SET lat=EXCLUDED.lat, lng=EXCLUDED.lng,
	          location_confirmed_at=EXCLUDED.location_confirmed_at,
	          location_confirm_version=EXCLUDED.location_confirm_version`
	if _, err := db.Exec(ctx, q, userID, lat, lng, confirmedAt, version); err != nil {
		return fmt.Errorf("set parent default location: %w", err)
	}
	return nil
}

// SetParentLocation updates only the coordinates on an existing profile.
func SetParentLocation(ctx context.Context, db DBTX, userID int64, lat, lng float64) (models.ParentProfile, error) {
	q := `UPDATE parent_profiles SET lat=$1, lng=$2 WHERE user_id=$3 RETURNING ` + parentCols
	p, err := scanParent(db.QueryRow(ctx, q, lat, lng, userID))
	if err != nil {
		return models.ParentProfile{}, fmt.Errorf("set parent location: %w", err)
	}
	return p, nil
}

// AdminParentRow joins account, profile and area for the admin listing.
type AdminParentRow struct {
	User   models.User
	AreaID *int64
	Area   *models.NamedRef
}

// ListParentsAdmin returns every parent account with its optional area.
func ListParentsAdmin(ctx context.Context, db DBTX) ([]AdminParentRow, error) {
	q := `SELECT u.id, u.name, u.email, u.phone, p.area_id, a.id, a.name
	      FROM users u
	      LEFT JOIN parent_profiles p ON p.user_id = u.id
	      LEFT JOIN areas a ON a.id = p.area_id
	      WHERE u.role = 'parent'
	      ORDER BY u.id`
	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list parents admin: %w", err)
	}
	defer rows.Close()

	var out []AdminParentRow
	for rows.Next() {
		var r AdminParentRow
		var areaID, refID *int64
		var refName *string
		if err := rows.Scan(&r.User.ID, &r.User.Name, &r.User.Email, &r.User.Phone,
			&areaID, &refID, &refName); err != nil {
			return nil, fmt.Errorf("scan admin parent row: %w", err)
		}
		r.AreaID = areaID
		if refID != nil && refName != nil {
			r.Area = &models.NamedRef{ID: *refID, Name: *refName}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
