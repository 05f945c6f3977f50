package repository

import (
	"context"
	"fmt"

	"nannybook-service/internal/models"
)

func listNamedRefs(ctx context.Context, db DBTX, table string) ([]models.NamedRef, error) {
	rows, err := db.Query(ctx, `SELECT id, name FROM `+table+` ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []models.NamedRef
	for rows.Next() {
		var r models.NamedRef
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func ListQualifications(ctx context.Context, db DBTX) ([]models.NamedRef, error) {
	return listNamedRefs(ctx, db, "qualifications")
}

func ListNannyTags(ctx context.Context, db DBTX) ([]models.NamedRef, error) {
	return listNamedRefs(ctx, db, "nanny_tags")
}

func ListLanguages(ctx context.Context, db DBTX) ([]models.NamedRef, error) {
	return listNamedRefs(ctx, db, "languages")
}

// ListAreas returns every service area with its coordinates.
func ListAreas(ctx context.Context, db DBTX) ([]models.Area, error) {
	rows, err := db.Query(ctx, `SELECT id, name, lat, lng FROM areas ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var out []models.Area
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Lat, &a.Lng); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
