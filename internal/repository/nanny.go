package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nannybook-service/internal/models"
)

// GetNanny loads a nanny identity; found=false when unknown.
func GetNanny(ctx context.Context, db DBTX, id int64) (models.Nanny, bool, error) {
	var n models.Nanny
	err := db.QueryRow(ctx, `SELECT id, user_id, approved FROM nannies WHERE id=$1`, id).
		Scan(&n.ID, &n.UserID, &n.Approved)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Nanny{}, false, nil
	}
	if err != nil {
		return models.Nanny{}, false, fmt.Errorf("get nanny: %w", err)
	}
	return n, true, nil
}

// SetNannyApproved flips the moderation flag.
func SetNannyApproved(ctx context.Context, db DBTX, id int64, approved bool) error {
	tag, err := db.Exec(ctx, `UPDATE nannies SET approved=$1 WHERE id=$2`, approved, id)
	if err != nil {
		return fmt.Errorf("set nanny approved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReplaceNannyAreas rewrites a nanny's full service-area membership.
func ReplaceNannyAreas(ctx context.Context, db DBTX, nannyID int64, areaIDs []int64) error {
	if _, err := db.Exec(ctx, `DELETE FROM nanny_areas WHERE nanny_id=$1`, nannyID); err != nil {
		return fmt.Errorf("clear nanny areas: %w", err)
	}
	for _, areaID := range areaIDs {
		if _, err := db.Exec(ctx,
			`INSERT INTO nanny_areas (nanny_id, area_id) VALUES ($1,$2)`, nannyID, areaID); err != nil {
			return fmt.Errorf("add nanny area %d: %w", areaID, err)
		}
	}
	return nil
}

// GetNannyProfile loads the profile owned by a nanny; found=false when the
// nanny has none yet.
func GetNannyProfile(ctx context.Context, db DBTX, nannyID int64) (models.NannyProfile, bool, error) {
	var p models.NannyProfile
	q := `SELECT id, nanny_id, bio, date_of_birth, nationality, ethnicity, lat, lng
	      FROM nanny_profiles WHERE nanny_id=$1`
	err := db.QueryRow(ctx, q, nannyID).
		Scan(&p.ID, &p.NannyID, &p.Bio, &p.DateOfBirth, &p.Nationality, &p.Ethnicity, &p.Lat, &p.Lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NannyProfile{}, false, nil
	}
	if err != nil {
		return models.NannyProfile{}, false, fmt.Errorf("get nanny profile: %w", err)
	}
	return p, true, nil
}

// InsertNannyProfile creates the profile row.
func InsertNannyProfile(ctx context.Context, db DBTX, p models.NannyProfile) (models.NannyProfile, error) {
	q := `INSERT INTO nanny_profiles (nanny_id, bio, date_of_birth, nationality, ethnicity)
	      VALUES ($1,$2,$3,$4,$5) RETURNING id`
	if err := db.QueryRow(ctx, q, p.NannyID, p.Bio, p.DateOfBirth, p.Nationality, p.Ethnicity).Scan(&p.ID); err != nil {
		return models.NannyProfile{}, fmt.Errorf("insert nanny profile: %w", err)
	}
	return p, nil
}

// UpdateNannyProfileFields writes the scalar profile fields.
func UpdateNannyProfileFields(ctx context.Context, db DBTX, p models.NannyProfile) error {
	q := `UPDATE nanny_profiles SET bio=$1, date_of_birth=$2, nationality=$3, ethnicity=$4 WHERE id=$5`
	if _, err := db.Exec(ctx, q, p.Bio, p.DateOfBirth, p.Nationality, p.Ethnicity, p.ID); err != nil {
		return fmt.Errorf("update nanny profile: %w", err)
	}
	return nil
}

// SetNannyProfileLocation stores the profile coordinates.
func SetNannyProfileLocation(ctx context.Context, db DBTX, nannyID int64, lat, lng float64) (models.NannyProfile, bool, error) {
	q := `UPDATE nanny_profiles SET lat=$1, lng=$2 WHERE nanny_id=$3
	      RETURNING id, nanny_id, bio, date_of_birth, nationality, ethnicity, lat, lng`
	var p models.NannyProfile
	err := db.QueryRow(ctx, q, lat, lng, nannyID).
		Scan(&p.ID, &p.NannyID, &p.Bio, &p.DateOfBirth, &p.Nationality, &p.Ethnicity, &p.Lat, &p.Lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NannyProfile{}, false, nil
	}
	if err != nil {
		return models.NannyProfile{}, false, fmt.Errorf("set nanny location: %w", err)
	}
	return p, true, nil
}

// profile attribute join tables share one shape
var profileAttrTables = map[string][2]string{
	"qualifications": {"nanny_profile_qualifications", "qualification_id"},
	"tags":           {"nanny_profile_tags", "tag_id"},
	"languages":      {"nanny_profile_languages", "language_id"},
}

// ReplaceProfileAttrs rewrites one attribute category (qualifications, tags
// or languages) for a profile.
func ReplaceProfileAttrs(ctx context.Context, db DBTX, category string, profileID int64, ids []int64) error {
	t, ok := profileAttrTables[category]
	if !ok {
		return fmt.Errorf("unknown profile attribute category %q", category)
	}
	if _, err := db.Exec(ctx, `DELETE FROM `+t[0]+` WHERE nanny_profile_id=$1`, profileID); err != nil {
		return fmt.Errorf("clear %s: %w", category, err)
	}
	for _, id := range ids {
		if _, err := db.Exec(ctx,
			`INSERT INTO `+t[0]+` (nanny_profile_id, `+t[1]+`) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			profileID, id); err != nil {
			return fmt.Errorf("add %s %d: %w", category, id, err)
		}
	}
	return nil
}

// ListProfileAttrIDs returns the attribute ids of one category per profile.
func ListProfileAttrIDs(ctx context.Context, db DBTX, category string, profileIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(profileIDs))
	if len(profileIDs) == 0 {
		return out, nil
	}
	t, ok := profileAttrTables[category]
	if !ok {
		return nil, fmt.Errorf("unknown profile attribute category %q", category)
	}
	rows, err := db.Query(ctx,
		`SELECT nanny_profile_id, `+t[1]+` FROM `+t[0]+` WHERE nanny_profile_id = ANY($1)`, profileIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	defer rows.Close()

	for rows.Next() {
		var profileID, attrID int64
		if err := rows.Scan(&profileID, &attrID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", category, err)
		}
		out[profileID] = append(out[profileID], attrID)
	}
	return out, rows.Err()
}

// ListProfileAttrRefs resolves one category to id+name pairs for responses.
func ListProfileAttrRefs(ctx context.Context, db DBTX, category string, profileID int64) ([]models.NamedRef, error) {
	var lookup string
	switch category {
	case "qualifications":
		lookup = "qualifications"
	case "tags":
		lookup = "nanny_tags"
	case "languages":
		lookup = "languages"
	default:
		return nil, fmt.Errorf("unknown profile attribute category %q", category)
	}
	t := profileAttrTables[category]
	q := `SELECT l.id, l.name FROM ` + lookup + ` l
	      JOIN ` + t[0] + ` j ON j.` + t[1] + ` = l.id
	      WHERE j.nanny_profile_id=$1 ORDER BY l.name`
	rows, err := db.Query(ctx, q, profileID)
	if err != nil {
		return nil, fmt.Errorf("list %s refs: %w", category, err)
	}
	defer rows.Close()

	var out []models.NamedRef
	for rows.Next() {
		var ref models.NamedRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan ref: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// SearchCandidate is one nanny surfaced by the area inclusion filter.
type SearchCandidate struct {
	Profile models.NannyProfile
	Nanny   models.Nanny
	User    models.User
}

// ListSearchCandidates returns profiles of nannies serving the area, joined
// with their identity and account.
func ListSearchCandidates(ctx context.Context, db DBTX, areaID int64) ([]SearchCandidate, error) {
	q := `SELECT p.id, p.nanny_id, p.bio, p.date_of_birth, p.nationality, p.ethnicity, p.lat, p.lng,
	             n.id, n.user_id, n.approved,
	             u.id, u.name, u.nickname, u.last_initial, u.profile_photo_url
	      FROM nanny_profiles p
	      JOIN nannies n ON n.id = p.nanny_id
	      JOIN users u ON u.id = n.user_id
	      JOIN nanny_areas na ON na.nanny_id = p.nanny_id
	      WHERE na.area_id = $1`
	rows, err := db.Query(ctx, q, areaID)
	if err != nil {
		return nil, fmt.Errorf("list search candidates: %w", err)
	}
	defer rows.Close()

	var out []SearchCandidate
	for rows.Next() {
		var c SearchCandidate
		if err := rows.Scan(
			&c.Profile.ID, &c.Profile.NannyID, &c.Profile.Bio, &c.Profile.DateOfBirth,
			&c.Profile.Nationality, &c.Profile.Ethnicity, &c.Profile.Lat, &c.Profile.Lng,
			&c.Nanny.ID, &c.Nanny.UserID, &c.Nanny.Approved,
			&c.User.ID, &c.User.Name, &c.User.Nickname, &c.User.LastInitial, &c.User.ProfilePhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan search candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AdminNannyRow joins nanny, account and profile for the admin listing.
type AdminNannyRow struct {
	Nanny   models.Nanny
	User    models.User
	Profile *models.NannyProfile
}

// ListNanniesAdmin returns every nanny with account and optional profile.
func ListNanniesAdmin(ctx context.Context, db DBTX) ([]AdminNannyRow, error) {
	q := `SELECT n.id, n.user_id, n.approved,
	             u.id, u.name, u.email, u.phone, u.nickname, u.last_initial, u.profile_photo_url,
	             p.id, p.nanny_id, p.bio, p.date_of_birth, p.nationality, p.ethnicity
	      FROM nannies n
	      JOIN users u ON u.id = n.user_id
	      LEFT JOIN nanny_profiles p ON p.nanny_id = n.id
	      ORDER BY n.id`
	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list nannies admin: %w", err)
	}
	defer rows.Close()

	var out []AdminNannyRow
	for rows.Next() {
		var r AdminNannyRow
		var p models.NannyProfile
		var profileID, profileNannyID *int64
		if err := rows.Scan(
			&r.Nanny.ID, &r.Nanny.UserID, &r.Nanny.Approved,
			&r.User.ID, &r.User.Name, &r.User.Email, &r.User.Phone,
			&r.User.Nickname, &r.User.LastInitial, &r.User.ProfilePhotoURL,
			&profileID, &profileNannyID, &p.Bio, &p.DateOfBirth, &p.Nationality, &p.Ethnicity,
		); err != nil {
			return nil, fmt.Errorf("scan admin nanny row: %w", err)
		}
		if profileID != nil {
			p.ID = *profileID
			p.NannyID = *profileNannyID
			r.Profile = &p
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
