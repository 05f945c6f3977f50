package models

import "time"

// User is an account shared by parents, nannies and admins; role tells them
// apart.
type User struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Email           string   `json:"email"`
	Phone           *string  `json:"phone,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Nickname        *string  `json:"nickname,omitempty"`
	LastInitial     *string  `json:"last_initial,omitempty"`
	ProfilePhotoURL *string  `json:"profile_photo_url,omitempty"`
}

// Nanny is the service-provider identity; one per user.
type Nanny struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"user_id"`
	Approved bool  `json:"approved"`
}

// NannyProfile is the optional public profile a nanny owns.
type NannyProfile struct {
	ID          int64      `json:"id"`
	NannyID     int64      `json:"nanny_id"`
	Bio         *string    `json:"bio,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Nationality *string    `json:"nationality,omitempty"`
	Ethnicity   *string    `json:"ethnicity,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
}

// NamedRef is a lookup row (qualification, tag, language, area).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Area is a named geographic service zone.
type Area struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// ParentProfile holds a parent's home area and optional confirmed default
// location.
type ParentProfile struct {
	ID                     int64      `json:"id"`
	UserID                 int64      `json:"user_id"`
	AreaID                 int64      `json:"area_id"`
	Lat                    *float64   `json:"lat,omitempty"`
	Lng                    *float64   `json:"lng,omitempty"`
	LocationConfirmedAt    *time.Time `json:"location_confirmed_at,omitempty"`
	LocationConfirmVersion *string    `json:"location_confirm_version,omitempty"`
}

// HasDefaultLocation reports whether both coordinates are set.
func (p ParentProfile) HasDefaultLocation() bool {
	return p.Lat != nil && p.Lng != nil
}

// Availability is an admin-entered open/closed window for a nanny on one
// calendar date. Times are minutes-of-day resolution, kept as "15:04"
// strings on the wire and time.Time in SQL.
type Availability struct {
	ID          int64     `json:"id"`
	NannyID     int64     `json:"nanny_id"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedBy   string    `json:"created_by"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLog records an admin mutation.
type AuditLog struct {
	ID          int64     `json:"id"`
	ActorUserID int64     `json:"actor_user_id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    *int64    `json:"entity_id,omitempty"`
	Details     *string   `json:"details,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
