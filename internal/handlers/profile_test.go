package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"nannybook-service/internal/models"
)

// scriptedDB satisfies repository.DBTX with a queue of QueryRow responses
// and records every Exec.
type scriptedDB struct {
	rows  []func(dest ...any) error
	execs []execCall
}

type execCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func (db *scriptedDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	if len(db.rows) == 0 {
		return fakeRow{scan: func(...any) error {
			return fmt.Errorf("unexpected QueryRow: %s", sql)
		}}
	}
	next := db.rows[0]
	db.rows = db.rows[1:]
	return fakeRow{scan: next}
}

func (db *scriptedDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, nil
}

func (db *scriptedDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected Query: %s", sql)
}

func noRows(...any) error { return pgx.ErrNoRows }

func setInt64(p any, v int64) {
	*p.(*int64) = v
}

func jsonRequest(t *testing.T, db *scriptedDB, method, path, body string, params gin.Params) (*Handlers, *gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	h := &Handlers{Pool: db, Log: zap.NewNop()}
	return h, c, w
}

func TestApplyProfileFieldsKeepsOmitted(t *testing.T) {
	bio := "ten years of experience"
	nat := "ZA"
	profile := models.NannyProfile{ID: 3, NannyID: 7, Bio: &bio, Nationality: &nat}

	eth := "x"
	if err := applyProfileFields(&profile, nannyProfileBody{Ethnicity: &eth}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Bio == nil || *profile.Bio != bio {
		t.Fatalf("omitted bio was changed: %v", profile.Bio)
	}
	if profile.Nationality == nil || *profile.Nationality != nat {
		t.Fatalf("omitted nationality was changed: %v", profile.Nationality)
	}
	if profile.Ethnicity == nil || *profile.Ethnicity != "x" {
		t.Fatalf("provided ethnicity not applied: %v", profile.Ethnicity)
	}
}

func TestApplyProfileFieldsBlankClears(t *testing.T) {
	bio := "old bio"
	profile := models.NannyProfile{Bio: &bio}

	blank := "   "
	if err := applyProfileFields(&profile, nannyProfileBody{Bio: &blank}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Bio != nil {
		t.Fatalf("blank bio should clear the field, got %q", *profile.Bio)
	}
}

func TestApplyProfileFieldsDOB(t *testing.T) {
	var profile models.NannyProfile

	good := "1990-06-15"
	if err := applyProfileFields(&profile, nannyProfileBody{DateOfBirth: &good}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	if profile.DateOfBirth == nil || !profile.DateOfBirth.Equal(want) {
		t.Fatalf("dob not applied: %v", profile.DateOfBirth)
	}

	bad := "15/06/1990"
	if err := applyProfileFields(&profile, nannyProfileBody{DateOfBirth: &bad}); err == nil {
		t.Fatal("expected error for malformed date_of_birth")
	}
}

func TestSetParentDefaultLocationCreatesProfile(t *testing.T) {
	// Only the account must exist; the profile row comes from the upsert.
	db := &scriptedDB{rows: []func(dest ...any) error{
		func(dest ...any) error { // user lookup
			setInt64(dest[0], 5)
			*dest[1].(*string) = "Pat"
			*dest[2].(*string) = "parent"
			*dest[3].(*string) = "pat@example.com"
			return nil
		},
	}}

	h, c, w := jsonRequest(t, db, http.MethodPost, "/parents/default-location",
		`{"parent_user_id":5,"lat":-33.9,"lng":18.4}`, nil)
	h.SetParentDefaultLocation(c)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}
	if len(db.execs) != 1 || !strings.Contains(db.execs[0].sql, "INSERT INTO parent_profiles") {
		t.Fatalf("expected the profile upsert, got %+v", db.execs)
	}
}

func TestSetParentDefaultLocationUnknownUser(t *testing.T) {
	db := &scriptedDB{rows: []func(dest ...any) error{noRows}}

	h, c, w := jsonRequest(t, db, http.MethodPost, "/parents/default-location",
		`{"parent_user_id":99,"lat":-33.9,"lng":18.4}`, nil)
	h.SetParentDefaultLocation(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404; body %s", w.Code, w.Body.String())
	}
	if len(db.execs) != 0 {
		t.Fatalf("no writes expected for an unknown user, got %+v", db.execs)
	}
}

func TestCreateNannyProfileIdempotent(t *testing.T) {
	bio := "existing"
	db := &scriptedDB{rows: []func(dest ...any) error{
		func(dest ...any) error { // nanny exists
			setInt64(dest[0], 7)
			return nil
		},
		func(dest ...any) error { // existing profile
			setInt64(dest[0], 11)
			setInt64(dest[1], 7)
			*dest[2].(**string) = &bio
			return nil
		},
	}}

	h, c, w := jsonRequest(t, db, http.MethodPost, "/nanny-profiles",
		`{"nanny_id":7,"bio":"replacement"}`, nil)
	h.CreateNannyProfile(c)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}
	if len(db.execs) != 0 {
		t.Fatalf("repeat create must not write, got %+v", db.execs)
	}
	if !strings.Contains(w.Body.String(), "existing") {
		t.Fatalf("expected the stored profile back, got %s", w.Body.String())
	}
}

func TestAdminUpdateNannyProfileCreatesWhenMissing(t *testing.T) {
	db := &scriptedDB{rows: []func(dest ...any) error{
		noRows, // no profile yet
		func(dest ...any) error { // insert returns the new id
			setInt64(dest[0], 21)
			return nil
		},
	}}

	h, c, w := jsonRequest(t, db, http.MethodPut, "/admin/nanny-profiles/7",
		`{"bio":"set by admin"}`, gin.Params{{Key: "id", Value: "7"}})
	h.AdminUpdateNannyProfile(c)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body %s", w.Code, w.Body.String())
	}
	var sawUpdate bool
	for _, e := range db.execs {
		if strings.Contains(e.sql, "UPDATE nanny_profiles") {
			sawUpdate = true
			bio, ok := e.args[0].(*string)
			if !ok || bio == nil || *bio != "set by admin" {
				t.Fatalf("bio from the payload was not applied: %v", e.args[0])
			}
		}
	}
	if !sawUpdate {
		t.Fatalf("expected the profile update, got %+v", db.execs)
	}
}
