package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestQueryIDListCommaSeparated(t *testing.T) {
	c := testContext(t, "tag_ids=1,2,%203")
	ids, err := queryIDList(c, "tag_ids")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestQueryIDListRepeated(t *testing.T) {
	c := testContext(t, "tag_ids=4&tag_ids=5")
	ids, err := queryIDList(c, "tag_ids")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 5 {
		t.Fatalf("got %v, want [4 5]", ids)
	}
}

func TestQueryIDListInvalid(t *testing.T) {
	c := testContext(t, "tag_ids=abc")
	if _, err := queryIDList(c, "tag_ids"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestQueryIDListAbsent(t *testing.T) {
	c := testContext(t, "")
	ids, err := queryIDList(c, "tag_ids")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids != nil {
		t.Fatalf("got %v, want nil", ids)
	}
}

func TestBookingFilterFromQuery(t *testing.T) {
	c := testContext(t, "status=accepted&from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z")
	f, err := bookingFilterFromQuery(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status == nil || *f.Status != "accepted" {
		t.Fatalf("status not parsed: %+v", f)
	}
	if f.From == nil || f.To == nil || !f.From.Before(*f.To) {
		t.Fatalf("time range not parsed: %+v", f)
	}
}

func TestBookingFilterRejectsUnknownStatus(t *testing.T) {
	c := testContext(t, "status=scheduled")
	if _, err := bookingFilterFromQuery(c); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestBookingFilterRejectsBadTime(t *testing.T) {
	c := testContext(t, "from=2026-01-01")
	if _, err := bookingFilterFromQuery(c); err == nil {
		t.Fatal("expected error for non-RFC3339 time")
	}
}
