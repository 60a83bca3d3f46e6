package handlers

import (
	"net/http"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/meetsched/meeting-scheduler/internal/middleware"
)

// unreachableDB opens a gorm handle whose queries fail on first use.
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=test dbname=test sslmode=disable connect_timeout=1",
	}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func TestGetMeDBErrorUsesErrorEnvelope(t *testing.T) {
	h := NewMeHandler(unreachableDB(t))

	c, rec := testContext(t)
	c.Set(middleware.ContextUserID, uint(1))

	h.GetMe(c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != "user_not_found" {
		t.Fatalf("error_code = %q, want user_not_found", body.Code)
	}
}
