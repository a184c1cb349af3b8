package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupRouter wires the real route table against a fresh in-memory sqlite
// database so production queries run unchanged in tests.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASSWORD", "correct-horse")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&Guest{}, &RegistryItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	DB = db
	claimIntents = NewIntentTracker()

	r := gin.New()
	SetupRoutes(r)
	return r
}

type reqOpts struct {
	token   string
	visitor string
}

func asAdmin(t *testing.T) reqOpts {
	t.Helper()
	token, err := GenerateToken("admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return reqOpts{token: token}
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, opts reqOpts) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.visitor != "" {
		req.AddCookie(&http.Cookie{Name: visitorCookie, Value: opts.visitor})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func seedGuest(t *testing.T, g Guest) Guest {
	t.Helper()
	if g.Attending == "" {
		g.Attending = AttendingUnknown
	}
	if err := DB.Create(&g).Error; err != nil {
		t.Fatalf("seed guest: %v", err)
	}
	return g
}

func seedItem(t *testing.T, item RegistryItem) RegistryItem {
	t.Helper()
	if item.Status == "" {
		item.Status = StatusAvailable
	}
	if err := DB.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func fetchItem(t *testing.T, id string) RegistryItem {
	t.Helper()
	var item RegistryItem
	if err := DB.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("fetch item %s: %v", id, err)
	}
	return item
}
