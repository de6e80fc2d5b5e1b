package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/raaghavgupta2020/budget-app/internal/config"
	"github.com/raaghavgupta2020/budget-app/internal/database"
	"github.com/raaghavgupta2020/budget-app/internal/router"
	"github.com/raaghavgupta2020/budget-app/internal/store"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret = "handler-test-secret"
	testPass   = "S3cretPass"
)

// testServer bundles the wired router with direct store access for seeding.
type testServer struct {
	router   *gin.Engine
	accounts *store.AccountStore
	entries  *store.EntryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:        testSecret,
			Issuer:        "budget-app",
			ExpireMinutes: 30,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	return &testServer{
		router:   router.Setup(cfg, db, zap.NewNop()),
		accounts: store.NewAccountStore(db, cfg.Security.BcryptCost),
		entries:  store.NewEntryStore(db),
	}
}

// register creates an account through the API and returns a bearer token
// for it.
func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, testPass)
	rec := ts.do(t, http.MethodPost, "/user/register", "", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, "register %s: %s", username, rec.Body.String())

	token, err := util.GenerateToken(testSecret, "budget-app", username, time.Hour)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doJSON(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return ts.do(t, method, path, token, r, "application/json")
}

func (ts *testServer) doForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPost, path, "", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded")
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}
