package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raaghavgupta2020/budget-app/internal/database"
	"github.com/raaghavgupta2020/budget-app/internal/store"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "middleware-test-secret"

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// newGateRouter wires the access gate in front of a probe route shaped like
// the entry endpoints.
func newGateRouter(accounts *store.AccountStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/:username/entry/getAll", Auth(testSecret, accounts), RequireOwner(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Username})
	})
	return r
}

func issueToken(t *testing.T, username string) string {
	t.Helper()
	token, err := util.GenerateToken(testSecret, "budget-app", username, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuth_NoToken(t *testing.T) {
	accounts := store.NewAccountStore(newTestDB(t), 4)
	r := newGateRouter(accounts)

	for _, header := range []string{"", "Bearer", "Basic abc", "token xyz"} {
		req := httptest.NewRequest(http.MethodGet, "/alice/entry/getAll", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuth_BadToken(t *testing.T) {
	accounts := store.NewAccountStore(newTestDB(t), 4)
	r := newGateRouter(accounts)

	req := httptest.NewRequest(http.MethodGet, "/alice/entry/getAll", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	db := newTestDB(t)
	accounts := store.NewAccountStore(db, 4)
	_, err := accounts.Create(context.Background(), "alice", "S3cretPass")
	require.NoError(t, err)
	r := newGateRouter(accounts)

	expired, err := util.GenerateToken(testSecret, "budget-app", "alice", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/alice/entry/getAll", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_SubjectNoLongerExists(t *testing.T) {
	accounts := store.NewAccountStore(newTestDB(t), 4)
	r := newGateRouter(accounts)

	// valid signature, but the account was never created (or was deleted)
	req := httptest.NewRequest(http.MethodGet, "/ghost/entry/getAll", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "ghost"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOwner_Mismatch(t *testing.T) {
	db := newTestDB(t)
	accounts := store.NewAccountStore(db, 4)
	_, err := accounts.Create(context.Background(), "alice", "S3cretPass")
	require.NoError(t, err)
	r := newGateRouter(accounts)

	// alice's token against bob's ledger
	req := httptest.NewRequest(http.MethodGet, "/bob/entry/getAll", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "alice"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireOwner_Match(t *testing.T) {
	db := newTestDB(t)
	accounts := store.NewAccountStore(db, 4)
	_, err := accounts.Create(context.Background(), "alice", "S3cretPass")
	require.NoError(t, err)
	r := newGateRouter(accounts)

	req := httptest.NewRequest(http.MethodGet, "/alice/entry/getAll", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "alice"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}
