package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/miniblog/backend/auth"
	"github.com/miniblog/backend/models"
	"github.com/miniblog/backend/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *auth.Verifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	verifier := auth.NewVerifier([]byte("test-secret"))
	Init(db, verifier)

	router := gin.New()
	RegisterRoutes(router)
	return router, db, verifier
}

func seedHandlerUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "irrelevant", Role: role}
	require.NoError(t, store.NewUserStore(db).Create(context.Background(), user))
	return user
}

func bearerFor(t *testing.T, verifier *auth.Verifier, username string) string {
	t.Helper()
	token, err := verifier.Sign(username, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodePost(t *testing.T, w *httptest.ResponseRecorder) PostResponse {
	t.Helper()
	var resp PostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreatePostEndpoint(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)

	w := doJSON(router, http.MethodPost, "/blog/create", bearerFor(t, verifier, "alice"),
		PostRequest{Title: "hello", Content: "world"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodePost(t, w)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "hello", resp.Title)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "world", resp.Content)
	assert.False(t, resp.CreatedAt.IsZero())
	assert.False(t, resp.ModifiedAt.IsZero())

	// The owner id never leaves the server.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "userId")
	assert.NotContains(t, raw, "userID")
}

func TestCreatePostWithoutTokenIsUnauthorized(t *testing.T) {
	router, db, _ := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)

	w := doJSON(router, http.MethodPost, "/blog/create", "",
		PostRequest{Title: "hello", Content: "world"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Error)
}

func TestCreatePostRejectsMissingFields(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)

	w := doJSON(router, http.MethodPost, "/blog/create", bearerFor(t, verifier, "alice"),
		map[string]string{"title": "no content"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPostsEndpoint(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)
	bearer := bearerFor(t, verifier, "alice")

	for _, title := range []string{"a", "b", "c"} {
		w := doJSON(router, http.MethodPost, "/blog/create", bearer,
			PostRequest{Title: title, Content: "body"})
		require.Equal(t, http.StatusOK, w.Code)
		time.Sleep(10 * time.Millisecond)
	}

	w := doJSON(router, http.MethodGet, "/blog/list", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []PostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "b", list[1].Title)
	assert.Equal(t, "a", list[2].Title)
}

func TestGetPostEndpoint(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)

	created := decodePost(t, doJSON(router, http.MethodPost, "/blog/create",
		bearerFor(t, verifier, "alice"), PostRequest{Title: "hello", Content: "world"}))

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/blog/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodePost(t, w)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Content, fetched.Content)
	assert.Equal(t, created.Username, fetched.Username)

	w = doJSON(router, http.MethodGet, "/blog/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/blog/not-a-number", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePostEndpoint(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)
	seedHandlerUser(t, db, "bob", models.RoleRegular)
	aliceBearer := bearerFor(t, verifier, "alice")

	created := decodePost(t, doJSON(router, http.MethodPost, "/blog/create",
		aliceBearer, PostRequest{Title: "before", Content: "old"}))

	// Non-owner gets NotFound, post stays unmodified.
	w := doJSON(router, http.MethodPut, fmt.Sprintf("/blog/update/%d", created.ID),
		bearerFor(t, verifier, "bob"), PostRequest{Title: "hijacked", Content: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPut, fmt.Sprintf("/blog/update/%d", created.ID),
		aliceBearer, PostRequest{Title: "after", Content: "new"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodePost(t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "new", updated.Content)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	// No token at all.
	w = doJSON(router, http.MethodPut, fmt.Sprintf("/blog/update/%d", created.ID),
		"", PostRequest{Title: "x", Content: "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeletePostEndpoint(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)
	seedHandlerUser(t, db, "bob", models.RoleRegular)
	seedHandlerUser(t, db, "root", models.RoleAdmin)
	aliceBearer := bearerFor(t, verifier, "alice")

	created := decodePost(t, doJSON(router, http.MethodPost, "/blog/create",
		aliceBearer, PostRequest{Title: "hello", Content: "world"}))

	// Another regular user is forbidden and the post survives.
	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/blog/delete/%d", created.ID),
		bearerFor(t, verifier, "bob"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/blog/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Admin deletes anyone's post.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/blog/delete/%d", created.ID),
		bearerFor(t, verifier, "root"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/blog/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPostByTitleEndpoint(t *testing.T) {
	router, db, verifier := newTestRouter(t)
	seedHandlerUser(t, db, "alice", models.RoleRegular)

	created := decodePost(t, doJSON(router, http.MethodPost, "/blog/create",
		bearerFor(t, verifier, "alice"), PostRequest{Title: "findme", Content: "body"}))

	w := doJSON(router, http.MethodGet, "/blog/title/findme", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodePost(t, w).ID)

	w = doJSON(router, http.MethodGet, "/blog/title/no-such-title", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignupLoginCreateFlow(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/user/signup", "",
		SignupRequest{Username: "carol", Password: "s3cret!!"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username is rejected.
	w = doJSON(router, http.MethodPost, "/user/signup", "",
		SignupRequest{Username: "carol", Password: "another"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password.
	w = doJSON(router, http.MethodPost, "/user/login", "",
		LoginRequest{Username: "carol", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/user/login", "",
		LoginRequest{Username: "carol", Password: "s3cret!!"})
	require.Equal(t, http.StatusOK, w.Code)

	var authResp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &authResp))
	require.NotEmpty(t, authResp.Token)
	assert.Equal(t, "carol", authResp.User.Username)
	assert.Equal(t, models.RoleRegular, authResp.User.Role)

	w = doJSON(router, http.MethodPost, "/blog/create", "Bearer "+authResp.Token,
		PostRequest{Title: "first post", Content: "by carol"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "carol", decodePost(t, w).Username)
}
