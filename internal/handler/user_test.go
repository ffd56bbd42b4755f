package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devworkshop/usersvc/internal/model"
	"github.com/devworkshop/usersvc/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory repository backing handler tests end to end
// through the real service.
type fakeUserRepo struct {
	users  []model.User
	nextID uint
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	var maxID uint
	for _, u := range users {
		if u.UserID > maxID {
			maxID = u.UserID
		}
	}
	return &fakeUserRepo{users: users, nextID: maxID + 1}
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	for i := range r.users {
		if r.users[i].UserID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindMatching(ctx context.Context, query string, args ...any) ([]model.User, error) {
	var out []model.User
	if query == "role_id = ?" {
		roleID := args[0].(uint)
		for i := range r.users {
			if r.users[i].RoleID == roleID {
				out = append(out, r.users[i])
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FirstMatching(ctx context.Context, query string, args ...any) (*model.User, error) {
	if query == "email = ?" {
		email := args[0].(string)
		for i := range r.users {
			if r.users[i].Email == email {
				u := r.users[i]
				return &u, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.UserID = r.nextID
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	for i := range r.users {
		if r.users[i].UserID == user.UserID {
			r.users[i] = *user
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, user *model.User) error {
	for i := range r.users {
		if r.users[i].UserID == user.UserID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type fixedHasher struct{}

func (fixedHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fixedHasher) Compare(hashed, plaintext string) bool { return hashed == "hashed:"+plaintext }

func seededUser(id uint, email string) model.User {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return model.User{
		UserID:       id,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: "hashed:secret-pass",
		RoleID:       2,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestRouter(repo *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewUserService(repo, fixedHasher{}, 4)
	h := NewUserHandler(svc)

	router := gin.New()
	users := router.Group("/api/v1/users")
	{
		users.GET("", h.GetAll)
		users.GET("/statistics", h.Statistics)
		users.GET("/email/:email", h.GetByEmail)
		users.GET("/role/:roleId", h.GetByRole)
		users.GET("/:id", h.GetByID)
		users.POST("", h.Create)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func TestGetAllUsers(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(
		seededUser(1, "a@example.com"),
		seededUser(2, "b@example.com"),
	))

	recorder := doRequest(router, http.MethodGet, "/api/v1/users", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, true, envelope["success"])
	assert.Len(t, envelope["data"], 2)
}

func TestGetUserByID(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(seededUser(7, "jane@example.com")))

	recorder := doRequest(router, http.MethodGet, "/api/v1/users/7", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(7), data["user_id"])
	assert.Equal(t, "jane@example.com", data["email"])
	// The password hash must never appear in a response
	assert.NotContains(t, recorder.Body.String(), "hashed:")
}

func TestGetUserByIDNotFound(t *testing.T) {
	router := newTestRouter(newFakeUserRepo())

	recorder := doRequest(router, http.MethodGet, "/api/v1/users/99", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, false, envelope["success"])
}

func TestGetUserByIDInvalid(t *testing.T) {
	router := newTestRouter(newFakeUserRepo())

	for _, raw := range []string{"0", "-1", "abc"} {
		recorder := doRequest(router, http.MethodGet, "/api/v1/users/"+raw, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "id %q", raw)
	}
}

func TestGetUserByEmail(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(seededUser(7, "jane@example.com")))

	recorder := doRequest(router, http.MethodGet, "/api/v1/users/email/JANE@example.com", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetUsersByRole(t *testing.T) {
	u := seededUser(3, "c@example.com")
	u.RoleID = 9
	router := newTestRouter(newFakeUserRepo(seededUser(1, "a@example.com"), u))

	recorder := doRequest(router, http.MethodGet, "/api/v1/users/role/9", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Len(t, envelope["data"], 1)
}

func TestCreateUser(t *testing.T) {
	router := newTestRouter(newFakeUserRepo())

	recorder := doRequest(router, http.MethodPost, "/api/v1/users", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "Jane.Doe@Example.com",
		"password":   "secret-pass",
		"role_id":    1,
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "jane.doe@example.com", data["email"])
	// Requested role is discarded in favor of the default
	assert.Equal(t, float64(4), data["role_id"])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(seededUser(1, "jane@example.com")))

	recorder := doRequest(router, http.MethodPost, "/api/v1/users", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "JANE@example.com",
		"password":   "secret-pass",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCreateUserValidationFailure(t *testing.T) {
	router := newTestRouter(newFakeUserRepo())

	recorder := doRequest(router, http.MethodPost, "/api/v1/users", map[string]any{
		"first_name": "J",
		"last_name":  "Doe",
		"email":      "not-an-email",
		"password":   "short",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, false, envelope["success"])
	assert.NotEmpty(t, envelope["errors"])
}

func TestUpdateUserPartial(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(seededUser(7, "jane@example.com")))

	recorder := doRequest(router, http.MethodPut, "/api/v1/users/7", map[string]any{
		"first_name": "Janet",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "Janet", data["first_name"])
	assert.Equal(t, "Doe", data["last_name"])
	assert.Equal(t, "jane@example.com", data["email"])
}

func TestUpdateUserNotFound(t *testing.T) {
	router := newTestRouter(newFakeUserRepo())

	recorder := doRequest(router, http.MethodPut, "/api/v1/users/99", map[string]any{
		"first_name": "Janet",
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(
		seededUser(7, "jane@example.com"),
		seededUser(8, "taken@example.com"),
	))

	recorder := doRequest(router, http.MethodPut, "/api/v1/users/7", map[string]any{
		"email": "taken@example.com",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo(seededUser(7, "jane@example.com"))
	router := newTestRouter(repo)

	recorder := doRequest(router, http.MethodDelete, "/api/v1/users/7", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, repo.users)
}

func TestDeleteUserNotFound(t *testing.T) {
	router := newTestRouter(newFakeUserRepo())

	recorder := doRequest(router, http.MethodDelete, "/api/v1/users/99", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestStatistics(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(
		seededUser(1, "a@example.com"),
		seededUser(2, "b@example.com"),
	))

	recorder := doRequest(router, http.MethodGet, "/api/v1/users/statistics", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(2), data["total_users"])
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/health", Health)

	recorder := doRequest(router, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "healthy")
}
