package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	tokens      *token.Manager
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tokens := token.NewManager("test-secret", time.Hour)
	authService := services.NewAuthService(userRepo, tokens, bcrypt.MinCost)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/signin", handler.Signin)
	r.GET("/api/auth/me", middleware.RequireAuth(tokens, userRepo), handler.GetCurrentUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
		tokens:      tokens,
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice1",
		"password": "Passw0rd",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice1", response.Username)
	require.NotZero(t, response.ID)
}

func TestAuthHandler_SignupDuplicate(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice1",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice1",
		"password": "Other0pw",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_SignupWeakPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice1",
		"password": "password",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_SigninReturnsToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Username: "alice1",
		Password: "Passw0rd",
	})
	require.NoError(t, err)

	w := postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"username": "alice1",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)
	require.Equal(t, "alice1", response.User.Username)

	claims, err := env.tokens.Parse(response.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice1", claims.Username)
}

func TestAuthHandler_SigninInvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Username: "alice1",
		Password: "Passw0rd",
	})
	require.NoError(t, err)

	wrongPassword := postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"username": "alice1",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)

	unknownUser := postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"username": "nobody1",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	// Enumeration resistance: identical bodies for both failure causes.
	require.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Signup(services.SignupInput{
		Username: "alice1",
		Password: "Passw0rd",
	})
	require.NoError(t, err)

	accessToken, _, err := env.authService.Login(services.LoginInput{
		Username: "alice1",
		Password: "Passw0rd",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
	require.Equal(t, "alice1", response.Username)
}

func TestAuthHandler_GetCurrentUserRejectsBadTokens(t *testing.T) {
	env := setupAuthTestEnv(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
