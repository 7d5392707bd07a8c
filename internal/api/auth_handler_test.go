package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abdeval/gym-app/internal/domain"
	"github.com/Abdeval/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "handler-test-secret"

// stubAuthService lets each test script the auth service layer.
type stubAuthService struct {
	registerFn       func(ctx context.Context, name, email, password string) (string, *domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	changePasswordFn func(ctx context.Context, userID primitive.ObjectID, current, newPass, confirm string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, newPass, confirm string) (*domain.User, error) {
	return s.changePasswordFn(ctx, userID, current, newPass, confirm)
}

func (s *stubAuthService) GetJWTSecret() string { return testSecret }

func newAuthRouter(svc service.AuthService) *gin.Engine {
	router := gin.New()
	handler := NewAuthHandler(svc)
	group := router.Group("/api/auth")
	group.POST("/signup", handler.SignUp)
	group.POST("/signin", handler.SignIn)
	group.PATCH("/updatePassword", AuthMiddleware(testSecret), handler.ChangePassword)
	return router
}

func newJSONBody(s string) *strings.Reader { return strings.NewReader(s) }

func decodeJSON(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

func signedToken(t *testing.T, userID primitive.ObjectID) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "gym-app",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestSignUpHandler_CreatesAccount(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, name, email, password string) (string, *domain.User, error) {
			assert.Equal(t, "Alex", name)
			assert.Equal(t, "alex@example.com", email)
			assert.Equal(t, "password123", password)
			return "signed-token", &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email}, nil
		},
	}
	router := newAuthRouter(svc)

	rec := postJSON(t, router, "/api/auth/signup", gin.H{
		"name":     "Alex",
		"email":    "alex@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"access_token":"signed-token"}`, rec.Body.String())
}

func TestSignUpHandler_ValidationErrors(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _ string) (string, *domain.User, error) {
			t.Fatal("service must not be called")
			return "", nil, nil
		},
	}
	router := newAuthRouter(svc)

	cases := []gin.H{
		{"email": "alex@example.com", "password": "short"},  // below min length
		{"email": "not-an-email", "password": "password123"},
		{"password": "password123"}, // missing email
	}
	for _, body := range cases {
		rec := postJSON(t, router, "/api/auth/signup", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestSignUpHandler_DuplicateEmail(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _ string) (string, *domain.User, error) {
			return "", nil, service.ErrUserAlreadyExists
		},
	}
	router := newAuthRouter(svc)

	rec := postJSON(t, router, "/api/auth/signup", gin.H{
		"email":    "alex@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignInHandler_Success(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			assert.Equal(t, "alex@example.com", email)
			assert.Equal(t, "password123", password)
			return "signed-token", &domain.User{ID: primitive.NewObjectID(), Email: email}, nil
		},
	}
	router := newAuthRouter(svc)

	rec := postJSON(t, router, "/api/auth/signin", gin.H{
		"email":    "alex@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"signed-token"}`, rec.Body.String())
}

func TestSignInHandler_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, service.ErrAuthenticationFailed
		},
	}
	router := newAuthRouter(svc)

	rec := postJSON(t, router, "/api/auth/signin", gin.H{
		"email":    "alex@example.com",
		"password": "wrongpass",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordHandler_UsesIdentityFromToken(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &stubAuthService{
		changePasswordFn: func(_ context.Context, gotUserID primitive.ObjectID, current, newPass, confirm string) (*domain.User, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, "password123", current)
			assert.Equal(t, "newpassword1", newPass)
			assert.Equal(t, "newpassword1", confirm)
			return &domain.User{ID: userID, Name: "Alex", Email: "alex@example.com"}, nil
		},
	}
	router := newAuthRouter(svc)

	body := `{"currentPassword":"password123","newPassword":"newpassword1","confirmNewPassword":"newpassword1"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/auth/updatePassword", newJSONBody(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UserResponse
	require.NoError(t, decodeJSON(rec, &resp))
	assert.Equal(t, userID.Hex(), resp.ID)
}

func TestChangePasswordHandler_RejectsMissingOrBadToken(t *testing.T) {
	svc := &stubAuthService{
		changePasswordFn: func(_ context.Context, _ primitive.ObjectID, _, _, _ string) (*domain.User, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	router := newAuthRouter(svc)
	body := `{"currentPassword":"password123","newPassword":"newpassword1","confirmNewPassword":"newpassword1"}`

	// No Authorization header.
	req := httptest.NewRequest(http.MethodPatch, "/api/auth/updatePassword", newJSONBody(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	claims := &jwtClaims{
		UserID:           primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPatch, "/api/auth/updatePassword", newJSONBody(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordHandler_ConfirmationMismatch(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &stubAuthService{
		changePasswordFn: func(_ context.Context, _ primitive.ObjectID, _, _, _ string) (*domain.User, error) {
			return nil, service.ErrPasswordConfirm
		},
	}
	router := newAuthRouter(svc)

	body := `{"currentPassword":"password123","newPassword":"newpassword1","confirmNewPassword":"different1"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/auth/updatePassword", newJSONBody(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
