package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/account-service/internal/api/http"
	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/service"
)

// ---- fakes ----

type memoryUserRepo struct {
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	now := time.Now()
	for _, user := range r.users {
		if user.PasswordResetToken != nil && *user.PasswordResetToken == token &&
			user.PasswordResetExpires != nil && !user.PasswordResetExpires.Before(now) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type capturedEmail struct {
	to      string
	subject string
	body    string
}

type captureSender struct {
	sent []capturedEmail
}

func (s *captureSender) Send(to, subject, htmlBody string) error {
	s.sent = append(s.sent, capturedEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

// ---- fixture ----

func newTestApp(t *testing.T) (*fiber.App, *captureSender) {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "account-service", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:               "test-jwt-secret-at-least-32-chars!!",
			TokenTTLHours:           1,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              10,
		},
	}

	repo := newMemoryUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	sender := &captureSender{}

	credentials := service.NewCredentialService(cfg, service.CredentialDependencies{
		UserRepo:   repo,
		Dispatcher: dispatcher,
	})
	profiles := service.NewProfileService(repo, nil, zap.NewNop())
	service.NewNotificationService(dispatcher, sender, zap.NewNop()).RegisterHandlers()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(credentials),
		Users:          handlers.NewUsersHandler(profiles, credentials),
		AuthMiddleware: auth.NewAuthMiddleware(credentials.TokenManager(), repo),
	})
	return app, sender
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any, bearer string) (int, map[string]any) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App) (userID, token string) {
	t.Helper()

	status, body := doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"name": "Ada", "email": "a@x.com", "password": "pw123secret",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	userID = body["data"].(map[string]any)["id"].(string)

	status, body = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "pw123secret",
	}, "")
	require.Equal(t, http.StatusOK, status)
	token = body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
	return userID, token
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

// ---- tests ----

func TestRegister_ResponseOmitsPasswordMaterial(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"name": "Ada", "email": "a@x.com", "password": "pw123secret",
	}, "")
	require.Equal(t, http.StatusCreated, status)

	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["id"])
	require.Equal(t, "a@x.com", data["email"])
	require.NotContains(t, data, "password")
	require.NotContains(t, data, "password_hash")
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	registerAndLogin(t, app)

	status, body := doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"name": "Eve", "email": "a@x.com", "password": "otherpw12",
	}, "")
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "EMAIL_TAKEN", errorCode(body))
}

func TestRegister_ValidationFailure(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/auth/register", fiber.Map{
		"name": "Ada", "email": "not-an-email", "password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestLogin_BadCredentialsUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)
	registerAndLogin(t, app)

	status, body := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "wrongpw123",
	}, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "INVALID_CREDENTIALS", errorCode(body))

	status, body = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "nobody@x.com", "password": "pw123secret",
	}, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "INVALID_CREDENTIALS", errorCode(body))
}

func TestUsersMe_RequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)
	userID, token := registerAndLogin(t, app)

	status, _ := doJSON(t, app, "GET", "/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := doJSON(t, app, "GET", "/users/me", nil, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, userID, body["data"].(map[string]any)["id"])
}

func TestUsersMe_UpdateAndDelete(t *testing.T) {
	app, _ := newTestApp(t)
	_, token := registerAndLogin(t, app)

	status, body := doJSON(t, app, "PATCH", "/users/me", fiber.Map{
		"name": "Ada L.", "whatsapp_number": "+5511999999999",
	}, token)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	require.Equal(t, "Ada L.", data["name"])
	require.Equal(t, "+5511999999999", data["whatsapp_number"])

	status, _ = doJSON(t, app, "DELETE", "/users/me", nil, token)
	require.Equal(t, http.StatusNoContent, status)

	// the token now points at a vanished account
	status, _ = doJSON(t, app, "GET", "/users/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestPublicProfile_ExposesOnlyPublicFields(t *testing.T) {
	app, _ := newTestApp(t)
	userID, _ := registerAndLogin(t, app)

	status, body := doJSON(t, app, "GET", "/users/"+userID, nil, "")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	require.Equal(t, userID, data["id"])
	require.Equal(t, "Ada", data["name"])
	require.Contains(t, data, "created_at")
	require.NotContains(t, data, "email")
	require.NotContains(t, data, "password_hash")
}

func TestForgotPassword_IdenticalAckForKnownAndUnknownEmail(t *testing.T) {
	app, sender := newTestApp(t)
	registerAndLogin(t, app)

	statusKnown, bodyKnown := doJSON(t, app, "POST", "/auth/password/forgot", fiber.Map{
		"email": "a@x.com",
	}, "")
	statusUnknown, bodyUnknown := doJSON(t, app, "POST", "/auth/password/forgot", fiber.Map{
		"email": "nobody@x.com",
	}, "")

	require.Equal(t, http.StatusOK, statusKnown)
	require.Equal(t, http.StatusOK, statusUnknown)
	require.Equal(t, bodyKnown, bodyUnknown)

	// only the known email produced a reset email; welcome mail from
	// registration is already in the log
	var resetMails int
	for _, mail := range sender.sent {
		if mail.subject == "Password reset request" {
			resetMails++
		}
	}
	require.Equal(t, 1, resetMails)
}

func TestResetPassword_EndToEnd(t *testing.T) {
	app, sender := newTestApp(t)
	registerAndLogin(t, app)

	status, _ := doJSON(t, app, "POST", "/auth/password/forgot", fiber.Map{"email": "a@x.com"}, "")
	require.Equal(t, http.StatusOK, status)

	token := extractResetToken(t, sender)

	status, _ = doJSON(t, app, "POST", "/auth/password/reset", fiber.Map{
		"token": token, "new_password": "fresh-password",
	}, "")
	require.Equal(t, http.StatusOK, status)

	// old password rejected, new accepted
	status, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "pw123secret",
	}, "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "fresh-password",
	}, "")
	require.Equal(t, http.StatusOK, status)

	// consumed token cannot be replayed
	status, body := doJSON(t, app, "POST", "/auth/password/reset", fiber.Map{
		"token": token, "new_password": "yet-another-pw",
	}, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "INVALID_OR_EXPIRED_TOKEN", errorCode(body))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	app, _ := newTestApp(t)
	_, token := registerAndLogin(t, app)

	status, body := doJSON(t, app, "PATCH", "/users/me/password", fiber.Map{
		"current_password": "wrong-current", "new_password": "new-password1",
	}, token)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "INVALID_CURRENT_PASSWORD", errorCode(body))

	// original password still works
	status, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "pw123secret",
	}, "")
	require.Equal(t, http.StatusOK, status)
}

func TestChangePassword_Success(t *testing.T) {
	app, _ := newTestApp(t)
	_, token := registerAndLogin(t, app)

	status, _ := doJSON(t, app, "PATCH", "/users/me/password", fiber.Map{
		"current_password": "pw123secret", "new_password": "new-password1",
	}, token)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "a@x.com", "password": "new-password1",
	}, "")
	require.Equal(t, http.StatusOK, status)
}

func TestHealthLive(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "GET", "/health/live", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alive", body["status"])
}

func extractResetToken(t *testing.T, sender *captureSender) string {
	t.Helper()
	for _, mail := range sender.sent {
		if mail.subject != "Password reset request" {
			continue
		}
		start := strings.Index(mail.body, "<strong>")
		end := strings.Index(mail.body, "</strong>")
		require.Greater(t, end, start)
		return mail.body[start+len("<strong>") : end]
	}
	t.Fatal("no reset email captured")
	return ""
}
