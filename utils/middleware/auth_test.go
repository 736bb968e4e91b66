package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/model"
	"github.com/campus-events/api/utils/auth"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db      *gorm.DB
	jwt     *auth.JWTManager
	app     *fiber.App
	admin   model.Admin
	student model.Student
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store, err := database.OpenSQLite(filepath.Join(t.TempDir(), "mw.db"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	f := &authFixture{
		db:  store.GetDB(),
		jwt: auth.NewJWTManager(auth.JWTConfig{Secret: "mw-secret", Expiry: time.Hour}),
		app: fiber.New(),
	}

	f.admin = model.Admin{Email: "admin@college.edu", PasswordHash: "x", Name: "Admin", College: "C"}
	require.NoError(t, f.db.Create(&f.admin).Error)
	f.student = model.Student{Email: "s@college.edu", PasswordHash: "x", Name: "S", StudentNumber: "S-1", College: "C"}
	require.NoError(t, f.db.Create(&f.student).Error)

	m := NewAuthMiddleware(f.jwt, f.db)
	ok := func(c *fiber.Ctx) error {
		id, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		return c.JSON(fiber.Map{"id": id, "role": role})
	}
	f.app.Get("/any", m.Required(), ok)
	f.app.Get("/admin", m.RequireAdmin(), ok)
	f.app.Get("/student", m.RequireStudent(), ok)
	f.app.Post("/audited", m.RequireAdmin(), AdminAuditLog(f.db, "event_update", "events"), func(c *fiber.Ctx) error {
		SetAuditValues(c, 42, fiber.Map{"title": "old"}, fiber.Map{"title": "new"})
		return response.Success(c, nil)
	})

	return f
}

func (f *authFixture) token(t *testing.T, p auth.Principal) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}

func (f *authFixture) do(t *testing.T, method, path, token string) (int, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var body response.Response
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRequiredRejectsMissingAndMalformedTokens(t *testing.T) {
	f := newAuthFixture(t)

	status, body := f.do(t, "GET", "/any", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Missing authorization token", body.Error.Message)

	status, _ = f.do(t, "GET", "/any", "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRoleGates(t *testing.T) {
	f := newAuthFixture(t)
	adminToken := f.token(t, auth.Principal{ID: f.admin.ID, Email: f.admin.Email, Role: auth.RoleAdmin})
	studentToken := f.token(t, auth.Principal{ID: f.student.ID, Email: f.student.Email, Role: auth.RoleStudent})

	status, _ := f.do(t, "GET", "/admin", adminToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := f.do(t, "GET", "/admin", studentToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Admin role required", body.Error.Message)

	status, body = f.do(t, "GET", "/student", adminToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Student role required", body.Error.Message)

	status, _ = f.do(t, "GET", "/student", studentToken)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequiredRejectsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	pair, err := f.jwt.IssueTokens(auth.Principal{ID: f.student.ID, Role: auth.RoleStudent})
	require.NoError(t, err)

	status, body := f.do(t, "GET", "/any", pair.RefreshToken)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token type", body.Error.Message)
}

func TestRequiredRejectsRevokedAndInvalidatedTokens(t *testing.T) {
	f := newAuthFixture(t)
	p := auth.Principal{ID: f.student.ID, Role: auth.RoleStudent}
	token := f.token(t, p)

	claims, err := f.jwt.ValidateToken(token)
	require.NoError(t, err)
	blacklist := auth.NewBlacklistService(f.db)
	require.NoError(t, blacklist.RevokeToken(context.Background(), claims, "logout"))

	status, body := f.do(t, "GET", "/any", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body.Error.Message)

	fresh := f.token(t, p)
	require.NoError(t, blacklist.RevokeAllTokens(context.Background(), auth.RoleStudent, f.student.ID))

	status, body = f.do(t, "GET", "/any", fresh)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Token has been invalidated", body.Error.Message)
}

func TestRequiredRejectsUnknownPrincipal(t *testing.T) {
	f := newAuthFixture(t)
	// Student ids and admin ids are separate sequences
	token := f.token(t, auth.Principal{ID: 999, Role: auth.RoleAdmin})

	status, body := f.do(t, "GET", "/any", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "User not found", body.Error.Message)
}

func TestAdminAuditLogWritesRow(t *testing.T) {
	f := newAuthFixture(t)
	token := f.token(t, auth.Principal{ID: f.admin.ID, Role: auth.RoleAdmin})

	status, _ := f.do(t, "POST", "/audited", token)
	require.Equal(t, fiber.StatusOK, status)

	var entry model.AdminAuditLog
	require.NoError(t, f.db.First(&entry).Error)
	assert.Equal(t, f.admin.ID, entry.AdminID)
	assert.Equal(t, "event_update", entry.Action)
	assert.Equal(t, uint(42), entry.ResourceID)
	assert.JSONEq(t, `{"title":"new"}`, string(entry.NewValue))
	assert.JSONEq(t, `{"title":"old"}`, string(entry.OldValue))
}
