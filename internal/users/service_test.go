package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/pkg/auth"
	"github.com/pattadon/shopstock-backend/pkg/config"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret-test-secret-test-secret",
	Issuer:            "shopstock-test",
	ExpirationMinutes: 15,
}

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'staff',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)

	return db
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupUsersTestDB(t)), testJWTConfig)
	require.NoError(t, err)
	return svc
}

func registerStaff(t *testing.T, svc Service, email string) uuid.UUID {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       email,
		Password:    "correct-horse",
		DisplayName: "สมชาย",
	})
	require.NoError(t, err)
	return user.ID
}

func TestRegisterDefaultsToStaffRole(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       "Somchai@Example.com",
		Password:    "correct-horse",
		DisplayName: "สมชาย",
	})
	require.NoError(t, err)
	assert.Equal(t, "somchai@example.com", user.Email)
	assert.Equal(t, enums.UserRoleStaff, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newTestService(t)
	registerStaff(t, svc, "somchai@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "SOMCHAI@example.com",
		Password:    "correct-horse",
		DisplayName: "สมชายคนที่สอง",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "empty email", input: RegisterInput{Password: "correct-horse", DisplayName: "a"}},
		{name: "short password", input: RegisterInput{Email: "a@b.com", Password: "short", DisplayName: "a"}},
		{name: "empty display name", input: RegisterInput{Email: "a@b.com", Password: "correct-horse"}},
		{name: "unknown role", input: RegisterInput{Email: "a@b.com", Password: "correct-horse", DisplayName: "a", Role: "owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestLoginMintsParsableToken(t *testing.T) {
	svc := newTestService(t)
	userID := registerStaff(t, svc, "somchai@example.com")

	result, err := svc.Login(context.Background(), "somchai@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotNil(t, result.User.LastLoginAt)

	claims, err := auth.ParseAccessToken(testJWTConfig, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.UserRoleStaff, claims.Role)
	assert.Equal(t, "สมชาย", claims.DisplayName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	registerStaff(t, svc, "somchai@example.com")

	_, wrongPassword := svc.Login(context.Background(), "somchai@example.com", "wrong-password")
	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "correct-horse")

	for _, err := range []error{wrongPassword, unknownEmail} {
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	}
	// Both failures read identically to the caller.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc := newTestService(t)
	userID := registerStaff(t, svc, "somchai@example.com")

	_, err := svc.SetActive(context.Background(), userID, false)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "somchai@example.com", "correct-horse")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestChangeRole(t *testing.T) {
	svc := newTestService(t)
	userID := registerStaff(t, svc, "somchai@example.com")

	user, err := svc.ChangeRole(context.Background(), userID, enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, user.Role)

	_, err = svc.ChangeRole(context.Background(), userID, "owner")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.ChangeRole(context.Background(), uuid.New(), enums.UserRoleStaff)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListUsers(t *testing.T) {
	svc := newTestService(t)
	registerStaff(t, svc, "one@example.com")
	registerStaff(t, svc, "two@example.com")

	rows, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
