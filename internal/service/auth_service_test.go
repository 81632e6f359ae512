package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
	"shinchoku-go/pkg/token"
)

func newAuthFixture(t *testing.T, centralPassword, sharedPassword string) (AuthService, *token.JWTManager) {
	t.Helper()
	store := repository.NewMemoryStore()
	clk := &fakeClock{now: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	snapshotCache := cache.NewMemorySnapshotCache(60*time.Second, clk)
	orgService := NewOrganizationService(store, snapshotCache)
	jwtManager := token.NewJWTManager("test-secret", 7)
	return NewAuthService(orgService, jwtManager, centralPassword, sharedPassword), jwtManager
}

func TestLoginCentral(t *testing.T) {
	svc, jwtManager := newAuthFixture(t, "1050", "1234")

	result, err := svc.Login(context.Background(), model.RoleCentral, "", "1050")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCentral, result.Role)
	assert.Empty(t, result.OrgID)

	claims, err := jwtManager.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "central", claims.Role)
}

func TestLoginCentralWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, "1050", "1234")

	_, err := svc.Login(context.Background(), model.RoleCentral, "", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginOrganization(t *testing.T) {
	svc, jwtManager := newAuthFixture(t, "1050", "1234")

	result, err := svc.Login(context.Background(), model.RoleSub, "org_010", "1234")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSub, result.Role)
	assert.Equal(t, "org_010", result.OrgID)
	assert.Equal(t, "北海道", result.OrgName)

	claims, err := jwtManager.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "org_010", claims.OrgID)
}

func TestLoginOrganizationRequiresOrgID(t *testing.T) {
	svc, _ := newAuthFixture(t, "1050", "1234")

	_, err := svc.Login(context.Background(), model.RoleSub, "", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsRoleMismatch(t *testing.T) {
	svc, _ := newAuthFixture(t, "1050", "1234")

	// org_010 是分会，不能以ブロック身份登录
	_, err := svc.Login(context.Background(), model.RoleBlock, "org_010", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownOrgAndRole(t *testing.T) {
	svc, _ := newAuthFixture(t, "1050", "1234")
	ctx := context.Background()

	_, err := svc.Login(ctx, model.RoleSub, "org_999", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.Role("admin"), "org_010", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1050"), bcrypt.MinCost)
	require.NoError(t, err)
	svc, _ := newAuthFixture(t, string(hash), "1234")
	ctx := context.Background()

	_, err = svc.Login(ctx, model.RoleCentral, "", "1050")
	assert.NoError(t, err)

	_, err = svc.Login(ctx, model.RoleCentral, "", "1051")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPermissionPolicies(t *testing.T) {
	assert.True(t, CanManageCommonTasks(model.RoleCentral))
	assert.False(t, CanManageCommonTasks(model.RoleSub))

	assert.True(t, CanManageLocalTask(model.RoleSub, "org_010", "org_010"))
	assert.False(t, CanManageLocalTask(model.RoleSub, "org_010", "org_011"))
	assert.False(t, CanManageLocalTask(model.RoleCentral, "", "org_010"))

	assert.True(t, CanUpdateProgress(model.RoleSub, "org_010", "org_010"))
	assert.False(t, CanUpdateProgress(model.RoleSub, "org_010", "org_011"))
	assert.False(t, CanUpdateProgress(model.RoleCentral, "", ""))
}
