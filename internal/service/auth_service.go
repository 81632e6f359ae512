package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"shinchoku-go/internal/model"
	"shinchoku-go/pkg/token"
)

// ErrInvalidCredentials 表示口令错误或组织选择不合法。
var ErrInvalidCredentials = errors.New("认证信息不正确")

// LoginResult 是登录成功后返回给调用方的会话信息。
type LoginResult struct {
	Token   string     `json:"token"`
	Role    model.Role `json:"role"`
	OrgID   string     `json:"orgId,omitempty"`
	OrgName string     `json:"orgName,omitempty"`
}

// AuthService 接口定义了登录认证相关的业务操作。
type AuthService interface {
	// Login 校验角色与共享口令并签发会话 token。
	// 中央角色使用中央口令；其余角色使用共享口令，且必须选择一个
	// 级别相符的有效组织。
	Login(ctx context.Context, role model.Role, orgID, password string) (*LoginResult, error)
}

// authService 是 AuthService 接口的实现。
type authService struct {
	orgService      OrganizationService
	jwtManager      *token.JWTManager
	centralPassword string
	sharedPassword  string
}

// NewAuthService 创建一个新的 AuthService 实例。
// 配置中的口令可以是明文，也可以是 bcrypt 哈希（以 "$2" 开头）。
func NewAuthService(orgService OrganizationService, jwtManager *token.JWTManager, centralPassword, sharedPassword string) AuthService {
	return &authService{
		orgService:      orgService,
		jwtManager:      jwtManager,
		centralPassword: centralPassword,
		sharedPassword:  sharedPassword,
	}
}

// Login 实现登录校验与 token 签发。
func (s *authService) Login(ctx context.Context, role model.Role, orgID, password string) (*LoginResult, error) {
	if !role.Valid() {
		return nil, ErrInvalidCredentials
	}

	if role == model.RoleCentral {
		if !verifyPassword(s.centralPassword, password) {
			return nil, ErrInvalidCredentials
		}
		tokenString, err := s.jwtManager.GenerateToken(string(role), "", "")
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: tokenString, Role: role}, nil
	}

	// ブロック/支部/分会必须选择组织
	if orgID == "" || !verifyPassword(s.sharedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	org, err := s.orgService.GetByID(ctx, orgID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !org.Active || org.Role != role {
		return nil, ErrInvalidCredentials
	}

	tokenString, err := s.jwtManager.GenerateToken(string(role), org.ID, org.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tokenString, Role: role, OrgID: org.ID, OrgName: org.Name}, nil
}

// verifyPassword 校验口令。配置值为 bcrypt 哈希时走哈希比对，
// 否则做常数时间的明文比对。
func verifyPassword(configured, supplied string) bool {
	if configured == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) == 1
}

// CanManageCommonTasks 判断角色是否可以管理共通任务（仅中央）。
func CanManageCommonTasks(role model.Role) bool {
	return role == model.RoleCentral
}

// CanManageLocalTask 判断某组织是否可以管理指定的本地任务（仅创建者自身）。
func CanManageLocalTask(role model.Role, orgID, createdByOrgID string) bool {
	return role != model.RoleCentral && orgID != "" && orgID == createdByOrgID
}

// CanUpdateProgress 判断某组织是否可以更新指定的进度记录。
// 中央只读不写，其余组织只能更新自己的记录。
func CanUpdateProgress(role model.Role, orgID, progressOrgID string) bool {
	if role == model.RoleCentral {
		return false
	}
	return orgID != "" && orgID == progressOrgID
}
