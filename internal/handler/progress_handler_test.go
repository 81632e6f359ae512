package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/middleware"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
	"shinchoku-go/internal/service"
	"shinchoku-go/pkg/clock"
	"shinchoku-go/pkg/log"
	"shinchoku-go/pkg/token"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestRouter 组装一个与生产配置等价的内存模式路由。
func newTestRouter(t *testing.T) (*gin.Engine, *token.JWTManager) {
	t.Helper()
	store := repository.NewMemoryStore()
	snapshotCache := cache.NewMemorySnapshotCache(60*time.Second, clock.System())
	sysClock := clock.System()

	jwtManager := token.NewJWTManager("test-secret", 7)
	orgService := service.NewOrganizationService(store, snapshotCache)
	taskService := service.NewTaskService(store.Tasks(), snapshotCache, sysClock)
	progressService := service.NewProgressService(store.Progress(), snapshotCache, sysClock)
	summaryService := service.NewSummaryService(orgService, taskService, progressService)
	authService := service.NewAuthService(orgService, jwtManager, "1050", "1234")

	r := gin.New()
	apiV1 := r.Group("/api/v1")
	apiV1.POST("/auth/login", NewAuthHandler(authService).Login)

	orgs := apiV1.Group("/organizations")
	orgs.Use(middleware.AuthMiddleware(jwtManager))
	orgs.GET("", NewOrganizationHandler(orgService, summaryService).List)
	orgs.GET("/summaries", middleware.CentralOnly(), NewOrganizationHandler(orgService, summaryService).Summaries)

	progress := apiV1.Group("/progress")
	progress.Use(middleware.AuthMiddleware(jwtManager))
	progress.GET("", NewProgressHandler(progressService).List)
	progress.POST("", NewProgressHandler(progressService).Report)

	return r, jwtManager
}

func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine, role, orgID, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"role": role, "orgId": orgID, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"role": "sub", "orgId": "org_010", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProgressRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/progress", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportProgressAsOrganization(t *testing.T) {
	r, _ := newTestRouter(t)
	bearer := loginToken(t, r, "sub", "org_010", "1234")

	w := doJSON(t, r, http.MethodPost, "/api/v1/progress", bearer, gin.H{
		"taskId": "task_1", "status": "進行中", "memo": "対応中です",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data model.Progress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// 归属组织取自会话，不信任请求体
	assert.Equal(t, "org_010", resp.Data.OrgID)
	assert.Equal(t, model.StatusInProgress, resp.Data.Status)
	assert.Equal(t, "対応中です", resp.Data.Memo)
}

func TestCentralCannotReportProgress(t *testing.T) {
	r, _ := newTestRouter(t)
	bearer := loginToken(t, r, "central", "", "1050")

	w := doJSON(t, r, http.MethodPost, "/api/v1/progress", bearer, gin.H{
		"taskId": "task_1", "status": "完了",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportProgressRejectsLongMemo(t *testing.T) {
	r, _ := newTestRouter(t)
	bearer := loginToken(t, r, "sub", "org_010", "1234")

	w := doJSON(t, r, http.MethodPost, "/api/v1/progress", bearer, gin.H{
		"taskId": "task_1", "status": "進行中", "memo": strings.Repeat("あ", 201),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportProgressRejectsInvalidStatus(t *testing.T) {
	r, _ := newTestRouter(t)
	bearer := loginToken(t, r, "sub", "org_010", "1234")

	w := doJSON(t, r, http.MethodPost, "/api/v1/progress", bearer, gin.H{
		"taskId": "task_1", "status": "done",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressListScopedToOwnOrganization(t *testing.T) {
	r, _ := newTestRouter(t)
	subBearer := loginToken(t, r, "sub", "org_010", "1234")
	otherBearer := loginToken(t, r, "sub", "org_011", "1234")

	w := doJSON(t, r, http.MethodPost, "/api/v1/progress", subBearer, gin.H{
		"taskId": "task_1", "status": "完了",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 别的组织即使显式指定 orgId 也只能看到自己的记录
	w = doJSON(t, r, http.MethodGet, "/api/v1/progress?orgId=org_010", otherBearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.Progress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)

	// 中央可以看到全部
	centralBearer := loginToken(t, r, "central", "", "1050")
	w = doJSON(t, r, http.MethodGet, "/api/v1/progress", centralBearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestSummariesCentralOnly(t *testing.T) {
	r, _ := newTestRouter(t)
	subBearer := loginToken(t, r, "sub", "org_010", "1234")

	w := doJSON(t, r, http.MethodGet, "/api/v1/organizations/summaries", subBearer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	centralBearer := loginToken(t, r, "central", "", "1050")
	w = doJSON(t, r, http.MethodGet, "/api/v1/organizations/summaries", centralBearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.ProgressSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 64)
}
