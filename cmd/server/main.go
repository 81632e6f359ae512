// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"shinchoku-go/internal/cache"
	"shinchoku-go/internal/config"
	"shinchoku-go/internal/handler"
	"shinchoku-go/internal/middleware"
	"shinchoku-go/internal/model"
	"shinchoku-go/internal/repository"
	"shinchoku-go/internal/service"
	"shinchoku-go/pkg/clock"
	"shinchoku-go/pkg/database"
	"shinchoku-go/pkg/log"
	"shinchoku-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 选择数据后端：配置了 MySQL DSN 时使用数据库并以内存数据做读降级，
	//    未配置时整体运行在内置种子数据之上。
	memStore := repository.NewMemoryStore()
	var (
		orgRepo      repository.OrganizationRepository
		taskRepo     repository.TaskRepository
		progressRepo repository.ProgressRepository
	)
	if cfg.Database.MySQL.DSN != "" {
		if err := database.InitMySQL(cfg.Database.MySQL.DSN); err != nil {
			log.Fatalf("MySQL 初始化失败: %v", err)
		}
		if err := database.DB.AutoMigrate(&model.Organization{}, &model.Task{}, &model.Progress{}); err != nil {
			log.Fatalf("数据库迁移失败: %v", err)
		}
		dbOrgRepo := repository.NewOrganizationRepository(database.DB)
		seedOrganizations(dbOrgRepo)
		orgRepo = repository.NewFallbackOrganizationRepository(dbOrgRepo, memStore)
		taskRepo = repository.NewFallbackTaskRepository(repository.NewTaskRepository(database.DB), memStore.Tasks())
		progressRepo = repository.NewFallbackProgressRepository(repository.NewProgressRepository(database.DB), memStore.Progress())
		log.Info("数据后端: MySQL（读路径带内存降级）")
	} else {
		orgRepo = memStore
		taskRepo = memStore.Tasks()
		progressRepo = memStore.Progress()
		log.Warnf("未配置 MySQL DSN，数据后端运行在内存种子数据之上")
	}

	// 4. 选择快照缓存：配置了 Redis 时跨实例共享，否则退化为进程内缓存。
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	var snapshotCache cache.SnapshotCache
	if cfg.Database.Redis.Addr != "" {
		if err := database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB); err != nil {
			log.Warnf("Redis 初始化失败，退化为进程内缓存: %v", err)
		}
	}
	if database.RDB != nil {
		snapshotCache = cache.NewRedisSnapshotCache(database.RDB, cacheTTL)
		log.Info("快照缓存: Redis")
	} else {
		snapshotCache = cache.NewMemorySnapshotCache(cacheTTL, clock.System())
		log.Info("快照缓存: 进程内")
	}

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireDays)
	sysClock := clock.System()
	orgService := service.NewOrganizationService(orgRepo, snapshotCache)
	taskService := service.NewTaskService(taskRepo, snapshotCache, sysClock)
	progressService := service.NewProgressService(progressRepo, snapshotCache, sysClock)
	summaryService := service.NewSummaryService(orgService, taskService, progressService)
	authService := service.NewAuthService(orgService, jwtManager, cfg.Auth.CentralPassword, cfg.Auth.SharedPassword)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组 (公开访问)
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", handler.NewAuthHandler(authService).Login)
		}

		// Organization 路由组，需要认证
		orgs := apiV1.Group("/organizations")
		orgs.Use(middleware.AuthMiddleware(jwtManager))
		{
			orgs.GET("", handler.NewOrganizationHandler(orgService, summaryService).List)
			// 进度汇总报表仅中央可见
			orgs.GET("/summaries", middleware.CentralOnly(), handler.NewOrganizationHandler(orgService, summaryService).Summaries)
		}

		// Task 路由组，需要认证
		tasks := apiV1.Group("/tasks")
		tasks.Use(middleware.AuthMiddleware(jwtManager))
		{
			tasks.GET("", handler.NewTaskHandler(taskService).List)
			tasks.POST("", handler.NewTaskHandler(taskService).Create)
			tasks.PUT("/order", handler.NewTaskHandler(taskService).Reorder)
			tasks.PUT("/:id", handler.NewTaskHandler(taskService).Update)
			tasks.DELETE("/:id", handler.NewTaskHandler(taskService).Delete)
		}

		// Progress 路由组，需要认证
		progress := apiV1.Group("/progress")
		progress.Use(middleware.AuthMiddleware(jwtManager))
		{
			progress.GET("", handler.NewProgressHandler(progressService).List)
			progress.POST("", handler.NewProgressHandler(progressService).Report)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}

// seedOrganizations 在组织表为空时写入全量组织名册（幂等）。
func seedOrganizations(orgRepo repository.OrganizationRepository) {
	count, err := orgRepo.Count()
	if err != nil {
		log.Fatalf("组织表检查失败: %v", err)
	}
	if count > 0 {
		log.Infof("组织表已有 %d 条记录，跳过初始化", count)
		return
	}
	orgs := model.SeedOrganizations()
	if err := orgRepo.CreateBatch(orgs); err != nil {
		log.Fatalf("组织名册初始化失败: %v", err)
	}
	log.Infof("组织名册初始化完成，共 %d 条", len(orgs))
}
