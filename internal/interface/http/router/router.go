package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// NewRouter 创建Gin引擎并注册全部路由
//
// 中间件执行顺序：Recovery → Tracing（启用时）→ Logger → Metrics → CORS → 路由匹配 → EnsureAuth → Handler
//
// 路由一览：
//
//	POST   /api/users/signup    注册（公开）
//	POST   /api/users/login     登录（公开）
//	POST   /api/users/logout    退出（User）
//	GET    /api/users           用户列表（公开）
//	DELETE /api/users/:id       删除用户（公开）
//	POST   /api/books           创建图书（User）
//	GET    /api/books           图书列表（Guest）
//	GET    /api/books/:id       图书详情（Guest）
//	DELETE /api/books/:id       删除图书（User，仅创建者）
//	POST   /api/reviews/:id     创建评论（User，:id为图书ID）
//	PUT    /api/reviews/:id     更新评论（User，仅作者）
//	DELETE /api/reviews/:id     删除评论（User，仅作者）
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	auth *middleware.AuthMiddleware,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	reviewHandler *handler.ReviewHandler,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, "pong", nil)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 上传的头像和封面
	r.Static(cfg.Upload.URLPrefix, cfg.Upload.Root)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/signup", middleware.SetModule("users"), userHandler.Signup)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", auth.EnsureAuth(user.RoleUser), userHandler.Logout)
			users.GET("", middleware.SetModule("users"), userHandler.List)
			users.DELETE("/:id", middleware.SetModule("users"), userHandler.Delete)
		}

		books := api.Group("/books", middleware.SetModule("books"))
		{
			books.POST("", auth.EnsureAuth(user.RoleUser), bookHandler.Create)
			books.GET("", auth.EnsureAuth(middleware.RoleGuest), bookHandler.List)
			books.GET("/:id", auth.EnsureAuth(middleware.RoleGuest), bookHandler.Get)
			books.DELETE("/:id", auth.EnsureAuth(user.RoleUser), bookHandler.Delete)
		}

		reviews := api.Group("/reviews", middleware.SetModule("reviews"))
		reviews.Use(auth.EnsureAuth(user.RoleUser))
		{
			reviews.POST("/:id", reviewHandler.Create)
			reviews.PUT("/:id", reviewHandler.Update)
			reviews.DELETE("/:id", reviewHandler.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithStatus(c, http.StatusNotFound, "Route not found")
	})

	return r
}
