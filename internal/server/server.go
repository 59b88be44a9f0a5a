package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"shopfront/internal/config"
	"shopfront/internal/handler"
	authHandler "shopfront/internal/handler/auth"
	shopHandler "shopfront/internal/handler/shop"
	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/cache"
	"shopfront/internal/pkg/jwt"
	"shopfront/internal/pkg/mongodb"
	"shopfront/internal/pkg/oauth2"
	"shopfront/internal/server/middleware"
	"shopfront/internal/service"
	shopService "shopfront/internal/service/shop"
)

const (
	defaultJWTSecret   = "default-secret-key-change-in-production"
	defaultTokenExpiry = 24 * time.Hour
	initTimeout        = 30 * time.Second
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache

	authService *service.AuthService
	shopService shopService.ShopService
	providers   *oauth2.Registry
	states      authHandler.StateStore
}

// New 创建服务器实例
// MongoDB / Redis 未配置或连接失败时退化为进程内存储，仅适合开发与测试
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
	}

	// 初始化 MongoDB (可选)
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(ctx, &cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, falling back to in-memory stores")
		} else {
			srv.mongo = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
		}
	}

	st, err := srv.openStores(ctx)
	if err != nil {
		return nil, err
	}

	// 初始化 Redis (可选)，用于 OAuth2 state
	srv.states = cache.NewMemoryCache()
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, oauth2 state kept in memory")
		} else {
			srv.redis = rc
			srv.states = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 第三方登录 provider，discovery 失败时该功能不可用但不影响本地登录
	providers, err := oauth2.NewRegistry(ctx, cfg.Auth.OAuth2)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize oauth2 providers, oauth2 login disabled")
		providers, _ = oauth2.NewRegistry(ctx, nil)
	}
	srv.providers = providers
	if names := providers.Names(); len(names) > 0 {
		log.Info().Strs("providers", names).Msg("oauth2 providers ready")
	}

	// 从配置读取JWT参数，如果没有配置则使用默认值
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = defaultJWTSecret
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	tokenExpiry := cfg.Auth.AccessTokenExpiry
	if tokenExpiry <= 0 {
		tokenExpiry = defaultTokenExpiry
	}

	srv.authService = service.NewAuthService(st.users, st.roles, jwt.NewJWT(jwtSecret, tokenExpiry), cfg.Auth.BcryptCost)
	srv.shopService = shopService.NewShopService(st.shop, srv.authService.Resolver())

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件（CORS 在 Run 中包在引擎外层）
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())

	// 健康检查
	deps := make(map[string]handler.Pinger)
	if s.mongo != nil {
		deps["mongo"] = s.mongo
	}
	if s.redis != nil {
		deps["redis"] = s.redis
	}
	healthHandler := handler.NewHealthHandler(deps)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHdl := authHandler.NewHandler(s.authService, s.providers, s.states, s.cfg.Auth.AllowRoleRequest)
	shopHdl := shopHandler.NewHandler(s.shopService)
	limited := middleware.RateLimit(s.cfg.Server.RateLimit)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口（公开）
		v1.POST("/auth/register", limited, authHdl.Register)
		v1.POST("/auth/login", limited, authHdl.Login)
		v1.GET("/auth/oauth2/:provider/login", authHdl.OAuth2Login)
		v1.GET("/auth/oauth2/:provider/callback", limited, authHdl.OAuth2Callback)

		// 公开浏览
		v1.GET("/products", shopHdl.ListProducts)
		v1.GET("/products/:id", shopHdl.GetProduct)
		v1.GET("/posts", shopHdl.ListPosts)
		v1.GET("/posts/:id", shopHdl.GetPost)
		v1.GET("/posts/:id/comments", shopHdl.ListComments)

		// 需要认证的接口
		authed := v1.Group("", middleware.Auth(s.authService))
		{
			authed.GET("/auth/me", authHdl.GetMe)
			authed.PUT("/auth/me", authHdl.UpdateMe)
			authed.POST("/auth/logout", authHdl.Logout)

			authed.GET("/cart/items", shopHdl.ListCartItems)
			authed.POST("/cart/items", shopHdl.AddCartItem)
			authed.PUT("/cart/items/:id", shopHdl.UpdateCartItem)
			authed.DELETE("/cart/items/:id", shopHdl.RemoveCartItem)

			authed.POST("/orders", shopHdl.CreateOrder)
			authed.GET("/orders", shopHdl.ListOrders)
			authed.GET("/orders/:id", shopHdl.GetOrder)
			authed.POST("/orders/:id/cancel", shopHdl.CancelOrder)

			authed.POST("/posts", shopHdl.CreatePost)
			authed.PUT("/posts/:id", shopHdl.UpdatePost)
			authed.DELETE("/posts/:id", shopHdl.DeletePost)
			authed.POST("/posts/:id/comments", shopHdl.AddComment)
			authed.DELETE("/comments/:id", shopHdl.DeleteComment)
		}

		// 管理员接口
		admin := authed.Group("", middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/products", shopHdl.CreateProduct)
			admin.PUT("/products/:id", shopHdl.UpdateProduct)
			admin.DELETE("/products/:id", shopHdl.DeleteProduct)
			admin.PUT("/orders/:id/status", shopHdl.UpdateOrderStatus)

			admin.GET("/users", authHdl.SearchUsers)
			admin.DELETE("/users/:id", authHdl.DeleteUser)
		}
	}
}

// Handler 返回带 CORS 的完整 HTTP handler
func (s *Server) Handler() http.Handler {
	return middleware.CORS(s.cfg.Server.CORSOrigins)(s.engine)
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// 关闭连接
		s.Close(shutdownCtx)
		return err
	case err := <-errCh:
		s.Close(context.Background())
		return err
	}
}

// Close 关闭外部连接
func (s *Server) Close(ctx context.Context) {
	if s.mongo != nil {
		if err := s.mongo.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
