package app

import (
	"net/http"

	"hubplus/internal/auth"
	"hubplus/internal/cache"
	"hubplus/internal/config"
	"hubplus/internal/handlers"
	"hubplus/internal/metrics"
	"hubplus/internal/repo"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps are the connected resources routes are built from. Queue, Audit and Reader
// may be nil when NATS or ClickHouse is not configured.
type Deps struct {
	Config  config.Config
	Repos   repo.Repos
	Redis   *redis.Client
	Queue   service.JobPublisher
	Audit   service.AuditSink
	Reader  service.AuditReader
	Metrics *metrics.Metrics
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, d Deps) {
	cfg := d.Config
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")
	ttl := cfg.Redis.DefaultTTL.Duration()

	sessions := auth.NewStore(d.Redis, cfg.Redis.SessionTTL.Duration())
	rp := d.Repos
	userSvc := service.NewUserService(rp.Users)
	authHandler := handlers.NewAuthHandler(sessions, userSvc)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("", auth.RequireSession(sessions))
	protected.GET("/auth/me", authHandler.Me)
	g := guards{voter: auth.Voter{}}

	todoCache := cache.NewTodoCache(d.Redis, ttl)
	todoSvc := service.NewTodoService(rp.Todos, rp.Goals, todoCache, d.Audit)
	registerTodoRoutes(protected, g, handlers.NewTodoHandler(todoSvc))

	goalSvc := service.NewGoalService(rp.Goals, rp.Todos, todoCache, d.Audit)
	registerGoalRoutes(protected, g, handlers.NewGoalHandler(goalSvc))

	campaignSvc := service.NewCampaignService(rp.Campaigns, rp.Jobs, rp.Templates, d.Queue, d.Audit)
	voucherSvc := service.NewVoucherService(rp.Vouchers, rp.Campaigns, d.Audit)
	registerCampaignRoutes(protected, g, handlers.NewCampaignHandler(campaignSvc), handlers.NewVoucherHandler(voucherSvc))

	jobHandler := handlers.NewJobHandler(service.NewJobService(rp.Jobs))
	protected.GET("/jobs/:id", g.allow(auth.KindJob, auth.View), jobHandler.GetByID)

	eventSvc := service.NewEventService(rp.Events, d.Audit)
	registerEventRoutes(protected, g, handlers.NewEventHandler(eventSvc))

	restrictedSvc := service.NewRestrictedAddressService(rp.Restricted, d.Audit)
	registerRestrictedRoutes(protected, g, handlers.NewRestrictedAddressHandler(restrictedSvc))

	templateSvc := service.NewTemplateService(rp.Templates, d.Audit)
	registerTemplateRoutes(protected, g, handlers.NewTemplateHandler(templateSvc))

	auditHandler := handlers.NewAuditHandler(service.NewAuditService(d.Reader))
	protected.GET("/audit", g.allow(auth.KindAudit, auth.View), auditHandler.List)
}

type guards struct {
	voter auth.Voter
}

func (g guards) allow(kind auth.Kind, attr auth.Attribute) gin.HandlerFunc {
	return auth.Require(g.voter, kind, attr)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "HubPlus API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, g guards, h *handlers.TodoHandler) {
	view, edit := g.allow(auth.KindTodo, auth.View), g.allow(auth.KindTodo, auth.Edit)
	api.POST("/todos", g.allow(auth.KindTodo, auth.Create), h.Create)
	api.GET("/todos", view, h.List)
	api.GET("/todos/search", view, h.Search)
	api.GET("/todos/overdue", view, h.Overdue)
	api.GET("/todos/:id", view, h.GetByID)
	api.PATCH("/todos/:id", edit, h.Update)
	api.DELETE("/todos/:id", edit, h.Delete)
	api.POST("/todos/:id/complete", edit, h.Complete)
}

func registerGoalRoutes(api *gin.RouterGroup, g guards, h *handlers.GoalHandler) {
	view, edit := g.allow(auth.KindGoal, auth.View), g.allow(auth.KindGoal, auth.Edit)
	api.POST("/goals", g.allow(auth.KindGoal, auth.Create), h.Create)
	api.GET("/goals", view, h.List)
	api.GET("/goals/:id", view, h.GetByID)
	api.GET("/goals/:id/progress", view, h.Progress)
	api.GET("/goals/:id/todos", view, h.Todos)
	api.PATCH("/goals/:id", edit, h.Update)
	api.DELETE("/goals/:id", edit, h.Delete)
	api.POST("/goals/:id/complete", edit, h.Complete)
}

func registerCampaignRoutes(api *gin.RouterGroup, g guards, h *handlers.CampaignHandler, v *handlers.VoucherHandler) {
	campaigns := api.Group("/campaigns")
	view, edit := g.allow(auth.KindCampaign, auth.View), g.allow(auth.KindCampaign, auth.Edit)
	campaigns.POST("", g.allow(auth.KindCampaign, auth.Create), h.Create)
	campaigns.GET("", view, h.List)
	campaigns.GET("/:id", view, h.GetByID)
	campaigns.PATCH("/:id", edit, h.Update)
	campaigns.DELETE("/:id", edit, h.Delete)
	campaigns.POST("/:id/cancel", edit, h.Cancel)
	campaigns.POST("/:id/dispatch", edit, h.Dispatch)
	campaigns.POST("/:id/recipients", edit, h.AddRecipients)
	campaigns.GET("/:id/recipients", view, h.ListRecipients)
	campaigns.POST("/:id/vouchers", g.allow(auth.KindVoucher, auth.Create), v.Generate)
	campaigns.GET("/:id/vouchers", g.allow(auth.KindVoucher, auth.View), v.ListByCampaign)

	api.GET("/vouchers/:code", g.allow(auth.KindVoucher, auth.View), v.GetByCode)
	api.POST("/vouchers/:code/void", g.allow(auth.KindVoucher, auth.Edit), v.Void)
	api.POST("/vouchers/:code/redeem", g.allow(auth.KindVoucherRedemption, auth.Create), v.Redeem)
}

func registerEventRoutes(api *gin.RouterGroup, g guards, h *handlers.EventHandler) {
	sessions := api.Group("/event-sessions")
	edit := g.allow(auth.KindEventSession, auth.Edit)
	sessions.POST("", g.allow(auth.KindEventSession, auth.Create), h.CreateSession)
	sessions.GET("", g.allow(auth.KindEventSession, auth.View), h.ListSessions)
	sessions.GET("/:id", g.allow(auth.KindEventSession, auth.View), h.GetSession)
	sessions.PATCH("/:id", edit, h.UpdateSession)
	sessions.DELETE("/:id", edit, h.DeleteSession)
	sessions.POST("/:id/registrations", g.allow(auth.KindRegistration, auth.Create), h.Register)
	sessions.GET("/:id/registrations", edit, h.ListRegistrations)
	sessions.DELETE("/:id/registrations/:rid", g.allow(auth.KindRegistration, auth.Edit), h.CancelRegistration)
}

func registerRestrictedRoutes(api *gin.RouterGroup, g guards, h *handlers.RestrictedAddressHandler) {
	ra := api.Group("/restricted-addresses")
	view, edit := g.allow(auth.KindRestrictedAddress, auth.View), g.allow(auth.KindRestrictedAddress, auth.Edit)
	ra.POST("", g.allow(auth.KindRestrictedAddress, auth.Create), h.Create)
	ra.GET("", view, h.List)
	ra.POST("/check", view, h.Check)
	ra.GET("/:id", view, h.GetByID)
	ra.DELETE("/:id", edit, h.Delete)
}

func registerTemplateRoutes(api *gin.RouterGroup, g guards, h *handlers.TemplateHandler) {
	t := api.Group("/email-templates")
	view, edit := g.allow(auth.KindEmailTemplate, auth.View), g.allow(auth.KindEmailTemplate, auth.Edit)
	t.POST("", g.allow(auth.KindEmailTemplate, auth.Create), h.Create)
	t.GET("", view, h.List)
	t.GET("/:id", view, h.GetByID)
	t.PATCH("/:id", edit, h.Update)
	t.DELETE("/:id", edit, h.Delete)
	t.POST("/:id/preview", view, h.Preview)
}
