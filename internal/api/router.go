package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fiscal-forum/internal/common/config"
	"fiscal-forum/internal/common/logger"
)

// RouterOptions carries what NewRouter wires beyond the handlers.
type RouterOptions struct {
	Server      config.ServerConfig
	AdminRole   string
	Auth        TokenValidator
	RateLimiter *RateLimiter
	Readiness   map[string]Pinger
	Logger      logger.Logger
}

func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(opts.Logger), RequestLogger(opts.Logger), CORS(opts.Server.AllowedOrigins))
	if opts.Server.RequestTimeout > 0 {
		r.Use(Timeout(config.GetDuration(opts.Server.RequestTimeout)))
	}
	if opts.Server.MaxBodyBytes > 0 {
		r.Use(MaxBody(opts.Server.MaxBodyBytes))
	}

	r.GET("/health", Health)
	r.GET("/ready", Ready(opts.Readiness))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/home", h.Home)
	api.GET("/news", h.News)
	api.GET("/investments", h.Investments)
	api.GET("/catalog/credit-cards", h.CreditCards)
	api.GET("/catalog/credit-cards/search", h.SearchCards)
	api.GET("/catalog/credit-cards/:id", h.CreditCard)
	api.GET("/forms", h.ListForms)
	api.GET("/forms/:form", h.GetForm)

	posts := api.Group("")
	if opts.RateLimiter != nil {
		posts.Use(opts.RateLimiter.Middleware())
	}
	posts.POST("/forms/:form/validate", h.ValidateStep)
	for _, form := range h.forms.List() {
		posts.POST(strings.TrimPrefix(form.Endpoint, "/api"), h.SubmitLead(form.Type))
	}

	if opts.Auth != nil {
		admin := api.Group("/admin", RequireRole(opts.Auth, opts.AdminRole, opts.Logger))
		admin.GET("/leads", h.ListLeads)
		admin.GET("/leads/:id", h.GetLead)
	}

	return r
}
