package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sharebook/internal/handler/api"
	"sharebook/internal/handler/middleware"
	"sharebook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, bookHandler *api.BookHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, bookHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, bookHandler *api.BookHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireUser := middleware.RequireUser()

	books := engine.Group("/api/books")
	{
		addRoutes(books, []route{
			{Method: http.MethodGet, Path: "", Handler: bookHandler.List},
			{Method: http.MethodGet, Path: "/:id", Handler: bookHandler.Get},
			{Method: http.MethodPost, Path: "", Handler: bookHandler.Create, Mw: []gin.HandlerFunc{requireUser}},
			{Method: http.MethodPut, Path: "/:id", Handler: bookHandler.Update, Mw: []gin.HandlerFunc{requireUser}},
		})

		loans := books.Group("/:id/loan-requests")
		loans.Use(requireUser)
		addRoutes(loans, []route{
			{Method: http.MethodPost, Path: "", Handler: bookHandler.RequestLoan},
			{Method: http.MethodPost, Path: "/accept", Handler: bookHandler.AcceptLoan},
			{Method: http.MethodPost, Path: "/refuse", Handler: bookHandler.RefuseLoan},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
