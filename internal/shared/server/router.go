package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "github.com/akjsdfklj/investor-intel-sub000/internal/auth"
	"github.com/akjsdfklj/investor-intel-sub000/internal/bulk"
	"github.com/akjsdfklj/investor-intel-sub000/internal/deals"
	"github.com/akjsdfklj/investor-intel-sub000/internal/documents"
	"github.com/akjsdfklj/investor-intel-sub000/internal/portfolio"
	"github.com/akjsdfklj/investor-intel-sub000/internal/reports"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/config"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/metrics"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
	"github.com/akjsdfklj/investor-intel-sub000/internal/termsheets"
	"github.com/akjsdfklj/investor-intel-sub000/internal/uploads"
	"github.com/akjsdfklj/investor-intel-sub000/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	DealsHandler     *deals.Handler
	ReportsHandler   *reports.Handler
	BulkHandler      *bulk.Handler
	DocumentsHandler *documents.Handler
	TermSheetHandler *termsheets.Handler
	PortfolioHandler *portfolio.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.DealsHandler != nil {
		deps.DealsHandler.Register(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.Register(api)
	}
	if deps.BulkHandler != nil {
		deps.BulkHandler.Register(api)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.Register(api)
	}
	if deps.TermSheetHandler != nil {
		deps.TermSheetHandler.Register(api)
	}
	if deps.PortfolioHandler != nil {
		deps.PortfolioHandler.Register(api)
	}
	uploads.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
