package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "github.com/akjsdfklj/investor-intel-sub000/internal/auth"
	"github.com/akjsdfklj/investor-intel-sub000/internal/bulk"
	"github.com/akjsdfklj/investor-intel-sub000/internal/deals"
	"github.com/akjsdfklj/investor-intel-sub000/internal/documents"
	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
	openai "github.com/akjsdfklj/investor-intel-sub000/internal/llm/openai"
	"github.com/akjsdfklj/investor-intel-sub000/internal/portfolio"
	"github.com/akjsdfklj/investor-intel-sub000/internal/queue"
	"github.com/akjsdfklj/investor-intel-sub000/internal/reports"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/config"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/db"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object"
	localstore "github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object/local"
	s3store "github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object/s3"
	"github.com/akjsdfklj/investor-intel-sub000/internal/termsheets"
	"github.com/akjsdfklj/investor-intel-sub000/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	DealsRepo        deals.DealsRepo
	DocumentsRepo    documents.DocumentsRepo
	ReportsRepo      reports.Repo
	TermSheetsRepo   termsheets.TermSheetsRepo
	PortfolioRepo    portfolio.PortfolioRepo
	UsersRepo        users.Repo
	DealsService     *deals.Service
	DocumentsService *documents.Service
	ReportsService   *reports.Service
	ReportProcessor  ReportProcessor
	TermSheetService *termsheets.Service
	PortfolioService *portfolio.Service
	UsersService     *users.Service
	Orchestrator     *bulk.Orchestrator
	GoogleAuth       *googleauth.GoogleService
}

// ReportProcessor allows callers to override report processing for tests.
type ReportProcessor interface {
	Process(ctx context.Context, reportID string) error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DealsHandler:     deals.NewHandler(app.DealsService),
		ReportsHandler:   reports.NewHandler(app.ReportsService),
		BulkHandler:      bulk.NewHandler(app.Orchestrator, app.Store, cfg.BulkMaxItems),
		DocumentsHandler: documents.NewHandler(app.DocumentsService),
		TermSheetHandler: termsheets.NewHandler(app.TermSheetService),
		PortfolioHandler: portfolio.NewHandler(app.PortfolioService),
		UsersHandler:     users.NewHandler(app.UsersService),
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("REPORTS_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var dealRepo deals.DealsRepo
	var docRepo documents.DocumentsRepo
	var reportRepo reports.Repo
	var sheetRepo termsheets.TermSheetsRepo
	var portfolioRepo portfolio.PortfolioRepo
	var userRepo users.Repo

	if app.DB != nil {
		dealRepo = &deals.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		reportRepo = &reports.PGRepo{DB: app.DB}
		sheetRepo = &termsheets.PGRepo{DB: app.DB}
		portfolioRepo = &portfolio.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		dealRepo = deals.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		reportRepo = reports.NewMemoryRepo()
		sheetRepo = termsheets.NewMemoryRepo()
		portfolioRepo = portfolio.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	dealSvc := deals.NewService(dealRepo)
	docSvc := &documents.Service{
		Store: app.Store,
		Repo:  docRepo,
	}
	reportSvc := &reports.Service{
		Repo:          reportRepo,
		Deals:         dealRepo,
		Docs:          docRepo,
		Store:         app.Store,
		LLM:           llmClient,
		Queue:         app.Queue,
		Provider:      app.Config.LLMProvider,
		Model:         app.Config.LLMModel,
		ReportVersion: app.Config.ReportVersion,
	}

	extractor := &bulk.StoreExtractor{Store: app.Store}
	orch := bulk.NewOrchestrator(extractor, llmClient, app.Config.ReportVersion, app.Config.BulkBatchSize)

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DealsRepo = dealRepo
	app.DocumentsRepo = docRepo
	app.ReportsRepo = reportRepo
	app.TermSheetsRepo = sheetRepo
	app.PortfolioRepo = portfolioRepo
	app.UsersRepo = userRepo
	app.DealsService = dealSvc
	app.DocumentsService = docSvc
	app.ReportsService = reportSvc
	app.ReportProcessor = reportSvc
	app.TermSheetService = termsheets.NewService(sheetRepo)
	app.PortfolioService = portfolio.NewService(portfolioRepo)
	app.UsersService = userSvc
	app.Orchestrator = orch
	app.GoogleAuth = googleAuthSvc

	if app.DealsService == nil || app.ReportsService == nil || app.Orchestrator == nil {
		return errors.New("failed to initialize services")
	}
	return nil
}
