package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "weld_quote/docs" // This will be auto-generated
	"weld_quote/internal/adapter/http/handlers"
	"weld_quote/internal/adapter/persistence/repository"
	"weld_quote/internal/infrastructure/database"
	"weld_quote/internal/infrastructure/estimator"
	"weld_quote/internal/infrastructure/export"
	"weld_quote/internal/infrastructure/notify"
	"weld_quote/internal/infrastructure/tariffs"
	"weld_quote/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultPort     = "8080"
	shutdownTimeout = 20 * time.Second
)

// Run will start the server and block until SIGINT/SIGTERM.
func Run() {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	quoteUseCase := getRoutes(router)

	srv := &http.Server{
		Addr:              ":" + port(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[server] listening addr=%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to startup the application: %v", err.Error())
		}
	}()

	<-ctx.Done()
	log.Printf("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown failed err=%v", err)
	}
	// pending order notifications
	quoteUseCase.Wait()
	log.Printf("[server] stopped")
}

func getRoutes(router *gin.Engine) *usecase.QuoteUseCase {
	tariff, err := tariffs.Load(os.Getenv("TARIFF_FILE"))
	if err != nil {
		log.Fatalf("Failed to load tariff: %v", err)
	}
	log.Printf("[server] tariff loaded version=%s", tariff.Version)

	ddb := database.ConnectDynamoDB()
	table := database.QuotesTableName()
	if os.Getenv("DYNAMODB_ENDPOINT") != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.EnsureQuotesTable(ctx, ddb, table); err != nil {
			log.Printf("[server] ensure table failed table=%s err=%v", table, err)
		}
		cancel()
	}

	quoteRepo := repository.NewQuoteDynamoRepository(ddb, table)

	llmCfg := estimator.ConfigFromEnv()
	if llmCfg.APIKey == "" {
		log.Printf("[server] LLM_API_KEY not set; estimates will use the local tariff only")
	}
	externalEstimator := estimator.NewClient(llmCfg)
	notifier := notify.NewTelegramNotifier(notify.TelegramConfigFromEnv())
	exporter := export.NewQuoteXLSXExporter()

	quoteUseCase := usecase.NewQuoteUseCase(quoteRepo, externalEstimator, notifier, exporter, tariff)
	quoteHandler := handlers.NewQuoteHandler(quoteUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuoteRoutes(v1, quoteHandler)

	return quoteUseCase
}

func setMiddlewares(router *gin.Engine) {
	router.Use(cors.New(corsConfig()))
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

// corsConfig allows the intake form origins from ALLOWED_ORIGINS (comma separated).
// Without it every origin is allowed, which is what local development needs.
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.ExposeHeaders = []string{"Content-Length", "Content-Disposition"}
	cfg.MaxAge = 12 * time.Hour

	var origins []string
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func port() string {
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		return p
	}
	return defaultPort
}
