package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eprocure/lookups/internal/audit"
	"github.com/eprocure/lookups/internal/config"
	"github.com/eprocure/lookups/internal/database"
	auditRepo "github.com/eprocure/lookups/internal/database/audit"
	"github.com/eprocure/lookups/internal/database/lookups"
	http_controllers "github.com/eprocure/lookups/internal/http"
	"github.com/eprocure/lookups/internal/options"
	"github.com/eprocure/lookups/internal/scheduler"
	"github.com/eprocure/lookups/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// In-flight requests are drained first so their audit events are queued.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// NewServices builds one options service per kind, all sharing db.
func NewServices(db *database.Database) []*options.Service {
	services := make([]*options.Service, 0, len(db.Kinds()))
	for _, kind := range db.Kinds() {
		services = append(services, options.NewService(kind, lookups.NewRepository(db.DB, kind)))
	}
	return services
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting lookups v%s", version)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.HTTP.GinMode)

	kinds, err := cfg.Kinds()
	if err != nil {
		log.Fatalf("Invalid kinds: %v", err)
	}

	db, err := database.NewDatabase(cfg.Database, kinds)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	services := NewServices(db)
	routed := make([]http_controllers.OptionService, 0, len(services))
	for _, svc := range services {
		routed = append(routed, svc)
	}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditRepo.NewRepository(db.DB))
	} else {
		log.Printf("Audit trail: disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Services:     routed,
		Kinds:        kinds,
		Database:     db,
		AuditService: auditService,
		Version:      version,
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasksDBPath(cfg), tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		if auditService != nil {
			taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		routerCfg.TaskClient = taskClient

		if auditService != nil {
			cleanupScheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit)
			if err := cleanupScheduler.Start(taskCtx); err != nil {
				log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
			}
			routerCfg.CleanupTrigger = cleanupScheduler
		}
	}

	router := http_controllers.NewRouter(routerCfg)
	log.Printf("Serving %d option kinds", len(kinds))

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if auditService != nil {
			auditService.Wait()
		}
	}

	Serve(router, cfg, onShutdown)
}

// tasksDBPath places the queue database next to DATABASE_PATH. With the
// postgres driver the path only locates the queue file.
func tasksDBPath(cfg *config.Config) string {
	if cfg.Database.Path == "" {
		return config.DefaultDatabasePath
	}
	return cfg.Database.Path
}
