package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/repository"
	"github.com/jhoicas/prospection-api/internal/infrastructure/opco"
	infrapdf "github.com/jhoicas/prospection-api/internal/infrastructure/pdf"
	"github.com/jhoicas/prospection-api/internal/infrastructure/postgres"
	"github.com/jhoicas/prospection-api/internal/infrastructure/provider"
	"github.com/jhoicas/prospection-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/prospection-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/prospection-api/internal/interfaces/http"
	"github.com/jhoicas/prospection-api/internal/interfaces/web"
	"github.com/jhoicas/prospection-api/pkg/client"
	"github.com/jhoicas/prospection-api/pkg/config"
	"github.com/jhoicas/prospection-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("ui_annotations", cfg.UI.Annotations).
		Msg("iniciando aplicación")

	ctx := context.Background()
	loc := cfg.UI.Location()

	annotationRepo, closeStorage, err := openAnnotationRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de anotaciones")
	}
	defer closeStorage()

	annotationUC := prospection.NewAnnotationUseCase(annotationRepo, loc)
	searchUC := prospection.NewSearchUseCase(provider.NewSearcher(cfg.Sirene, log.Component("search")), annotationUC).
		WithLimit(cfg.Search.Limit)
	exportUC := prospection.NewExportUseCase(xlsx.NewGenerator(), infrapdf.NewCallSheetGenerator(loc))
	opcoUC := prospection.NewOPCOUseCase(opco.NewResolver(cfg.Sirene.OPCOBaseURL, cfg.Sirene.Timeout, log.Component("opco")))

	sessions, closeUI, err := newWebSessions(ctx, cfg, searchUC, exportUC, annotationUC, log)
	if err != nil {
		log.Fatal().Err(err).Msg("interfaz web")
	}
	defer closeUI()
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de la interfaz web")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // búsquedas con varios proveedores encadenados
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Prospection API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SearchUC:     searchUC,
		ExportUC:     exportUC,
		AnnotationUC: annotationUC,
		OPCOUC:       opcoUC,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log.Component("http"),
	})
	web.NewHandler(renderer, sessions, log.Component("web")).WithAuth(cfg.JWT.Secret).Register(app)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openAnnotationRepository abre el almacenamiento de anotaciones del servidor según STORAGE_DRIVER.
func openAnnotationRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.AnnotationRepository, func(), error) {
	if cfg.Storage.Driver == config.DriverPostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewAnnotationRepository(pool), pool.Close, nil
	}

	db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("path", cfg.Storage.SQLitePath).Msg("sqlite: anotaciones listas")
	return sqlite.NewAnnotationRepository(db), func() { _ = db.Close() }, nil
}

type uiBackend interface {
	web.API
	web.AnnotationAPI
}

// newWebSessions arma la interfaz web: backend (en proceso o HTTP) y almacén de anotaciones según UI_ANNOTATIONS.
func newWebSessions(
	ctx context.Context,
	cfg *config.Config,
	searchUC *prospection.SearchUseCase,
	exportUC *prospection.ExportUseCase,
	annotationUC *prospection.AnnotationUseCase,
	log *logger.Logger,
) (*web.Sessions, func(), error) {
	uiLog := log.Component("web")

	var backend uiBackend = web.NewUseCaseAPI(searchUC, exportUC, annotationUC, cfg.UI.Conseiller)
	if cfg.UI.APIBaseURL != "" {
		backend = client.New(cfg.UI.APIBaseURL,
			client.WithToken(cfg.UI.APIToken),
			client.WithConseiller(cfg.UI.Conseiller),
		)
	}

	closeFn := func() {}
	var newStore func() web.AnnotationStore
	switch cfg.UI.Annotations {
	case config.AnnotationsLocal:
		db, err := sqlite.Open(ctx, cfg.UI.LocalKVPath)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { _ = db.Close() }
		shared := web.NewLocalStore(sqlite.NewKVStore(db), cfg.UI.Location(), uiLog)
		newStore = func() web.AnnotationStore { return shared }
	case config.AnnotationsMemory:
		shared := web.NewLocalStore(web.NewMemoryKV(), cfg.UI.Location(), uiLog)
		newStore = func() web.AnnotationStore { return shared }
	default:
		newStore = func() web.AnnotationStore { return web.NewRemoteStore(backend, uiLog) }
	}

	sessions := web.NewSessions(func() *web.Page {
		return web.NewPage(backend, newStore(), uiLog)
	}, cfg.UI.SessionTTL)
	return sessions, closeFn, nil
}
