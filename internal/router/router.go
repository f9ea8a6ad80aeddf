package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"huella-urbana/docs"
	mediamem "huella-urbana/internal/adapters/media/memory"
	mem "huella-urbana/internal/adapters/storage/memory"
	"huella-urbana/internal/adapters/storage/sqlstore"
	"huella-urbana/internal/domain/moderation"
	"huella-urbana/internal/domain/reports"
	"huella-urbana/internal/domain/wizard"
	"huella-urbana/internal/middleware"
	"huella-urbana/internal/platform/logger"
	"huella-urbana/internal/ports/auth"
	"huella-urbana/internal/ports/media"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa SQL (postgres o sqlite). Si no, in-memory.
	DB *sqlstore.DB

	// Media guarda las fotos. nil => in-memory.
	Media media.Store

	// UploadsDir y UploadsPath: si ambos vienen, se sirven los archivos
	// subidos como estáticos.
	UploadsDir  string
	UploadsPath string

	Logger logger.Logger

	SessionTTL time.Duration

	// Si Context no es nil, se lanza el barrido de sesiones vencidas
	// hasta que termine.
	Context       context.Context
	SweepInterval time.Duration
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	docs.SwaggerInfo.BasePath = "/"
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if opts.UploadsDir != "" && opts.UploadsPath != "" {
		prefix := "/" + strings.Trim(opts.UploadsPath, "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadsDir)))
		r.Handle(prefix+"/*", fs)
	}

	var (
		reportsRepo  reports.Repository
		logRepo      moderation.LogRepository
		sessionsRepo = mem.NewWizardSessionsRepo()
	)

	if opts.DB != nil {
		reportsRepo = sqlstore.NewReportsRepo(opts.DB)
		logRepo = sqlstore.NewModerationLogRepo(opts.DB)
	} else {
		reportsRepo = mem.NewReportsRepo()
		logRepo = mem.NewModerationLogRepo()
	}

	store := opts.Media
	if store == nil {
		store = mediamem.New()
	}

	// Services por módulo
	reportsSvc := reports.NewService(reportsRepo, store, log)
	moderationSvc := moderation.NewService(reportsRepo, logRepo, log)
	wizardSvc := wizard.NewService(sessionsRepo, reports.NewWizardTarget(reportsSvc), opts.SessionTTL, log)

	if opts.Context != nil {
		go wizardSvc.RunJanitor(opts.Context, opts.SweepInterval)
	}

	// Rutas por módulo
	wizard.RegisterRoutes(r, wizardSvc)
	reports.RegisterRoutes(r, reportsSvc)
	moderation.RegisterRoutes(r, moderationSvc)

	return r
}
