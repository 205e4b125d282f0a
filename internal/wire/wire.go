package wire

import (
	"context"
	"net/http"

	"course-platform/internal/adaptor"
	"course-platform/internal/data/repository"
	"course-platform/internal/usecase"
	"course-platform/pkg/middleware"
	"course-platform/pkg/notifier"
	"course-platform/pkg/storage"
	"course-platform/pkg/token"
	"course-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the HTTP router with every route mounted.
type App struct {
	Router *chi.Mux
}

// Deps are the collaborators the routes are built on.
type Deps struct {
	Tokens  *token.Manager
	Hasher  usecase.PasswordHasher
	Sender  notifier.Sender
	Storage storage.Storage
}

// Wiring builds the collaborators described by config and mounts the routes.
func Wiring(ctx context.Context, repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	tokens, err := token.NewManager(config.JWT.Secret, config.JWT.Issuer)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, config.Storage, logger)
	if err != nil {
		return nil, err
	}

	deps := Deps{
		Tokens:  tokens,
		Hasher:  utils.NewBcryptHasher(config.Auth.BcryptCost),
		Sender:  notifier.New(config.Email, config.App.Debug, logger),
		Storage: store,
	}

	return WiringWith(repo, deps, config, logger), nil
}

// WiringWith mounts the routes on already built collaborators.
func WiringWith(repo *repository.Repository, deps Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, usecase.Dependencies{
		Hasher:  deps.Hasher,
		Tokens:  deps.Tokens,
		Sender:  deps.Sender,
		Storage: deps.Storage,
	}, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	return &App{
		Router: setupRouter(handler, repo, deps, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	deps Deps,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/user", func(r chi.Router) {
		wireAuth(r, handler.Auth)
		wireUser(r, handler.User, repo, deps, logger)
	})
	r.Route("/api/course", func(r chi.Router) {
		wireCourse(r, handler.Course, repo, deps, logger)
	})
	r.Route("/api/lesson", func(r chi.Router) {
		wireLesson(r, handler.Lesson, repo, deps, logger)
	})

	wireUploads(r, config.Storage)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// wireUploads serves locally stored pictures and thumbnails under their URL
// prefix.
// S3 pictures are served by the bucket.
func wireUploads(r chi.Router, config utils.StorageConfig) {
	if config.Driver != utils.StorageLocal || config.URLPrefix == "" || config.UploadDir == "" {
		return
	}

	fs := http.StripPrefix(config.URLPrefix, http.FileServer(http.Dir(config.UploadDir)))
	r.Get(config.URLPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	})
}
