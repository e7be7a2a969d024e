package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobpass-backend/internal/ai"
	"jobpass-backend/internal/ai/gemini"
	"jobpass-backend/internal/ai/openrouter"
	googleauth "jobpass-backend/internal/auth"
	"jobpass-backend/internal/feedback"
	"jobpass-backend/internal/resumes"
	"jobpass-backend/internal/shared/config"
	"jobpass-backend/internal/shared/server"
	"jobpass-backend/internal/shared/storage/db"
	"jobpass-backend/internal/shared/storage/object"
	localstore "jobpass-backend/internal/shared/storage/object/local"
	miniostore "jobpass-backend/internal/shared/storage/object/minio"
	s3store "jobpass-backend/internal/shared/storage/object/s3"
	"jobpass-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	AI     ai.Client

	UsersRepo    users.Repo
	ResumesRepo  resumes.Repo
	FeedbackRepo feedback.Repo

	UsersService    *users.Service
	ResumesService  *resumes.Service
	FeedbackService *feedback.Service

	ResumeHandler   *resumes.Handler
	FeedbackHandler *feedback.Handler
	GoogleAuth      *googleauth.GoogleService
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

	client, err := buildAI(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		AI:     client,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		ResumeHandler:   app.ResumeHandler,
		FeedbackHandler: app.FeedbackHandler,
		GoogleAuth:      app.GoogleAuth,
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

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	case "minio":
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildAI(ctx context.Context, cfg config.Config) (ai.Client, error) {
	switch cfg.AIProvider {
	case "openrouter":
		return openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.AIModel)
	default:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: GEMINI_API_KEY empty; analysis endpoints will fail until configured")
				return unconfiguredClient{}, nil
			}
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.AIModel)
	}
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
	var userRepo users.Repo
	var resumeRepo resumes.Repo
	var feedbackRepo feedback.Repo

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		feedbackRepo = &feedback.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		feedbackMem := feedback.NewMemoryRepo()
		feedbackRepo = feedbackMem
		resumeMem := resumes.NewMemoryRepo()
		resumeMem.ScoreFunc = feedbackMem.Headline
		resumeRepo = resumeMem
	}

	userSvc := users.NewService(userRepo)
	resumeSvc := &resumes.Service{
		Store:    app.Store,
		Repo:     resumeRepo,
		Feedback: feedbackRepo,
	}
	feedbackSvc := feedback.NewService(
		resumeSource{svc: resumeSvc},
		app.Store,
		app.AI,
		feedbackRepo,
		app.Config.AIModel,
	)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.UsersRepo = userRepo
	app.ResumesRepo = resumeRepo
	app.FeedbackRepo = feedbackRepo
	app.UsersService = userSvc
	app.ResumesService = resumeSvc
	app.FeedbackService = feedbackSvc
	app.ResumeHandler = resumes.NewHandler(resumeSvc, feedbackRepo)
	app.FeedbackHandler = feedback.NewHandler(feedbackSvc)
	app.GoogleAuth = googleAuthSvc

	return nil
}

// resumeSource adapts the resumes service to the pipeline's view of a resume.
type resumeSource struct {
	svc *resumes.Service
}

func (r resumeSource) Info(ctx context.Context, userID, resumeID string) (feedback.ResumeInfo, error) {
	resume, err := r.svc.Get(ctx, userID, resumeID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return feedback.ResumeInfo{}, feedback.ErrResumeNotFound
		}
		return feedback.ResumeInfo{}, err
	}
	return feedback.ResumeInfo{
		ID:          resume.ID,
		FileName:    resume.FileName,
		StorageKey:  resume.StorageKey,
		MimeType:    resume.MimeType,
		CompanyName: resume.CompanyName,
		JobTitle:    resume.JobTitle,
	}, nil
}

// unconfiguredClient fails every call with a provider-unavailable error. It
// keeps dev bootstrap working without an API key.
type unconfiguredClient struct{}

func (unconfiguredClient) Analyze(_ context.Context, _ ai.Request) (string, error) {
	return "", fmt.Errorf("%w: no AI provider configured", ai.ErrUnavailable)
}
