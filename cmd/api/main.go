package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/jsonfile"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/sqlite"
	serviceAuth "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/auth"
	memberService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/member"
	notificationService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/notification"
	orgService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/organization"
	scheduleService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-portal"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

// stores groups the repositories picked by MEMBER_STORE_DRIVER.
type stores struct {
	members       member.MemberRepository
	users         user.UserRepository
	notifications notification.Repository
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	s := stores{
		users:         jsonfile.NewUserRepository(cfg.App.UsersFilePath),
		notifications: memory.NewNotificationRepository(0),
		close:         func() {},
	}

	switch cfg.MemberStore.Driver {
	case "json":
		s.members = jsonfile.NewMemberRepository(cfg.MemberStore.FilePath)
	case "memory":
		s.members = memory.NewMemberRepository()
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.MemberStore.SQLiteDSN)
		if err != nil {
			return stores{}, fmt.Errorf("open sqlite member store: %w", err)
		}
		s.members = sqlite.NewMemberRepository(db)
		s.close = func() { _ = db.Close() }
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return stores{}, fmt.Errorf("connect to database: %w", err)
		}
		for _, ensure := range []func(context.Context, *database.DB) error{
			postgresql.EnsureMemberSchema,
			postgresql.EnsureUserSchema,
			postgresql.EnsureNotificationSchema,
		} {
			if err := ensure(ctx, db); err != nil {
				db.Close()
				return stores{}, err
			}
		}
		s.members = postgresql.NewMemberRepository(db)
		s.users = postgresql.NewUserRepository(db)
		s.notifications = postgresql.NewNotificationRepository(db)
		s.close = db.Close
	default:
		return stores{}, fmt.Errorf("unsupported member store driver: %s", cfg.MemberStore.Driver)
	}
	return s, nil
}

func seedMembers(ctx context.Context, repo member.MemberRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	seed := fixtures.SeedMembers(time.Now())
	if err := repo.ReplaceAll(ctx, seed); err != nil {
		return fmt.Errorf("seed members: %w", err)
	}
	slog.Info("Seeded member directory", "count", len(seed))
	return nil
}

func loadOrganizations(cfg *config.Config) (organization.OrganizationService, error) {
	var (
		roots []organization.Node
		err   error
	)
	if cfg.App.OrgTreePath != "" {
		roots, err = orgService.LoadTreeFile(cfg.App.OrgTreePath)
	} else {
		roots, err = orgService.LoadTree(fixtures.DefaultOrganizationTree())
	}
	if err != nil {
		return nil, fmt.Errorf("load organization tree: %w", err)
	}
	return orgService.NewOrganizationService(roots)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	if cfg.MemberStore.SeedOnBoot {
		if err := seedMembers(ctx, st.members); err != nil {
			return err
		}
	}

	orgs, err := loadOrganizations(cfg)
	if err != nil {
		return err
	}

	fileStorage, err := storage.New(ctx, storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
		S3Bucket: cfg.Storage.S3Bucket,
		S3Region: cfg.Storage.S3Region,
	})
	if err != nil {
		return fmt.Errorf("initialize file storage: %w", err)
	}

	accessExpiration, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid access token expiration: %w", err)
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)

	authService := serviceAuth.NewAuthService(st.users, st.members, JWTService)
	if cfg.Admin.Password != "" {
		err := authService.SeedAdmin(ctx, auth.SeedAdminRequest{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			Name:     cfg.Admin.Name,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(st.notifications, hub, notificationService.Config{})
	defer notifService.Stop()

	memberSvc := memberService.NewMemberService(st.members, orgs, fileStorage,
		memberService.WithNotifier(notifService),
	)
	location := cfg.Location()
	scheduleSvc := scheduleService.NewScheduleService(st.members, notifService, scheduleService.Config{
		Location:        location,
		LockedDay:       cfg.Schedule.LockedDay,
		DefaultColor:    cfg.Schedule.DefaultColor,
		DefaultTemplate: fixtures.DefaultWeeklyTemplate(),
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewPortalJobs(scheduleSvc, JWTService, cfg.Schedule.SessionTTL, cfg.Schedule.SweepEvery).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	uploadsDir := ""
	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		uploadsDir = local.BasePath()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:              logger,
		LogLevel:            cfg.SlogLevel(),
		AllowedOrigins:      cfg.App.AllowedOrigins,
		UploadsDir:          uploadsDir,
		JWTService:          JWTService,
		AuthHandler:         appHTTP.NewAuthHandler(authService),
		MemberHandler:       appHTTP.NewMemberHandler(memberSvc),
		ScheduleHandler:     appHTTP.NewScheduleHandler(scheduleSvc, location),
		OrganizationHandler: appHTTP.NewOrganizationHandler(orgs),
		NotificationHandler: appHTTP.NewNotificationHandler(notifService, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Zero write timeout; the notification stream holds responses open.
		IdleTimeout: 120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "member_store", cfg.MemberStore.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
