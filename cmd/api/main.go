package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/weinberg-digital/storefront-api/internal/di"
	"github.com/weinberg-digital/storefront-api/internal/handlers"
	"github.com/weinberg-digital/storefront-api/internal/platform/auth"
	"github.com/weinberg-digital/storefront-api/internal/platform/config"
	pfirestore "github.com/weinberg-digital/storefront-api/internal/platform/firestore"
	"github.com/weinberg-digital/storefront-api/internal/platform/i18n"
	"github.com/weinberg-digital/storefront-api/internal/platform/idempotency"
	"github.com/weinberg-digital/storefront-api/internal/platform/jobs"
	"github.com/weinberg-digital/storefront-api/internal/platform/observability"
	"github.com/weinberg-digital/storefront-api/internal/platform/secrets"
	"github.com/weinberg-digital/storefront-api/internal/repositories"
	"github.com/weinberg-digital/storefront-api/internal/repositories/catalogapi"
	firestoreRepo "github.com/weinberg-digital/storefront-api/internal/repositories/firestore"
)

const (
	idempotencyCleanupInterval = time.Hour
	idempotencyCleanupBatch    = 250
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	envValues, err := config.EnvironmentValues()
	if err != nil {
		logger.Fatal("failed to read environment values", zap.Error(err))
	}

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
		config.WithRequiredSecrets(requiredSecretNames(envValues)...),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Fatal("missing required secrets", zap.Strings("secrets", missing.RedactedNames()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	buildInfo := buildInfoFromEnv(envValues, cfg, startedAt)

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	feed, err := catalogapi.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.AuthToken,
		catalogapi.WithRequestTimeout(cfg.Catalog.RequestTimeout),
		catalogapi.WithLogger(logger.Named("catalog_feed")),
	)
	if err != nil {
		logger.Fatal("failed to initialise catalog feed client", zap.Error(err))
	}

	healthRepo, err := newHealthRepository(firestoreClient, fetcher)
	if err != nil {
		logger.Fatal("failed to initialise health repository", zap.Error(err))
	}

	registry, err := firestoreRepo.NewRegistry(firestoreProvider, healthRepo)
	if err != nil {
		logger.Fatal("failed to initialise repository registry", zap.Error(err))
	}

	deps := di.Deps{
		Feed:   feed,
		Logger: observability.EventLogger(logger.Named("services")),
	}

	var pubsubClient *pubsub.Client
	if projectID := strings.TrimSpace(cfg.PubSub.ProjectID); projectID != "" {
		pubsubClient, err = pubsub.NewClient(ctx, projectID)
		if err != nil {
			logger.Fatal("failed to initialise pubsub client", zap.Error(err))
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logger.Warn("pubsub close error", zap.Error(err))
			}
		}()

		ordersTopic := pubsubClient.Topic(cfg.PubSub.OrdersTopic)
		var bookingsTopic *pubsub.Topic
		if cfg.Features.EnableBookings {
			bookingsTopic = pubsubClient.Topic(cfg.PubSub.BookingsTopic)
		}
		publisher, err := jobs.NewPubSubEventPublisher(ordersTopic, bookingsTopic)
		if err != nil {
			logger.Fatal("failed to initialise event publisher", zap.Error(err))
		}
		deps.Publisher = publisher
	} else {
		logger.Warn("pubsub project not configured; order and booking events disabled")
	}

	container, err := di.NewContainer(ctx, cfg, registry, deps)
	if err != nil {
		logger.Fatal("failed to assemble services", zap.Error(err))
	}

	refreshCtx, refreshCancel := context.WithTimeout(ctx, cfg.Catalog.RequestTimeout+5*time.Second)
	if err := container.Services.Catalog.Refresh(refreshCtx, true); err != nil {
		logger.Warn("initial catalog refresh failed; serving once the feed recovers", zap.Error(err))
	}
	refreshCancel()

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	var backgroundWG sync.WaitGroup

	if cfg.Catalog.RefreshInterval > 0 {
		backgroundWG.Add(1)
		go func() {
			defer backgroundWG.Done()
			refreshLogger := logger.Named("catalog")
			ticker := time.NewTicker(cfg.Catalog.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					runCtx, cancel := context.WithTimeout(backgroundCtx, cfg.Catalog.RequestTimeout+5*time.Second)
					if err := container.Services.Catalog.Refresh(runCtx, false); err != nil {
						refreshLogger.Warn("catalog refresh failed", zap.Error(err))
					}
					cancel()
				case <-backgroundCtx.Done():
					return
				}
			}
		}()
	}

	idempotencyStore := idempotency.NewFirestoreStore(firestoreClient)
	idempotencyMiddleware := idempotency.Middleware(
		idempotencyStore,
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)
	backgroundWG.Add(1)
	go func() {
		defer backgroundWG.Done()
		cleanupLogger := logger.Named("idempotency")
		ticker := time.NewTicker(idempotencyCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(backgroundCtx, time.Minute)
				removed, err := idempotencyStore.CleanupExpired(runCtx, time.Now().UTC(), idempotencyCleanupBatch)
				cancel()
				if err != nil {
					cleanupLogger.Error("idempotency cleanup error", zap.Error(err))
					continue
				}
				if removed > 0 {
					cleanupLogger.Info("idempotency cleanup removed records", zap.Int("count", removed))
				}
			case <-backgroundCtx.Done():
				return
			}
		}
	}()

	firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("failed to initialise firebase verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(firebaseVerifier)

	labels, err := i18n.NewCatalog(cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		logger.Fatal("failed to initialise locale catalog", zap.Error(err))
	}

	projectID := traceProjectID(cfg)
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(projectID),
		labels.Middleware(),
		idempotencyMiddleware,
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthReporter(healthRepo),
	)

	publicHandlers := handlers.NewPublicHandlers(container.Services.Catalog, labels)
	cartHandlers := handlers.NewCartHandlers(authenticator, container.Services.Cart)
	orderHandlers := handlers.NewOrderHandlers(authenticator, container.Services.Orders)
	internalHandlers := handlers.NewInternalHandlers(container.Services.Catalog)

	opts := []handlers.Option{
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithPublicRoutes(publicHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithInternalRoutes(internalHandlers.Routes),
	}
	if container.Services.Wishlist != nil || container.Services.Loyalty != nil {
		meHandlers := handlers.NewMeHandlers(authenticator, container.Services.Wishlist, container.Services.Loyalty)
		opts = append(opts, handlers.WithMeRoutes(meHandlers.Routes))
	}
	if container.Services.Bookings != nil {
		bookingHandlers := handlers.NewBookingHandlers(authenticator, container.Services.Bookings)
		opts = append(opts, handlers.WithBookingRoutes(bookingHandlers.Routes))
	}
	if oidcMiddleware := buildOIDCMiddleware(logger.Named("auth"), cfg); oidcMiddleware != nil {
		opts = append(opts, handlers.WithInternalMiddlewares(oidcMiddleware))
	}

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	backgroundCancel()
	backgroundWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := container.Close(closeCtx); err != nil {
		logger.Warn("container close error", zap.Error(err))
	}
}

func buildInfoFromEnv(env map[string]string, cfg config.Config, started time.Time) handlers.BuildInfo {
	version := strings.TrimSpace(env["SHOP_BUILD_VERSION"])
	if version == "" {
		version = "dev"
	}
	commit := strings.TrimSpace(env["SHOP_BUILD_COMMIT_SHA"])
	if commit == "" {
		commit = "unknown"
	}
	environment := strings.TrimSpace(cfg.Security.Environment)
	if environment == "" {
		environment = "local"
	}
	return handlers.BuildInfo{
		Version:     version,
		CommitSHA:   commit,
		Environment: environment,
		StartedAt:   started,
	}
}

func newHealthRepository(client *firestore.Client, fetcher *secrets.Fetcher) (repositories.HealthRepository, error) {
	checks := make([]repositories.DependencyCheck, 0, 2)
	if client != nil {
		c := client
		checks = append(checks, repositories.DependencyCheck{
			Name:    "firestore",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				iter := c.Collections(ctx)
				_, err := iter.Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		})
	}
	if fetcher != nil {
		const secretHealthReference = "secret://system/healthz?version=latest"
		checks = append(checks, repositories.DependencyCheck{
			Name:    "secretManager",
			Timeout: time.Second,
			Check: func(ctx context.Context) error {
				_, err := fetcher.Resolve(ctx, secretHealthReference)
				if err == nil {
					return nil
				}
				if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
					return nil
				}
				return err
			},
		})
	}
	if len(checks) == 0 {
		return nil, errors.New("health: no dependency checks configured")
	}
	return repositories.NewDependencyHealthRepository(checks)
}

func buildOIDCMiddleware(logger *zap.Logger, cfg config.Config) func(http.Handler) http.Handler {
	if strings.TrimSpace(cfg.Security.OIDC.JWKSURL) == "" {
		return nil
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	adapter := observability.NewPrintfAdapter(logger)
	cache := auth.NewJWKSCache(cfg.Security.OIDC.JWKSURL, auth.WithJWKSLogger(adapter))
	validator := auth.NewOIDCValidator(cache, auth.WithOIDCLogger(adapter))

	audience := strings.TrimSpace(cfg.Security.OIDC.Audience)
	if audience == "" {
		logger.Warn("auth: OIDC audience not configured; internal routes will reject requests")
	}
	issuers := cfg.Security.OIDC.Issuers
	if len(issuers) == 0 {
		logger.Warn("auth: OIDC issuers not configured; internal routes will reject requests")
	}

	return validator.RequireOIDC(audience, issuers)
}

func traceProjectID(cfg config.Config) string {
	if id := strings.TrimSpace(cfg.Firebase.ProjectID); id != "" {
		return id
	}
	return strings.TrimSpace(cfg.Firestore.ProjectID)
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		if value, ok := env[key]; ok {
			return strings.TrimSpace(value)
		}
		return ""
	}

	envLabel := strings.ToLower(lookup("SHOP_SECURITY_ENVIRONMENT"))
	if envLabel == "" {
		envLabel = "local"
	}
	defaultProject := lookup("SHOP_SECRET_DEFAULT_PROJECT_ID")
	if defaultProject == "" {
		defaultProject = lookup("SHOP_FIREBASE_PROJECT_ID")
	}
	fallbackPath := lookup("SHOP_SECRET_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}
	credentialsFile := lookup("SHOP_FIREBASE_CREDENTIALS_FILE")

	opts := []secrets.Option{
		secrets.WithEnvironment(envLabel),
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if defaultProject != "" {
		opts = append(opts, secrets.WithDefaultProject(defaultProject))
	}
	if credentialsFile != "" {
		opts = append(opts, secrets.WithClientOptions(option.WithCredentialsFile(credentialsFile)))
	}

	return secrets.NewFetcher(ctx, opts...)
}

func requiredSecretNames(env map[string]string) []string {
	var required []string
	token := ""
	if env != nil {
		token = strings.TrimSpace(env["SHOP_CATALOG_AUTH_TOKEN"])
	}
	if strings.HasPrefix(token, "sm://") || strings.HasPrefix(token, "secret://") {
		required = append(required, "Catalog.AuthToken")
	}
	return required
}
