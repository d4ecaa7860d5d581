package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/salabet/internal/config"
	"github.com/riskibarqy/salabet/internal/domain/leaderboard"
	"github.com/riskibarqy/salabet/internal/domain/match"
	"github.com/riskibarqy/salabet/internal/domain/prediction"
	"github.com/riskibarqy/salabet/internal/domain/room"
	"github.com/riskibarqy/salabet/internal/domain/roomfeed"
	"github.com/riskibarqy/salabet/internal/domain/user"
	"github.com/riskibarqy/salabet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/salabet/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/salabet/internal/interfaces/httpapi"
	"github.com/riskibarqy/salabet/internal/platform/cache"
	idgen "github.com/riskibarqy/salabet/internal/platform/id"
	"github.com/riskibarqy/salabet/internal/platform/logging"
	"github.com/riskibarqy/salabet/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	matches     match.Repository
	predictions prediction.Repository
	users       user.Repository
	rooms       room.Repository
	boards      leaderboard.Repository
	feed        roomfeed.Repository
}

// Services holds the wired settlement stack shared by the API and the CLI.
type Services struct {
	Settlement  *usecase.SettlementService
	Leaderboard *usecase.LeaderboardService

	db *sqlx.DB
}

func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}
	ids := idgen.NewUUIDGenerator()

	leaderboardSvc := usecase.NewLeaderboardService(
		repos.rooms,
		repos.predictions,
		repos.boards,
		repos.feed,
		cacheStore,
		ids,
		usecase.LeaderboardConfig{
			WriteAttempts: cfg.Settlement.WriteRetries,
			RetryDelay:    cfg.Settlement.RetryDelay,
		},
		logger,
	)
	settlementSvc := usecase.NewSettlementService(
		repos.matches,
		repos.predictions,
		repos.users,
		repos.feed,
		leaderboardSvc,
		ids,
		usecase.SettlementConfig{
			Rules:              cfg.Settlement.Rules,
			LeaderboardWorkers: cfg.Settlement.LeaderboardWorkers,
		},
		logger,
	)

	return &Services{
		Settlement:  settlementSvc,
		Leaderboard: leaderboardSvc,
		db:          db,
	}, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store with seed data", "store_driver", cfg.StoreDriver)
		return repositories{
			matches:     memory.NewMatchRepository(memory.SeedMatches()),
			predictions: memory.NewPredictionRepository(memory.SeedPredictions()),
			users:       memory.NewUserRepository(memory.SeedUserIDs()...),
			rooms:       memory.NewRoomRepository(memory.SeedMemberships()),
			boards:      memory.NewLeaderboardRepository(),
			feed:        memory.NewRoomFeedRepository(),
		}, nil, nil
	case config.StoreDriverPostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			matches:     postgres.NewMatchRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			users:       postgres.NewUserRepository(db),
			rooms:       postgres.NewRoomRepository(db),
			boards:      postgres.NewLeaderboardRepository(db),
			feed:        postgres.NewRoomFeedRepository(db),
		}, db, nil
	default:
		return repositories{}, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(strings.TrimSpace(cfg.DBURL), cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services cannot be nil")
	}

	handler := httpapi.NewHandler(services.Settlement, services.Leaderboard, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
