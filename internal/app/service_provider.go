package app

import (
	"context"
	"net/http"

	authAPI "haunted_slot/internal/api/auth"
	slotAPI "haunted_slot/internal/api/slot"
	streamAPI "haunted_slot/internal/api/stream"
	"haunted_slot/internal/config"
	"haunted_slot/internal/config/env"
	"haunted_slot/internal/engine"
	"haunted_slot/internal/engine/rng"
	"haunted_slot/internal/events"
	"haunted_slot/internal/metrics"
	"haunted_slot/internal/middleware"
	"haunted_slot/internal/model"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/repository/auth_repo"
	"haunted_slot/internal/repository/jackpot_repo"
	"haunted_slot/internal/repository/slot_repo"
	"haunted_slot/internal/repository/stats_repo"
	"haunted_slot/internal/repository/user_repo"
	"haunted_slot/internal/service"
	authService "haunted_slot/internal/service/auth"
	slotService "haunted_slot/internal/service/slot"
	"haunted_slot/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	// Logging
	logCfg config.LogConfig
	log    *zap.Logger

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// User bits
	userRepo repository.UserRepository

	// Slot bits
	slotCfg     config.SlotConfig
	statsCfg    config.StatsConfig
	machine     *engine.Machine
	slotRepo    repository.SlotRepository
	jackpotRepo repository.JackpotRepository
	statsRepo   repository.StatsRepository
	slotServ    service.SlotService
	slotHand    *slotAPI.Handler

	// Events
	redisCfg   config.RedisConfig
	bus        *events.Bus
	streamHand *streamAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router

	closers []func()
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		cfg, err := env.NewLogConfig()
		if err != nil {
			panic("failed to get log config: " + err.Error())
		}
		sp.logCfg = cfg
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		cfg := sp.LogCfg()
		sp.log = logger.New(&logger.Config{
			Mode:  logger.ParseMode(cfg.Mode()),
			Level: cfg.Level(),
			App:   cfg.App(),
			Dir:   cfg.Dir(),
			File:  cfg.File(),
		})
		sp.closers = append(sp.closers, func() { _ = sp.log.Sync() })
	}
	return sp.log
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
		sp.closers = append(sp.closers, dbc.Close)
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = authService.NewAuthService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.AuthRepo(ctx),
			sp.JWTCfg(),
			sp.SlotCfg().StartBalance(),
		)
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv:         sp.AuthService(ctx),
			Log:          sp.Logger(),
			MaxAge:       int(sp.JWTCfg().RefreshTokenDuration().Seconds()),
			SecureCookie: logger.ParseMode(sp.LogCfg().Mode()) == logger.Prod,
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) SlotCfg() config.SlotConfig {
	if sp.slotCfg == nil {
		cfg, err := env.NewSlotConfigFromYAML("")
		if err != nil {
			panic("failed to get slot config: " + err.Error())
		}
		sp.slotCfg = cfg
	}
	return sp.slotCfg
}

func (sp *ServiceProvider) StatsCfg() config.StatsConfig {
	if sp.statsCfg == nil {
		cfg, err := env.NewStatsConfig()
		if err != nil {
			panic("failed to get stats config: " + err.Error())
		}
		sp.statsCfg = cfg
	}
	return sp.statsCfg
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) Bus() *events.Bus {
	if sp.bus == nil {
		sp.bus = events.NewBus()
		metrics.WatchDroppedEvents(sp.bus.Dropped)
		sp.closers = append(sp.closers, sp.bus.Close)
	}
	return sp.bus
}

// Notifier шина в процессе, плюс Redis если задан REDIS_ADDR
func (sp *ServiceProvider) Notifier() engine.Notifier {
	publishers := []events.Publisher{sp.Bus()}

	cfg := sp.RedisCfg()
	if cfg.Addr() != "" {
		rdb, cleanup, err := events.NewRedis(cfg, sp.Logger())
		if err != nil {
			panic("failed to connect redis: " + err.Error())
		}
		sp.closers = append(sp.closers, cleanup)
		publishers = append(publishers, events.NewRedisPublisher(rdb, cfg.Channel()))
	}
	return events.NewMulti(publishers...)
}

func (sp *ServiceProvider) Machine() *engine.Machine {
	if sp.machine == nil {
		src, err := rng.NewRandom()
		if err != nil {
			panic("failed to seed rng: " + err.Error())
		}
		m, err := engine.New(sp.SlotCfg(), rng.NewLocked(src),
			engine.WithNotifier(sp.Notifier()),
			engine.WithLogger(sp.Logger()),
		)
		if err != nil {
			panic("failed to build slot machine: " + err.Error())
		}
		sp.machine = m
	}
	return sp.machine
}

func (sp *ServiceProvider) SlotRepo(ctx context.Context) repository.SlotRepository {
	if sp.slotRepo == nil {
		sp.slotRepo = slot_repo.NewSlotRepository(sp.DBClient(ctx))
	}
	return sp.slotRepo
}

// JackpotRepo пулы создаются на минимальных значениях, если их еще нет
func (sp *ServiceProvider) JackpotRepo(ctx context.Context) repository.JackpotRepository {
	if sp.jackpotRepo == nil {
		r := jackpot_repo.NewJackpotRepository(sp.DBClient(ctx))
		floors := make(model.PoolSnapshot)
		for _, t := range sp.SlotCfg().Jackpots() {
			floors[t.Tier] = t.Floor
		}
		if err := r.InitPools(ctx, floors); err != nil {
			panic("failed to init jackpot pools: " + err.Error())
		}
		sp.jackpotRepo = r
	}
	return sp.jackpotRepo
}

func (sp *ServiceProvider) StatsRepo() repository.StatsRepository {
	if sp.statsRepo == nil {
		cfg := sp.StatsCfg()
		sp.statsRepo = stats_repo.NewStatsRepository(cfg.TargetRTP(), cfg.WindowSize(), sp.Logger())
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) SlotService(ctx context.Context) service.SlotService {
	if sp.slotServ == nil {
		sp.slotServ = slotService.NewSlotService(
			sp.Machine(),
			sp.UserRepo(ctx),
			sp.SlotRepo(ctx),
			sp.JackpotRepo(ctx),
			sp.StatsRepo(),
			sp.TXManager(ctx),
			sp.Logger(),
		)
	}
	return sp.slotServ
}

func (sp *ServiceProvider) SlotHandler(ctx context.Context) *slotAPI.Handler {
	if sp.slotHand == nil {
		sp.slotHand = slotAPI.NewHandler(slotAPI.HandlerDeps{
			Serv: sp.SlotService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.slotHand
}

func (sp *ServiceProvider) StreamHandler() *streamAPI.Handler {
	if sp.streamHand == nil {
		sp.streamHand = streamAPI.NewHandler(streamAPI.HandlerDeps{
			Bus: sp.Bus(),
			Log: sp.Logger(),
		})
	}
	return sp.streamHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}
	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()
		r.Use(chimw.RequestID)
		r.Use(chimw.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		slotHandler := sp.SlotHandler(ctx)
		r.Route("/slot", func(rr chi.Router) {
			rr.Get("/bets", slotHandler.BetOptions)
			rr.Get("/jackpots", slotHandler.Jackpots)
			rr.Get("/stats", slotHandler.Stats)

			rr.Group(func(pr chi.Router) {
				pr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey()))
				pr.Post("/spin", slotHandler.Spin)
				pr.Post("/deposit", slotHandler.Deposit)
				pr.Get("/check-data", slotHandler.CheckData)
			})
		})

		r.Get("/events", sp.StreamHandler().Outcomes)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())

		sp.router = r
	}
	return sp.router
}

// Close освобождает ресурсы в обратном порядке
func (sp *ServiceProvider) Close() {
	for i := len(sp.closers) - 1; i >= 0; i-- {
		sp.closers[i]()
	}
	sp.closers = nil
}
