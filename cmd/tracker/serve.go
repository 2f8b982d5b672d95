package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"sena-tracker/internal/bot"
	"sena-tracker/internal/fixture"
	"sena-tracker/internal/metrics"
	"sena-tracker/internal/models/config"
	"sena-tracker/internal/repository"
	"sena-tracker/internal/service"
	announcement_service "sena-tracker/internal/service/announcement"
	apprentice_service "sena-tracker/internal/service/apprentice"
	attendance_service "sena-tracker/internal/service/attendance"
	auth_service "sena-tracker/internal/service/auth"
	ficha_service "sena-tracker/internal/service/ficha"
	loader_service "sena-tracker/internal/service/loader"
	"sena-tracker/internal/state"
	"sena-tracker/internal/web"
)

// Первая загрузка таблицы может занять больше стандартных 15 секунд fx
const startTimeout = 2 * time.Minute

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			app := newApp(cfg)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.StartTimeout(startTimeout),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newFixture,
			newStateStore,
			newPipeline,
			metrics.New,
			provideRepository,

			loader_service.NewLoaderService,
			ficha_service.NewFichaService,
			attendance_service.NewAttendanceService,
			announcement_service.NewAnnouncementService,
			func(cfg *config.Config, store *state.Store, log *zap.Logger) service.AuthService {
				return auth_service.NewAuthService(cfg.Auth, store, log)
			},
			func(cfg *config.Config, store *state.Store, ds *fixture.Dataset, log *zap.Logger) service.ApprenticeService {
				return apprentice_service.NewApprenticeService(store, ds, cfg.Sync.CompetencyTemplateFallback, log)
			},

			web.NewHandler,
			provideServer,
			provideBot,
		),
		fx.Invoke(registerHooks),
	)
}

func provideRepository(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (repository.SheetRepository, error) {
	repo, closeFn, err := openRepository(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return closeFn() },
	})
	return repo, nil
}

func provideServer(cfg *config.Config, h *web.Handler, m *metrics.Metrics, log *zap.Logger) *web.Server {
	opts := web.RouterOptions{Metrics: m}
	if servesEvidence(cfg) {
		opts.EvidenceDir = cfg.Store.EvidenceDir
	}
	return web.NewServer(cfg.HTTPPort, web.NewRouter(h, opts), log)
}

// provideBot returns nil when BOT_TOKEN is empty.
func provideBot(
	cfg *config.Config,
	loader service.LoaderService,
	fichas service.FichaService,
	auth service.AuthService,
	apprentices service.ApprenticeService,
	log *zap.Logger,
) (*bot.Bot, error) {
	if cfg.Bot.Token == "" {
		log.Info("BOT_TOKEN пуст, Telegram бот выключен")
		return nil, nil
	}
	return bot.NewBot(cfg.Bot, loader, fichas, auth, apprentices, log)
}

func registerHooks(lc fx.Lifecycle, cfg *config.Config, loader service.LoaderService, srv *web.Server, b *bot.Bot, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("🚀 Запуск", zap.String("env", cfg.Environment), zap.String("store", cfg.Store.Kind))

			// Ошибка загрузки не фатальна: работаем на встроенных данных
			if _, err := loader.Load(ctx); err != nil {
				log.Warn("⚠️ первая загрузка не удалась", zap.Error(err))
			}

			srv.Start()
			if b != nil {
				go func() {
					if err := b.Start(); err != nil {
						log.Error("❌ Ошибка запуска бота", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("🛑 Получен сигнал завершения...")
			if b != nil {
				b.Stop()
			}
			return srv.Shutdown(ctx)
		},
	})
}
