package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/models/config"
	"sena-tracker/internal/service"
)

// sender is the part of the Telegram API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api *tgbotapi.BotAPI
	out sender

	LoaderService     service.LoaderService
	FichaService      service.FichaService
	AuthService       service.AuthService
	ApprenticeService service.ApprenticeService

	userSessions map[int64]*UserSession // chatID -> session
	mu           sync.RWMutex
	log          *zap.Logger
}

func NewBot(
	cfg config.BotConfig,
	loaderService service.LoaderService,
	fichaService service.FichaService,
	authService service.AuthService,
	apprenticeService service.ApprenticeService,
	log *zap.Logger,
) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("BOT_TOKEN не установлен в конфигурации")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bot API")
	}
	api.Debug = cfg.Debug

	b := newBot(api, loaderService, fichaService, authService, apprenticeService, log)
	b.api = api
	b.log.Info("🤖 Бот инициализирован", zap.String("username", api.Self.UserName), zap.Bool("debug", cfg.Debug))
	return b, nil
}

func newBot(
	out sender,
	loaderService service.LoaderService,
	fichaService service.FichaService,
	authService service.AuthService,
	apprenticeService service.ApprenticeService,
	log *zap.Logger,
) *Bot {
	return &Bot{
		out:               out,
		LoaderService:     loaderService,
		FichaService:      fichaService,
		AuthService:       authService,
		ApprenticeService: apprenticeService,
		userSessions:      make(map[int64]*UserSession),
		log:               log.With(zap.String("component", "bot")),
	}
}

// Start reads updates and handles each message in its own goroutine.
func (b *Bot) Start() error {
	b.log.Info("Авторизован", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
}
