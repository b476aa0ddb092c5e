package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/admitchat/admitchat/internal/application/usecase"
	"github.com/admitchat/admitchat/internal/domain/repository"
	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/infrastructure/assistant"
	"github.com/admitchat/admitchat/internal/infrastructure/config"
	"github.com/admitchat/admitchat/internal/infrastructure/persistence"
	"github.com/admitchat/admitchat/internal/infrastructure/sessionstore"
	httpServer "github.com/admitchat/admitchat/internal/interfaces/http"
	"github.com/admitchat/admitchat/internal/interfaces/http/handlers"
	wsInterface "github.com/admitchat/admitchat/internal/interfaces/websocket"
)

// App 应用程序（依赖注入容器）
type App struct {
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB

	// 仓储层
	visitorRepo repository.VisitorRepository

	// 应用服务
	registerUseCase *usecase.RegisterVisitorUseCase
	syncUseCase     *usecase.SyncConversationUseCase
	askUseCase      *usecase.AskAssistantUseCase
	visitorService  session.VisitorService

	// 基础设施
	watcher         *config.Watcher
	assistantClient *assistant.Client
	sessionStore    sessionstore.Store

	// 接口层
	httpServer *httpServer.Server
}

// NewApp 创建应用程序
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
	}

	if err := app.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := app.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to init infrastructure: %w", err)
	}

	app.initApplicationServices()
	app.initInterfaces()

	return app, nil
}

// initRepositories 初始化仓储层
func (a *App) initRepositories() error {
	db, err := persistence.NewDBConnection(&a.config.Database)
	if err != nil {
		return err
	}
	a.db = db
	a.visitorRepo = persistence.NewGormVisitorRepository(db)
	return nil
}

// initInfrastructure 初始化基础设施
func (a *App) initInfrastructure() error {
	watcher, err := config.NewWatcher("config.yaml", a.config, a.logger)
	if err != nil {
		return err
	}
	a.watcher = watcher

	a.assistantClient = assistant.NewClient(
		func() string { return a.watcher.Assistant().BaseURL },
		a.config.Assistant.Timeout,
		a.logger,
	)

	switch a.config.Session.Store {
	case "redis":
		store, err := sessionstore.NewRedisStoreFromURL(a.config.Session.RedisURL, a.config.Session.TTL)
		if err != nil {
			return fmt.Errorf("failed to connect session store: %w", err)
		}
		a.sessionStore = store
	default:
		a.sessionStore = sessionstore.NewMemoryStore()
	}

	return nil
}

// initApplicationServices 初始化应用服务
func (a *App) initApplicationServices() {
	a.registerUseCase = usecase.NewRegisterVisitorUseCase(a.visitorRepo, a.logger)
	a.syncUseCase = usecase.NewSyncConversationUseCase(a.visitorRepo, a.logger)
	a.askUseCase = usecase.NewAskAssistantUseCase(a.assistantClient, a.logger)
	a.visitorService = NewVisitorService(a.registerUseCase, a.syncUseCase)
}

// initInterfaces 初始化接口层
func (a *App) initInterfaces() {
	visitorHandler := handlers.NewVisitorHandler(a.registerUseCase, a.syncUseCase, a.logger)
	chatHandler := handlers.NewChatHandler(a.askUseCase, a.logger)
	transcriptHandler := handlers.NewTranscriptHandler(a.visitorRepo, a.logger)

	wsHandler := wsInterface.NewHandler(
		a.assistantClient,
		a.visitorService,
		a.sessionStore,
		func() string { return a.watcher.Widget().Greeting },
		a.logger,
	)

	a.httpServer = httpServer.NewServer(
		httpServer.Config{
			Host: a.config.Gateway.Host,
			Port: a.config.Gateway.Port,
			Mode: a.config.Gateway.Mode,
		},
		visitorHandler,
		chatHandler,
		transcriptHandler,
		wsHandler.Serve(),
		a.logger,
	)
}

// Start 启动应用
func (a *App) Start(ctx context.Context) error {
	return a.httpServer.Start(ctx)
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	if err := a.httpServer.Stop(ctx); err != nil {
		return err
	}
	return a.sessionStore.Close()
}

// Logger 返回日志实例
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// NewChatSession 为交互式客户端创建一个会话引擎
func (a *App) NewChatSession() *session.Engine {
	return session.NewEngine(
		a.watcher.Widget().Greeting,
		a.assistantClient,
		a.visitorService,
		a.logger,
	)
}

// LeadPrompt 返回联系信息提示文案
func (a *App) LeadPrompt() string {
	return a.watcher.Widget().LeadPrompt
}
