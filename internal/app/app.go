package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/config"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/repository/memrepo"
	"github.com/fsdevblog/groph-pay/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-pay/internal/service"
	"github.com/fsdevblog/groph-pay/internal/transport/api"
	"github.com/fsdevblog/groph-pay/internal/transport/simgateway"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %s", a.Config)

	orderRepo, repoErr := a.initOrderRepo(notifyCtx)
	if repoErr != nil {
		return fmt.Errorf("app run: %s", repoErr.Error())
	}

	services := service.Factory(orderRepo, service.GatewayConfig{
		BaseURL:      a.Config.GatewayURL,
		TerminalCode: a.Config.TerminalCode,
		Secret:       []byte(a.Config.GatewaySecret),
		MinAmount:    a.Config.MinOrderAmount,
		MaxAmount:    a.Config.MaxOrderAmount,
	}, a.Logger)

	router := api.New(api.RouterArgs{
		Logger:          a.Logger,
		OrderService:    services.OrderService,
		CallbackService: services.CallbackService,
		JWTSecretKey:    []byte(a.Config.JWTUserSecret),
		Landing: api.LandingConfig{
			SuccessURL: a.Config.ReturnSuccessURL,
			FailureURL: a.Config.ReturnFailureURL,
		},
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	if a.Config.GatewayMode == config.GatewayModeSim {
		sim := gateway.NewSimulator([]byte(a.Config.GatewaySecret))
		notifier := simgateway.NewHTTPNotifier("http://" + a.Config.RunAddress)
		processor := simgateway.New(services.OrderService, sim, notifier, a.Logger)
		go processor.Run(notifyCtx)
	}

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// initOrderRepo выбирает хранилище заказов: postgres по умолчанию, in-memory
// для sim режима без заданного DSN.
func (a *App) initOrderRepo(ctx context.Context) (service.OrderRepository, error) {
	if a.Config.DatabaseDSN == "" {
		a.Logger.Warn("database DSN is not set, using in-memory order store")
		return memrepo.NewOrderRepository(), nil
	}

	conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return nil, fmt.Errorf("init order repo: %s", connErr.Error())
	}
	return pgrepo.NewOrderRepository(conn), nil
}
