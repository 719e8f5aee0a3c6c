package config

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"gitlab.com/open-soft/go-alpha-bot/src/controller"
	"gitlab.com/open-soft/go-alpha-bot/src/event_subscriber"
	"gitlab.com/open-soft/go-alpha-bot/src/repository"
	"gitlab.com/open-soft/go-alpha-bot/src/service"
	"gitlab.com/open-soft/go-alpha-bot/src/service/auth"
	"gitlab.com/open-soft/go-alpha-bot/src/service/exchange"
	"gitlab.com/open-soft/go-alpha-bot/src/service/strategy"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"gitlab.com/open-soft/go-alpha-bot/src/validator"
	"log"
	"net/http"
	"time"
)

func InitServiceContainer(ctx context.Context, env Env) Container {
	var db *sql.DB
	if len(env.DatabaseDsn) > 0 {
		var err error
		db, err = sql.Open("mysql", env.DatabaseDsn)
		if err != nil {
			log.Fatal(fmt.Sprintf("MySQL can't connect: %s", err.Error()))
		}

		db.SetMaxIdleConns(8)
		db.SetMaxOpenConns(8)
		db.SetConnMaxLifetime(time.Minute)
	} else {
		log.Println("DATABASE_DSN is empty, deals and settings are kept in memory")
	}

	var rdb *redis.Client
	if len(env.RedisDsn) > 0 {
		rdb = redis.NewClient(&redis.Options{
			Addr:     env.RedisDsn,
			Password: env.RedisPassword,
			DB:       0,
		})
	} else {
		log.Println("REDIS_DSN is empty, run log is kept in memory")
	}

	var clickHouse *sql.DB
	if len(env.ClickHouseDsn) > 0 {
		options, err := clickhouse.ParseDSN(env.ClickHouseDsn)
		if err != nil {
			log.Fatal(fmt.Sprintf("ClickHouse DSN is invalid: %s", err.Error()))
		}
		clickHouse = clickhouse.OpenDB(options)
	}

	timeService := utils.TimeHelper{}
	formatter := utils.Formatter{}

	devTools := client.DevToolsClient{
		Address:        env.DevToolsWsDsn,
		RequestTimeout: env.DevToolsTimeout,
	}
	page := client.PageAutomation{
		DevTools: &devTools,
	}
	alphaClient := client.AlphaClient{
		DestinationURI: env.AlphaApiDsn,
		HttpClient:     &client.HttpClient{Timeout: env.HttpTimeout},
		RDB:            rdb,
		Ctx:            &ctx,
	}

	var dealRepository repository.DealStorageInterface = &repository.MemoryDealRepository{}
	var settingRepository repository.SettingStorageInterface = &repository.MemorySettingRepository{}
	if db != nil {
		dealRepository = &repository.DealRepository{
			DB:  db,
			RDB: rdb,
			Ctx: &ctx,
		}
		settingRepository = &repository.SettingRepository{
			DB:  db,
			RDB: rdb,
			Ctx: &ctx,
		}
	}

	var logRepository repository.LogRepositoryInterface = &repository.MemoryLogRepository{}
	if rdb != nil {
		logRepository = &repository.LogRepository{
			RDB: rdb,
			Ctx: &ctx,
		}
	}

	subscribers := []event_subscriber.SubscriberInterface{
		event_subscriber.RunLogSubscriber{
			LogRepository: logRepository,
		},
	}
	if clickHouse != nil {
		subscribers = append(subscribers, event_subscriber.CycleStatSubscriber{
			CycleStatRepository: &repository.CycleStatRepository{
				DB: clickHouse,
			},
		})
	}

	eventDispatcher := service.EventDispatcher{
		Subscribers: subscribers,
		Enabled:     true,
	}
	runLogger := service.RunLogger{
		EventDispatcher: &eventDispatcher,
		TimeService:     &timeService,
	}

	fillWaiter := exchange.OrderFillWaiter{
		Page:        &page,
		TimeService: &timeService,
	}

	cycleController := exchange.OrderCycleController{
		Page:       &page,
		MarketData: &alphaClient,
		Analyzer: &strategy.StabilityAnalyzer{
			MarketData: &alphaClient,
		},
		RiskGuard: &exchange.RiskGuard{
			Page:        &page,
			MarketData:  &alphaClient,
			TimeService: &timeService,
			Logger:      &runLogger,
		},
		Liquidator: &exchange.Liquidator{
			Page:        &page,
			MarketData:  &alphaClient,
			FillWaiter:  &fillWaiter,
			TimeService: &timeService,
			Formatter:   &formatter,
			Logger:      &runLogger,
		},
		FillWaiter: &fillWaiter,
		Watchdog: &auth.TwoFactorWatchdog{
			Page:          &page,
			CodeGenerator: auth.TotpCodeGenerator{},
			TimeService:   &timeService,
			Logger:        &runLogger,
		},
		DealRepository:  dealRepository,
		EventDispatcher: &eventDispatcher,
		TimeService:     &timeService,
		Formatter:       &formatter,
		Logger:          &runLogger,
	}

	runConfigValidator := validator.RunConfigValidator{
		StabilityOptionsValidator: &validator.StabilityOptionsValidator{},
	}

	runner := exchange.Runner{
		Controller: &cycleController,
		Validator:  &runConfigValidator,
		Ctx:        ctx,
	}

	healthService := service.HealthService{
		DB:          db,
		ClickHouse:  clickHouse,
		RDB:         rdb,
		Ctx:         &ctx,
		Page:        &page,
		Runner:      &runner,
		TimeService: &timeService,
	}

	return Container{
		Env:               env,
		Db:                db,
		ClickHouse:        clickHouse,
		RDB:               rdb,
		DevTools:          &devTools,
		Runner:            &runner,
		SettingRepository: settingRepository,
		HealthService:     &healthService,
		BotController: &controller.BotController{
			HealthService: &healthService,
			AccessToken:   env.AccessToken,
		},
		RunController: &controller.RunController{
			Runner:            &runner,
			SettingRepository: settingRepository,
			LogRepository:     logRepository,
			Profile:           env.SettingsProfile,
			AccessToken:       env.AccessToken,
		},
		DealController: &controller.DealController{
			DealRepository: dealRepository,
			TimeService:    &timeService,
			AccessToken:    env.AccessToken,
		},
		SettingsController: &controller.SettingsController{
			SettingRepository:  settingRepository,
			RunConfigValidator: &runConfigValidator,
			Profile:            env.SettingsProfile,
			AccessToken:        env.AccessToken,
		},
	}
}

type Container struct {
	Env                Env
	Db                 *sql.DB
	ClickHouse         *sql.DB
	RDB                *redis.Client
	DevTools           *client.DevToolsClient
	Runner             *exchange.Runner
	SettingRepository  repository.SettingStorageInterface
	HealthService      *service.HealthService
	BotController      *controller.BotController
	RunController      *controller.RunController
	DealController     *controller.DealController
	SettingsController *controller.SettingsController
}

func (c *Container) StartHttpServer() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/check", c.BotController.GetHealthCheck)
	mux.HandleFunc("/run/start", c.RunController.PostStartAction)
	mux.HandleFunc("/run/stop", c.RunController.PostStopAction)
	mux.HandleFunc("/run/status", c.RunController.GetStatusAction)
	mux.HandleFunc("/run/log", c.RunController.GetLogAction)
	mux.HandleFunc("/deal/list", c.DealController.GetDealListAction)
	mux.HandleFunc("/deal/today", c.DealController.GetTodayAction)
	mux.HandleFunc("/settings", c.SettingsController.SettingsAction)

	server := &http.Server{
		Addr:    c.Env.HttpAddr,
		Handler: mux,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server: %s", err.Error())
		}
	}()

	return server
}

// Close releases every connection, it is safe with disabled backends.
func (c *Container) Close() {
	c.DevTools.Close()

	if c.Db != nil {
		_ = c.Db.Close()
	}
	if c.ClickHouse != nil {
		_ = c.ClickHouse.Close()
	}
	if c.RDB != nil {
		_ = c.RDB.Close()
	}
}
