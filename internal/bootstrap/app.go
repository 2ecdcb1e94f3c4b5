package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gotodo/internal/app"
	"gotodo/internal/cache"
	"gotodo/internal/config"
	"gotodo/internal/model"
	mysqlClient "gotodo/internal/platform/mysql"
	rabbitmqClient "gotodo/internal/platform/rabbitmq"
	redisClient "gotodo/internal/platform/redis"
	"gotodo/internal/repository"
	"gotodo/internal/worker"
)

// App holds process-wide resources and the store implementations selected by
// the storage driver. With driver "memory" the whole process is
// self-contained: no mysql, redis or rabbitmq connections are made and the
// cache and publisher stay nil.
type App struct {
	Config         *config.Config
	MySQL          *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityWorker

	Users     app.UserStore
	Todos     app.TodoStore
	TodoCache app.TodoListCache
	Publisher app.ActivityPublisher

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	configureLogging(cfg)

	a := &App{
		Config:    cfg,
		StartedAt: time.Now(),
	}

	if cfg.Storage.Driver == "memory" {
		store := repository.NewMemoryStore()
		a.Users = store.Users()
		a.Todos = store.Todos()
		logrus.Warn("storage driver is memory; data will not survive a restart")
		return a, nil
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Todo{}, &model.Activity{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	a.MySQL = mysqlDB
	a.Users = repository.NewUserRepository(mysqlDB)
	a.Todos = repository.NewTodoRepository(mysqlDB)

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.Redis = redisCli
	a.TodoCache = cache.NewTodoListCache(redisCli, time.Duration(cfg.Redis.TodoListTTLSeconds)*time.Second)

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	a.MQConn = mqConn
	a.Publisher = rabbitmqClient.NewActivityPublisher(mqConn, cfg.RabbitMQ.ActivityQueue)

	activityRepo := repository.NewActivityRepository(mysqlDB)
	activityWorker := worker.NewActivityWorker(mqConn, activityRepo, cfg.RabbitMQ.ActivityQueue)
	if err := activityWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start activity worker failed: %w", err)
	}
	a.ActivityWorker = activityWorker

	return a, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.App.Env != "dev" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
