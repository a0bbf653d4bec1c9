package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/EasyWheels/EasyWheels/internal/common/config"
	"github.com/EasyWheels/EasyWheels/internal/common/db"
	"github.com/EasyWheels/EasyWheels/internal/common/logger"
	"github.com/EasyWheels/EasyWheels/internal/common/middleware"
	"github.com/EasyWheels/EasyWheels/internal/common/server"
	"github.com/EasyWheels/EasyWheels/internal/common/session"
	"github.com/EasyWheels/EasyWheels/internal/common/tracing"
	"github.com/EasyWheels/EasyWheels/internal/fleet"
	"github.com/EasyWheels/EasyWheels/internal/gateway"
	"github.com/EasyWheels/EasyWheels/internal/identity"
	"github.com/EasyWheels/EasyWheels/internal/payment"
	"github.com/EasyWheels/EasyWheels/internal/reservation"
)

var (
	configPath      = flag.String("config", "configs/rental-service.json", "配置文件路径")
	consulConfigKey = flag.String("config-consul-key", "", "从 Consul KV 读取配置的 key（优先于本地文件）")
	consulAddr      = flag.String("config-consul-host", "localhost", "Consul 地址（配合 -config-consul-key）")
	consulPort      = flag.Int("config-consul-port", 8500, "Consul 端口（配合 -config-consul-key）")
)

func main() {
	flag.Parse()

	// 加载配置：指定了 Consul KV key 则走 Consul，否则读本地文件
	var (
		cfg *config.Config
		err error
	)
	if *consulConfigKey != "" {
		cfg, err = config.LoadConfigFromConsulKV(*consulAddr, *consulPort, *consulConfigKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Driver, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(&identity.User{}, &fleet.Vehicle{}, &reservation.Reservation{}); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 会话存储
	sessions, err := session.NewStore(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}

	// 组装领域服务
	fleetRepo := fleet.NewRepo(gormDB)
	users := identity.NewService(identity.NewRepo(gormDB), cfg.Rental.AdminRegistrationKey)
	vehicles := fleet.NewService(fleetRepo)
	reservations := reservation.NewService(reservation.NewRepo(gormDB), fleetRepo, payment.NewGateway())

	gw := gateway.New(users, vehicles, reservations, sessions, cfg.Auth, log)
	handler := gw.Router(middleware.NewTokenBucket(200, 100), cfg.Server.Name)

	if err := server.RunHTTPServer(cfg, log, handler,
		server.WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second),
		server.WithReflection(!cfg.Server.DisableReflection),
	); err != nil {
		log.Fatalf("rental-service exited with error: %v", err)
	}
}
