package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"laundrybot/cmd"
	web "laundrybot/internal/adapters/in/http"
	"laundrybot/internal/adapters/out/notify"
	"laundrybot/internal/adapters/out/postgres/adjustmentrepo"
	"laundrybot/internal/adapters/out/postgres/beaconrepo"
	"laundrybot/internal/adapters/out/postgres/requestrepo"
	"laundrybot/internal/adapters/out/postgres/robotrepo"
	"laundrybot/internal/core/domain/services"
)

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB := connectDatabase(configs)
	policy := loadTimeoutPolicy(configs)
	mqttClient := connectMqtt(configs)

	app := cmd.NewCompositionRoot(configs, gormDB, mqttClient, policy, logger)

	if err := app.Fleet().WarmUp(context.Background()); err != nil {
		log.Fatalf("Error warming up robot registry: %v", err)
	}

	if err := app.CreateIngest().Start(context.Background()); err != nil {
		log.Fatalf("Error subscribing to robot telemetry: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e,
		web.RateLimit(rate.Limit(5), 10),
		web.CacheResponses(cache.New(5*time.Second, time.Minute), 5*time.Second),
	)

	go func() {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	jobManager.StopAll()
	mqttClient.Disconnect(250)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Error shutting down web server: %v", err)
	}
}

func connectDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&requestrepo.RequestDTO{},
		&robotrepo.RobotDTO{},
		&beaconrepo.BeaconDTO{},
		&adjustmentrepo.AdjustmentDTO{},
		&notify.SubscriptionDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func loadTimeoutPolicy(configs cmd.Config) services.TimeoutPolicy {
	policy, err := services.LoadTimeoutPolicy(configs.TimeoutPolicyPath)
	if err != nil {
		log.Fatalf("Error loading timeout policy: %v", err)
	}
	return policy
}

func connectMqtt(configs cmd.Config) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(configs.MqttBroker).
		SetClientID(configs.MqttClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("Error connecting to MQTT broker: %v", token.Error())
	}
	return client
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:             goDotEnvVariable("HTTP_PORT"),
		DBHost:               goDotEnvVariable("DB_HOST"),
		DBPort:               goDotEnvVariable("DB_PORT"),
		DBUser:               goDotEnvVariable("DB_USER"),
		DBPassword:           goDotEnvVariable("DB_PASSWORD"),
		DBName:               goDotEnvVariable("DB_NAME"),
		DBSslMode:            goDotEnvVariable("DB_SSLMODE"),
		MqttBroker:           goDotEnvVariable("MQTT_BROKER"),
		MqttClientID:         goDotEnvVariable("MQTT_CLIENT_ID"),
		VapidPublicKey:       goDotEnvVariable("VAPID_PUBLIC_KEY"),
		VapidPrivateKey:      goDotEnvVariable("VAPID_PRIVATE_KEY"),
		VapidSubscriber:      goDotEnvVariable("VAPID_SUBSCRIBER"),
		TimeoutPolicyPath:    goDotEnvVariable("TIMEOUT_POLICY_PATH"),
		HeartbeatGraceSecond: goDotEnvVariable("HEARTBEAT_GRACE_SECONDS"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}
