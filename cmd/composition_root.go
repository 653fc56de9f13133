package cmd

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gorm.io/gorm"

	web "laundrybot/internal/adapters/in/http"
	"laundrybot/internal/adapters/in/mqttingest"
	"laundrybot/internal/adapters/out/mqttcmd"
	"laundrybot/internal/adapters/out/notify"
	"laundrybot/internal/adapters/out/postgres"
	"laundrybot/internal/adapters/out/postgres/robotrepo"
	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/application/usecases/queries"
	"laundrybot/internal/core/domain/services"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/jobs"
	"laundrybot/internal/pkg/locker"
)

const defaultHeartbeatGrace = 90 * time.Second

// CompositionRoot wires the application together. Shared state built once
// lives here: the robot registry, the keyed locker, the MQTT commander and
// the notifier. Handlers are created per call site from these pieces.
type CompositionRoot struct {
	gormDB         *gorm.DB
	uowFactory     postgres.GormUnitOfWorkFactory
	mqttClient     mqtt.Client
	locks          *locker.KeyedLocker
	fleet          *registry.Registry
	commander      ports.RobotCommander
	notifier       ports.Notifier
	subscriptions  *notify.SubscriptionStore
	policy         services.TimeoutPolicy
	heartbeatGrace time.Duration
	logger         *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	mqttClient mqtt.Client,
	policy services.TimeoutPolicy,
	logger *slog.Logger,
) CompositionRoot {
	subscriptions := notify.NewSubscriptionStore(gormDB)

	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		mqttClient:    mqttClient,
		locks:         locker.NewKeyedLocker(),
		fleet:         registry.NewRegistry(robotrepo.NewGormRobotRepository(gormDB), logger),
		commander:     mqttcmd.NewCommander(mqttClient, logger),
		notifier: notify.NewWebPushNotifier(subscriptions, notify.WebPushSender{}, &webpush.Options{
			Subscriber:      config.VapidSubscriber,
			VAPIDPublicKey:  config.VapidPublicKey,
			VAPIDPrivateKey: config.VapidPrivateKey,
			TTL:             60,
		}, logger),
		subscriptions:  subscriptions,
		policy:         policy,
		heartbeatGrace: parseHeartbeatGrace(config.HeartbeatGraceSecond),
		logger:         logger,
	}
}

func parseHeartbeatGrace(value string) time.Duration {
	if value == "" {
		return defaultHeartbeatGrace
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultHeartbeatGrace
	}
	return time.Duration(seconds) * time.Second
}

// Fleet returns the shared robot registry.
func (c *CompositionRoot) Fleet() *registry.Registry {
	return c.fleet
}

func (c *CompositionRoot) requestUoWFactory() commands.RequestUoWFactory {
	return FuncRequestUoWFactory(func() commands.RequestUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) submitUoWFactory() commands.SubmitUoWFactory {
	return FuncSubmitUoWFactory(func() commands.SubmitUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) beaconUoWFactory() commands.BeaconUoWFactory {
	return FuncBeaconUoWFactory(func() commands.BeaconUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitRequestCommandHandler() commands.SubmitRequestCommandHandler {
	return commands.NewSubmitRequestCommandHandler(c.submitUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateAcceptRequestCommandHandler() commands.AcceptRequestCommandHandler {
	return commands.NewAcceptRequestCommandHandler(c.requestUoWFactory(), c.locks, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateDeclineRequestCommandHandler() commands.DeclineRequestCommandHandler {
	return commands.NewDeclineRequestCommandHandler(c.requestUoWFactory(), c.locks, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateDispatchRobotCommandHandler() commands.DispatchRobotCommandHandler {
	return commands.NewDispatchRobotCommandHandler(c.requestUoWFactory(), c.locks, c.fleet, c.commander, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateReportStageCommandHandler() commands.ReportStageCommandHandler {
	return commands.NewReportStageCommandHandler(c.requestUoWFactory(), c.locks, c.fleet, c.commander, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateRecordWeightCommandHandler() commands.RecordWeightCommandHandler {
	return commands.NewRecordWeightCommandHandler(c.requestUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.requestUoWFactory(), c.locks, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateCancelRequestCommandHandler() commands.CancelRequestCommandHandler {
	return commands.NewCancelRequestCommandHandler(c.ledgerUoWFactory(), c.locks, c.fleet, c.commander, c.logger)
}

func (c *CompositionRoot) CreateRecordAdjustmentCommandHandler() commands.RecordAdjustmentCommandHandler {
	return commands.NewRecordAdjustmentCommandHandler(c.ledgerUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateRegisterBeaconCommandHandler() commands.RegisterBeaconCommandHandler {
	return commands.NewRegisterBeaconCommandHandler(c.beaconUoWFactory())
}

func (c *CompositionRoot) CreateRegisterHeartbeatCommandHandler() commands.RegisterHeartbeatCommandHandler {
	return commands.NewRegisterHeartbeatCommandHandler(c.fleet)
}

func (c *CompositionRoot) CreateBeaconProximityCommandHandler() commands.BeaconProximityCommandHandler {
	return commands.NewBeaconProximityCommandHandler(c.submitUoWFactory(), c.locks, c.fleet, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateSuperviseTimeoutsCommandHandler() commands.SuperviseTimeoutsCommandHandler {
	return commands.NewSuperviseTimeoutsCommandHandler(c.requestUoWFactory(), c.locks, c.fleet, c.commander, c.notifier, c.policy, c.logger)
}

func (c *CompositionRoot) CreateGetRequestQueryHandler() queries.GetRequestQueryHandler {
	return queries.NewGetRequestQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveRequestQueryHandler() queries.GetActiveRequestQueryHandler {
	return queries.NewGetActiveRequestQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRequestHistoryQueryHandler() queries.GetRequestHistoryQueryHandler {
	return queries.NewGetRequestHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFleetSummaryQueryHandler() queries.GetFleetSummaryQueryHandler {
	return queries.NewGetFleetSummaryQueryHandler(c.fleet)
}

func (c *CompositionRoot) CreateGetBeaconsQueryHandler() queries.GetBeaconsQueryHandler {
	return queries.NewGetBeaconsQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles every handler behind the HTTP surface.
func (c *CompositionRoot) CreateHTTPServer() *web.Server {
	handlers := web.Handlers{
		SubmitRequest:     c.CreateSubmitRequestCommandHandler(),
		AcceptRequest:     c.CreateAcceptRequestCommandHandler(),
		DeclineRequest:    c.CreateDeclineRequestCommandHandler(),
		DispatchRobot:     c.CreateDispatchRobotCommandHandler(),
		ReportStage:       c.CreateReportStageCommandHandler(),
		RecordWeight:      c.CreateRecordWeightCommandHandler(),
		RecordPayment:     c.CreateRecordPaymentCommandHandler(),
		CancelRequest:     c.CreateCancelRequestCommandHandler(),
		RecordAdjustment:  c.CreateRecordAdjustmentCommandHandler(),
		RegisterBeacon:    c.CreateRegisterBeaconCommandHandler(),
		RegisterHeartbeat: c.CreateRegisterHeartbeatCommandHandler(),
		BeaconProximity:   c.CreateBeaconProximityCommandHandler(),
		GetRequest:        c.CreateGetRequestQueryHandler(),
		GetActiveRequest:  c.CreateGetActiveRequestQueryHandler(),
		GetRequestHistory: c.CreateGetRequestHistoryQueryHandler(),
		GetFleetSummary:   c.CreateGetFleetSummaryQueryHandler(),
		GetBeacons:        c.CreateGetBeaconsQueryHandler(),
	}
	return web.NewServer(handlers, c.fleet, c.subscriptions)
}

// CreateIngest wires the MQTT telemetry subscriber to the heartbeat and
// beacon proximity handlers.
func (c *CompositionRoot) CreateIngest() *mqttingest.Ingest {
	return mqttingest.NewIngest(
		c.mqttClient,
		c.CreateRegisterHeartbeatCommandHandler(),
		c.CreateBeaconProximityCommandHandler(),
		c.logger,
	)
}

// CreateJobManager wires the dispatch, timeout supervision and liveness
// sweep jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.requestUoWFactory(),
		c.CreateDispatchRobotCommandHandler(),
		c.CreateSuperviseTimeoutsCommandHandler(),
		c.fleet,
		c.heartbeatGrace,
		c.logger,
	)
}

type FuncRequestUoWFactory func() commands.RequestUoW

func (f FuncRequestUoWFactory) Create() commands.RequestUoW {
	return f()
}

type FuncSubmitUoWFactory func() commands.SubmitUoW

func (f FuncSubmitUoWFactory) Create() commands.SubmitUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncBeaconUoWFactory func() commands.BeaconUoW

func (f FuncBeaconUoWFactory) Create() commands.BeaconUoW {
	return f()
}
