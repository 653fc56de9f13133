// Package mqttingest receives robot telemetry from the fleet MQTT bus and
// feeds it to the same command handlers the HTTP ingest uses. Robots publish
// heartbeats and beacon sightings on per-robot topics; the robot name is
// taken from the topic, not the payload, so a confused unit cannot report
// for another one.
package mqttingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/robot"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	heartbeatTopic = "robots/+/heartbeat"
	beaconTopic    = "robots/+/beacon"
	ingestQoS      = 1
)

// HeartbeatHandler processes robot telemetry reports.
type HeartbeatHandler interface {
	Handle(ctx context.Context, command commands.RegisterHeartbeatCommand) error
}

// BeaconHandler processes beacon proximity reports.
type BeaconHandler interface {
	Handle(ctx context.Context, command commands.BeaconProximityCommand) error
}

// Ingest subscribes to robot telemetry topics and dispatches each message
// to its command handler. Handler errors are logged and dropped; telemetry
// is a stream and the next report supersedes a failed one.
type Ingest struct {
	client     mqtt.Client
	heartbeats HeartbeatHandler
	beacons    BeaconHandler
	logger     *slog.Logger
}

// NewIngest creates the telemetry ingest on an already configured client.
func NewIngest(client mqtt.Client, heartbeats HeartbeatHandler, beacons BeaconHandler, logger *slog.Logger) *Ingest {
	return &Ingest{
		client:     client,
		heartbeats: heartbeats,
		beacons:    beacons,
		logger:     logger.With("component", "mqtt_ingest"),
	}
}

// Start subscribes to the telemetry topics. Messages are handled with the
// given context, which the composition root cancels on shutdown.
func (i *Ingest) Start(ctx context.Context) error {
	if err := i.subscribe(heartbeatTopic, func(topic string, payload []byte) {
		i.onHeartbeat(ctx, topic, payload)
	}); err != nil {
		return err
	}
	return i.subscribe(beaconTopic, func(topic string, payload []byte) {
		i.onBeacon(ctx, topic, payload)
	})
}

func (i *Ingest) subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := i.client.Subscribe(topic, ingestQoS, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	i.logger.Info("subscribed", "topic", topic)
	return nil
}

// heartbeatPayload is the wire format of robots/<name>/heartbeat.
type heartbeatPayload struct {
	Task         string  `json:"task"`
	Beacon       string  `json:"beacon"`
	LinePosition float64 `json:"line_position"`
	IP           string  `json:"ip"`
	Faulted      bool    `json:"faulted"`
}

func robotHeartbeat(hb heartbeatPayload) robot.Heartbeat {
	return robot.Heartbeat{
		CurrentTask:   hb.Task,
		LastBeaconMac: hb.Beacon,
		LinePosition:  hb.LinePosition,
		IP:            hb.IP,
	}
}

// beaconPayload is the wire format of robots/<name>/beacon.
type beaconPayload struct {
	Mac  string `json:"mac"`
	Rssi int    `json:"rssi"`
}

func (i *Ingest) onHeartbeat(ctx context.Context, topic string, payload []byte) {
	robotName, ok := robotFromTopic(topic)
	if !ok {
		i.logger.Warn("malformed telemetry topic", "topic", topic)
		return
	}

	var hb heartbeatPayload
	if err := json.Unmarshal(payload, &hb); err != nil {
		i.logger.Warn("malformed heartbeat payload", "robot", robotName, "error", err)
		return
	}

	command, err := commands.NewRegisterHeartbeatCommand(robotName, robotHeartbeat(hb), hb.Faulted)
	if err != nil {
		i.logger.Warn("heartbeat rejected", "robot", robotName, "error", err)
		return
	}
	if err := i.heartbeats.Handle(ctx, command); err != nil {
		i.logger.Error("heartbeat handling failed", "robot", robotName, "error", err)
	}
}

func (i *Ingest) onBeacon(ctx context.Context, topic string, payload []byte) {
	robotName, ok := robotFromTopic(topic)
	if !ok {
		i.logger.Warn("malformed telemetry topic", "topic", topic)
		return
	}

	var report beaconPayload
	if err := json.Unmarshal(payload, &report); err != nil {
		i.logger.Warn("malformed beacon payload", "robot", robotName, "error", err)
		return
	}

	command, err := commands.NewBeaconProximityCommand(robotName, report.Mac, report.Rssi)
	if err != nil {
		i.logger.Warn("beacon report rejected", "robot", robotName, "error", err)
		return
	}
	if err := i.beacons.Handle(ctx, command); err != nil {
		i.logger.Error("beacon handling failed", "robot", robotName, "error", err)
	}
}

// robotFromTopic extracts the robot name from robots/<name>/<kind>.
func robotFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "robots" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
