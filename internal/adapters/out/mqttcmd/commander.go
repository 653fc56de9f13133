// Package mqttcmd sends robot commands over the fleet MQTT bus. Each robot
// subscribes to its own command topic; the orchestrator publishes there and
// never waits for the robot to act. Confirmation arrives out of band as a
// heartbeat with the task set, or not at all, in which case the timeout
// supervisor steps in.
package mqttcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const commandQoS = 1

// Commander publishes navigation commands to robots/<name>/command.
type Commander struct {
	client mqtt.Client
	logger *slog.Logger
}

// NewCommander creates a commander on an already configured MQTT client.
// The client may still be connecting; paho queues publishes while the
// auto-reconnect logic works.
func NewCommander(client mqtt.Client, logger *slog.Logger) *Commander {
	return &Commander{
		client: client,
		logger: logger.With("component", "mqtt_commander"),
	}
}

// commandPayload is the wire format the robot firmware parses.
type commandPayload struct {
	Command string `json:"command"`
	Room    string `json:"room,omitempty"`
}

// NavigateTo orders a robot to drive to a room.
func (c *Commander) NavigateTo(ctx context.Context, robotName, roomName string) error {
	return c.publish(ctx, robotName, commandPayload{Command: "navigate", Room: roomName})
}

// Recall orders a robot back to the base dock.
func (c *Commander) Recall(ctx context.Context, robotName string) error {
	return c.publish(ctx, robotName, commandPayload{Command: "recall"})
}

func (c *Commander) publish(ctx context.Context, robotName string, payload commandPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal robot command: %w", err)
	}

	topic := fmt.Sprintf("robots/%s/command", robotName)
	token := c.client.Publish(topic, commandQoS, false, data)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	c.logger.Info("robot command sent",
		"robot", robotName, "command", payload.Command, "room", payload.Room)
	return nil
}
