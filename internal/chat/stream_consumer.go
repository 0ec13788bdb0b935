package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	streamKey = "dm:events"
	groupName = "dm:deliver"
)

// DeliveryHub pushes a chat event to a recipient's open connections, if any.
type DeliveryHub interface {
	DeliverToUser(email string, event *Event)
}

// StreamConsumer handles Redis Stream consumer group operations for direct
// message delivery. Every server instance runs one consumer so a message
// published on any instance reaches the recipient's socket wherever it is
// connected.
type StreamConsumer struct {
	rdb          *redis.Client
	ctx          context.Context
	consumerName string
	hub          DeliveryHub
}

// NewStreamConsumer creates a new StreamConsumer instance
func NewStreamConsumer(hub DeliveryHub) *StreamConsumer {
	rdb := GetRedisClient()
	if rdb == nil {
		return nil
	}

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("consumer-%s-%d", hostname, os.Getpid())

	return &StreamConsumer{
		rdb:          rdb,
		ctx:          GetContext(),
		consumerName: consumerName,
		hub:          hub,
	}
}

// Start creates the consumer group and begins consuming delivery events
func (sc *StreamConsumer) Start() error {
	if sc == nil || sc.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}

	err := sc.rdb.XGroupCreateMkStream(sc.ctx, streamKey, groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		// Continue anyway, group might already exist
	}

	go sc.consumeLoop()
	return nil
}

// consumeLoop continuously reads from the stream and forwards to WebSocket clients
func (sc *StreamConsumer) consumeLoop() {
	for {
		streams, err := sc.rdb.XReadGroup(sc.ctx, &redis.XReadGroupArgs{
			Group:    groupName,
			Consumer: sc.consumerName,
			Streams:  []string{streamKey, ">"},
			Count:    100,
			Block:    time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				if err := sc.processMessage(message); err != nil {
					continue
				}
				sc.rdb.XAck(sc.ctx, streamKey, groupName, message.ID)
			}
		}
	}
}

// processMessage decodes one stream entry and hands it to the hub
func (sc *StreamConsumer) processMessage(message redis.XMessage) error {
	eventData, ok := message.Values["data"].(string)
	if !ok {
		return fmt.Errorf("invalid message format: missing data field")
	}

	event, err := UnmarshalEvent(eventData)
	if err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	var payload MessagePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	sc.hub.DeliverToUser(payload.To, event)
	return nil
}

// PublishEvent publishes a delivery event to the Redis Stream. Best effort:
// the message is already persisted before this is called, so a Redis outage
// only delays live delivery.
func PublishEvent(event *Event) error {
	rdb := GetRedisClient()
	if rdb == nil {
		return fmt.Errorf("Redis client not available")
	}

	eventData, err := MarshalEvent(event)
	if err != nil {
		return err
	}

	return rdb.XAdd(GetContext(), &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: 10000,
		Approx: true,
		Values: map[string]interface{}{"data": eventData},
	}).Err()
}
