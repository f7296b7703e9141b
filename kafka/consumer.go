package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"
)

// HandleFunc processes one render message. A returned error leaves the
// message unmarked so the group redelivers it.
type HandleFunc func(ctx context.Context, msg RenderMessage) error

// Consumer reads render messages off the topic as part of a consumer
// group.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	groupID string
	handle  HandleFunc
	ready   chan struct{}
}

// NewConsumer joins the named consumer group on the render topic.
func NewConsumer(brokers []string, topic, groupID string, handle HandleFunc) (*Consumer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		group:   group,
		topic:   topic,
		groupID: groupID,
		handle:  handle,
		ready:   make(chan struct{}),
	}, nil
}

// Start begins consuming in the background and returns once the group
// session is established.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &renderGroupHandler{handle: c.handle, ready: c.ready}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					return
				}
				log.Printf("❌ Kafka consumer error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan struct{})
		}
	}()

	<-c.ready
	log.Printf("✅ Kafka consumer started (group: %s, topic: %s)", c.groupID, c.topic)

	go func() {
		for err := range c.group.Errors() {
			log.Printf("❌ Kafka consumer error: %v", err)
		}
	}()
	return nil
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type renderGroupHandler struct {
	handle HandleFunc
	ready  chan struct{}
}

func (h *renderGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *renderGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *renderGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			var msg RenderMessage
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				// Malformed payloads will never succeed; mark and move on.
				log.Printf("❌ Dropping malformed render message at offset %d: %v", message.Offset, err)
				session.MarkMessage(message, "")
				continue
			}

			log.Printf("📥 Render job %s received (partition=%d, offset=%d)",
				msg.JobID, message.Partition, message.Offset)

			if err := h.handle(session.Context(), msg); err != nil {
				log.Printf("❌ Render job %s failed, leaving unmarked for retry: %v", msg.JobID, err)
				continue
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
