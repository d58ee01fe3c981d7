// Package broadcaster drains the trade outbox into Kafka. Delivery is
// at-least-once: records walk NEW -> SENT -> ACKED and anything not
// acked is retried on the next tick.
package broadcaster

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"vela/infra/outbox"
)

type Broadcaster struct {
	box      *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.Logger
}

func New(box *outbox.Outbox, brokers []string, topic string, interval time.Duration, log *zap.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		box:      box,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}, nil
}

func (b *Broadcaster) Start(ctx context.Context) {
	b.log.Info("broadcaster started", zap.String("topic", b.topic))

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.drainOnce()
			}
		}
	}()
}

// drainOnce publishes every NEW record, then re-walks SENT records left
// behind by a crash between send and ack.
func (b *Broadcaster) drainOnce() {
	for _, state := range []outbox.State{outbox.StateNew, outbox.StateSent} {
		_ = b.box.ScanByState(state, func(seq uint64, rec outbox.Record) error {
			b.publish(seq, rec)
			return nil
		})
	}
}

func (b *Broadcaster) publish(seq uint64, rec outbox.Record) {
	// SENT before the network call: a crash mid-send must err toward a
	// duplicate, never a loss.
	if err := b.box.MarkSent(seq); err != nil {
		b.log.Warn("outbox mark sent failed", zap.Uint64("seq", seq), zap.Error(err))
		return
	}

	// stable key keeps one engine's events in one partition, in order
	msg := &sarama.ProducerMessage{
		Topic: b.topic,
		Key:   sarama.StringEncoder(partitionKey),
		Value: sarama.ByteEncoder(rec.Payload),
	}
	if _, _, err := b.producer.SendMessage(msg); err != nil {
		b.log.Warn("trade publish failed, will retry", zap.Uint64("seq", seq), zap.Error(err))
		return
	}

	if err := b.box.MarkAcked(seq); err != nil {
		b.log.Warn("outbox mark acked failed", zap.Uint64("seq", seq), zap.Error(err))
	}
}

const partitionKey = "vela"

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
