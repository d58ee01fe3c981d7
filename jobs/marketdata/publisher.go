// Package marketdata publishes periodic depth snapshots to Kafka for
// downstream feed consumers.
package marketdata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vela/domain/book"
	"vela/infra/kafka"
)

// DepthSource is the read side of the engine the publisher samples.
type DepthSource interface {
	Depth() book.DepthSnapshot
}

type Publisher struct {
	src      DepthSource
	producer *kafka.Producer
	interval time.Duration
	log      *zap.Logger
}

type depthMessage struct {
	Time  int64              `json:"time"`
	Depth book.DepthSnapshot `json:"depth"`
}

func New(src DepthSource, producer *kafka.Producer, interval time.Duration, log *zap.Logger) *Publisher {
	return &Publisher{
		src:      src,
		producer: producer,
		interval: interval,
		log:      log,
	}
}

func (p *Publisher) Start(ctx context.Context) {
	p.log.Info("market data publisher started")

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.publishOnce(ctx)
			}
		}
	}()
}

func (p *Publisher) publishOnce(ctx context.Context) {
	msg := depthMessage{
		Time:  time.Now().UnixNano(),
		Depth: p.src.Depth(),
	}
	if err := p.producer.SendJSON(ctx, []byte("depth"), msg); err != nil {
		p.log.Warn("depth publish failed", zap.Error(err))
	}
}
