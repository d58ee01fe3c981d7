package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vela/api/httpserver"
	"vela/config"
	"vela/domain/book"
	"vela/infra/kafka"
	"vela/infra/outbox"
	"vela/infra/sequence"
	"vela/infra/wal"
	"vela/jobs/broadcaster"
	"vela/jobs/marketdata"
	"vela/service"
)

func main() {
	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	// ---------------- Durability ----------------

	w, err := wal.Open(wal.Config{
		Dir:         cfg.WAL.Dir,
		SegmentSize: cfg.WAL.SegmentSize,
	})
	if err != nil {
		log.Fatal("wal init failed", zap.Error(err))
	}
	defer w.Close()

	box, err := outbox.Open(cfg.Outbox.Dir)
	if err != nil {
		log.Fatal("outbox init failed", zap.Error(err))
	}
	defer box.Close()

	// ---------------- Domain ----------------

	b := book.New()
	seqGen := sequence.New(0)

	codec, err := wal.NewSerializer(cfg.WAL.Codec)
	if err != nil {
		log.Fatal("wal codec", zap.Error(err))
	}
	if _, err := service.Restore(cfg.WAL.Dir, cfg.Snapshot.Dir, b, seqGen, codec, log); err != nil {
		log.Fatal("restore failed", zap.Error(err))
	}

	// ---------------- Service ----------------

	svc := service.NewOrderService(b, seqGen, w, box, codec, log)

	hub := httpserver.NewTradeHub(log)
	svc.AddSink(hub)

	// ---------------- Background jobs ----------------

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc.StartSnapshotJob(ctx, cfg.Snapshot.Dir, cfg.Snapshot.Interval)

	bc, err := broadcaster.New(box, cfg.Kafka.Brokers, cfg.Kafka.TradeTopic, cfg.Kafka.DrainInterval, log)
	if err != nil {
		log.Fatal("broadcaster init failed", zap.Error(err))
	}
	defer bc.Close()
	bc.Start(ctx)

	depthProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.DepthTopic)
	defer depthProducer.Close()
	marketdata.New(svc, depthProducer, cfg.Kafka.DepthInterval, log).Start(ctx)

	// ---------------- HTTP ----------------

	api := httpserver.NewServer(svc, hub, log)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.Router(),
	}

	go func() {
		log.Info("engine listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server exited", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := w.Sync(); err != nil {
		log.Warn("wal sync on shutdown", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("VELA_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
