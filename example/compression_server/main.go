package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joeydtaylor/condenser/pkg/builder"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := builder.NewLogger(
		builder.LoggerWithLevel(builder.EnvOr("CONDENSER_LOG_LEVEL", "info")),
		builder.LoggerWithFields(map[string]interface{}{"service": "condenser"}),
	)
	defer func() { _ = logger.Flush() }()

	codec, err := builder.ParseCodec(builder.EnvOr("CONDENSER_STORAGE_CODEC", "zstd"))
	if err != nil {
		log.Fatalf("storage codec: %v", err)
	}

	store, err := openStore(ctx, codec)
	if err != nil {
		log.Fatalf("history store: %v", err)
	}
	defer store.Close()

	live := builder.NewLiveFeed(ctx,
		builder.LiveFeedWithLogger(logger),
		builder.LiveFeedWithAllowedOrigins(builder.EnvListOr("CONDENSER_ALLOWED_ORIGINS", nil)...),
		builder.LiveFeedWithMaxConnections(builder.EnvIntOr("CONDENSER_LIVE_MAX_CONNECTIONS", 100)),
	)

	publishers := []builder.EventPublisher{live}
	if brokers := builder.EnvListOr("CONDENSER_KAFKA_BROKERS", nil); len(brokers) > 0 {
		p, err := builder.NewKafkaPublisher(brokers, builder.EnvOr("CONDENSER_KAFKA_TOPIC", "condenser.compressions"), builder.EnvOr("CONDENSER_KAFKA_CODEC", "snappy"))
		if err != nil {
			log.Fatalf("kafka publisher: %v", err)
		}
		publishers = append(publishers, p)
	}
	if url := builder.EnvOr("CONDENSER_NATS_URL", ""); url != "" {
		p, err := builder.NewNATSPublisher(url, builder.EnvOr("CONDENSER_NATS_SUBJECT", "condenser.compressions"), "condenser")
		if err != nil {
			log.Fatalf("nats publisher: %v", err)
		}
		publishers = append(publishers, p)
	}
	events := builder.NewMultiPublisher(publishers...)
	defer events.Close()

	compressor := builder.NewCompressor(ctx,
		builder.CompressorWithLogger(logger),
		builder.CompressorWithHistory(store),
		builder.CompressorWithPublisher(events),
		builder.CompressorWithDictionarySize(builder.EnvIntOr("CONDENSER_DICTIONARY_SIZE", 50)),
		builder.CompressorWithRouting(builder.EnvBoolOr("CONDENSER_ROUTING", true)),
		builder.CompressorWithBaseline(builder.EnvOr("CONDENSER_BASELINE_CODEC", "none")),
		builder.CompressorWithIncludeOriginal(builder.EnvBoolOr("CONDENSER_INCLUDE_ORIGINAL", false)),
	)

	opts := []builder.APIServerOption{
		builder.APIServerWithAddress(builder.EnvOr("CONDENSER_HTTP_ADDR", ":8080")),
		builder.APIServerWithTimeout(builder.EnvDurationOr("CONDENSER_HTTP_TIMEOUT", 30*time.Second)),
		builder.APIServerWithMaxBodyBytes(int64(builder.EnvIntOr("CONDENSER_MAX_BODY_BYTES", 32<<20))),
		builder.APIServerWithHeader("X-Service", "condenser"),
		builder.APIServerWithLogger(logger),
		builder.APIServerWithCompressor(compressor),
		builder.APIServerWithHistory(store),
		builder.APIServerWithLiveFeed(live),
	}
	if key := builder.EnvOr("CONDENSER_API_KEY", ""); key != "" {
		opts = append(opts, builder.APIServerWithAPIKey("X-API-Key", key))
	}
	if cert := builder.EnvOr("CONDENSER_TLS_CERT", ""); cert != "" {
		opts = append(opts, builder.APIServerWithTLS(builder.TLSConfig{
			UseTLS:   true,
			CertFile: cert,
			KeyFile:  builder.EnvOr("CONDENSER_TLS_KEY", ""),
		}))
	}
	server := builder.NewAPIServer(ctx, opts...)

	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("server stopped: %v", err)
	}
}

func openStore(ctx context.Context, codec builder.Codec) (builder.HistoryStore, error) {
	switch strings.ToLower(builder.EnvOr("CONDENSER_STORE", "memory")) {
	case "pebble":
		return builder.OpenPebbleHistory(builder.EnvOr("CONDENSER_PEBBLE_DIR", "./condenser-history"), codec)
	case "s3":
		cli, err := builder.NewS3Client(ctx, builder.S3ConfigFromEnv("CONDENSER_S3_"))
		if err != nil {
			return nil, err
		}
		return builder.NewS3History(cli, builder.EnvOr("CONDENSER_S3_BUCKET", "condenser"), builder.EnvOr("CONDENSER_S3_PREFIX", "history"), codec)
	default:
		return builder.NewMemoryHistory(), nil
	}
}
