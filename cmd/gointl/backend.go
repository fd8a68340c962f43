package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ZaguanLabs/gointl"
	"github.com/ZaguanLabs/gointl/cache"
	"github.com/ZaguanLabs/gointl/memstore"
	"github.com/ZaguanLabs/gointl/provider"
	"github.com/ZaguanLabs/gointl/s3store"
)

// newLogger builds a zap logger writing to w: JSON in production, console otherwise.
func newLogger(environment string, verbose bool, w io.Writer) *zap.Logger {
	var config zap.Config
	var encoder zapcore.Encoder

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		config = zap.NewDevelopmentConfig()
		encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// backend holds everything a command may need.
type backend struct {
	objects  gointl.ObjectStore
	store    *gointl.Store
	resolver *gointl.Resolver
	logger   *zap.Logger
	closers  []io.Closer
}

func (b *backend) Close() {
	for _, c := range b.closers {
		c.Close()
	}
}

// openBackend wires object store, cache, store and resolver from cfg.
func openBackend(ctx context.Context, cfg Config, opts options, logger *zap.Logger) (*backend, error) {
	b := &backend{logger: logger}

	if opts.memory {
		memory := memstore.New(cfg.PublicURL)
		if opts.seed != "" {
			if err := seedMemory(memory, cfg.BasePrefix, opts.seed); err != nil {
				return nil, err
			}
		}
		b.objects = memory
	} else {
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("bucket required (--bucket or GOINTL_BUCKET), or use --memory")
		}
		objects, err := s3store.New(ctx, s3store.Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			BaseURL:   cfg.PublicURL,
		}, s3store.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		b.objects = objects
	}

	if cfg.RequestsPerMinute > 0 {
		b.objects = gointl.NewRateLimitedObjectStore(b.objects, gointl.RateLimitConfig{
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
	}
	if cfg.Retries > 0 {
		retry := gointl.DefaultRetryConfig()
		retry.MaxRetries = cfg.Retries
		b.objects = gointl.NewRetryingObjectStore(b.objects, retry, logger)
	}

	storeOpts := []gointl.StoreOption{
		gointl.WithBasePrefix(cfg.BasePrefix),
		gointl.WithMirror(cfg.MirrorURL),
		gointl.WithCacheTTL(cfg.CacheTTL),
		gointl.WithStoreLogger(logger),
	}

	c, err := openCache(cfg, b)
	if err != nil {
		return nil, err
	}
	if c != nil {
		storeOpts = append(storeOpts, gointl.WithCache(c))
	}

	b.store = gointl.NewStore(b.objects, storeOpts...)

	resolverOpts := []gointl.ResolverOption{
		gointl.WithShowKeysWhereMissing(cfg.ShowKeys),
		gointl.WithLogger(logger),
	}
	if cfg.Fallback != "" {
		resolverOpts = append(resolverOpts, gointl.WithFallback(cfg.Fallback))
	}

	b.resolver, err = gointl.NewResolver(b.store, cfg.Languages, resolverOpts...)
	if err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

func openCache(cfg Config, b *backend) (gointl.CacheProvider, error) {
	switch cfg.Cache {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewInMemoryCache(), nil
	case "lru":
		lc, err := cache.NewLRUCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return lc, nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis cache requires --redis-url or GOINTL_REDIS_URL")
		}
		rc, err := cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		b.closers = append(b.closers, rc)
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache %q (none, memory, lru, redis)", cfg.Cache)
	}
}

// seedMemory loads a JSON file mapping langpack keys to langpacks into the memory store.
func seedMemory(store *memstore.Store, basePrefix, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var packs map[string]gointl.Langpack
	if err := json.Unmarshal(data, &packs); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	for key, pack := range packs {
		body, err := json.Marshal(pack)
		if err != nil {
			return err
		}
		store.Put(basePrefix+key, string(body))
	}
	return nil
}

// newProvider returns the translation provider for fill.
func newProvider(cfg Config, name string) (gointl.AIProvider, error) {
	switch strings.ToLower(name) {
	case "mock":
		return provider.NewMockProvider(), nil
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
		}
		var p gointl.AIProvider = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		p = gointl.NewRateLimitedProvider(p, gointl.RateLimitConfig{RequestsPerMinute: 60, BurstSize: 5})
		return gointl.NewRetryableProvider(p, gointl.DefaultRetryConfig()), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (openai, mock)", name)
	}
}
