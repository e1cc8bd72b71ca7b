// Package docsearch provides the document search server implementation.
package docsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/biz"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/extract"
	docsearchgrpc "github.com/Shreeshail-sp/docsearch/internal/docsearch/grpc"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/handler"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/metrics"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/router"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/pkg/component/database"
	"github.com/Shreeshail-sp/docsearch/pkg/component/milvus"
	"github.com/Shreeshail-sp/docsearch/pkg/component/mongodb"
	"github.com/Shreeshail-sp/docsearch/pkg/component/redis"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/app"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/pool"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/server"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/tracing"
	"github.com/Shreeshail-sp/docsearch/pkg/llm"
	// 导入 Embedding 供应商以自动注册
	_ "github.com/Shreeshail-sp/docsearch/pkg/llm/ollama"
	_ "github.com/Shreeshail-sp/docsearch/pkg/llm/openai"
	"github.com/Shreeshail-sp/docsearch/pkg/llm/resilience"
	cacheopts "github.com/Shreeshail-sp/docsearch/pkg/options/cache"
	dbopts "github.com/Shreeshail-sp/docsearch/pkg/options/database"
	docsearchopts "github.com/Shreeshail-sp/docsearch/pkg/options/docsearch"
	embeddingopts "github.com/Shreeshail-sp/docsearch/pkg/options/embedding"
	endeeopts "github.com/Shreeshail-sp/docsearch/pkg/options/endee"
	grpcopts "github.com/Shreeshail-sp/docsearch/pkg/options/grpc"
	httpopts "github.com/Shreeshail-sp/docsearch/pkg/options/http"
	logopts "github.com/Shreeshail-sp/docsearch/pkg/options/logger"
	middlewareopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	milvusopts "github.com/Shreeshail-sp/docsearch/pkg/options/milvus"
	mongoopts "github.com/Shreeshail-sp/docsearch/pkg/options/mongodb"
	tracingopts "github.com/Shreeshail-sp/docsearch/pkg/options/tracing"
)

// Name is the name of the application.
const Name = "docsearch"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions       *httpopts.Options
	GRPCOptions       *grpcopts.Options
	LogOptions        *logopts.Options
	MiddlewareOptions *middlewareopts.Options
	DocSearchOptions  *docsearchopts.Options
	EmbeddingOptions  *embeddingopts.Options
	EndeeOptions      *endeeopts.Options
	MilvusOptions     *milvusopts.Options
	DatabaseOptions   *dbopts.Options
	MongoDBOptions    *mongoopts.Options
	CacheOptions      *cacheopts.Options
	TracingOptions    *tracingopts.Options
}

// Server represents the docsearch server.
type Server struct {
	srv  *server.Manager
	http *server.HTTPServer
	grpc *server.GRPCServer
	svc  *biz.Service
}

// NewServer initializes and returns a new Server instance. Resources opened
// before a failing step are released before the error is returned.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	printBanner(cfg)

	// 1. 初始化日志
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting docsearch service...")

	mgr := server.NewManager(cfg.HTTPOptions.ShutdownTimeout)
	fail := func(err error) (*Server, error) {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPOptions.ShutdownTimeout)
		defer cancel()
		if cerr := mgr.Stop(cleanupCtx); cerr != nil {
			logger.Warnw("cleanup after failed startup", "error", cerr.Error())
		}
		return nil, err
	}

	// 2. 初始化链路追踪
	tp, err := tracing.NewProvider(ctx, cfg.TracingOptions, app.GetVersion())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	mgr.AddCloser("tracing", tp.Shutdown)
	logger.Infow("Tracing initialized", "enabled", tp.Enabled())

	// 3. 初始化分块存储与文档注册表
	chunks, registry, err := cfg.newStores(ctx, mgr)
	if err != nil {
		return fail(err)
	}
	mgr.AddCloser("registry", registry.Close)
	mgr.AddCloser("chunk-store", chunks.Close)
	logger.Infow("Chunk store initialized", "backend", cfg.DocSearchOptions.StoreBackend)

	// 4. 初始化向量索引
	index, err := cfg.newVectorIndex(ctx)
	if err != nil {
		return fail(err)
	}
	mgr.AddCloser("vector-index", index.Close)
	logger.Infow("Vector index client initialized", "backend", cfg.DocSearchOptions.VectorBackend)

	// 5. 初始化 Redis 客户端（用于缓存）
	var redisClient *goredis.Client
	if cfg.CacheOptions.RedisRequired() {
		rc, err := redis.New(ctx, cfg.CacheOptions.Redis)
		if err != nil {
			logger.Warnw("failed to connect to redis, cache will be disabled", "error", err.Error())
		} else {
			redisClient = rc.Client()
			mgr.AddCloser("redis", func(context.Context) error { return rc.Close() })
			logger.Infow("Redis cache initialized",
				"addr", cfg.CacheOptions.Redis.Addr(),
				"query_cache", cfg.CacheOptions.Query.Enabled,
				"embedding_cache", cfg.CacheOptions.Embedding.Enabled,
			)
		}
	} else {
		logger.Info("Cache is disabled")
	}

	// 6. 初始化 Embedding 供应商
	provider, err := cfg.newEmbeddingProvider(redisClient)
	if err != nil {
		return fail(err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", cfg.EmbeddingOptions.Provider,
		"model", cfg.EmbeddingOptions.Model,
		"name", provider.Name(),
	)

	// 7. 初始化向量化 worker 池
	workers, err := pool.NewPool("embedding", &pool.Config{
		Capacity:       cfg.EmbeddingOptions.Workers,
		ExpiryDuration: 10 * time.Second,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create embedding pool: %w", err))
	}
	mgr.AddCloser("embedding-pool", func(context.Context) error {
		workers.Release()
		return nil
	})

	// 8. 初始化 Biz 层
	svc, err := cfg.newService(index, chunks, registry, provider, workers, redisClient)
	if err != nil {
		return fail(err)
	}

	if err := svc.EnsureIndex(ctx); err != nil {
		// 向量索引不可用时继续启动，健康检查会报告 degraded
		logger.Warnw("failed to ensure vector index",
			"index", cfg.DocSearchOptions.IndexName,
			"error", err.Error(),
		)
	}

	// 9. 初始化 Handler 层与路由
	h := handler.NewDocSearchHandler(svc, handler.Config{
		MaxUploadSize: cfg.HTTPOptions.MaxUploadSize,
		QueryTimeout:  cfg.DocSearchOptions.QueryTimeout,
	})
	httpServer := server.NewHTTPServer(cfg.HTTPOptions, cfg.MiddlewareOptions)
	router.Register(httpServer.Engine(), h)
	mgr.AddServer(httpServer)

	// 10. 初始化 gRPC 服务
	var grpcServer *server.GRPCServer
	if cfg.GRPCOptions != nil && cfg.GRPCOptions.Enabled {
		grpcServer = server.NewGRPCServer(cfg.GRPCOptions)
		docsearchgrpc.Register(grpcServer.Server(), svc)
		mgr.AddServer(grpcServer)
	}

	logger.Info("docsearch service is ready")
	return &Server{srv: mgr, http: httpServer, grpc: grpcServer, svc: svc}, nil
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.srv.Run(ctx)
}

// Addr returns the HTTP listener address once the server is running.
func (s *Server) Addr() string {
	return s.http.Addr()
}

// GRPCAddr returns the gRPC listener address, or "" when gRPC is disabled.
func (s *Server) GRPCAddr() string {
	if s.grpc == nil {
		return ""
	}
	return s.grpc.Addr()
}

// Service returns the business service.
func (s *Server) Service() *biz.Service {
	return s.svc
}

func (cfg *Config) newStores(ctx context.Context, mgr *server.Manager) (store.ChunkStore, store.DocumentRegistry, error) {
	opts := cfg.DocSearchOptions

	switch opts.StoreBackend {
	case docsearchopts.StoreBackendDatabase:
		client, err := database.New(ctx, cfg.DatabaseOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		mgr.AddCloser("database", func(context.Context) error { return client.Close() })

		chunks, err := store.NewGormChunkStore(ctx, client.DB())
		if err != nil {
			return nil, nil, err
		}
		registry, err := store.NewGormDocumentRegistry(ctx, client.DB())
		if err != nil {
			return nil, nil, err
		}
		return chunks, registry, nil

	case docsearchopts.StoreBackendMongoDB:
		client, err := mongodb.New(ctx, cfg.MongoDBOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mongodb: %w", err)
		}
		mgr.AddCloser("mongodb", client.Close)

		chunks := store.NewMongoKV[store.ChunkRecord](client.Chunks())
		registry := store.NewMongoKV[store.DocumentRecord](client.Documents())
		return chunks, registry, nil

	default:
		chunks, err := store.NewChunkFileStore(opts.ChunksFile())
		if err != nil {
			return nil, nil, err
		}
		registry, err := store.NewDocumentFileRegistry(opts.RegistryFile())
		if err != nil {
			return nil, nil, err
		}
		return chunks, registry, nil
	}
}

func (cfg *Config) newVectorIndex(ctx context.Context) (store.VectorIndex, error) {
	switch cfg.DocSearchOptions.VectorBackend {
	case docsearchopts.VectorBackendMilvus:
		client, err := milvus.New(ctx, cfg.MilvusOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize milvus: %w", err)
		}
		return store.NewMilvusIndex(client), nil
	case docsearchopts.VectorBackendMemory:
		return store.NewMemoryIndex(), nil
	default:
		index, err := store.NewEndeeIndex(cfg.EndeeOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize endee: %w", err)
		}
		return index, nil
	}
}

// newEmbeddingProvider 组装 provider -> 重试熔断 -> Redis 缓存 -> 进程内 LRU。
func (cfg *Config) newEmbeddingProvider(redisClient *goredis.Client) (llm.EmbeddingProvider, error) {
	opts := cfg.EmbeddingOptions

	base, err := llm.NewEmbeddingProvider(opts.Provider, opts.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}

	var provider llm.EmbeddingProvider = resilience.Wrap(base, opts.RetryConfig(), opts.CircuitBreakerConfig())

	if cfg.CacheOptions.Embedding.Enabled && redisClient != nil {
		provider = llm.NewCachedEmbeddingProvider(provider, redisClient, &llm.EmbeddingCacheConfig{
			Enabled: true,
			TTL:     cfg.CacheOptions.Embedding.TTL,
			// 键中包含模型名，避免不同模型的向量混用
			KeyPrefix: cfg.CacheOptions.Embedding.KeyPrefix + opts.Model + ":",
		})
	}

	if size := cfg.CacheOptions.Embedding.LRUSize; size > 0 {
		lru, err := llm.NewLRUEmbeddingProvider(provider, size)
		if err != nil {
			return nil, err
		}
		provider = lru
	}
	return provider, nil
}

func (cfg *Config) newService(
	index store.VectorIndex,
	chunks store.ChunkStore,
	registry store.DocumentRegistry,
	provider llm.EmbeddingProvider,
	workers *pool.Pool,
	redisClient *goredis.Client,
) (*biz.Service, error) {
	opts := cfg.DocSearchOptions

	chunker, err := biz.NewChunker(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	extractor, err := extract.NewRegistry(opts.Formats...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractors: %w", err)
	}
	metric, err := store.ParseMetric(opts.Metric)
	if err != nil {
		return nil, err
	}
	distance, err := store.ParseDistanceMapping(opts.DistanceMapping)
	if err != nil {
		return nil, err
	}

	var queryCache *biz.QueryCache
	if cfg.CacheOptions.Query.Enabled && redisClient != nil {
		queryCache = biz.NewQueryCache(redisClient, &biz.QueryCacheConfig{
			Enabled:   true,
			TTL:       cfg.CacheOptions.Query.TTL,
			KeyPrefix: cfg.CacheOptions.Query.KeyPrefix,
		})
	}

	svc := biz.NewService(&biz.Dependencies{
		Index:    index,
		Chunks:   chunks,
		Registry: registry,
		Embedder: biz.NewEmbedder(provider, workers, &biz.EmbedderConfig{
			Dimension: cfg.EmbeddingOptions.Dimension,
			BatchSize: cfg.EmbeddingOptions.BatchSize,
		}),
		Chunker:   chunker,
		Extractor: extractor,
		Cache:     queryCache,
		Metrics:   metrics.New(),
		Distance:  distance,
	}, &biz.ServiceConfig{
		UploadDir:  opts.UploadDir,
		IndexName:  opts.IndexName,
		Dimension:  cfg.EmbeddingOptions.Dimension,
		Metric:     metric,
		SearchTopK: opts.TopK,
		AnswerTopK: opts.AnswerTopK,
	})
	logger.Infow("docsearch service initialized",
		"index", opts.IndexName,
		"chunk_size", opts.ChunkSize,
		"chunk_overlap", opts.ChunkOverlap,
		"distance_mapping", opts.DistanceMapping,
		"formats", extractor.Formats(),
		"query_cache", queryCache != nil,
	)
	return svc, nil
}

func printBanner(cfg *Config) {
	fmt.Printf("Starting %s %s...\n", Name, app.GetVersion())
	fmt.Printf("  Listen: %s\n", cfg.HTTPOptions.Addr)
	if cfg.GRPCOptions != nil && cfg.GRPCOptions.Enabled {
		fmt.Printf("  gRPC: %s\n", cfg.GRPCOptions.Addr)
	}
	fmt.Printf("  Embedding: %s (%s, dim %d)\n", cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.Model, cfg.EmbeddingOptions.Dimension)
	fmt.Printf("  Vector backend: %s, store backend: %s\n", cfg.DocSearchOptions.VectorBackend, cfg.DocSearchOptions.StoreBackend)
	fmt.Printf("  Enabled Middlewares: %v\n", cfg.MiddlewareOptions.Middleware)
}
