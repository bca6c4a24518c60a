package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass                = true //local dev only; set AUTH_TOKEN and flip this for deployments
	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 10

	//chunking
	ChunkSize    = 500
	ChunkOverlap = 50

	//a document whose extracted text is shorter than this carries no
	//retrievable knowledge and is rejected at ingestion
	MinExtractedTextLength = 20

	//extraction guard for hostile/corrupt pages
	PageExtractionTimeout = 10 * time.Second

	EmbeddingOutputDimensionality int32 = 1536
	GoogleEmbeddingModel                = "gemini-embedding-001"

	DefaultResultsPerTier = 3
	MaxResultsPerTier     = 20

	//upload limit for the ingest endpoints
	MaxUploadSizeBytes = 32 << 20 //32mb

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 15 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//ingestion job buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = ""
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DBs we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1
	RedisContextCache  = 2

	RedisJobStoreTTL = 24 * time.Hour

	//assembled context cache; invalidated per scope via version keys
	ContextCacheTTL = 5 * time.Minute
)

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func AuthToken() string {
	return os.Getenv("AUTH_TOKEN")
}
