// @title           Tiered Knowledge API
// @version         1.0
// @description     Document ingestion, tiered vector retrieval and policy-gated context assembly.

// @contact.name    clixlogix

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/data/redisStore"
	"github.com/gitclixlogix/contentry-knowledge/internal/data/store"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	jobmodel "github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/handlers"
	"github.com/gitclixlogix/contentry-knowledge/internal/job"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/cache"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/embedding/googleEmbedding"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/vectorDB/qdrantDB"
	"github.com/gitclixlogix/contentry-knowledge/internal/server"
	"github.com/gitclixlogix/contentry-knowledge/internal/worker"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil {
		logger.Error("Redis job store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	var documents docModel.DocumentStore
	if redisDocuments := store.GetRedisDocumentStore(serviceContext); redisDocuments != nil {
		documents = redisDocuments
	} else {
		logger.Error("Redis document store is offline")
		documents = store.InitInMemoryDocumentStore()
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())

	if vectorDB == nil || embeddingService == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil)
		return
	}

	//the assembled-context cache is optional; a nil cache disables caching
	contextCache := cache.NewContextCache(redisStore.GetRedisStore(serviceContext, config.RedisContextCache), config.ContextCacheTTL)

	knowledgeService := knowledge.NewService(vectorDB, embeddingService, documents, contextCache)

	handlers.InitHandlers(service, knowledgeService)

	//init worker pool
	worker.InitServices(service, knowledgeService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
