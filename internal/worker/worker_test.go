package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/jobModel"
	"github.com/gitclixlogix/contentry-knowledge/internal/job"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/assembler"
	"github.com/gitclixlogix/contentry-knowledge/internal/knowledge/ingest"
)

// MockKnowledgeService tracks ingestion calls
type MockKnowledgeService struct {
	IngestedCount int32
	OnIngest      func(ctx context.Context, req ingest.Request) jobModel.IngestResult
}

func (m *MockKnowledgeService) IngestDocument(ctx context.Context, req ingest.Request) jobModel.IngestResult {
	atomic.AddInt32(&m.IngestedCount, 1)
	if m.OnIngest != nil {
		return m.OnIngest(ctx, req)
	}
	return jobModel.IngestResult{Success: true, DocumentId: "doc-1", ChunkCount: 1}
}

func (m *MockKnowledgeService) QueryTieredContext(ctx context.Context, req assembler.Request) string {
	return ""
}

func (m *MockKnowledgeService) DeleteDocument(ctx context.Context, documentId string, tier docModel.Tier, scopeId string) (bool, error) {
	return false, nil
}

func (m *MockKnowledgeService) ScopeStats(ctx context.Context, tier docModel.Tier, scopeId string) (docModel.ScopeStats, error) {
	return docModel.ScopeStats{}, nil
}

type MockJobStore struct {
	mu    sync.Mutex
	saved map[string]jobModel.Job
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]jobModel.Job)
	}
	m.saved[j.Id] = j
	return nil
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.saved[jobId]
	return j, ok
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func spoolUpload(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	mockKnowledge := &MockKnowledgeService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockKnowledge)
	InitWorkerPool(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes an ingest job", func(t *testing.T) {
		path := spoolUpload(t, "spooled upload content for the worker")
		jobSvc.JobChannel <- jobModel.Job{
			Id: "test-1",
			JobPayload: jobModel.JobPayload{
				Tier:           docModel.TierUser,
				ScopeId:        "alice",
				IngestFileName: "upload.txt",
				IngestURL:      path,
			},
		}

		time.Sleep(100 * time.Millisecond)

		if processed := atomic.LoadInt32(&mockKnowledge.IngestedCount); processed != 1 {
			t.Errorf("Expected 1 job ingested, got %d", processed)
		}

		final, found := jobStore.GetJob(context.Background(), "test-1")
		if !found {
			t.Fatal("Job state was never saved")
		}
		if final.Status != jobModel.JobStatusComplete {
			t.Errorf("Expected COMPLETE, got %s", final.Status)
		}
		if final.JobPayload.Result == nil || !final.JobPayload.Result.Success {
			t.Errorf("Ingest result missing from job: %+v", final.JobPayload.Result)
		}

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Spooled upload should be removed after processing")
		}
	})

	t.Run("Missing upload marks the job failed", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{
			Id: "test-2",
			JobPayload: jobModel.JobPayload{
				Tier:      docModel.TierUser,
				ScopeId:   "alice",
				IngestURL: filepath.Join(t.TempDir(), "never-written.txt"),
			},
		}

		time.Sleep(100 * time.Millisecond)

		final, found := jobStore.GetJob(context.Background(), "test-2")
		if !found {
			t.Fatal("Job state was never saved")
		}
		if final.Status != jobModel.JobStatusError {
			t.Errorf("Expected Error status, got %s", final.Status)
		}
		if final.Error.Message == "" {
			t.Error("Expected an error message on the failed job")
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}
