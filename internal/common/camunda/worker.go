package camunda

import (
	"fmt"
	"time"

	"fiscal-forum/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Registration struct {
	TaskType      string
	Handler       JobHandler
	MaxJobsActive int
	Timeout       time.Duration
}

// WorkerPool opens one job worker per registration and closes them together.
type WorkerPool struct {
	client  zbc.Client
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewWorkerPool(client zbc.Client, log logger.Logger) *WorkerPool {
	return &WorkerPool{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

func (p *WorkerPool) Register(reg Registration) error {
	if _, exists := p.workers[reg.TaskType]; exists {
		return fmt.Errorf("worker %s already registered", reg.TaskType)
	}
	if reg.MaxJobsActive <= 0 {
		reg.MaxJobsActive = 5
	}
	if reg.Timeout <= 0 {
		reg.Timeout = 30 * time.Second
	}

	p.workers[reg.TaskType] = p.client.NewJobWorker().
		JobType(reg.TaskType).
		Handler(reg.Handler.Handle).
		MaxJobsActive(reg.MaxJobsActive).
		Timeout(reg.Timeout).
		Name(reg.TaskType + "-worker").
		Open()

	p.logger.Info("worker registered", map[string]interface{}{
		"taskType":      reg.TaskType,
		"maxJobsActive": reg.MaxJobsActive,
		"timeout":       reg.Timeout.String(),
	})
	return nil
}

func (p *WorkerPool) Len() int {
	return len(p.workers)
}

// Close stops every worker and waits for in-flight jobs.
func (p *WorkerPool) Close() {
	for taskType, w := range p.workers {
		w.Close()
		w.AwaitClose()
		p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}
