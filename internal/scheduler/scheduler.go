package scheduler

import (
	"sort"
	"sync"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/pipeline"
	"github.com/mini-maxit/runner/internal/rabbitmq/responder"
	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/messages"
	"go.uber.org/zap"
)

// Scheduler hands queue-delivered submissions to a bounded set of workers.
type Scheduler interface {
	GetWorkersStatus() messages.ResponseWorkerStatusPayload
	// ProcessTask starts judging sub on an idle worker and returns immediately. It fails with
	// ErrFailedToGetFreeWorker when every worker is busy.
	ProcessTask(messageID, responseQueue string, sub *messages.Submission) error
}

type scheduler struct {
	mu               sync.Mutex
	busyWorkersCount int
	workers          map[int]pipeline.Worker
	maxWorkers       int
	logger           *zap.SugaredLogger
}

func NewScheduler(maxWorkers int, judge pipeline.Judge, responder responder.Responder) Scheduler {
	workers := make(map[int]pipeline.Worker, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		workers[i] = pipeline.NewWorker(i, judge, responder)
	}
	return NewSchedulerWithWorkers(maxWorkers, workers)
}

// NewSchedulerWithWorkers builds a scheduler over an existing worker set.
func NewSchedulerWithWorkers(maxWorkers int, workers map[int]pipeline.Worker) Scheduler {
	return &scheduler{
		workers:    workers,
		maxWorkers: maxWorkers,
		logger:     logger.NewNamedLogger("workerPool"),
	}
}

func (s *scheduler) GetWorkersStatus() messages.ResponseWorkerStatusPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.workers))
	for id := range s.workers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	statuses := make([]messages.WorkerStatus, 0, len(ids))
	for _, id := range ids {
		state := s.workers[id].GetState()
		statuses = append(statuses, messages.WorkerStatus{
			WorkerID:            id,
			Status:              state.Status,
			ProcessingMessageID: state.ProcessingMessageID,
		})
	}

	return messages.ResponseWorkerStatusPayload{
		BusyWorkers:  s.busyWorkersCount,
		TotalWorkers: s.maxWorkers,
		WorkerStatus: statuses,
	}
}

func (s *scheduler) getFreeWorker() (pipeline.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, worker := range s.workers {
		if worker.GetState().Status == constants.WorkerStatusIdle {
			worker.UpdateStatus(constants.WorkerStatusBusy)
			s.busyWorkersCount++
			return worker, nil
		}
	}

	return nil, errors.ErrFailedToGetFreeWorker
}

func (s *scheduler) ProcessTask(messageID, responseQueue string, sub *messages.Submission) error {
	s.logger.Infof("Scheduling task [MsgID: %s]", messageID)

	worker, err := s.getFreeWorker()
	if err != nil {
		s.logger.Warnf("No available workers [MsgID: %s]: %s", messageID, err)
		return err
	}

	go func(w pipeline.Worker) {
		defer s.markWorkerAsIdle(w)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Worker panicked: %v", r)
			}
		}()

		w.ProcessTask(messageID, responseQueue, sub)
	}(worker)

	return nil
}

func (s *scheduler) markWorkerAsIdle(worker pipeline.Worker) {
	id := worker.GetId()
	s.mu.Lock()
	defer s.mu.Unlock()

	worker.UpdateStatus(constants.WorkerStatusIdle)
	s.busyWorkersCount--

	s.logger.Infof("Worker marked as idle [WorkerID: %d]", id)
}
