package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/internal/rabbitmq/responder"
	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/pkg/messages"
	"go.uber.org/zap"
)

// Worker judges queue-delivered submissions one at a time and publishes the outcome.
type Worker interface {
	ProcessTask(messageID, responseQueue string, sub *messages.Submission)
	GetState() WorkerState
	UpdateStatus(status constants.WorkerStatus)
	GetProcessingMessageID() string
	GetId() int
}

type WorkerState struct {
	Status              constants.WorkerStatus `json:"status"`
	ProcessingMessageID string                 `json:"processing_message_id"`
}

type worker struct {
	id        int
	mu        sync.Mutex
	state     WorkerState
	judge     Judge
	responder responder.Responder
	logger    *zap.SugaredLogger
}

func NewWorker(id int, judge Judge, responder responder.Responder) Worker {
	return &worker{
		id:        id,
		state:     WorkerState{Status: constants.WorkerStatusIdle},
		judge:     judge,
		responder: responder,
		logger:    logger.NewNamedLogger(fmt.Sprintf("worker-%d", id)),
	}
}

func (ws *worker) GetId() int {
	return ws.id
}

func (ws *worker) GetState() WorkerState {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state
}

func (ws *worker) UpdateStatus(status constants.WorkerStatus) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state.Status = status
}

func (ws *worker) GetProcessingMessageID() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state.ProcessingMessageID
}

func (ws *worker) setProcessingMessageID(messageID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state.ProcessingMessageID = messageID
}

func (ws *worker) ProcessTask(messageID, responseQueue string, sub *messages.Submission) {
	defer func() {
		if r := recover(); r != nil {
			ws.logger.Errorf("Recovered from panic [MsgID: %s]: %v", messageID, r)
			ws.responder.PublishErrorToResponseQueue(
				constants.QueueMessageTypeTask,
				messageID,
				responseQueue,
				fmt.Errorf("worker panicked: %v", r),
			)
		}
	}()

	ws.logger.Infof("Processing task [MsgID: %s]", messageID)
	ws.setProcessingMessageID(messageID)
	defer ws.setProcessingMessageID("")

	verdict, err := ws.judge.RunSubmission(context.Background(), *sub)
	if err != nil {
		ws.logger.Errorf("Failed to judge submission [MsgID: %s]: %s", messageID, err)
		ws.responder.PublishErrorToResponseQueue(
			constants.QueueMessageTypeTask,
			messageID,
			responseQueue,
			err,
		)
		return
	}

	if err := ws.responder.PublishPayloadTaskRespond(
		constants.QueueMessageTypeTask,
		messageID,
		responseQueue,
		*verdict,
	); err != nil {
		ws.logger.Errorf("Failed to publish verdict [MsgID: %s]: %s", messageID, err)
		return
	}
	ws.logger.Infof("Finished processing task [MsgID: %s]", messageID)
}
