package responder_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/runner/tests/mocks"

	. "github.com/mini-maxit/runner/internal/rabbitmq/responder"
	"github.com/mini-maxit/runner/pkg/constants"
	pkgerrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/pkg/solution"
)

func decodeResponse(t *testing.T, pub amqp.Publishing) messages.ResponseQueueMessage {
	t.Helper()
	var resp messages.ResponseQueueMessage
	if err := json.Unmarshal(pub.Body, &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestPublishErrorToResponseQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	messageType := constants.QueueMessageTypeTask
	messageID := "mid-1"
	responseQueue := "resp-queue"
	testErr := errors.New("unsupported language")

	mockCh.EXPECT().Publish("", responseQueue, false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			if resp.Type != messageType || resp.MessageID != messageID {
				t.Errorf("unexpected envelope %+v", resp)
			}
			if resp.Ok {
				t.Errorf("expected Ok=false for error response")
			}
			var payload map[string]string
			if err := json.Unmarshal(resp.Payload, &payload); err != nil {
				t.Errorf("failed to unmarshal payload: %v", err)
			}
			if payload["error"] != testErr.Error() {
				t.Errorf("expected payload error %s got %s", testErr.Error(), payload["error"])
			}
			if pub.CorrelationId != messageID {
				t.Errorf("expected CorrelationId %s got %s", messageID, pub.CorrelationId)
			}
		}).Return(nil).Times(1)

	r.PublishErrorToResponseQueue(messageType, messageID, responseQueue, testErr)
}

func TestPublishRespondHelpers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	// Status
	statusPayload := messages.ResponseWorkerStatusPayload{
		BusyWorkers:  1,
		TotalWorkers: 3,
		WorkerStatus: []messages.WorkerStatus{{WorkerID: 1, Status: constants.WorkerStatusIdle}},
	}
	mockCh.EXPECT().Publish("", "status-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			if !resp.Ok {
				t.Errorf("expected Ok=true for status response")
			}
			var got messages.ResponseWorkerStatusPayload
			if err := json.Unmarshal(resp.Payload, &got); err != nil {
				t.Errorf("failed to unmarshal payload: %v", err)
			}
			if got.TotalWorkers != 3 || got.WorkerStatus[0].Status != constants.WorkerStatusIdle {
				t.Errorf("unexpected status payload %+v", got)
			}
		}).Return(nil).Times(1)

	if err := r.PublishSuccessStatusRespond("status", "sid", "status-queue", statusPayload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Handshake
	mockCh.EXPECT().Publish("", "hs-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			var got messages.ResponseHandshakePayload
			if err := json.Unmarshal(resp.Payload, &got); err != nil {
				t.Errorf("failed to unmarshal handshake payload: %v", err)
			}
			if len(got.Languages) == 0 || got.Languages[0].LanguageName != "python" {
				t.Errorf("expected python in handshake payload, got %+v", got.Languages)
			}
		}).Return(nil).Times(1)

	if err := r.PublishSuccessHandshakeRespond(
		"handshake", "hid", "hs-queue", languages.GetSupportedLanguagesSpec(),
	); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verdict
	verdict := solution.Verdict{
		AllPassed: true,
		Results: []solution.TestResult{
			{Order: 1, Input: json.RawMessage(`[2,3]`), Expected: "5", Output: "5", Passed: true, Status: solution.TestCasePassed},
		},
	}
	mockCh.EXPECT().Publish("", "task-queue", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			resp := decodeResponse(t, pub)
			if !resp.Ok {
				t.Errorf("expected Ok=true for task response")
			}
			var got solution.Verdict
			if err := json.Unmarshal(resp.Payload, &got); err != nil {
				t.Errorf("failed to unmarshal verdict: %v", err)
			}
			if !got.AllPassed || len(got.Results) != 1 || got.Results[0].Output != "5" {
				t.Errorf("unexpected verdict %+v", got)
			}
		}).Return(nil).Times(1)

	if err := r.PublishPayloadTaskRespond("task", "tid", "task-queue", verdict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPublish_ConcurrentHighLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 1000)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	const n = 200

	var mu sync.Mutex
	received := make(map[string]struct{})
	mockCh.EXPECT().Publish("", "q-heavy", false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).Do(
		func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			mu.Lock()
			received[string(pub.Body)] = struct{}{}
			mu.Unlock()
			time.Sleep(1 * time.Millisecond)
		}).Return(nil).Times(n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(i int) {
			defer wg.Done()
			body := []byte(fmt.Sprintf("msg-%d", i))
			if err := r.Publish("q-heavy", amqp.Publishing{ContentType: "text/plain", Body: body}); err != nil {
				t.Errorf("Publish returned error: %v", err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatalf("timed out waiting for concurrent publishes to finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != n {
		t.Fatalf("expected %d published messages, got %d", n, len(received))
	}
}

func TestPublish_ReturnsChannelError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)
	defer func() {
		if err := r.Close(); err != nil {
			t.Fatalf("failed to close responder: %v", err)
		}
	}()

	expectedErr := errors.New("publish failed")
	mockCh.EXPECT().Publish(
		"", "err-q", false, false, gomock.AssignableToTypeOf(amqp.Publishing{}),
	).Return(expectedErr).Times(1)

	err := r.Publish("err-q", amqp.Publishing{Body: []byte("x")})
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected error %v got %v", expectedErr, err)
	}
}

func TestClose_PreventsPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	r := NewResponder(mockCh, 10)

	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}

	err := r.Publish("any", amqp.Publishing{Body: []byte("x")})
	if !errors.Is(err, pkgerrors.ErrResponderClosed) {
		t.Fatalf("expected ErrResponderClosed got %v", err)
	}
}
