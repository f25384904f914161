package messages

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mini-maxit/runner/pkg/constants"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload"`
}

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}

// Submission is one user's request to judge code against a problem. It is never persisted;
// only the Solved status of a fully passing run is.
// ProblemID and UserID are database identifiers; zero means absent.
type Submission struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	Problem   string `json:"problem"`
	ProblemID int64  `json:"problemId,omitempty"`
	UserID    int64  `json:"userId,omitempty"`
}

// UnmarshalJSON accepts the ids either as JSON numbers or as numeric strings, since web
// callers often forward them straight from a URL path. An empty string or null means absent.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code      string     `json:"code"`
		Language  string     `json:"language"`
		Problem   string     `json:"problem"`
		ProblemID flexibleID `json:"problemId"`
		UserID    flexibleID `json:"userId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Submission{
		Code:      raw.Code,
		Language:  raw.Language,
		Problem:   raw.Problem,
		ProblemID: int64(raw.ProblemID),
		UserID:    int64(raw.UserID),
	}
	return nil
}

type flexibleID int64

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = flexibleID(n)
	return nil
}

type LanguageSpec struct {
	LanguageName string   `json:"name"`
	Versions     []string `json:"versions"`
	Extension    string   `json:"extension"`
}

type ResponseHandshakePayload struct {
	Languages []LanguageSpec `json:"languages"`
}

type WorkerStatus struct {
	WorkerID            int                    `json:"worker_id"`
	Status              constants.WorkerStatus `json:"status"`
	ProcessingMessageID string                 `json:"processing_message_id,omitempty"`
}

type ResponseWorkerStatusPayload struct {
	BusyWorkers  int            `json:"busy_workers"`
	TotalWorkers int            `json:"total_workers"`
	WorkerStatus []WorkerStatus `json:"worker_status"`
}

// ErrorResponse is the structured error body returned to callers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TestCase is one stored input/expected pair. Input holds the call arguments (a JSON array
// spreads into positional arguments) and Expected the value the printed result must match.
type TestCase struct {
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
}

// ProblemSet is the stored definition of a problem. EntryPoint defaults to the problem key when
// empty and Language is informational.
type ProblemSet struct {
	Name       string     `json:"name"`
	EntryPoint string     `json:"entryPoint,omitempty"`
	Language   string     `json:"language,omitempty"`
	Tests      []TestCase `json:"tests"`
}
