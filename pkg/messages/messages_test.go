package messages_test

import (
	"encoding/json"
	"testing"

	"github.com/mini-maxit/runner/pkg/messages"
)

func TestSubmission_UnmarshalIDs(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantProblemID int64
		wantUserID    int64
		wantErr       bool
	}{
		{name: "numbers", body: `{"problemId": 42, "userId": 7}`, wantProblemID: 42, wantUserID: 7},
		{name: "numeric strings", body: `{"problemId": "42", "userId": "7"}`, wantProblemID: 42, wantUserID: 7},
		{name: "absent", body: `{}`},
		{name: "null and empty string", body: `{"problemId": null, "userId": ""}`},
		{name: "not a number", body: `{"problemId": "abc"}`, wantErr: true},
		{name: "fraction", body: `{"userId": 1.5}`, wantErr: true},
		{name: "boolean", body: `{"userId": true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sub messages.Submission
			err := json.Unmarshal([]byte(tt.body), &sub)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if sub.ProblemID != tt.wantProblemID || sub.UserID != tt.wantUserID {
				t.Errorf("expected ids %d/%d, got %d/%d", tt.wantProblemID, tt.wantUserID, sub.ProblemID, sub.UserID)
			}
		})
	}
}

func TestSubmission_UnmarshalKeepsOtherFields(t *testing.T) {
	var sub messages.Submission
	body := `{"code": "def add(a, b):\n    return a + b", "language": "python", "problem": "add", "userId": "3"}`
	if err := json.Unmarshal([]byte(body), &sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := messages.Submission{Code: "def add(a, b):\n    return a + b", Language: "python", Problem: "add", UserID: 3}
	if sub != want {
		t.Errorf("expected %+v, got %+v", want, sub)
	}

	// Encoding still produces numbers.
	out, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"code":"def add(a, b):\n    return a + b","language":"python","problem":"add","userId":3}` {
		t.Errorf("unexpected encoding %s", out)
	}
}
