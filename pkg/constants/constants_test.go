package constants

import (
	"encoding/json"
	"testing"
)

func TestWorkerStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   WorkerStatus
		wantStr  string
		wantJSON string
	}{
		{name: "idle", status: WorkerStatusIdle, wantStr: "idle", wantJSON: `"idle"`},
		{name: "busy", status: WorkerStatusBusy, wantStr: "busy", wantJSON: `"busy"`},
		{name: "out of range", status: WorkerStatus(42), wantStr: "unknown", wantJSON: `"unknown"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
			b, err := json.Marshal(tt.status)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(b) != tt.wantJSON {
				t.Errorf("json.Marshal() = %s, want %s", b, tt.wantJSON)
			}
		})
	}
}

func TestWorkerStatusInsideStruct(t *testing.T) {
	payload := struct {
		WorkerID int          `json:"worker_id"`
		Status   WorkerStatus `json:"status"`
	}{WorkerID: 3, Status: WorkerStatusBusy}

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"worker_id":3,"status":"busy"}`; string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}
