package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordDatagramReceived()
	RecordDatagramUndecodable()
	RecordDatagramDropped()
	RecordReplySent()
	RecordCommand("gate", "ok", 3*time.Millisecond)
	SetActiveSessions(2)
	RecordSessionExpired()
	RecordSessionQueueDrop()
	RecordAdminRequest("GET", "/health", 200, 12*time.Millisecond)
}
