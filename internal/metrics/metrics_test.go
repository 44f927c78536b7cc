package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_AllVariablesNonNil(t *testing.T) {
	t.Parallel()

	vars := []struct {
		name string
		val  any
	}{
		{"DispatchItemsTotal", DispatchItemsTotal},
		{"DispatchBatchesTotal", DispatchBatchesTotal},
		{"DispatchBatchDuration", DispatchBatchDuration},
		{"SenderSendDuration", SenderSendDuration},
		{"SenderConfirmPolls", SenderConfirmPolls},
		{"RPCCallsTotal", RPCCallsTotal},
		{"RPCRateLimitWaits", RPCRateLimitWaits},
		{"BreakerStateChanges", BreakerStateChanges},
		{"AlertsSentTotal", AlertsSentTotal},
		{"AlertsCooldownSkipped", AlertsCooldownSkipped},
	}

	for _, v := range vars {
		assert.NotNilf(t, v.val, "%s should not be nil", v.name)
	}
}

func TestMetrics_IncrementNoPanic(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		DispatchItemsTotal.WithLabelValues("devnet", "success").Inc()
		DispatchItemsTotal.WithLabelValues("devnet", "failure").Inc()
		DispatchBatchesTotal.WithLabelValues("devnet", "COMPLETED").Inc()
		DispatchBatchDuration.WithLabelValues("devnet").Observe(1.5)
		SenderSendDuration.WithLabelValues("devnet", "success").Observe(0.4)
		SenderConfirmPolls.WithLabelValues("devnet").Inc()
		RPCCallsTotal.WithLabelValues("devnet", "sendTransaction", "ok").Inc()
		RPCRateLimitWaits.WithLabelValues("devnet").Inc()
		BreakerStateChanges.WithLabelValues("devnet", "closed", "open").Inc()
		AlertsSentTotal.WithLabelValues("slack", "BATCH_COMPLETED").Inc()
		AlertsCooldownSkipped.WithLabelValues("slack", "BATCH_COMPLETED").Inc()
	})
}
