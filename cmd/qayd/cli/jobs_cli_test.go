package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTriggerRejectsUnknownJob(t *testing.T) {
	// The asynq client only dials on enqueue, so an unreachable address is
	// fine for exercising the name check.
	cli, err := NewJobsCLI("127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = cli.Close() }()

	_, err = cli.Trigger(context.Background(), "nope:unknown")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported job")
}

func TestNilGuards(t *testing.T) {
	var cli *JobsCLI
	_, err := cli.Trigger(context.Background(), "ledger:integrity")
	require.Error(t, err)

	_, err = cli.InspectQueue(context.Background())
	require.Error(t, err)

	_, err = cli.ListScheduled(context.Background(), 5)
	require.Error(t, err)
}
