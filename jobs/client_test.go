package jobs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestEnqueueStorageSweep(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	info, err := client.EnqueueStorageSweep(context.Background(), StorageSweepPayload{MinAgeHours: 12})
	require.NoError(t, err)
	require.Equal(t, TaskTypeStorageSweep, info.Type)
	require.Equal(t, QueueDefault, info.Queue)
}
