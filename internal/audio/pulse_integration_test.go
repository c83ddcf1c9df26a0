//go:build integration

package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/mockprep/internal/capture"
)

func TestListDevicesIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	devices, err := ListDevices(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, devices)
}

func TestMediaAcquireIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stream, err := Media{Input: "default"}.Acquire(ctx, capture.Request{Audio: true})
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)
	data := make([]byte, binCount)
	require.Equal(t, binCount, stream.FrequencyData(data))
	require.NoError(t, stream.Close())
}
