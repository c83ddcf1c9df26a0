package ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAcquireReplacesStaleSocketFile(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "mockprep.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("left by a crashed owner"), 0o600))

	var stale []string
	listener, err := Acquire(context.Background(), socketPath, AcquireOptions{
		ProbeTimeout: 50 * time.Millisecond,
		Retries:      2,
		OnStale:      func(path string) { stale = append(stale, path) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	require.Equal(t, []string{socketPath}, stale)

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	require.Equal(t, os.ModeSocket, info.Mode()&os.ModeSocket)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAcquireFreshPathSkipsRecovery(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "run", "mockprep.sock")
	listener, err := Acquire(context.Background(), socketPath, AcquireOptions{
		OnStale: func(string) { t.Error("no stale socket expected") },
	})
	require.NoError(t, err)
	require.NoError(t, listener.Close())
}

func TestAcquireRefusesLiveOwner(t *testing.T) {
	t.Parallel()

	socketPath, _ := serveHandler(t, HandlerFunc(func(context.Context, Request) Response {
		return Response{OK: true, State: "active"}
	}))

	_, err := Acquire(context.Background(), socketPath, AcquireOptions{ProbeTimeout: 80 * time.Millisecond, Retries: 1})
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquireKeepsSocketWhenOwnerHangs(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "mockprep.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				time.Sleep(250 * time.Millisecond)
			}()
		}
	}()

	_, err = Acquire(context.Background(), socketPath, AcquireOptions{ProbeTimeout: 30 * time.Millisecond})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAlreadyRunning)
	require.Contains(t, err.Error(), "probe existing socket")

	_, err = os.Stat(socketPath)
	require.NoError(t, err)
	require.NoError(t, listener.Close())
	<-acceptDone
}

func TestAcquireFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := Acquire(context.Background(), filepath.Join(blocker, "mockprep.sock"), AcquireOptions{})
	require.ErrorContains(t, err, "ensure runtime socket dir")
}

func TestRuntimeSocketPath(t *testing.T) {
	t.Setenv(SocketEnv, "")
	t.Setenv("XDG_RUNTIME_DIR", "")
	_, err := RuntimeSocketPath()
	require.ErrorContains(t, err, "XDG_RUNTIME_DIR")

	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path, err := RuntimeSocketPath()
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/mockprep.sock", path)

	t.Setenv(SocketEnv, "/tmp/custom.sock")
	path, err = RuntimeSocketPath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.sock", path)
}
