// Package speech runs an external speech-to-text command as the capture recognizer.
package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rbright/mockprep/internal/capture"
)

const defaultStopGrace = 3 * time.Second

// CommandRecognizer pipes 16kHz mono s16le PCM to a command's stdin and treats
// each non-empty stdout line as one final transcript segment.
type CommandRecognizer struct {
	Argv      []string
	StopGrace time.Duration
	Logger    *slog.Logger
}

// Recognize starts the recognizer process. Start failures are returned to the caller.
func (r CommandRecognizer) Recognize(ctx context.Context, pcm io.Reader, onFinal func(string)) (capture.Recognition, error) {
	if len(r.Argv) == 0 {
		return nil, errors.New("speech command argv cannot be empty")
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, r.Argv[0], r.Argv[1:]...)
	cmd.Stdin = pcm
	cmd.WaitDelay = time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open stdout for %s: %w", r.Argv[0], err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start speech command %s: %w", r.Argv[0], err)
	}

	grace := r.StopGrace
	if grace <= 0 {
		grace = defaultStopGrace
	}

	rec := &commandRecognition{
		name:   r.Argv[0],
		cancel: cancel,
		grace:  grace,
		done:   make(chan struct{}),
		logger: r.Logger,
	}
	go rec.run(cmd, stdout, onFinal)
	return rec, nil
}

type commandRecognition struct {
	name   string
	cancel context.CancelFunc
	grace  time.Duration
	logger *slog.Logger

	done     chan struct{}
	waitErr  error
	stopOnce sync.Once
	stopErr  error
	killed   bool
}

// run forwards stdout lines until the command exits.
func (c *commandRecognition) run(cmd *exec.Cmd, stdout io.Reader, onFinal func(string)) {
	defer close(c.done)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		onFinal(line)
	}
	if err := scanner.Err(); err != nil && c.logger != nil {
		c.logger.Debug("speech command stdout read failed", "command", c.name, "error", err.Error())
	}
	c.waitErr = cmd.Wait()
}

// Stop waits up to the grace period for the command to drain, then kills it.
func (c *commandRecognition) Stop() error {
	c.stopOnce.Do(func() {
		select {
		case <-c.done:
		case <-time.After(c.grace):
			c.killed = true
			c.cancel()
			<-c.done
		}
		c.cancel()

		if c.waitErr != nil && !c.killed {
			c.stopErr = fmt.Errorf("speech command %s: %w", c.name, c.waitErr)
		}
	})
	return c.stopErr
}
