package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbright/mockprep/internal/fsm"
	"github.com/rbright/mockprep/internal/ipc"
	"github.com/rbright/mockprep/internal/store"
)

type action int

const (
	actionNext action = iota + 1
	actionDraft
	actionAppend
	actionStart
	actionRestart
)

type actionRequest struct {
	kind  action
	text  string
	reply chan ipc.Response
}

// Result is the lifecycle output of one Run invocation.
type Result struct {
	State      fsm.State
	Bundle     store.Bundle
	Finished   bool
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run starts a session and drives its countdown until it finalizes or ctx is
// cancelled. IPC actions are applied on the same goroutine as ticks.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{StartedAt: c.now()}
	finish := func(err error) Result {
		result.State = c.State()
		result.Err = err
		result.FinishedAt = c.now()
		return result
	}

	if err := c.Start(ctx); err != nil {
		return finish(err)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Restart(context.Background())
			return finish(ctx.Err())
		case <-ticker.C:
			bundle, err := c.Tick(ctx)
			if bundle != nil {
				result.Bundle = *bundle
				result.Finished = true
				return finish(err)
			}
		case req := <-c.actions:
			resp, bundle, err := c.apply(ctx, req)
			if req.kind == actionStart || req.kind == actionRestart {
				ticker.Reset(c.interval)
			}
			req.reply <- resp
			if bundle != nil {
				result.Bundle = *bundle
				result.Finished = true
				return finish(err)
			}
		}
	}
}

// apply executes one queued action on the Run goroutine.
func (c *Controller) apply(ctx context.Context, req actionRequest) (ipc.Response, *store.Bundle, error) {
	switch req.kind {
	case actionNext:
		bundle, err := c.Advance(ctx)
		if bundle != nil {
			resp := c.response("interview finished")
			if err != nil {
				resp.OK = false
				resp.Error = err.Error()
			}
			return resp, bundle, err
		}
		if err != nil {
			return c.failure(err), nil, nil
		}
		return c.response("advanced"), nil, nil
	case actionDraft:
		if err := c.SetDraftAnswer(req.text); err != nil {
			return c.failure(err), nil, nil
		}
		return c.response("draft updated"), nil, nil
	case actionAppend:
		if err := c.AppendDraft(req.text); err != nil {
			return c.failure(err), nil, nil
		}
		return c.response("draft updated"), nil, nil
	case actionStart:
		if err := c.Start(ctx); err != nil {
			return c.failure(err), nil, nil
		}
		return c.response("started"), nil, nil
	case actionRestart:
		c.Restart(ctx)
		return c.response("restarted"), nil, nil
	default:
		return c.failure(fmt.Errorf("unknown action %d", req.kind)), nil, nil
	}
}

// Handle serves IPC commands for the owner session. Mutating commands are
// queued to Run and fail when no Run loop is draining them.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return c.response("status")
	case ipc.CommandNext:
		return c.enqueue(ctx, actionNext, "")
	case ipc.CommandDraft:
		return c.enqueue(ctx, actionDraft, req.Text)
	case ipc.CommandAppend:
		return c.enqueue(ctx, actionAppend, req.Text)
	case ipc.CommandStart:
		return c.enqueue(ctx, actionStart, "")
	case ipc.CommandRestart:
		return c.enqueue(ctx, actionRestart, "")
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

func (c *Controller) enqueue(ctx context.Context, kind action, text string) ipc.Response {
	req := actionRequest{kind: kind, text: text, reply: make(chan ipc.Response, 1)}

	select {
	case c.actions <- req:
	case <-ctx.Done():
		return c.failure(ctx.Err())
	}

	select {
	case resp := <-req.reply:
		return resp
	case <-ctx.Done():
		return c.failure(ctx.Err())
	}
}

func (c *Controller) response(message string) ipc.Response {
	snap := c.Snapshot()
	return ipc.Response{
		OK:         true,
		State:      string(snap.State),
		Message:    message,
		Position:   snap.Position,
		Total:      snap.Total,
		Countdown:  snap.Countdown,
		Question:   snap.Question.Question,
		Draft:      snap.Draft,
		Capture:    string(snap.Capture.State),
		Level:      snap.Capture.Level,
		Transcript: snap.Transcript,
	}
}

func (c *Controller) failure(err error) ipc.Response {
	resp := c.response("")
	resp.OK = false
	resp.Error = err.Error()
	return resp
}

// IsUsageError reports whether err is a rejected user action rather than a failure.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrEmptyDraft) || errors.Is(err, ErrNotActive) || errors.Is(err, ErrEnded)
}
