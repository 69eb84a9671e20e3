// Package actions executes user verdicts against the backend and drives
// the follow-up re-polls that bring the dashboard back in sync.
//
// Actions never mutate the mission snapshot optimistically: every visible
// state change arrives through a subsequent poll, so a failed action
// leaves the dashboard exactly as it was.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"missiondeck/internal/api"
	"missiondeck/internal/logging"
	"missiondeck/internal/mission"
	"missiondeck/internal/viewstate"
)

// ApprovalSettleDelay is how long after an approval the backend needs to
// move the mission on before a second confirmation poll is worthwhile.
const ApprovalSettleDelay = 2500 * time.Millisecond

// ErrResumeInFlight reports that a resume for the same mission has not
// finished yet.
var ErrResumeInFlight = errors.New("resume already in flight for this mission")

// Backend is the slice of the API client the dispatcher needs.
type Backend interface {
	RunWorkflow(ctx context.Context, request api.WorkflowRequest) (*api.WorkflowResponse, error)
	Approve(ctx context.Context, missionID string, action api.ApprovalAction) error
	Delete(ctx context.Context, missionID string) error
}

// Refresher triggers snapshot re-polls after actions land.
type Refresher interface {
	Refresh()
	RefreshAfter(delay time.Duration)
}

// Dispatcher routes user actions to the backend. One dispatcher serves all
// commands of a watch session.
type Dispatcher struct {
	backend   Backend
	refresher Refresher
	view      *viewstate.State
	logger    *slog.Logger

	mu       sync.Mutex
	resuming map[string]struct{}
}

// NewDispatcher wires a dispatcher. view may be nil for one-shot commands
// that carry no display state.
func NewDispatcher(backend Backend, refresher Refresher, view *viewstate.State, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		backend:   backend,
		refresher: refresher,
		view:      view,
		logger:    logging.NewComponentLogger(logger, "actions"),
		resuming:  make(map[string]struct{}),
	}
}

// Approve posts an APPROVE verdict. On success it re-polls immediately and
// schedules exactly one more poll after the settle delay, because
// publication often finishes between the two.
func (d *Dispatcher) Approve(ctx context.Context, missionID string) error {
	if err := d.backend.Approve(ctx, missionID, api.ActionApprove); err != nil {
		return err
	}
	d.logger.Info("mission approved", logging.String(logging.FieldMissionID, missionID))
	d.refresher.Refresh()
	d.refresher.RefreshAfter(ApprovalSettleDelay)
	return nil
}

// Reject posts a REJECT verdict and re-polls once. Rejection settles
// server-side in a single transition, so no settle poll is scheduled.
func (d *Dispatcher) Reject(ctx context.Context, missionID string) error {
	if err := d.backend.Approve(ctx, missionID, api.ActionReject); err != nil {
		return err
	}
	d.logger.Info("mission rejected", logging.String(logging.FieldMissionID, missionID))
	d.refresher.Refresh()
	return nil
}

// Delete removes a single mission and re-polls.
func (d *Dispatcher) Delete(ctx context.Context, missionID string) error {
	if err := d.backend.Delete(ctx, missionID); err != nil {
		return err
	}
	d.logger.Info("mission deleted", logging.String(logging.FieldMissionID, missionID))
	d.refresher.Refresh()
	return nil
}

// DeleteTopic removes every mission belonging to topic, sequentially. The
// first failure stops the fan-out; a re-poll still runs so the dashboard
// reflects whatever subset was deleted. On full success the topic filter
// is dropped if it pointed at the deleted topic.
func (d *Dispatcher) DeleteTopic(ctx context.Context, topic string, missions []mission.Mission) error {
	deleted := 0
	for _, m := range missions {
		if m.Topic != topic {
			continue
		}
		if err := d.backend.Delete(ctx, m.ID); err != nil {
			d.logger.Warn("topic deletion aborted",
				logging.String(logging.FieldTopic, topic),
				logging.Int("deleted", deleted),
				logging.Error(err))
			d.refresher.Refresh()
			return fmt.Errorf("delete topic %q: %w", topic, err)
		}
		deleted++
	}
	d.logger.Info("topic deleted",
		logging.String(logging.FieldTopic, topic),
		logging.Int("deleted", deleted))
	if d.view != nil {
		d.view.DropTopicIfSelected(topic)
	}
	d.refresher.Refresh()
	return nil
}

// Resume re-submits a failed mission's workflow, carrying its stored
// parameters and falling back to the defaults for any it never recorded.
// Concurrent resumes of the same mission are rejected with
// ErrResumeInFlight.
func (d *Dispatcher) Resume(ctx context.Context, m mission.Mission) (*api.WorkflowResponse, error) {
	d.mu.Lock()
	if _, busy := d.resuming[m.ID]; busy {
		d.mu.Unlock()
		return nil, ErrResumeInFlight
	}
	d.resuming[m.ID] = struct{}{}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.resuming, m.ID)
		d.mu.Unlock()
	}()

	request := api.WorkflowRequest{
		Topic:       m.Topic,
		Platform:    m.ResumePlatform(),
		Duration:    m.ResumeDuration(),
		Tone:        m.ResumeTone(),
		UseCaptions: m.CaptionsEnabled(),
	}
	ack, err := d.backend.RunWorkflow(ctx, request)
	if err != nil {
		return nil, err
	}
	d.logger.Info("mission resumed",
		logging.String(logging.FieldMissionID, m.ID),
		logging.String(logging.FieldTopic, m.Topic))
	d.refresher.Refresh()
	return ack, nil
}

// Launch starts a brand-new mission workflow and re-polls.
func (d *Dispatcher) Launch(ctx context.Context, request api.WorkflowRequest) (*api.WorkflowResponse, error) {
	ack, err := d.backend.RunWorkflow(ctx, request)
	if err != nil {
		return nil, err
	}
	d.logger.Info("mission launched", logging.String(logging.FieldTopic, request.Topic))
	d.refresher.Refresh()
	return ack, nil
}
