package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/notify"
)

type AlertState int

const (
	AlertIdle AlertState = iota
	AlertProbing
	AlertTier1Pending
	AlertTier2Pending
	AlertDoneSuccess
	AlertDoneFailure
)

func (s AlertState) String() string {
	switch s {
	case AlertIdle:
		return "idle"
	case AlertProbing:
		return "probing"
	case AlertTier1Pending:
		return "tier1-pending"
	case AlertTier2Pending:
		return "tier2-pending"
	case AlertDoneSuccess:
		return "done-success"
	case AlertDoneFailure:
		return "done-failure"
	default:
		return "unknown"
	}
}

func (s AlertState) Done() bool {
	return s == AlertDoneSuccess || s == AlertDoneFailure
}

type alertEvent int

const (
	evStart alertEvent = iota
	evProbeOK
	evProbeFailed
	evTier1Delivered
	evTier1Declined
	evTier1Errored
	evTier2Delivered
	evTier2Declined
	evTier2Errored
)

var alertTransitions = map[AlertState]map[alertEvent]AlertState{
	AlertIdle: {
		evStart: AlertProbing,
	},
	AlertProbing: {
		evProbeOK:     AlertTier1Pending,
		evProbeFailed: AlertDoneFailure,
	},
	AlertTier1Pending: {
		evTier1Delivered: AlertDoneSuccess,
		evTier1Declined:  AlertTier2Pending,
		evTier1Errored:   AlertDoneFailure,
	},
	AlertTier2Pending: {
		evTier2Delivered: AlertDoneSuccess,
		evTier2Declined:  AlertDoneFailure,
		evTier2Errored:   AlertDoneFailure,
	},
}

// AlertResult describes how a delay alert attempt ended.
type AlertResult struct {
	State     AlertState
	Tier      int
	Simulated bool
	Message   string
	Surface   notify.Surface
}

type alertRun struct {
	d      *Dispatcher
	flight domain.Flight
	state  AlertState
	result AlertResult
}

// SendDelayAlert runs the two-tier alert flow for flight: a fast health probe,
// the unauthenticated legacy endpoint, then the authenticated endpoint if the
// legacy one did not deliver.
func (d *Dispatcher) SendDelayAlert(ctx context.Context, flight domain.Flight) AlertResult {
	if _, ok := d.requireIdentity(); !ok {
		return AlertResult{State: AlertIdle, Message: MsgSignInRequired, Surface: notify.SurfaceSignIn}
	}

	d.presenter.Notify(fmt.Sprintf(MsgAlertSending, flight.FlightNumber))

	run := &alertRun{d: d, flight: flight, state: AlertIdle}
	run.fire(evStart)
	for !run.state.Done() {
		var ev alertEvent
		switch run.state {
		case AlertProbing:
			ev = run.probe(ctx)
		case AlertTier1Pending:
			ev = run.tier1(ctx)
		case AlertTier2Pending:
			ev = run.tier2(ctx)
		}
		run.fire(ev)
	}

	run.result.State = run.state
	d.presenter.Notify(run.result.Message)
	if run.result.Surface != notify.SurfaceNone {
		d.presenter.ShowSurface(run.result.Surface)
	}
	return run.result
}

func (r *alertRun) fire(ev alertEvent) {
	next, ok := alertTransitions[r.state][ev]
	if !ok {
		r.d.logger.Error("alert: no transition", "state", r.state.String(), "event", int(ev))
		next = AlertDoneFailure
		if r.result.Message == "" {
			r.result.Message = MsgAlertServiceError
		}
	}
	r.state = next
}

func (r *alertRun) probe(ctx context.Context) alertEvent {
	probeCtx, cancel := context.WithTimeout(ctx, r.d.timeouts.Probe)
	defer cancel()

	if err := r.d.backend.Ping(probeCtx); err != nil {
		r.d.logger.Warn("alert: backend probe failed", "flight", r.flight.FlightNumber, "error", err)
		r.result.Message = MsgServiceUnavailable
		return evProbeFailed
	}
	return evProbeOK
}

func (r *alertRun) tier1(ctx context.Context) alertEvent {
	r.result.Tier = 1
	reqCtx, cancel := context.WithTimeout(ctx, r.d.timeouts.Legacy)
	defer cancel()

	resp, err := r.d.backend.SendLegacySMS(reqCtx, backend.LegacySMSRequest{
		FlightNumber: r.flight.FlightNumber,
		To:           r.d.defaultContact,
	})
	if err != nil && backend.IsTransport(err) {
		r.d.logger.Warn("alert: legacy endpoint unreachable", "flight", r.flight.FlightNumber, "error", err)
		r.result.Message = transportMessage(err)
		return evTier1Errored
	}
	if err == nil && resp != nil && resp.Success {
		r.delivered(resp)
		return evTier1Delivered
	}

	r.d.logger.Info("alert: legacy endpoint declined, trying authenticated endpoint", "flight", r.flight.FlightNumber, "error", err)
	return evTier1Declined
}

func (r *alertRun) tier2(ctx context.Context) alertEvent {
	r.result.Tier = 2
	token, err := r.d.session.Token(ctx)
	if err != nil {
		r.d.logger.Warn("alert: token", "error", err)
		r.result.Message = MsgAlertFailed
		return evTier2Declined
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.d.timeouts.Request)
	defer cancel()

	resp, err := r.d.backend.SendSMS(reqCtx, token, backend.SMSRequest{
		FlightNumber: r.flight.FlightNumber,
		Message:      alertMessage(r.flight),
	})
	if err != nil && backend.IsTransport(err) {
		r.d.logger.Warn("alert: authenticated endpoint unreachable", "flight", r.flight.FlightNumber, "error", err)
		r.result.Message = transportMessage(err)
		return evTier2Errored
	}
	if err == nil && resp != nil && resp.Success {
		r.delivered(resp)
		return evTier2Delivered
	}

	reason := ""
	if resp != nil {
		reason = strings.TrimSpace(resp.Error)
	}
	switch {
	case isContactNotRegistered(reason):
		r.result.Message = MsgContactNotRegistered
		r.result.Surface = notify.SurfaceContactRegistration
	case reason != "":
		r.result.Message = MsgAlertFailed + ": " + reason
	default:
		r.result.Message = MsgAlertFailed
	}
	r.d.logger.Warn("alert: authenticated endpoint declined", "flight", r.flight.FlightNumber, "reason", reason, "error", err)
	return evTier2Declined
}

func (r *alertRun) delivered(resp *backend.SMSResponse) {
	r.result.Simulated = resp.Simulated
	if resp.Simulated {
		r.result.Message = fmt.Sprintf(MsgAlertSimulated, r.flight.FlightNumber)
		return
	}
	r.result.Message = fmt.Sprintf(MsgAlertSent, r.flight.FlightNumber)
}

func transportMessage(err error) string {
	switch backend.Classify(err) {
	case backend.ClassTimeout:
		return MsgAlertTimeout
	case backend.ClassConnectivity:
		return MsgAlertConnectivity
	default:
		return MsgAlertServiceError
	}
}

func isContactNotRegistered(reason string) bool {
	return strings.EqualFold(reason, backend.ReasonContactNotRegistered)
}

func alertMessage(f domain.Flight) string {
	return fmt.Sprintf(alertTemplate, f.FlightNumber, f.From, f.To, f.StatusLabel())
}
