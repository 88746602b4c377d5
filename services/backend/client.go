package backendsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

// ResourcePaths maps each process to its upstream collection, relative to the base URL.
var ResourcePaths = map[lifecycle.ProcessType]string{
	lifecycle.ProcessPhDAdmission: "/phd/applications",
	lifecycle.ProcessLeave:        "/leave-requests",
	lifecycle.ProcessWorkflow:     "/workflow-instances",
}

var errUnexpectedStatus = errors.New("unexpected upstream response")

// Client reads snapshots from, and forwards transitions to, the upstream REST API that owns lifecycle statuses.
// Every request is bounded by the configured timeout and guarded by a circuit breaker.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[any]
	log     core.Logger
}

var (
	_ snapshot.Repository   = (*Client)(nil) // interface compliance check
	_ snapshot.Transitioner = (*Client)(nil)
)

func NewClient(conf core.BackendConfig, logger core.Logger) *Client {
	threshold := conf.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Interval:    conf.BreakerInterval,
		Timeout:     conf.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// upstream 4xx answers are the caller's problem, not an unhealthy backend
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", map[string]interface{}{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		token:   conf.Token,
		timeout: conf.Timeout,
		http:    &http.Client{},
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		log:     logger,
	}
}

type statusError struct {
	code int
	body string
}

func (err *statusError) Error() string {
	return fmt.Sprintf("upstream answered %d: %s", err.code, err.body)
}

func isClientError(err error) bool {
	sErr, ok := errors.Cause(err).(*statusError)
	return ok && sErr.code >= 400 && sErr.code < 500
}

// upstreamSnapshot is the entity payload of the upstream API.
type upstreamSnapshot struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Title     string     `json:"title"`
	DueAt     *time.Time `json:"due_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (us upstreamSnapshot) snapshot(pt lifecycle.ProcessType) snapshot.Snapshot {
	snap := snapshot.Snapshot{
		ID:        us.ID,
		Process:   pt,
		Status:    lifecycle.ParseStatus(us.Status),
		Title:     us.Title,
		UpdatedAt: us.UpdatedAt.UTC(),
	}
	if us.DueAt != nil {
		due := us.DueAt.UTC()
		snap.DueAt = &due
	}
	return snap
}

// envelope accepts both bare payloads and {"data": ...} wrapped ones.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func unwrap(body []byte) []byte {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return body
}

func (c *Client) resourceURL(pt lifecycle.ProcessType, elem ...string) (string, error) {
	path, ok := ResourcePaths[pt]
	if !ok {
		return "", &lifecycle.UnknownProcessTypeError{Type: pt}
	}
	u := c.baseURL + path
	for _, e := range elem {
		u += "/" + strings.Trim(e, "/")
	}
	return u, nil
}

// do runs one request through the breaker and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, u string, body io.Reader) ([]byte, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		reqCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		req, err := http.NewRequestWithContext(reqCtx, method, u, body)
		if err != nil {
			return nil, errors.Wrap(err, "building request")
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, errors.Wrap(err, "reading response")
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
		}
		return data, nil
	})
	if err != nil {
		return nil, c.mapErr(ctx, method, u, err)
	}
	return res.([]byte), nil
}

// mapErr translates transport failures into snapshot errors.
// Timeouts, unreachable upstream, 5xx answers and an open breaker all map to snapshot.ErrUnknownState.
// A 401/403 means the service token is not accepted: it is never the end user's fault.
func (c *Client) mapErr(ctx context.Context, method, u string, err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return errors.Wrap(snapshot.ErrUnknownState, "circuit breaker open")
	}
	if sErr, ok := errors.Cause(err).(*statusError); ok {
		switch sErr.code {
		case http.StatusNotFound:
			return snapshot.ErrNotFound
		case http.StatusConflict, http.StatusPreconditionFailed:
			return snapshot.ErrStaleStatus
		case http.StatusUnauthorized, http.StatusForbidden:
			c.log.Error("upstream refused credentials", map[string]interface{}{"method": method, "url": u, "code": sErr.code})
			return errors.Wrapf(snapshot.ErrStoreRefused, "%s %s: %v", method, u, sErr)
		case http.StatusUnprocessableEntity:
			return errors.Wrapf(snapshot.ErrTransitionRejected, "%s %s: %v", method, u, sErr)
		}
		if sErr.code >= 500 {
			return errors.Wrapf(snapshot.ErrUnknownState, "%s %s: %v", method, u, sErr)
		}
		return errors.Wrapf(errUnexpectedStatus, "%s %s: %v", method, u, sErr)
	}
	if ctx.Err() == context.Canceled {
		return errors.Wrap(ctx.Err(), "request cancelled")
	}
	c.log.Warn("upstream unreachable", map[string]interface{}{"method": method, "url": u, "error": err.Error()})
	return errors.Wrapf(snapshot.ErrUnknownState, "%s %s: %v", method, u, err)
}

func (c *Client) GetSnapshot(ctx context.Context, pt lifecycle.ProcessType, id string) (snapshot.Snapshot, error) {
	u, err := c.resourceURL(pt, url.PathEscape(id))
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	var us upstreamSnapshot
	if err = json.Unmarshal(unwrap(body), &us); err != nil {
		return snapshot.Snapshot{}, errors.Wrap(err, "decoding snapshot")
	}
	if us.ID == "" {
		us.ID = id
	}
	return us.snapshot(pt), nil
}

func (c *Client) QuerySnapshots(ctx context.Context, filter snapshot.QueryFilter) ([]snapshot.Snapshot, error) {
	u, err := c.resourceURL(filter.Process)
	if err != nil {
		return nil, err
	}
	if q := encodeFilter(filter); len(q) > 0 {
		u += "?" + q.Encode()
	}
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var uss []upstreamSnapshot
	if err = json.Unmarshal(unwrap(body), &uss); err != nil {
		return nil, errors.Wrap(err, "decoding snapshots")
	}
	snaps := make([]snapshot.Snapshot, 0, len(uss))
	for _, us := range uss {
		snaps = append(snaps, us.snapshot(filter.Process))
	}
	return snaps, nil
}

// Transition posts to the action endpoint of the entity. The upstream re-validates the transition and answers
// 409 when the status moved since it was read.
func (c *Client) Transition(ctx context.Context, snap snapshot.Snapshot, action lifecycle.Action) error {
	endpoint := action.Endpoint
	if endpoint == "" {
		endpoint = strings.ToLower(string(action.ID))
	}
	u, err := c.resourceURL(snap.Process, url.PathEscape(snap.ID), endpoint)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"action":          action.ID,
		"expected_status": snap.Status,
	})
	if err != nil {
		return errors.Wrap(err, "encoding transition")
	}
	_, err = c.do(ctx, http.MethodPost, u, bytes.NewReader(payload))
	return err
}

func encodeFilter(filter snapshot.QueryFilter) url.Values {
	q := make(url.Values)
	for _, st := range filter.Statuses {
		q.Add("status", st)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if !filter.DueFrom.IsZero() {
		q.Set("due_from", filter.DueFrom.UTC().Format(time.RFC3339))
	}
	if !filter.DueTo.IsZero() {
		q.Set("due_to", filter.DueTo.UTC().Format(time.RFC3339))
	}
	if len(filter.Orderings) > 0 {
		ords := make([]string, 0, len(filter.Orderings))
		for _, o := range filter.Orderings {
			if o.Ascending {
				ords = append(ords, o.Field)
			} else {
				ords = append(ords, "-"+o.Field)
			}
		}
		q.Set("ordering", strings.Join(ords, ","))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	return q
}
