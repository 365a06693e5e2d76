package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

const (
	maxResponseBytes = 4 << 20
	maxLoggedBody    = 512
)

// ActionClient posts action envelopes to the portal backend endpoint.
type ActionClient struct {
	endpoint    string
	contentType string
	timeout     time.Duration
	vocab       config.Vocabulary
	httpClient  *http.Client
	cb          *gobreaker.CircuitBreaker
	metrics     *Metrics
}

var _ ports.ActionCaller = (*ActionClient)(nil)
var _ ports.HealthChecker = (*ActionClient)(nil)

func NewActionClient(cfg *config.Config, vocab config.Vocabulary, metrics *Metrics) *ActionClient {
	return &ActionClient{
		endpoint:    cfg.APIURL,
		contentType: cfg.ContentType,
		timeout:     cfg.RequestTimeout,
		vocab:       vocab,
		// Redirects are followed like the browser fetch did; the deadline
		// comes from the per-call context, not from Client.Timeout.
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cb:         config.NewCircuitBreaker(config.BreakerPortalAPI),
		metrics:    metrics,
	}
}

// Call sends one action and normalizes every outcome into a Response.
//
// The deadline starts when Call begins and is released on return. A response
// that arrives after the deadline is dropped together with its connection, so
// at most one outcome is ever produced per call.
func (c *ActionClient) Call(ctx context.Context, action string, params map[string]any) (resp domain.Response) {
	start := time.Now()
	requestID := uuid.NewString()
	outcome := OutcomeSuccess

	defer func() {
		if r := recover(); r != nil {
			log.Printf("portal gateway: action=%s request_id=%s recovered: %v", action, requestID, r)
			outcome = OutcomeTransportError
			resp = domain.Failure(c.vocab.Messages.Connection + fmt.Sprint(r))
		}
		elapsed := time.Since(start)
		c.metrics.observe(action, outcome, elapsed.Seconds())
		log.Printf("portal gateway: action=%s request_id=%s outcome=%s duration_ms=%d",
			action, requestID, outcome, elapsed.Milliseconds())
	}()

	if strings.TrimSpace(action) == "" {
		outcome = OutcomeInvalid
		return domain.Failure(c.vocab.Messages.InvalidAction)
	}

	body, err := encodeEnvelope(c.vocab, c.vocab.Action(action), params)
	if err != nil {
		log.Printf("portal gateway: action=%s request_id=%s cannot encode params: %v", action, requestID, err)
		outcome = OutcomeInvalid
		return domain.Failure(c.vocab.Messages.InvalidAction)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.cb.Execute(func() (interface{}, error) {
		return c.post(callCtx, body, requestID)
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeTimeout
			return domain.Failure(c.vocab.Messages.Timeout)
		}
		outcome = OutcomeTransportError
		log.Printf("portal gateway: action=%s request_id=%s transport error: %v", action, requestID, err)
		return domain.Failure(c.vocab.Messages.Connection + err.Error())
	}
	cancel()

	data, _ := raw.([]byte)
	payload, err := decodePayload(data)
	if err != nil {
		log.Printf("portal gateway: action=%s request_id=%s unparseable response (%v): %s",
			action, requestID, err, truncate(data))
		outcome = OutcomeMalformed
		return domain.Failure(c.vocab.Messages.Malformed)
	}

	resp = interpret(c.vocab, payload)
	if !resp.OK {
		outcome = OutcomeBackendError
	}
	return resp
}

func (c *ActionClient) post(ctx context.Context, body []byte, requestID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", c.contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("portal gateway: request_id=%s backend status %d", requestID, resp.StatusCode)
	}
	return data, nil
}

// Ping reports the portal API as unavailable while its breaker is open.
func (c *ActionClient) Ping(ctx context.Context) error {
	if c.cb.State() == gobreaker.StateOpen {
		return errors.New("portal API circuit breaker is open")
	}
	return nil
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}
