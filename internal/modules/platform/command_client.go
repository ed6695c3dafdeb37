package platform

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Outcome classifies a single propagation attempt.
type Outcome int

const (
	// OutcomeDelivered means the command service answered 2xx.
	OutcomeDelivered Outcome = iota + 1
	// OutcomeRejected means the command service answered with any other status.
	OutcomeRejected
	// OutcomeTransportFailure means no response was obtained.
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// SendResult is returned by value from every propagation attempt. Err is set
// only for OutcomeTransportFailure; StatusCode only when a response arrived.
type SendResult struct {
	Outcome    Outcome
	StatusCode int
	Err        error
}

// Propagator forwards newly created platforms to the command service.
// Implementations must not fail the caller: every outcome is a SendResult.
type Propagator interface {
	Send(ctx context.Context, platform ReadModel) SendResult
}

// HTTPCommandClient posts platforms to the command service. It makes exactly
// one attempt per Send.
type HTTPCommandClient struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

// NewHTTPCommandClient builds a client for the command service endpoint at url.
// A nil httpClient uses a zero http.Client.
func NewHTTPCommandClient(httpClient *http.Client, url string, logger *slog.Logger) *HTTPCommandClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPCommandClient{httpClient: httpClient, url: url, logger: logger}
}

func (c *HTTPCommandClient) Send(ctx context.Context, platform ReadModel) SendResult {
	res := c.send(ctx, platform)
	switch res.Outcome {
	case OutcomeDelivered:
		c.logger.InfoContext(ctx, "sync POST to command service was OK",
			"platform_id", platform.ID, "status", res.StatusCode)
	case OutcomeRejected:
		c.logger.ErrorContext(ctx, "sync POST to command service was NOT OK",
			"platform_id", platform.ID, "status", res.StatusCode)
	default:
		c.logger.ErrorContext(ctx, "sync POST to command service failed",
			"platform_id", platform.ID, "error", res.Err)
	}
	return res
}

func (c *HTTPCommandClient) send(ctx context.Context, platform ReadModel) SendResult {
	body, err := json.Marshal(platform)
	if err != nil {
		return SendResult{Outcome: OutcomeTransportFailure, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return SendResult{Outcome: OutcomeTransportFailure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", reqID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SendResult{Outcome: OutcomeTransportFailure, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return SendResult{Outcome: OutcomeDelivered, StatusCode: resp.StatusCode}
	}
	return SendResult{Outcome: OutcomeRejected, StatusCode: resp.StatusCode}
}
