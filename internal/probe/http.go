package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const (
	// DefaultUserAgent identifies vigil to the monitored endpoint.
	DefaultUserAgent = "vigil/1.0"

	// maxBodyBytes caps how much of the response body is drained. The VIES
	// responses are a few hundred bytes; anything past this limit does not
	// change the outcome of a content check.
	maxBodyBytes = 1 << 20
)

// Failure classifications recorded in Measurement.Error for requests that
// never completed.
const (
	errTimeout    = "timeout"
	errConnection = "connection_error"
)

// HTTPProbe issues a single HTTP request against a target URL with a bounded
// timeout and converts the outcome into a Measurement.
type HTTPProbe struct {
	TargetName string
	TargetURL  string
	Timeout    time.Duration

	// Method defaults to GET when empty.
	Method string

	// UserAgent defaults to DefaultUserAgent when empty.
	UserAgent string

	// ExpectedContent, when non-empty, must appear in the response body for
	// the check to count as a success. The VIES endpoint is checked for
	// "isValid" so that a 200 with an error page still registers as a failure.
	ExpectedContent string

	client *http.Client
}

// NewHTTPProbe creates an HTTP probe for the given target.
func NewHTTPProbe(name, url string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		TargetName: name,
		TargetURL:  url,
		Timeout:    timeout,
		client:     &http.Client{Timeout: timeout},
	}
}

// Name returns the target name
func (p *HTTPProbe) Name() string {
	return p.TargetName
}

// URL returns the target URL
func (p *HTTPProbe) URL() string {
	return p.TargetURL
}

// Execute performs one request and returns the Measurement. Transport
// failures and non-2xx responses are recorded in the Measurement, never
// returned as an error. The only error path is request construction, which
// means the target URL is unusable.
func (p *HTTPProbe) Execute(ctx context.Context) (Measurement, error) {
	method := p.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, p.TargetURL, nil)
	if err != nil {
		return Measurement{}, fmt.Errorf("target %q: build request: %w", p.TargetName, err)
	}

	ua := p.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	// Accept-Encoding is left to the transport so gzip bodies arrive decoded
	// for the content check.
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	m := Measurement{
		Timestamp: start.UTC(),
		Name:      p.TargetName,
		URL:       p.TargetURL,
	}

	resp, err := p.client.Do(req)
	if err != nil {
		m.ResponseTimeMs = roundMs(time.Since(start))
		reason := classifyError(err)
		m.Error = &reason
		return m, nil
	}
	defer resp.Body.Close()

	// Drain the body so the measured duration covers the full exchange and
	// the content check has something to look at.
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	m.ResponseTimeMs = roundMs(time.Since(start))
	code := resp.StatusCode
	m.StatusCode = &code

	switch {
	case readErr != nil:
		reason := classifyError(readErr)
		m.Error = &reason
	case code < 200 || code >= 300:
		reason := resp.Status
		m.Error = &reason
	case p.ExpectedContent != "" && !strings.Contains(string(body), p.ExpectedContent):
		reason := "unexpected response content"
		m.Error = &reason
	default:
		m.Success = true
	}

	return m, nil
}

// classifyError maps a transport error to the short failure strings carried
// in the result log. Unrecognized errors keep their original message.
func classifyError(err error) string {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return errConnection
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return errConnection
	}
	var de *net.DNSError
	if errors.As(err, &de) {
		return errConnection
	}
	return err.Error()
}
