package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
}

// Transport speaks one backend's wire format. Implementations should return
// *GenerationError where they can classify the failure; anything else is classified
// by BackendClient.
type Transport interface {
	Name() string
	Complete(ctx context.Context, req GenerateRequest) (string, error)
}

// Pinger is implemented by transports that can cheaply check the backend is up.
// ErrPingUnsupported means the transport cannot tell.
type Pinger interface {
	Ping(ctx context.Context) error
}

type BackendClientInterface interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Ping(ctx context.Context) error
	Provider() string
}

// BackendClient is the single seam between services and whichever backend is configured.
type BackendClient struct {
	transport    Transport
	defaultModel string
	timeout      time.Duration
	logger       *zap.Logger
}

func NewBackendClient(transport Transport, defaultModel string, timeout time.Duration, logger *zap.Logger) *BackendClient {
	return &BackendClient{
		transport:    transport,
		defaultModel: defaultModel,
		timeout:      timeout,
		logger:       logger,
	}
}

func (b *BackendClient) Provider() string {
	return b.transport.Name()
}

func (b *BackendClient) Generate(ctx context.Context, req GenerateRequest) (text string, err error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", NewGenerationError(ErrBackendBadResponse, "prompt cannot be empty", nil)
	}
	if req.Model == "" {
		req.Model = b.defaultModel
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = NewGenerationError(ErrBackendBadResponse, "backend transport panicked", fmt.Errorf("%v", r))
		}
		if err != nil {
			b.logger.Warn("Generation failed",
				zap.String("provider", b.transport.Name()),
				zap.String("model", req.Model),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return
		}
		b.logger.Debug("Generation completed",
			zap.String("provider", b.transport.Name()),
			zap.String("model", req.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("chars", len(text)))
	}()

	text, err = b.transport.Complete(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", NewGenerationError(ErrBackendBadResponse, "backend returned empty text", nil)
	}
	return text, nil
}

func (b *BackendClient) Ping(ctx context.Context) error {
	p, ok := b.transport.(Pinger)
	if !ok {
		return ErrPingUnsupported
	}
	if err := p.Ping(ctx); err != nil {
		if errors.Is(err, ErrPingUnsupported) {
			return err
		}
		return classifyError(err)
	}
	return nil
}

func classifyError(err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	if isUnreachable(err) {
		return NewGenerationError(ErrBackendUnreachable, "could not reach generation backend", err)
	}
	return NewGenerationError(ErrBackendBadResponse, "generation backend failed", err)
}

func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// transportError classifies the error returned by http.Client.Do.
func transportError(backend string, err error) *GenerationError {
	return NewGenerationError(ErrBackendUnreachable, fmt.Sprintf("error connecting to %s", backend), err)
}

// statusError turns a non-2xx response into a typed error, keeping a short body excerpt.
func statusError(backend string, resp *http.Response) *GenerationError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	kind := ErrBackendStatus
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		kind = ErrBackendAuth
	}
	return &GenerationError{
		Kind:       kind,
		Message:    fmt.Sprintf("%s returned status %d: %s", backend, resp.StatusCode, strings.TrimSpace(string(body))),
		StatusCode: resp.StatusCode,
	}
}
