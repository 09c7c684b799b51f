package remote

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

	"github.com/agrisale/manager/internal/domain/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the sync server (10MB)
const maxResponseSize = 10 * 1024 * 1024

// TokenSource supplies the bearer token for sync server requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token loaded from configuration.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource creates a TokenSource pinned to the given token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the pinned token.
func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	if s.token == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "No sync server token configured")
	}
	return s.token, nil
}

var _ TokenSource = (*StaticTokenSource)(nil)

// Client is the HTTP transport for the sync server. It stamps each request
// with the bearer token, the workspace header and a request ID, and maps
// server failures onto the same error codes the local backend raises.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *zap.Logger
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		log:    log,
	}
}

// errorPayload is the server's error body shape
type errorPayload struct {
	Detail    string `json:"detail"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Details   struct {
		Current  string `json:"current"`
		Required string `json:"required"`
	} `json:"details"`
}

// do executes one request against the sync server. A non-nil out is filled
// from the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, workspaceID int64, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Workspace-ID", strconv.FormatInt(workspaceID, 10))
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.NewDomainError("UNKNOWN_ERROR", fmt.Sprintf("Sync server unreachable: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return shared.NewDomainError("UNKNOWN_ERROR", fmt.Sprintf("Failed to read server response: %v", err))
	}

	if resp.StatusCode >= 400 {
		c.log.Debug("sync server request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return translateError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return shared.NewDomainError("UNKNOWN_ERROR", fmt.Sprintf("Invalid server response: %v", err))
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, workspaceID int64, out any) error {
	return c.do(ctx, http.MethodGet, path, query, workspaceID, nil, out)
}

func (c *Client) post(ctx context.Context, path string, workspaceID int64, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, workspaceID, body, out)
}

func (c *Client) put(ctx context.Context, path string, workspaceID int64, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, workspaceID, body, out)
}

func (c *Client) delete(ctx context.Context, path string, workspaceID int64) error {
	return c.do(ctx, http.MethodDelete, path, nil, workspaceID, nil, nil)
}

// translateError maps a server failure onto the domain error taxonomy, so
// callers handle remote conflicts exactly like local ones.
func translateError(status int, body []byte) error {
	var payload errorPayload
	_ = json.Unmarshal(body, &payload)

	msg := payload.Detail
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	lower := strings.ToLower(msg)

	switch {
	case payload.ErrorCode == "INSUFFICIENT_STOCK" || strings.Contains(lower, "insufficient stock"):
		current, _ := decimal.NewFromString(payload.Details.Current)
		required, _ := decimal.NewFromString(payload.Details.Required)
		return ledger.NewInsufficientStockError(current, required)
	case status == http.StatusConflict || payload.ErrorCode == "VERSION_CONFLICT" || strings.Contains(lower, "version conflict"):
		return shared.ErrVersionConflict
	case status == http.StatusNotFound:
		return shared.ErrNotFound
	case payload.ErrorCode == "DUPLICATE" || strings.Contains(lower, "already exists"):
		return shared.ErrDuplicate
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return shared.NewDomainError("INVALID_INPUT", msg)
	default:
		return shared.NewDomainError("UNKNOWN_ERROR", fmt.Sprintf("Sync server returned %d: %s", status, msg))
	}
}

// num renders a decimal as a bare JSON number for request bodies.
func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
