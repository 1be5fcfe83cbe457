package qsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL адрес dev-инстанса сервиса очередей
const DefaultBaseURL = "https://qs-dev.idi.ntnu.no/api"

// maxErrorBody сколько байт тела ошибки сохраняем в APIError
const maxErrorBody = 512

// Config параметры клиента
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// LegacyCookieAuth дополнительно отправляет Cookie: bearer=<token> на GET /subjects/{id}
	LegacyCookieAuth bool
	Logger           *zap.Logger
}

// Client клиент REST API сервиса очередей
type Client struct {
	baseURL          string
	httpClient       *http.Client
	legacyCookieAuth bool
	logger           *zap.Logger
}

// NewClient создаёт клиент
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:          baseURL,
		httpClient:       httpClient,
		legacyCookieAuth: cfg.LegacyCookieAuth,
		logger:           logger,
	}
}

// request описание одного вызова API
type request struct {
	method string
	path   string
	token  string
	body   interface{}
	cookie bool
}

// response тело и заголовки успешного ответа
type response struct {
	statusCode int
	header     http.Header
	cookies    []*http.Cookie
	body       []byte
}

// send выполняет запрос; не-2xx статус превращается в *APIError
func (c *Client) send(ctx context.Context, req request) (*response, error) {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
		if req.cookie && c.legacyCookieAuth {
			httpReq.Header.Set("Cookie", "bearer="+req.token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Queue API request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", req.method, req.path, err)
	}

	c.logger.Debug("Queue API request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(respBody))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &APIError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       text,
		}
	}

	return &response{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		cookies:    resp.Cookies(),
		body:       respBody,
	}, nil
}

// getJSON выполняет GET и декодирует JSON в out
func (c *Client) getJSON(ctx context.Context, path, token string, out interface{}) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return err
	}
	return decode(resp, path, out)
}

// empty пустое ли тело ответа (204 или нет данных)
func (r *response) empty() bool {
	return r.statusCode == http.StatusNoContent || len(bytes.TrimSpace(r.body)) == 0
}

func decode(resp *response, path string, out interface{}) error {
	if resp.empty() {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
