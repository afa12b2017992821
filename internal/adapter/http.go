package adapter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/utils"
	"github.com/MKhiriev/resource-sync/models"
)

type httpDataSource struct {
	client  *utils.HTTPClient
	limiter *rate.Limiter

	token string

	logger *logger.Logger
}

// NewHTTPDataSource constructs an HTTP/REST implementation of [DataSource].
// It normalises and validates the base URL from cfg.BaseURL, configures the
// underlying HTTP client with the resolved base URL and request timeout, and
// installs a token bucket limiter when cfg.RateLimit is positive.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPDataSource(cfg config.Adapter, log *logger.Logger) (DataSource, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	client := utils.NewHTTPClient().
		WithBaseURL(baseURL).
		WithTimeout(cfg.RequestTimeout)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &httpDataSource{
		client:  client,
		limiter: limiter,
		token:   strings.TrimSpace(cfg.Token),
		logger:  log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Download implements [DataSource]. It GETs req.URL and decodes the body as a
// resource. Returns an error if the request, the response status, or the
// decoding fails.
func (h *httpDataSource) Download(ctx context.Context, req models.DownloadRequest) (models.Resource, error) {
	log := logger.FromContext(ctx)

	r, err := h.authedRequest(ctx, req.Headers)
	if err != nil {
		return models.Resource{}, err
	}

	resp, err := r.Get(resolvePath(req.URL))
	if err != nil {
		log.Err(err).Str("func", "httpDataSource.Download").Str("url", req.URL).Msg("download request failed")
		return models.Resource{}, fmt.Errorf("download request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().Err(err).Str("func", "httpDataSource.Download").Str("url", req.URL).Int("status", resp.StatusCode()).Msg("download rejected")
		return models.Resource{}, err
	}

	res, err := models.ParseResource(resp.Body())
	if err != nil {
		return models.Resource{}, fmt.Errorf("%w: decode download response: %w", ErrInvalidResponse, err)
	}

	return res, nil
}

// Upload implements [DataSource]. It sends req.Body with req.Method to
// req.URL. Returns the echoed resource, or an empty one carrying the
// ETag/Last-Modified headers when the server answered without a body.
func (h *httpDataSource) Upload(ctx context.Context, req models.UploadRequest) (models.Resource, error) {
	log := logger.FromContext(ctx)

	r, err := h.authedRequest(ctx, req.Headers)
	if err != nil {
		return models.Resource{}, err
	}
	if len(req.Body) > 0 {
		if r.Header.Get("Content-Type") == "" {
			r.SetHeader("Content-Type", models.ContentTypeJSON)
		}
		r.SetBody([]byte(req.Body))
	}

	resp, err := r.Execute(req.Method, resolvePath(req.URL))
	if err != nil {
		log.Err(err).Str("func", "httpDataSource.Upload").Str("method", req.Method).Str("url", req.URL).Msg("upload request failed")
		return models.Resource{}, fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().Err(err).Str("func", "httpDataSource.Upload").Str("method", req.Method).Str("url", req.URL).Int("status", resp.StatusCode()).Msg("upload rejected")
		return models.Resource{}, err
	}

	meta := metaFromHeaders(resp.Header())
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return models.Resource{Meta: meta}, nil
	}

	res, err := models.ParseResource(body)
	if err != nil {
		return models.Resource{}, fmt.Errorf("%w: decode upload response: %w", ErrInvalidResponse, err)
	}
	if res.Meta.VersionID == "" {
		res.Meta.VersionID = meta.VersionID
	}
	if res.Meta.LastUpdated == nil {
		res.Meta.LastUpdated = meta.LastUpdated
	}

	return res, nil
}

// headerRequestID carries the sync run id so server logs can be correlated.
const headerRequestID = "X-Request-Id"

// authedRequest waits for the rate limiter and returns a request carrying the
// bearer token and headers.
func (h *httpDataSource) authedRequest(ctx context.Context, headers map[string]string) (*resty.Request, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req := h.client.R().
		SetContext(ctx).
		SetHeaders(headers)
	if h.token != "" {
		req.SetAuthToken(h.token)
	}
	if runID, ok := utils.GetRunIDFromContext(ctx); ok {
		req.SetHeader(headerRequestID, runID)
	}
	return req, nil
}

// resolvePath keeps absolute urls (next links) and makes relative ones
// relative to the base url.
func resolvePath(u string) string {
	if strings.Contains(u, "://") {
		return u
	}
	return "/" + strings.TrimLeft(u, "/")
}

func metaFromHeaders(h http.Header) models.Meta {
	var meta models.Meta
	if etag := h.Get("ETag"); etag != "" {
		meta.VersionID = models.VersionFromETag(etag)
	}
	if lm := h.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			meta.LastUpdated = &t
		} else if t, err := time.Parse(time.RFC3339Nano, lm); err == nil {
			meta.LastUpdated = &t
		}
	}
	return meta
}
