// Package testrail maps TestRail API v2 endpoints to Go calls. Every call issues
// a single request and returns a Future holding the raw response body.
package testrail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/testrail-gateway/pkg/httpclient"
)

const (
	// APIPrefix is appended to the normalized base URL.
	APIPrefix = "index.php?/api/v2/"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string
	Password string

	Timeout            time.Duration
	InsecureSkipVerify bool

	// HTTPClient overrides the resty transport built from Timeout and InsecureSkipVerify.
	HTTPClient httpclient.Client
	Logger     Logger
	Observers  []Observer
}

// Client issues requests against a single TestRail instance. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	apiURL    string
	auth      string
	http      httpclient.Client
	log       Logger
	observers []Observer

	Cases    *CasesService
	Projects *ProjectsService
	Results  *ResultsService
	Runs     *RunsService
	Suites   *SuitesService
	Tests    *TestsService
}

// New builds a client from opts.
func New(opts Options) (*Client, error) {
	apiURL, err := NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	transport := opts.HTTPClient
	if transport == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		transport = httpclient.NewRestyClient(httpclient.Options{
			Timeout:            timeout,
			InsecureSkipVerify: opts.InsecureSkipVerify,
		})
	}

	observers := make([]Observer, 0, len(opts.Observers))
	for _, o := range opts.Observers {
		if o != nil {
			observers = append(observers, o)
		}
	}

	c := &Client{
		apiURL:    apiURL,
		auth:      BasicAuth(opts.Username, opts.Password),
		http:      transport,
		log:       ensureLogger(opts.Logger),
		observers: observers,
	}
	c.Cases = &CasesService{c: c}
	c.Projects = &ProjectsService{c: c}
	c.Results = &ResultsService{c: c}
	c.Runs = &RunsService{c: c}
	c.Suites = &SuitesService{c: c}
	c.Tests = &TestsService{c: c}
	return c, nil
}

// NormalizeBaseURL ensures a single trailing slash and appends APIPrefix.
func NormalizeBaseURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", ErrEmptyBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + APIPrefix, nil
}

// BasicAuth returns the Authorization header value for the given credentials.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// APIURL returns the absolute URL requests are built on.
func (c *Client) APIURL() string { return c.apiURL }

// headers returns a fresh header set for one request.
func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": c.auth,
		"Content-Type":  "application/json",
	}
}

func (c *Client) get(ctx context.Context, path string) *Future {
	return c.send(ctx, http.MethodGet, path, nil)
}

// post sends params as JSON. Absent params (nil, or a nil map, slice or
// pointer) send no body at all.
func (c *Client) post(ctx context.Context, path string, params any) *Future {
	var body []byte
	if !absent(params) {
		raw, err := json.Marshal(params)
		if err != nil {
			return rejected(fmt.Errorf("marshal %s params: %w", operationName(path), err))
		}
		body = raw
	}
	return c.send(ctx, http.MethodPost, path, body)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) *Future {
	if ctx == nil {
		ctx = context.Background()
	}

	req := httpclient.Request{
		Method:  method,
		URL:     c.apiURL + path,
		Headers: c.headers(),
		Body:    body,
	}

	f := newFuture()
	go func() {
		start := time.Now()
		resp, err := c.http.Do(ctx, req)

		ex := Exchange{
			Method:     method,
			Path:       path,
			Operation:  operationName(path),
			BodyBytes:  len(body),
			Duration:   time.Since(start),
			OccurredAt: start.UTC(),
		}

		if err != nil {
			ex.Error = err.Error()
			c.log.ErrorObj("testrail request failed", "testrail_error", map[string]any{
				"method": method,
				"path":   path,
				"error":  err.Error(),
			})
			c.notify(ctx, ex)
			f.reject(&RequestError{Method: method, Path: path, Err: err})
			return
		}

		ex.StatusCode = resp.StatusCode()
		if ex.StatusCode != http.StatusOK {
			ex.Error = ErrNon200Response.Error()
			c.log.ErrorObj("testrail non-200 response", "testrail_response", map[string]any{
				"method":      method,
				"path":        path,
				"status_code": ex.StatusCode,
				"body":        string(resp.Body()),
			})
			c.notify(ctx, ex)
			f.reject(&RequestError{Method: method, Path: path, StatusCode: ex.StatusCode})
			return
		}

		ex.OK = true
		c.log.DebugObj("testrail request completed", "testrail_exchange", ex)
		c.notify(ctx, ex)
		f.resolve(string(resp.Body()))
	}()
	return f
}

func (c *Client) notify(ctx context.Context, ex Exchange) {
	if len(c.observers) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, o := range c.observers {
		o.Observe(ctx, ex)
	}
}

func absent(params any) bool {
	if params == nil {
		return true
	}
	switch v := reflect.ValueOf(params); v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
