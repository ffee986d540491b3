// Package httptask is the HTTP producer task: it performs a request and
// publishes ResponseBody, ResponseHeader and ResponseCode into the task's
// scope. JSON bodies are stored as navigable trees and XML bodies as
// parsed documents, so later tasks can drill into them with path
// expressions like ${Task1.ResponseBody[0].key1}.
package httptask

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/saranshbhandari/TaskManagerUtil/runtime"
	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

// Config holds the HTTP task configuration with declarative tags.
type Config struct {
	Timeout     time.Duration `yaml:"timeout" default:"30s" validate:"gte=0"`
	MaxRetries  int           `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
	Debug       bool          `yaml:"debug" default:"false"`
	RetryWaitMS int           `yaml:"retry_wait_ms" default:"100" validate:"gte=0,lte=10000"`
}

// Settings is the per-invocation input decoded from workflow settings.
type Settings struct {
	URL         string            `json:"url" validate:"required,url"`
	Method      string            `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_parameters"`
	Body        map[string]any    `json:"body"`
}

type Task struct {
	l      *slog.Logger
	client *resty.Client
}

// New builds the task's resty client from the config, applying struct-tag
// defaults and validation first so a zero Config still gets a timeout and
// retry budget.
func New(l *slog.Logger, cfg Config) (*Task, error) {
	if err := runtime.InitializeSettings(&cfg, nil); err != nil {
		return nil, fmt.Errorf("invalid http task config: %w", err)
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(time.Duration(cfg.RetryWaitMS) * time.Millisecond).
		SetDebug(cfg.Debug)
	return &Task{l: l, client: client}, nil
}

func (t *Task) Execute(e *runtime.Execution, raw map[string]any) (map[string]any, error) {
	var in Settings
	if err := runtime.InitializeSettings(&in, raw); err != nil {
		return nil, err
	}

	req := t.client.R().
		SetContext(e).
		SetHeaders(in.Headers).
		SetQueryParams(in.QueryParams)
	if in.Body != nil {
		req.SetBody(in.Body)
	}

	resp, err := req.Execute(in.Method, in.URL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	outputs := map[string]any{
		"ResponseCode":   resp.StatusCode(),
		"ResponseHeader": headerMap(resp),
	}

	body := string(resp.Body())
	contentType := resp.Header().Get("Content-Type")
	switch {
	case strings.Contains(contentType, "json"):
		tree, perr := vars.ParseJSON(body)
		if perr != nil {
			t.l.WarnContext(e, "Response declared JSON but did not parse", "url", in.URL, "error", perr)
			outputs["ResponseBody"] = body
		} else {
			outputs["ResponseBody"] = tree
		}
	case strings.Contains(contentType, "xml"):
		doc, perr := vars.ParseXML(body)
		if perr != nil {
			t.l.WarnContext(e, "Response declared XML but did not parse", "url", in.URL, "error", perr)
			outputs["ResponseBody"] = body
		} else {
			outputs["ResponseBody"] = body
			outputs["ResponseXml"] = doc
		}
	default:
		outputs["ResponseBody"] = body
	}

	return outputs, nil
}

// headerMap flattens response headers to single values, last value wins for
// repeated headers.
func headerMap(resp *resty.Response) map[string]string {
	out := make(map[string]string)
	for name, values := range resp.Header() {
		if len(values) > 0 {
			out[name] = values[len(values)-1]
		}
	}
	return out
}
