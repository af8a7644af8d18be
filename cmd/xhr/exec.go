package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kbukum/xhrkit/bootstrap"
	"github.com/kbukum/xhrkit/data"
	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/provider"
	"github.com/kbukum/xhrkit/transport"
	"github.com/kbukum/xhrkit/version"
	"github.com/kbukum/xhrkit/xhr"
)

// headerFlags collects repeated -header "Name: value" flags.
type headerFlags []string

func (h *headerFlags) String() string { return strings.Join(*h, "; ") }

func (h *headerFlags) Set(v string) error {
	if !strings.Contains(v, ":") {
		return fmt.Errorf("header %q must look like 'Name: value'", v)
	}
	*h = append(*h, v)
	return nil
}

type execFlags struct {
	configPath  string
	backend     string
	requestFile string
	method      string
	url         string
	headers     headerFlags
	body        string
	bodySet     bool
	respType    string
	timeout     time.Duration
	credentials bool
}

func parseExecFlags(args []string, stderr io.Writer) (*execFlags, error) {
	f := &execFlags{}
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "config file path")
	fs.StringVar(&f.backend, "backend", "", "transport backend (nethttp, browser)")
	fs.StringVar(&f.requestFile, "request", "", "JSON request file, - for stdin")
	fs.StringVar(&f.method, "method", "", "HTTP method (default GET)")
	fs.StringVar(&f.url, "url", "", "request URL")
	fs.Var(&f.headers, "header", "request header 'Name: value', repeatable")
	fs.StringVar(&f.body, "data", "", "request body, sent as text")
	fs.StringVar(&f.respType, "type", "", "response type: text, json, arraybuffer, blob, document")
	fs.DurationVar(&f.timeout, "timeout", 0, "request timeout, 0 for none")
	fs.BoolVar(&f.credentials, "credentials", false, "send cookies on cross-origin requests")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "data" {
			f.bodySet = true
		}
	})
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// buildRequest reads the request file, if any, and applies flag overrides.
func (f *execFlags) buildRequest(stdin io.Reader) (*data.Request, error) {
	req := &data.Request{}
	if f.requestFile != "" {
		var r io.Reader = stdin
		if f.requestFile != "-" {
			file, err := os.Open(f.requestFile)
			if err != nil {
				return nil, err
			}
			defer file.Close()
			r = file
		}
		if err := json.NewDecoder(r).Decode(req); err != nil {
			return nil, fmt.Errorf("decoding request: %w", err)
		}
	}

	if f.method != "" {
		req.Method = f.method
	}
	if req.Method == "" {
		req.Method = "GET"
	}
	if f.url != "" {
		req.URL = f.url
	}
	if len(f.headers) > 0 && req.Headers == nil {
		req.Headers = data.HeadersMap{}
	}
	for _, h := range f.headers {
		name, value, _ := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		req.Headers[name] = append(req.Headers[name], strings.TrimSpace(value))
	}
	if f.bodySet {
		req.Body = f.body
	}
	if f.respType != "" {
		req.ResponseType = data.ResponseType(f.respType)
	}
	if f.timeout > 0 {
		req.Timeout = f.timeout
	}
	if f.credentials {
		req.WithCredentials = true
	}
	return req, nil
}

func runExec(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, err := parseExecFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return printError(stderr, errors.InvalidInput("args", err.Error()), exitUsage)
	}
	req, err := flags.buildRequest(stdin)
	if err != nil {
		return printError(stderr, errors.InvalidInput("request", err.Error()).WithCause(err), exitUsage)
	}
	if err := req.Validate(); err != nil {
		return printError(stderr, err, exitUsage)
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return printError(stderr, err, exitUsage)
	}
	if flags.backend != "" {
		cfg.Transport.Backend = flags.backend
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return printError(stderr, err, exitUsage)
	}
	log := logger.Get(logger.ComponentCLI)

	ctx := context.Background()
	metrics, shutdown, err := observability.Init(ctx, &cfg.Observability, cfg.Name, version.Get().Version, cfg.Environment)
	if err != nil {
		return printError(stderr, err, exitFailure)
	}
	app.OnStop(bootstrap.Hook(shutdown))

	t, err := transport.New(cfg.Transport.Backend, cfg.Transport.Settings())
	if err != nil {
		_ = shutdown(ctx)
		return printError(stderr, err, exitUsage)
	}
	comp := xhr.NewComponent(cfg.XHR, t, xhr.WithMetrics(metrics))
	if err := app.RegisterComponent(comp); err != nil {
		_ = shutdown(ctx)
		return printError(stderr, err, exitFailure)
	}

	rr := provider.Chain(
		provider.WithLogging[*data.Request, data.Response](log, xhr.Outcome),
		provider.WithTracing[*data.Request, data.Response](cfg.Name, xhr.Outcome),
		provider.WithMetrics[*data.Request, data.Response](metrics, xhr.Outcome),
	)(comp.Adapter())

	err = app.RunTask(ctx, func(ctx context.Context) error {
		resp, _ := rr.Execute(ctx, req)
		return writeResponse(stdout, resp)
	})
	if err != nil {
		return printError(stderr, err, exitFailure)
	}
	return exitOK
}

// writeResponse prints resp as indented JSON. Documents print as HTML.
func writeResponse(w io.Writer, resp data.Response) error {
	if doc, ok := resp.Data.(*goquery.Document); ok {
		html, err := doc.Html()
		if err != nil {
			return err
		}
		resp.Data = html
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// printError writes err as an ErrorResponse and returns code.
func printError(w io.Writer, err error, code int) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(errors.From(err).ToResponse())
	return code
}
