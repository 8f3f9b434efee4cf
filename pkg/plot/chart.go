package plot

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// ChartProvider is the controller surface the server renders from
type ChartProvider interface {
	List() []core.Chart
	Get(id string) (core.Chart, error)
	Refresh(ctx context.Context, id string) (Data, error)
}

// Server renders the stored charts in a browser. It serves the embedded
// chart widget and a JSON endpoint carrying the transformed series plus
// derived display options; the pixel drawing itself stays inside the
// charting library loaded by the page.
type Server struct {
	port          int
	debug         bool
	provider      ChartProvider
	scriptContent string
	indexHTML     *template.Template
	log           logger.Logger
}

// Option defines a function type for configuring a Server instance
type Option func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(server *Server) {
		server.port = port
	}
}

// WithDebug enables debug mode (disables script minification)
func WithDebug() Option {
	return func(server *Server) {
		server.debug = true
	}
}

// NewServer creates a new chart server with the provided options
func NewServer(provider ChartProvider, log logger.Logger, options ...Option) (*Server, error) {
	server := &Server{
		port:     8080,
		provider: provider,
		log:      log,
	}

	// Apply all options
	for _, option := range options {
		option(server)
	}

	// Parse chart HTML template
	var err error
	server.indexHTML, err = template.ParseFS(staticFiles, "assets/chart.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	// Read and transpile chart JavaScript
	chartJS, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read chart.js: %w", err)
	}

	transpiled := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !server.debug,
		MinifyIdentifiers: !server.debug,
		MinifyWhitespace:  !server.debug,
	})

	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpiled.Errors)
	}

	server.scriptContent = string(transpiled.Code)

	return server, nil
}

// Start initializes the HTTP server for the chart
func (s *Server) Start() error {
	http.Handle(
		"/assets/",
		http.FileServer(http.FS(staticFiles)),
	)

	http.HandleFunc("/assets/chart.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, s.scriptContent)
	})

	http.HandleFunc("/health", s.handleHealth)
	http.HandleFunc("/data", s.handleData)
	http.HandleFunc("/tooltip", s.handleTooltip)
	http.HandleFunc("/", s.handleIndex)

	s.log.Infof("Charts available at http://localhost:%d", s.port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), nil)
}
