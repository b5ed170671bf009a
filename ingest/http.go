package ingest

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// HTTPServer serves the record, stats and health endpoints over fasthttp
type HTTPServer struct {
	backend Backend
	server  *fasthttp.Server
}

// HTTPOption customizes an HTTPServer
type HTTPOption func(*fasthttp.Server)

// WithHTTPLogger sets the logger fasthttp reports serving errors to
func WithHTTPLogger(l fasthttp.Logger) HTTPOption {
	return func(s *fasthttp.Server) {
		s.Logger = l
	}
}

// WithServerName sets the Server response header
func WithServerName(name string) HTTPOption {
	return func(s *fasthttp.Server) {
		s.Name = name
	}
}

// NewHTTPServer creates a server feeding backend
func NewHTTPServer(backend Backend, opts ...HTTPOption) *HTTPServer {
	h := &HTTPServer{backend: backend}
	h.server = &fasthttp.Server{
		Handler: h.Handle,
		Name:    "beacond",
	}
	for _, opt := range opts {
		opt(h.server)
	}
	return h
}

// ListenAndServe blocks serving addr until Shutdown
func (h *HTTPServer) ListenAndServe(addr string) error {
	return h.server.ListenAndServe(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (h *HTTPServer) Shutdown() error {
	return h.server.Shutdown()
}

// Handle routes one request
func (h *HTTPServer) Handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/record":
		h.handleRecord(ctx)
	case "/stats":
		h.handleStats(ctx)
	case "/healthz":
		if !ctx.IsGet() && !ctx.IsHead() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok\n")
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (h *HTTPServer) handleRecord(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() && !ctx.IsGet() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	beaconID := string(ctx.FormValue("beacon"))
	rssi := string(ctx.FormValue("rssi"))
	switch {
	case beaconID == "":
		ctx.Error("missing beacon", fasthttp.StatusBadRequest)
		return
	case rssi == "":
		ctx.Error("missing rssi", fasthttp.StatusBadRequest)
		return
	}

	if err := h.backend.Record(beaconID, rssi); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (h *HTTPServer) handleStats(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	body, err := json.Marshal(h.backend.Stats())
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
