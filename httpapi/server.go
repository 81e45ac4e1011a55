package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/huellas/huella-app-sheets/capture"
	"github.com/huellas/huella-app-sheets/verify"
)

const LOG_TAG = "http"

const (
	MsgValidated = "Huella validada"
	MsgNoHuella  = "No se recibió una huella válida"
	MsgNoDevice  = "No se pudo leer la huella"
	MsgNotFound  = "Huella no encontrada"
	MsgProbeOK   = "Google Sheets API OK"
)

type Verifier interface {
	Verify(ctx context.Context, hash string) (verify.Result, error)
}

type Prober interface {
	Probe(ctx context.Context) error
}

// Dependencies for the verification server. Method is the HTTP method accepted on /verificar
// (POST for a JSON body, GET for a device capture) and NoCapture the message returned when
// no fingerprint could be captured.
type Dependencies struct {
	Addr           string
	MaxConnections int
	Method         string
	NoCapture      string
	Source         capture.Source
	Verifier       Verifier
	Prober         Prober
	Debug          bool
}

type Server struct {
	httpServer     *http.Server
	maxConnections int
	source         capture.Source
	verifier       Verifier
	prober         Prober
	noCapture      string
	debug          bool
}

type Response struct {
	Status  string `json:"status"`
	DNI     string `json:"dni,omitempty"`
	Message string `json:"message"`
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		maxConnections: d.MaxConnections,
		source:         d.Source,
		verifier:       d.Verifier,
		prober:         d.Prober,
		noCapture:      d.NoCapture,
		debug:          d.Debug,
	}

	if s.noCapture == "" {
		s.noCapture = MsgNoHuella
	}

	method := d.Method
	if method == "" {
		method = http.MethodPost
	}

	mux.HandleFunc(method+" /verificar", s.handleVerify)
	mux.HandleFunc("GET /test-googleapi", s.handleProbe)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           requestID(loggingMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start listens on the configured address and serves until Shutdown, with at most
// MaxConnections simultaneous connections when MaxConnections is positive.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	if s.maxConnections > 0 {
		listener = netutil.LimitListener(listener, s.maxConnections)
	}

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	hash, err := s.source.Capture(r)
	if err != nil {
		warnf("%v", err)
		writeError(w, http.StatusBadRequest, s.noCapture)
		return
	}

	if s.debug {
		debugf("captured fingerprint %v", hash)
	}

	result, err := s.verifier.Verify(r.Context(), hash)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Response{
			Status:  "success",
			DNI:     result.ID,
			Message: MsgValidated,
		})

	case errors.Is(err, capture.ErrNoCapture):
		writeError(w, http.StatusBadRequest, s.noCapture)

	case errors.Is(err, verify.ErrNotFound):
		writeError(w, http.StatusNotFound, MsgNotFound)

	default:
		errorf("verification error (%v)", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := s.prober.Probe(r.Context()); err != nil {
		warnf("Google Sheets API probe failed (%v)", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(MsgProbeOK))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{
		Status:  "error",
		Message: message,
	})
}

func debugf(format string, args ...any) {
	log.Debugf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func infof(format string, args ...any) {
	log.Infof("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func warnf(format string, args ...any) {
	log.Warnf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func errorf(format string, args ...any) {
	log.Errorf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}
