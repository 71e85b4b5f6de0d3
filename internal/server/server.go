package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
	"github.com/Mohsinsiddi/bn8004/internal/metrics"
)

// Controller is the part of launchpad.Controller the API drives.
type Controller interface {
	Connect(ctx context.Context) error
	Approve(ctx context.Context) error
	Mint(ctx context.Context) error
	State() launchpad.State
	Session() (launchpad.Session, bool)
	Config() config.Launchpad
}

// Server exposes a launchpad controller over HTTP.
type Server struct {
	ctrl    Controller
	display *StateDisplay
	metrics *metrics.Metrics
	engine  *gin.Engine
}

// New builds the router. m may be nil, in which case /metrics is not served.
func New(ctrl Controller, display *StateDisplay, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{ctrl: ctrl, display: display, metrics: m, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := s.engine.Group("/api")
	api.GET("/config", s.getConfig)
	api.GET("/state", s.getState)
	api.POST("/connect", s.action(s.ctrl.Connect))
	api.POST("/approve", s.action(s.ctrl.Approve))
	api.POST("/mint", s.action(s.ctrl.Mint))
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("API listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type configResponse struct {
	ChainID           uint64 `json:"chain_id"`
	ChainName         string `json:"chain_name"`
	Explorer          string `json:"explorer"`
	PaymentToken      string `json:"payment_token"`
	PaymentSymbol     string `json:"payment_symbol"`
	MintToken         string `json:"mint_token"`
	MintSymbol        string `json:"mint_symbol"`
	Forwarder         string `json:"forwarder"`
	RelayerURL        string `json:"relayer_url"`
	MintOutput        int64  `json:"mint_output"`
	ApproveAmount     string `json:"approve_amount"`
	ApprovalThreshold string `json:"approval_threshold"`
}

func (s *Server) getConfig(c *gin.Context) {
	cfg := s.ctrl.Config()
	c.JSON(http.StatusOK, configResponse{
		ChainID:           cfg.Chain.ChainID,
		ChainName:         cfg.Chain.DisplayName,
		Explorer:          cfg.Chain.Explorer,
		PaymentToken:      cfg.Payment.Address.Hex(),
		PaymentSymbol:     cfg.Payment.Symbol,
		MintToken:         cfg.Mint.Address.Hex(),
		MintSymbol:        cfg.Mint.Symbol,
		Forwarder:         cfg.Forwarder.Hex(),
		RelayerURL:        cfg.RelayerURL,
		MintOutput:        cfg.MintOutput,
		ApproveAmount:     cfg.ApproveAmount.String(),
		ApprovalThreshold: cfg.ApprovalThreshold.String(),
	})
}

type sessionView struct {
	Address  string `json:"address"`
	ChainID  uint64 `json:"chain_id"`
	Approved bool   `json:"approved"`
}

type stateResponse struct {
	State   string       `json:"state"`
	Session *sessionView `json:"session,omitempty"`
	Display Snapshot     `json:"display"`
}

func (s *Server) state() stateResponse {
	out := stateResponse{State: s.ctrl.State().String(), Display: s.display.Snapshot()}
	if sess, ok := s.ctrl.Session(); ok {
		out.Session = &sessionView{Address: sess.Address.Hex(), ChainID: sess.ChainID, Approved: sess.Approved}
	}
	return out
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state())
}

type actionResponse struct {
	Kind  string        `json:"kind"`
	Error string        `json:"error,omitempty"`
	State stateResponse `json:"state"`
}

func (s *Server) action(fn func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fn(c.Request.Context())
		resp := actionResponse{Kind: launchpad.Kind(err), State: s.state()}
		if err != nil {
			resp.Error = err.Error()
		}
		c.JSON(statusFor(err), resp)
	}
}

// statusFor maps a controller error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, launchpad.ErrWalletUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, launchpad.ErrUserRejected):
		return http.StatusForbidden
	case errors.Is(err, launchpad.ErrNotConnected),
		errors.Is(err, launchpad.ErrNotApproved),
		errors.Is(err, launchpad.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, launchpad.ErrNetworkMismatch),
		errors.Is(err, launchpad.ErrNetworkAddFailed),
		errors.Is(err, launchpad.ErrTransactionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request", "method", c.Request.Method, "path", c.FullPath(),
			"status", c.Writer.Status(), "elapsed", time.Since(start))
	}
}
