package vizserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pb"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"go.uber.org/zap"
)

// ProtobufContentType selects the wire format on GET /snapshot when sent in Accept.
const ProtobufContentType = "application/x-protobuf"

// CommandSink receives the commands sent by remote viewers.
type CommandSink func(cmd simulation.Command) error

type Server struct {
	addr     string
	hub      *Hub
	commands CommandSink
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer returns a server listening on addr once Run is called.
// commands may be nil, remote viewers are then read only.
func NewServer(addr string, hub *Hub, commands CommandSink, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:     addr,
		hub:      hub,
		commands: commands,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the routes of the server:
// GET /ws streams snapshot frames, GET /snapshot returns the latest one
// (protojson, or wire format with Accept: application/x-protobuf), GET /healthz.
func (s *Server) Handler() http.Handler {
	access := zap.NewStdLog(s.logger.Named("http")).Writer()

	router := mux.NewRouter()
	router.Handle("/ws", http.HandlerFunc(s.handleWebsocket)).Methods("GET")
	router.Handle("/snapshot", handlers.CombinedLoggingHandler(access, http.HandlerFunc(s.handleSnapshot))).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	return router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("VIZ Listening", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	contentType, latest := "application/json", s.hub.Latest()
	if strings.Contains(r.Header.Get("Accept"), ProtobufContentType) {
		contentType, latest = ProtobufContentType, s.hub.LatestBinary()
	}
	if latest == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(latest)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	wt := s.hub.register(uuid.NewString(), conn)
	go s.hub.writeLoop(wt)
	defer s.hub.unregister(wt)

	// Listen to messages incoming from viewers; mandatory to notice when the websocket is closed client side
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleIncoming(wt, p)
	}
}

func (s *Server) handleIncoming(wt *watcher, p []byte) {
	if s.commands == nil {
		return
	}
	msg, err := pb.UnmarshalJSON(pb.CommandName, p)
	if err != nil {
		s.logger.Warn("invalid command", zap.String("watcher", wt.id), zap.Error(err))
		return
	}
	cmd, err := pb.DecodeCommand(msg)
	if err == nil {
		err = s.commands(cmd)
	}
	if err != nil {
		s.logger.Warn("command rejected", zap.String("watcher", wt.id), zap.String("op", string(cmd.Op)), zap.Error(err))
	}
}
