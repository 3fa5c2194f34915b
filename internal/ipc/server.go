package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/tilewm/tilewm/internal/autostart"
)

const queryTimeout = 2 * time.Second

// StatusRequest is a request/response rendezvous for GET_STATUS: the
// server sends one on StatusRequests and blocks on Reply, on which
// core.Loop sends the status from its own goroutine. This is the
// channel-based "lock-free MPSC hand-off, consumed on the main thread"
// the model's single-writer contract requires — ipc connection
// goroutines never touch *model.Model directly.
type StatusRequest struct {
	Reply chan StatusData
}

// MonitorsRequest is the GET_MONITORS analogue of StatusRequest.
type MonitorsRequest struct {
	Reply chan MonitorsData
}

// ServerConfig carries everything the IPC server needs to answer
// requests without ever touching the model itself.
type ServerConfig struct {
	AutoStart        autostart.Controller
	StatusRequests   chan StatusRequest
	MonitorsRequests chan MonitorsRequest
	Exit             chan struct{}
	Reload           chan struct{}
	ToggleStatusBar  chan struct{}
	Logger           *slog.Logger
}

// Server handles IPC requests from tilewmctl over a Unix domain socket.
type Server struct {
	socketPath string
	listener   net.Listener
	cfg        ServerConfig
	logger     *slog.Logger
	startTime  time.Time

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer builds a Server listening at socketPath.
func NewServer(socketPath string, cfg ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	os.Remove(socketPath)
	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		logger:     cfg.Logger,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("ipc server listening", "path", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done {
				return
			}
			s.logger.Warn("ipc accept error", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("ipc read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("ipc marshal error", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("ipc write error", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandExit:
		return s.handleExit()
	case CommandReload:
		return s.handleReload()
	case CommandToggleAutoStart:
		return s.handleToggleAutoStart()
	case CommandToggleStatusBar:
		return s.handleToggleStatusBar()
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	reply := make(chan StatusData, 1)
	select {
	case s.cfg.StatusRequests <- StatusRequest{Reply: reply}:
	case <-time.After(queryTimeout):
		return NewErrorResponse("status query timed out: core loop unresponsive")
	}

	select {
	case status := <-reply:
		status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
		status.DaemonRunning = true
		resp, _ := NewOKResponse(status)
		return resp
	case <-time.After(queryTimeout):
		return NewErrorResponse("status query timed out: no reply from core loop")
	}
}

func (s *Server) handleGetMonitors() *Response {
	reply := make(chan MonitorsData, 1)
	select {
	case s.cfg.MonitorsRequests <- MonitorsRequest{Reply: reply}:
	case <-time.After(queryTimeout):
		return NewErrorResponse("monitors query timed out: core loop unresponsive")
	}

	select {
	case data := <-reply:
		resp, _ := NewOKResponse(data)
		return resp
	case <-time.After(queryTimeout):
		return NewErrorResponse("monitors query timed out: no reply from core loop")
	}
}

func (s *Server) handleExit() *Response {
	select {
	case s.cfg.Exit <- struct{}{}:
	default:
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleReload() *Response {
	select {
	case s.cfg.Reload <- struct{}{}:
	default:
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleToggleAutoStart() *Response {
	enabled, err := s.cfg.AutoStart.Enabled()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to read autostart state: %v", err))
	}
	if err := s.cfg.AutoStart.SetEnabled(!enabled); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to set autostart state: %v", err))
	}
	resp, _ := NewOKResponse(AutoStartData{Enabled: !enabled})
	return resp
}

func (s *Server) handleToggleStatusBar() *Response {
	select {
	case s.cfg.ToggleStatusBar <- struct{}{}:
	default:
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
