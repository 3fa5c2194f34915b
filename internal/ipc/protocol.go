// Package ipc implements the control-socket protocol between tilewmd and
// tilewmctl: newline-delimited JSON request/response pairs over a Unix
// domain socket, modeled directly on the teacher's own internal/ipc
// protocol shape (CommandType union, Request/Response envelope,
// OK/ERROR status string).
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType tags the inbound IPC command union (§6).
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetMonitors     CommandType = "GET_MONITORS"
	CommandExit            CommandType = "EXIT"
	CommandReload          CommandType = "RELOAD"
	CommandToggleAutoStart CommandType = "TOGGLE_AUTOSTART"
	CommandToggleStatusBar CommandType = "TOGGLE_STATUSBAR"
)

// Request is one IPC request from client to server.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is one IPC response from server to client.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is the payload returned by GET_STATUS.
type StatusData struct {
	ActiveWorkspace  int   `json:"active_workspace"`
	ManagedWindows   int   `json:"managed_windows"`
	MonitorCount     int   `json:"monitor_count"`
	StatusBarVisible bool  `json:"status_bar_visible"`
	UptimeSeconds    int64 `json:"uptime_seconds"`
	DaemonRunning    bool  `json:"daemon_running"`
}

// MonitorInfo is one entry in GET_MONITORS' response.
type MonitorInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Primary bool   `json:"primary"`
	Left    int    `json:"left"`
	Top     int    `json:"top"`
	Right   int    `json:"right"`
	Bottom  int    `json:"bottom"`
}

// MonitorsData is the payload returned by GET_MONITORS.
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// AutoStartData is the payload returned by TOGGLE_AUTOSTART.
type AutoStartData struct {
	Enabled bool `json:"enabled"`
}

// NewOKResponse builds a successful response, optionally carrying data.
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse builds an error response carrying errMsg.
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// ParseRequest decodes a request from JSON bytes.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal encodes r to JSON bytes.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
