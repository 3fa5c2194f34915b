package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/tilewm/tilewm/internal/runtimepath"
)

// Client talks to a running tilewmd over its control socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient builds a Client bound to the standard runtime socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// GetStatus retrieves daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetMonitors retrieves monitor information.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}
	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return &monitors, nil
}

// Exit asks the daemon to shut down cleanly.
func (c *Client) Exit() error {
	_, err := c.sendRequest(&Request{Command: CommandExit})
	return err
}

// Reload asks the daemon to re-validate its config file. The daemon logs
// the result; it does not apply the new values.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// ToggleAutoStart flips the daemon's login-autostart registration.
func (c *Client) ToggleAutoStart() (*AutoStartData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandToggleAutoStart})
	if err != nil {
		return nil, err
	}
	var data AutoStartData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse autostart data: %w", err)
	}
	return &data, nil
}

// ToggleStatusBar flips the status bar's visibility.
func (c *Client) ToggleStatusBar() error {
	_, err := c.sendRequest(&Request{Command: CommandToggleStatusBar})
	return err
}

// Ping checks whether the daemon is responding.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
