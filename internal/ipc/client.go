package ipc

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// Client is a synchronous control-socket client.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	nextID  atomic.Uint32
}

// Dial connects to the daemon's control socket.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return &Client{conn: conn, timeout: 10 * time.Second}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call sends one request and waits for its reply. An MsgError reply is
// surfaced as an error.
func (c *Client) Call(msgType MessageType, req any) (*Message, error) {
	var payload []byte
	if req != nil {
		var err error
		payload, err = Encode(req)
		if err != nil {
			return nil, err
		}
	}

	id := c.nextID.Add(1)
	msg := NewMessage(msgType, id, payload)

	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := msg.Write(c.conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	for {
		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		resp, err := ReadMessage(c.conn)
		if err != nil {
			return nil, fmt.Errorf("read reply: %w", err)
		}
		// Replies to earlier requests on a reused connection are stale.
		if resp.Header.RequestID != id {
			continue
		}
		if resp.Header.Type == MsgError {
			var er ErrorResponse
			if err := Decode(resp.Payload, &er); err != nil {
				return nil, fmt.Errorf("daemon error (code unknown)")
			}
			return nil, fmt.Errorf("daemon error %d: %s", er.Code, er.Message)
		}
		return resp, nil
	}
}

// Ping checks daemon liveness.
func (c *Client) Ping() error {
	resp, err := c.Call(MsgPing, nil)
	if err != nil {
		return err
	}
	if resp.Header.Type != MsgPong {
		return fmt.Errorf("unexpected reply type %#04x", uint16(resp.Header.Type))
	}
	return nil
}

// Status fetches the daemon's full status.
func (c *Client) Status() (*StatusResponse, error) {
	resp, err := c.Call(MsgStatusRequest, nil)
	if err != nil {
		return nil, err
	}
	var st StatusResponse
	if err := Decode(resp.Payload, &st); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &st, nil
}

// Reload asks the daemon to reload its automation rules.
func (c *Client) Reload() (*ReloadResponse, error) {
	resp, err := c.Call(MsgReload, nil)
	if err != nil {
		return nil, err
	}
	var rr ReloadResponse
	if err := Decode(resp.Payload, &rr); err != nil {
		return nil, fmt.Errorf("decode reload reply: %w", err)
	}
	return &rr, nil
}

// SetMode requests an overlay mode transition.
func (c *Client) SetMode(mode string) error {
	resp, err := c.Call(MsgSetMode, &SetModeRequest{Mode: mode})
	if err != nil {
		return err
	}
	var ack Ack
	if err := Decode(resp.Payload, &ack); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if !ack.Success {
		return fmt.Errorf("set mode: %s", ack.Error)
	}
	return nil
}

// Interrupt injects user activity, cancelling a pending automation.
func (c *Client) Interrupt() error {
	resp, err := c.Call(MsgInterrupt, nil)
	if err != nil {
		return err
	}
	var ack Ack
	if err := Decode(resp.Payload, &ack); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if !ack.Success {
		return fmt.Errorf("interrupt: %s", ack.Error)
	}
	return nil
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown() error {
	resp, err := c.Call(MsgShutdown, nil)
	if err != nil {
		return err
	}
	var ack Ack
	if err := Decode(resp.Payload, &ack); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if !ack.Success {
		return fmt.Errorf("shutdown: %s", ack.Error)
	}
	return nil
}
