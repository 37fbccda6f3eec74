package ipc

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessond/internal/automation"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := NewMessage(MsgStatusRequest, 42, []byte(`{"x":1}`))

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))

	got, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, MsgStatusRequest, got.Header.Type)
	assert.Equal(t, uint32(42), got.Header.RequestID)
	assert.Equal(t, []byte(`{"x":1}`), got.Payload)
}

func TestReadMessageRejectsBadMagic(t *testing.T) {
	msg := NewMessage(MsgPing, 1, nil)
	msg.Header.Magic = 0xDEADBEEF

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

func TestReadMessageRejectsFutureVersion(t *testing.T) {
	msg := NewMessage(MsgPing, 1, nil)
	msg.Header.Version = ProtocolVersion + 1

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

func TestReadMessageRejectsOversizedPayload(t *testing.T) {
	msg := NewMessage(MsgPing, 1, nil)
	msg.Header.Length = MaxPayload + 1

	var buf bytes.Buffer
	require.NoError(t, msg.Header.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

func startServer(t *testing.T, handler Handler) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "d.sock")
	srv := NewServer(socket, handler, nil)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })
	return socket
}

func TestClientPing(t *testing.T) {
	socket := startServer(t, nil)

	client, err := Dial(socket)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping())
}

func TestClientStatus(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	socket := startServer(t, HandlerFunc(func(_ context.Context, msg *Message) (*Message, error) {
		require.Equal(t, MsgStatusRequest, msg.Header.Type)
		return NewResponse(MsgStatusResponse, msg.Header.RequestID, &StatusResponse{
			Version:   "test",
			StartedAt: started,
			Uptime:    time.Minute,
			Engine:    automation.Status{State: "idle"},
		})
	}))

	client, err := Dial(socket)
	require.NoError(t, err)
	defer client.Close()

	st, err := client.Status()
	require.NoError(t, err)
	assert.Equal(t, "test", st.Version)
	assert.Equal(t, "idle", st.Engine.State)
}

func TestClientSurfacesServerError(t *testing.T) {
	socket := startServer(t, HandlerFunc(func(_ context.Context, msg *Message) (*Message, error) {
		return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "bad request"), nil
	}))

	client, err := Dial(socket)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad request")
}

func TestClientSetModeAndReload(t *testing.T) {
	socket := startServer(t, HandlerFunc(func(_ context.Context, msg *Message) (*Message, error) {
		switch msg.Header.Type {
		case MsgSetMode:
			var req SetModeRequest
			if err := Decode(msg.Payload, &req); err != nil {
				return nil, err
			}
			if req.Mode != "blackboard" {
				return NewResponse(MsgSetModeResp, msg.Header.RequestID, &Ack{Error: "unexpected mode"})
			}
			return NewResponse(MsgSetModeResp, msg.Header.RequestID, &Ack{Success: true})
		case MsgReload:
			return NewResponse(MsgReloadResp, msg.Header.RequestID, &ReloadResponse{Success: true, Rules: 3})
		}
		return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "unknown"), nil
	}))

	client, err := Dial(socket)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SetMode("blackboard"))

	rr, err := client.Reload()
	require.NoError(t, err)
	assert.Equal(t, 3, rr.Rules)
}

func TestServerStopIsClean(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "d.sock")
	srv := NewServer(socket, nil, nil)
	require.NoError(t, srv.Start())

	client, err := Dial(socket)
	require.NoError(t, err)
	require.NoError(t, client.Ping())
	client.Close()

	require.NoError(t, srv.Stop())
	// Idempotent.
	require.NoError(t, srv.Stop())

	_, err = Dial(socket)
	assert.Error(t, err, "socket must be gone after stop")
}
