package daemon

import (
	"context"
	"time"

	"lessond/internal/board"
	"lessond/internal/ipc"
)

// handler answers control-socket requests against the live daemon.
type handler struct {
	d *Daemon
}

func (h *handler) HandleMessage(_ context.Context, msg *ipc.Message) (*ipc.Message, error) {
	d := h.d
	id := msg.Header.RequestID

	switch msg.Header.Type {
	case ipc.MsgStatusRequest:
		st := &ipc.StatusResponse{
			Version:   Version,
			StartedAt: d.startedAt,
			Uptime:    time.Since(d.startedAt),
			Display:   d.model.Snapshot(),
			Engine:    d.engine.Snapshot(),
			Metrics:   d.registry.Snapshot(),
		}
		return ipc.NewResponse(ipc.MsgStatusResponse, id, st)

	case ipc.MsgReload:
		if err := d.reloadRules(); err != nil {
			return ipc.NewResponse(ipc.MsgReloadResp, id, &ipc.ReloadResponse{Error: err.Error()})
		}
		return ipc.NewResponse(ipc.MsgReloadResp, id, &ipc.ReloadResponse{
			Success: true,
			Rules:   d.ruleCount(),
		})

	case ipc.MsgSetMode:
		var req ipc.SetModeRequest
		if err := ipc.Decode(msg.Payload, &req); err != nil {
			return ipc.NewErrorMessage(id, ipc.ErrInvalidRequest, "invalid set-mode request"), nil
		}
		mode, err := board.ParseMode(req.Mode)
		if err != nil {
			return ipc.NewResponse(ipc.MsgSetModeResp, id, &ipc.Ack{Error: err.Error()})
		}
		d.modes.Transition(mode)
		d.model.SetMode(d.modes.Mode())
		return ipc.NewResponse(ipc.MsgSetModeResp, id, &ipc.Ack{Success: true})

	case ipc.MsgInterrupt:
		d.monitor.Trip()
		return ipc.NewResponse(ipc.MsgInterruptResp, id, &ipc.Ack{Success: true})

	case ipc.MsgShutdown:
		d.logger.Info("shutdown requested over control socket")
		if d.stop != nil {
			d.stop()
		}
		return ipc.NewResponse(ipc.MsgShutdown, id, &ipc.Ack{Success: true})

	default:
		return ipc.NewErrorMessage(id, ipc.ErrInvalidRequest, "unknown message type"), nil
	}
}
