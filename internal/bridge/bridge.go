// Package bridge is the client side of the backend command boundary.
//
// The backend owns everything substantive: instance resolution, package
// dependency resolution, launching, plugins, and config persistence. This
// client only issues named commands with key-value arguments and decodes
// JSON results. Commands travel over JSON-RPC 2.0, on a unix socket or a
// websocket. The backend pushes config_changed notifications over the same
// connection; they are forwarded onto the events bus.
package bridge

import (
	"context"
	"encoding/json"
	"net"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	wsstream "github.com/sourcegraph/jsonrpc2/websocket"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
	"github.com/Nitrolaunch/nitroctl/internal/events"
	"github.com/Nitrolaunch/nitroctl/internal/logging"
)

// notifyConfigChanged is the notification the backend broadcasts after a
// config write, from this client or any other.
const notifyConfigChanged = "config_changed"

// Client is a connection to the backend daemon.
type Client struct {
	conn *jsonrpc2.Conn
	bus  *events.Bus
}

// DialUnix connects to the backend over its unix socket.
func DialUnix(ctx context.Context, path string, bus *events.Bus) (*Client, error) {
	nc, err := (&net.Dialer{}).DialContext(ctx, "unix", path)
	if err != nil {
		return nil, errors.ConnectError(path, err)
	}

	c := &Client{bus: bus}
	stream := jsonrpc2.NewBufferedStream(nc, jsonrpc2.VSCodeObjectCodec{})
	c.conn = jsonrpc2.NewConn(ctx, stream, c.handler())
	return c, nil
}

// DialWebSocket connects to the backend over a websocket URL.
func DialWebSocket(ctx context.Context, url string, bus *events.Bus) (*Client, error) {
	wc, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.ConnectError(url, err)
	}

	c := &Client{bus: bus}
	c.conn = jsonrpc2.NewConn(ctx, wsstream.NewObjectStream(wc), c.handler())
	return c, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// DisconnectNotify returns a channel closed when the connection drops.
func (c *Client) DisconnectNotify() <-chan struct{} {
	return c.conn.DisconnectNotify()
}

// call issues one backend command. A JSON null result leaves a pointer
// result nil, which command wrappers report as "not found".
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	logging.Debug("backend command", "method", method)
	if err := c.conn.Call(ctx, method, params, result); err != nil {
		return errors.BridgeError(method, err)
	}
	return nil
}

// handler consumes server-to-client traffic: config_changed notifications
// go onto the bus, everything else is refused.
func (c *Client) handler() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		if req.Method != notifyConfigChanged {
			if !req.Notif {
				return nil, &jsonrpc2.Error{
					Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
			}
			logging.Debug("ignoring backend notification", "method", req.Method)
			return nil, nil
		}

		var payload struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		}
		if req.Params != nil {
			if err := json.Unmarshal(*req.Params, &payload); err != nil {
				logging.Warn("malformed config_changed notification", "error", err)
				return nil, nil
			}
		}

		if c.bus != nil {
			c.bus.Publish(events.Change{ID: payload.ID, Mode: modeFromWire(payload.Type)})
		}
		return nil, nil
	})
}

func modeFromWire(s string) config.Mode {
	switch s {
	case "template":
		return config.ModeTemplate
	case "base_template":
		return config.ModeBaseTemplate
	default:
		return config.ModeInstance
	}
}

func modeToWire(m config.Mode) string {
	switch m {
	case config.ModeTemplate:
		return "template"
	case config.ModeBaseTemplate:
		return "base_template"
	default:
		return "instance"
	}
}
