package bridge

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/events"
)

// testBackend is an in-process jsonrpc2 server standing in for the daemon.
type testBackend struct {
	t *testing.T

	instances map[string]*config.Record
	templates map[string]*config.Record
	base      *config.Record

	writes []writeParams
	calls  []string
}

func (b *testBackend) handler() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		b.calls = append(b.calls, req.Method)

		var id idParams
		if req.Params != nil {
			if err := json.Unmarshal(*req.Params, &id); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
		}

		switch req.Method {
		case cmdGetInstances:
			return []Summary{{ID: "survival", Running: true}, {ID: "creative"}}, nil
		case cmdGetInstanceConfig, cmdGetEditableInstanceConfig:
			return b.instances[id.ID], nil
		case cmdGetTemplateConfig, cmdGetEditableTemplateConfig:
			return b.templates[id.ID], nil
		case cmdGetBaseTemplate:
			return b.base, nil
		case cmdWriteInstanceConfig, cmdWriteTemplateConfig, cmdWriteBaseTemplate:
			var w writeParams
			if err := json.Unmarshal(*req.Params, &w); err != nil {
				return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
			}
			b.writes = append(b.writes, w)
			return nil, nil
		case cmdLaunchInstance, cmdStopInstance:
			return nil, nil
		default:
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: req.Method}
		}
	})
}

// connect wires a client to the backend over an in-memory pipe and returns
// the server side connection for pushing notifications.
func connect(t *testing.T, backend *testBackend, bus *events.Bus) (*Client, *jsonrpc2.Conn) {
	t.Helper()

	clientEnd, serverEnd := net.Pipe()
	ctx := context.Background()

	server := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverEnd, jsonrpc2.VSCodeObjectCodec{}),
		backend.handler())

	c := &Client{bus: bus}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientEnd, jsonrpc2.VSCodeObjectCodec{}),
		c.handler())

	t.Cleanup(func() {
		c.Close()
		server.Close()
	})
	return c, server
}

func TestConfigFetch(t *testing.T) {
	backend := &testBackend{
		t:         t,
		instances: map[string]*config.Record{"survival": {Version: "1.20.4", Side: config.SideClient}},
		base:      &config.Record{Version: config.VersionLatest},
	}
	c, _ := connect(t, backend, nil)
	ctx := context.Background()

	rec, err := c.Config(ctx, config.ModeInstance, "survival")
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if rec == nil || rec.Version != "1.20.4" {
		t.Errorf("Config = %+v, want version 1.20.4", rec)
	}

	base, err := c.BaseTemplate(ctx)
	if err != nil {
		t.Fatalf("BaseTemplate failed: %v", err)
	}
	if base == nil || base.Version != config.VersionLatest {
		t.Errorf("BaseTemplate = %+v", base)
	}
}

func TestConfigMissingIDIsNilNotError(t *testing.T) {
	backend := &testBackend{t: t, instances: map[string]*config.Record{}}
	c, _ := connect(t, backend, nil)

	rec, err := c.Config(context.Background(), config.ModeInstance, "missing")
	if err != nil {
		t.Fatalf("Config returned an error for a missing id: %v", err)
	}
	if rec != nil {
		t.Errorf("Config = %+v, want nil for a missing id", rec)
	}
}

func TestWriteConfigCarriesRecord(t *testing.T) {
	backend := &testBackend{t: t}
	c, _ := connect(t, backend, nil)

	rec := &config.Record{Version: "1.20", Side: config.SideServer}
	if err := c.WriteConfig(context.Background(), config.ModeInstance, "survival", rec); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	if len(backend.writes) != 1 {
		t.Fatalf("backend saw %d writes, want 1", len(backend.writes))
	}
	got := backend.writes[0]
	if got.ID != "survival" {
		t.Errorf("write id = %q, want survival", got.ID)
	}
	if got.Config == nil || got.Config.Version != "1.20" {
		t.Errorf("write config = %+v", got.Config)
	}
}

func TestInstancesListing(t *testing.T) {
	backend := &testBackend{t: t}
	c, _ := connect(t, backend, nil)

	list, err := c.Instances(context.Background())
	if err != nil {
		t.Fatalf("Instances failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "survival" || !list[0].Running {
		t.Errorf("Instances = %+v", list)
	}
}

func TestUnknownCommandIsAnError(t *testing.T) {
	backend := &testBackend{t: t}
	c, _ := connect(t, backend, nil)

	if err := c.call(context.Background(), "no_such_command", nil, nil); err == nil {
		t.Errorf("expected an error for an unknown command")
	}
}

func TestConfigChangedNotificationReachesBus(t *testing.T) {
	backend := &testBackend{t: t}
	bus := &events.Bus{}
	_, server := connect(t, backend, bus)

	got := make(chan events.Change, 1)
	bus.Subscribe(func(c events.Change) { got <- c })

	payload := map[string]string{"id": "survival", "type": "instance"}
	if err := server.Notify(context.Background(), notifyConfigChanged, payload); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	select {
	case change := <-got:
		if change.ID != "survival" || change.Mode != config.ModeInstance {
			t.Errorf("change = %+v", change)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("notification never reached the bus")
	}
}

func TestDialUnix(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "nitro.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()

	backend := &testBackend{t: t}
	go func() {
		nc, err := ln.Accept()
		if err != nil {
			return
		}
		jsonrpc2.NewConn(context.Background(),
			jsonrpc2.NewBufferedStream(nc, jsonrpc2.VSCodeObjectCodec{}),
			backend.handler())
	}()

	c, err := DialUnix(context.Background(), socket, nil)
	if err != nil {
		t.Fatalf("DialUnix failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Instances(context.Background()); err != nil {
		t.Errorf("Instances over unix socket failed: %v", err)
	}
}
