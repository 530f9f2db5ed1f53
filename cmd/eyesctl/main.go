// eyesctl: Command-line client for a running roboeyes-server
//
//	eyesctl state
//	eyesctl commands
//	eyesctl mood happy
//	eyesctl look direction=ne
//	eyesctl routines | play <name> [speed=2] [loop=true] | stop
//	eyesctl watch [events|state]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-roboeyes/internal/config"
	"github.com/teslashibe/go-roboeyes/internal/httpc"
	"github.com/teslashibe/go-roboeyes/pkg/command"
	"github.com/teslashibe/go-roboeyes/pkg/protocol"
)

var errUsage = errors.New("usage: eyesctl [-url URL] <state|commands|routines|play|stop|watch|COMMAND> [args...]")

func main() {
	base := flag.String("url", config.ServerURL(), "roboeyes-server base URL")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := &client{base: strings.TrimRight(*base, "/"), out: os.Stdout}
	if err := c.run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

type client struct {
	base string
	out  io.Writer
}

func (c *client) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	verb, rest := args[0], args[1:]

	switch verb {
	case "state":
		return c.get("/api/state")
	case "commands":
		return c.commands()
	case "routines":
		return c.get("/api/routines")
	case "play":
		return c.play(rest)
	case "stop":
		var out any
		if err := httpc.DeleteJSON(c.base+"/api/routines", &out); err != nil {
			return err
		}
		return c.print(out)
	case "watch":
		stream := "events"
		if len(rest) > 0 {
			stream = rest[0]
		}
		return c.watch(ctx, stream)
	default:
		return c.command(verb, rest)
	}
}

func (c *client) get(path string) error {
	var out any
	if err := httpc.GetJSON(c.base+path, &out); err != nil {
		return err
	}
	return c.print(out)
}

func (c *client) commands() error {
	var cmds []command.Command
	if err := httpc.GetJSON(c.base+"/api/commands", &cmds); err != nil {
		return err
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	for _, cmd := range cmds {
		fmt.Fprintf(c.out, "%-10s %s", cmd.Name, cmd.Description)
		if cmd.Usage != "" {
			fmt.Fprintf(c.out, " (%s)", cmd.Usage)
		}
		fmt.Fprintln(c.out)
	}
	return nil
}

func (c *client) command(name string, pairs []string) error {
	args, err := command.ParseArgs(command.DefaultKey[name], pairs)
	if err != nil {
		return err
	}
	var out struct {
		Command string `json:"command"`
		State   any    `json:"state"`
	}
	body := map[string]any{"args": args}
	if err := httpc.PostJSON(c.base+"/api/commands/"+url.PathEscape(name), body, &out); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ %s\n", out.Command)
	return nil
}

func (c *client) play(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: eyesctl play <routine> [speed=N] [loop=true]")
	}
	name := args[0]
	opts, err := command.ParseArgs("", args[1:])
	if err != nil {
		return err
	}

	body := map[string]any{}
	if v, ok := opts["speed"]; ok {
		speed, err := strconv.ParseFloat(fmt.Sprint(v), 64)
		if err != nil {
			return fmt.Errorf("speed: %w", err)
		}
		body["speed"] = speed
	}
	if opts.Has("loop") {
		loop, err := opts.Bool("loop", false)
		if err != nil {
			return err
		}
		body["loop"] = loop
	}

	var out any
	if err := httpc.PostJSON(c.base+"/api/routines/"+url.PathEscape(name), body, &out); err != nil {
		return err
	}
	return c.print(out)
}

// watch prints messages from a websocket stream until ctx is cancelled.
func (c *client) watch(ctx context.Context, stream string) error {
	if stream != "events" && stream != "state" {
		return fmt.Errorf("unknown stream %q (want events or state)", stream)
	}
	wsURL := config.WebsocketURL(c.base, "/ws/"+stream)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			fmt.Fprintf(c.out, "? %s\n", data)
			continue
		}
		fmt.Fprintf(c.out, "%s %s\n", msg.Type, msg.Data)
	}
}

func (c *client) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
