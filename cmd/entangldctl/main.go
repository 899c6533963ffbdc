package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"golang.org/x/term"

	"github.com/Daxbot/entangld"
)

const EntangldCtlVersion = "0.0.1"

var Out *log.Logger
var Err *log.Logger

func init() {
	Out = log.New(os.Stdout, "", 0)
	Err = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
}

func main() {
	usage := `Entangld control.

Starts two in-process stores — "parent" and "child" — wired to each
other over an in-memory transport, with child mounted at "child" in
parent, and drops into a REPL against parent.

Usage:
    entangldctl repl [--throttle=<throttle>]

Options:
    -h --help               Show this screen.
    --version                Show version.
    --throttle=<throttle>    Default subscribe throttle. [default: 1]`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], EntangldCtlVersion)
	if err != nil {
		panic(err)
	}

	if repl_, _ := opts.Bool("repl"); repl_ {
		repl(opts)
	}
}

// pairedRemote is the opaque handle this demo hands to Attach/the send
// function: the other store's pointer. In a real deployment this would
// be a socket or channel identity; the core never looks inside it.
type pairedRemote struct {
	name  string
	store *entangld.Store
}

func wirePair() (parent *entangld.Store, child *entangld.Store) {
	parent = entangld.NewStore()
	child = entangld.NewStore()

	childHandle := &pairedRemote{name: "child", store: child}
	parentHandle := &pairedRemote{name: "parent", store: parent}

	parent.Transmit(func(msg entangld.Message, remote entangld.RemoteHandle) {
		r := remote.(*pairedRemote)
		if err := r.store.Receive(msg, parentHandle); err != nil {
			Err.Printf("parent->%s receive error: %s", r.name, err)
		}
	})
	child.Transmit(func(msg entangld.Message, remote entangld.RemoteHandle) {
		r := remote.(*pairedRemote)
		if err := r.store.Receive(msg, childHandle); err != nil {
			Err.Printf("child->%s receive error: %s", r.name, err)
		}
	})

	if err := parent.Attach("child", childHandle); err != nil {
		panic(err)
	}

	return parent, child
}

func repl(opts docopt.Opts) {
	throttle := 1
	if t, _ := opts.String("--throttle"); t != "" {
		if v, err := strconv.Atoi(t); err == nil {
			throttle = v
		}
	}

	parent, child := wirePair()
	_ = child

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		Out.Printf("entangldctl: not a terminal, exiting")
		return
	}

	Out.Printf("entangld repl — parent store, child mounted at \"child\".")
	Out.Printf("commands: get <path> | set <path> <json-ish-scalar> | sub <path> | ns | quit")

	ctx := context.Background()
	reader := newLineReader(os.Stdin)
	for {
		Out.Printf("> ")
		line, ok := reader.readLine()
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "ns":
			for ns, remote := range parent.Namespaces() {
				Out.Printf("%s -> %v", ns, remote)
			}
		case "get":
			if len(fields) < 2 {
				Out.Printf("usage: get <path>")
				continue
			}
			value, err := parent.Get(ctx, fields[1], nil)
			if err != nil {
				Err.Printf("get error: %s", err)
				continue
			}
			Out.Printf("%v", value)
		case "set":
			if len(fields) < 3 {
				Out.Printf("usage: set <path> <value>")
				continue
			}
			if err := parent.Set(fields[1], parseScalar(fields[2]), nil); err != nil {
				Err.Printf("set error: %s", err)
			}
		case "sub":
			if len(fields) < 2 {
				Out.Printf("usage: sub <path>")
				continue
			}
			path := fields[1]
			var id entangld.CorrelationId
			var err error
			id, err = parent.Subscribe(path, func(p string, v any) {
				Out.Printf("[event %s] %s = %v (%s)", id, p, v, time.Now().Format(time.RFC3339))
			}, throttle)
			if err != nil {
				Err.Printf("subscribe error: %s", err)
				continue
			}
			Out.Printf("subscribed: %s", id)
		default:
			Out.Printf("unknown command: %s", fields[0])
		}
	}
}

func parseScalar(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return s
}

// lineReader is a minimal stdin line reader, kept local to avoid pulling
// in a readline dependency for a demo command.
type lineReader struct {
	buf []byte
	f   *os.File
}

func newLineReader(f *os.File) *lineReader {
	return &lineReader{f: f}
}

func (r *lineReader) readLine() (string, bool) {
	one := make([]byte, 1)
	for {
		n, err := r.f.Read(one)
		if n == 0 || err != nil {
			if len(r.buf) == 0 {
				return "", false
			}
			line := string(r.buf)
			r.buf = nil
			return line, true
		}
		if one[0] == '\n' {
			line := string(r.buf)
			r.buf = nil
			return line, true
		}
		r.buf = append(r.buf, one[0])
	}
}
