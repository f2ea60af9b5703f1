package main

import (
	"os"
	"sync"

	"github.com/mr-karan/linestack/pkg/linestack"
	"github.com/tidwall/redcon"
	"github.com/zerodha/logf"
)

var (
	// Version of the build. This is injected at build-time.
	buildString = "unknown"
)

type App struct {
	// Guards stack: redcon runs handlers for each connection concurrently.
	sync.Mutex

	lo    logf.Logger
	stack *linestack.Stack
}

func main() {
	ko, err := initConfig(os.Args[1:])
	if err != nil {
		logf.New(logf.Opts{}).Fatal("error loading config", "error", err)
	}

	lo := initLogger(ko)
	lo.Info("starting linestack server", "version", buildString)

	stack, err := initStack(ko, lo)
	if err != nil {
		lo.Fatal("error opening stack", "error", err)
	}
	defer stack.Close()

	app := &App{
		lo:    lo,
		stack: stack,
	}

	addr := ko.String("app.address")
	lo.Info("listening", "address", addr, "path", stack.Path())

	if err := redcon.ListenAndServe(addr,
		app.mux().ServeRESP,
		func(conn redcon.Conn) bool {
			// use this function to accept or deny the connection.
			return true
		},
		func(conn redcon.Conn, err error) {
			// this is called when the connection has been closed
		},
	); err != nil {
		lo.Fatal("error starting server", "error", err)
	}
}

// mux registers the command handlers.
func (app *App) mux() *redcon.ServeMux {
	mux := redcon.NewServeMux()
	mux.HandleFunc("ping", app.ping)
	mux.HandleFunc("quit", app.quit)
	mux.HandleFunc("push", app.push)
	mux.HandleFunc("pop", app.pop)
	mux.HandleFunc("clear", app.clear)
	return mux
}
