package main

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/redcon"
)

var errInvalidRecord = errors.New("invalid record")

// validateRecord rejects records the stack file can't round-trip: a newline
// would split the record and invalid UTF-8 can't be popped back.
func validateRecord(rec []byte) error {
	if bytes.IndexByte(rec, '\n') >= 0 || !utf8.Valid(rec) {
		return errInvalidRecord
	}
	return nil
}

func (app *App) ping(conn redcon.Conn, cmd redcon.Command) {
	conn.WriteString("PONG")
}

func (app *App) quit(conn redcon.Conn, cmd redcon.Command) {
	conn.WriteString("OK")
	conn.Close()
}

// push appends every argument in order and replies with the number pushed.
func (app *App) push(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 2 {
		conn.WriteError("ERR wrong number of arguments for '" + string(cmd.Args[0]) + "' command")
		return
	}

	// Validate everything first so a bad argument pushes nothing.
	for _, arg := range cmd.Args[1:] {
		if err := validateRecord(arg); err != nil {
			conn.WriteError("ERR " + err.Error())
			return
		}
	}

	app.Lock()
	defer app.Unlock()

	for i, arg := range cmd.Args[1:] {
		if err := app.stack.Push(string(arg)); err != nil {
			app.lo.Error("error pushing record", "error", err)
			conn.WriteError(fmt.Sprintf("ERR %s (pushed %d)", err, i))
			return
		}
	}

	conn.WriteInt(len(cmd.Args) - 1)
}

func (app *App) pop(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 1 {
		conn.WriteError("ERR wrong number of arguments for '" + string(cmd.Args[0]) + "' command")
		return
	}

	app.Lock()
	defer app.Unlock()

	rec, ok, err := app.stack.Pop()
	if err != nil {
		app.lo.Error("error popping record", "error", err)
		conn.WriteError(fmt.Sprintf("ERR %s", err))
		return
	}
	if !ok {
		conn.WriteNull()
		return
	}

	conn.WriteBulkString(rec)
}

func (app *App) clear(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 1 {
		conn.WriteError("ERR wrong number of arguments for '" + string(cmd.Args[0]) + "' command")
		return
	}

	app.Lock()
	defer app.Unlock()

	if err := app.stack.Clear(); err != nil {
		app.lo.Error("error clearing stack", "error", err)
		conn.WriteError(fmt.Sprintf("ERR %s", err))
		return
	}

	conn.WriteString("OK")
}
