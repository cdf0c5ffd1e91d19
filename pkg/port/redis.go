// Serves the list store over the Redis protocol. Every list operation has its own command:
//
//	LSIZE key               -> integer size (0 for a missing key)
//	LGET key pos            -> bulk string at pos
//	LFIND key value         -> integer position of the first match, or -1
//	LINSERTAT key pos value -> integer size after inserting value at pos
//	LREMOVEAT key pos       -> integer size after removing the element at pos
//	LDUMP key               -> bulk string rendering of the list, or nil
//	LCHECK key              -> OK when the list links are consistent
//	DEL key [key ...]       -> integer number of deleted lists
//	KEYS pattern            -> array of list names matching the glob pattern
//
// Positions are zero-based; an out-of-range position is returned to the client as an error reply.

package port

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nobletooth/dlist/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/redcon"
)

const RedisOk = "OK"

var address = flag.String("address", ":6380", "The ip:port to listen on for Redis protocol.")

var commandsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dlist",
	Name:      "commands_total",
	Help:      "The total number of Redis commands handled, by command and outcome.",
}, []string{
	"command", // Upper-cased command name; "UNKNOWN" for unsupported commands.
	"status",  // "ok" or "error".
})

// commandArity is the number of arguments (excluding the command name) each command expects.
// A negative arity -N means at least N arguments.
var commandArity = map[string]int{
	"PING":      0,
	"QUIT":      0,
	"LSIZE":     1,
	"LGET":      2,
	"LFIND":     2,
	"LINSERTAT": 3,
	"LREMOVEAT": 2,
	"LDUMP":     1,
	"LCHECK":    1,
	"DEL":       -1,
	"KEYS":      1,
}

// redisCommand represents a Redis command with its arguments.
type redisCommand struct {
	command string
	args    []string
}

// redisOutput conforms to a real Redis server output on non pub / sub commands.
type redisOutput struct {
	closeConnection bool     // Closes the connection if true.
	writeNil        bool     // Writes a nil value if true.
	err             *string  // Error to return if set.
	writeInt        *int     // Writes an integer value if set.
	writeArray      []string // Writes an array of bulk strings if non-nil.
	bulk            bool     // Writes writeString as a bulk string instead of a simple string.
	writeString     string   // Writes a string value if set.
}

func closeRedisConnection(msg string) redisOutput {
	return redisOutput{writeString: msg, closeConnection: true}
}

func writeRedisNil() redisOutput {
	return redisOutput{writeNil: true}
}

func writeRedisInt(i int) redisOutput {
	return redisOutput{writeInt: &i}
}

func writeRedisString(s string) redisOutput {
	return redisOutput{writeString: s}
}

func writeRedisBulk(s string) redisOutput {
	return redisOutput{writeString: s, bulk: true}
}

func writeRedisArray(items []string) redisOutput {
	if items == nil {
		items = []string{}
	}
	return redisOutput{writeArray: items}
}

func writeRedisError(err error) redisOutput {
	msg := "ERR " + err.Error()
	return redisOutput{err: &msg}
}

// isError returns true if the output is an error reply.
func (o redisOutput) isError() bool {
	return o.err != nil
}

// writeTo writes the output on the given connection; it doesn't close the connection.
func (o redisOutput) writeTo(conn redcon.Conn) {
	switch {
	case o.err != nil:
		conn.WriteError(*o.err)
	case o.writeNil:
		conn.WriteNull()
	case o.writeInt != nil:
		conn.WriteInt(*o.writeInt)
	case o.writeArray != nil:
		conn.WriteArray(len(o.writeArray))
		for _, item := range o.writeArray {
			conn.WriteBulkString(item)
		}
	case o.bulk:
		conn.WriteBulkString(o.writeString)
	default:
		conn.WriteString(o.writeString)
	}
}

// parsePosition parses a list position argument.
func parsePosition(arg string) (int, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New("value is not an integer or out of range")
	}
	return pos, nil
}

type redisHandler struct {
	store *store.ListStore
}

// newRedisHandler creates a new redisHandler.
func newRedisHandler(listStore *store.ListStore) (*redisHandler, error) {
	if listStore == nil {
		return nil, errors.New("expected a non-nil list store")
	}
	return &redisHandler{store: listStore}, nil
}

// handle executes the command and records its outcome in the commands metric.
func (rh *redisHandler) handle(cmd redisCommand) redisOutput {
	cmd.command = strings.ToUpper(cmd.command)
	output := rh.execute(cmd)

	label := cmd.command
	if _, known := commandArity[label]; !known {
		label = "UNKNOWN"
	}
	status := "ok"
	if output.isError() {
		status = "error"
	}
	commandsMetric.WithLabelValues(label, status).Inc()
	return output
}

func (rh *redisHandler) execute(cmd redisCommand) redisOutput {
	arity, known := commandArity[cmd.command]
	if !known {
		return writeRedisError(fmt.Errorf("unknown command '%s'", cmd.command))
	}
	if (arity >= 0 && len(cmd.args) != arity) || (arity < 0 && len(cmd.args) < -arity) {
		return writeRedisError(fmt.Errorf("wrong number of arguments for '%s' command", strings.ToLower(cmd.command)))
	}

	switch cmd.command {
	case "PING":
		return writeRedisString("PONG")
	case "QUIT":
		return closeRedisConnection(RedisOk)
	case "LSIZE":
		return writeRedisInt(rh.store.Size(cmd.args[0]))
	case "LGET":
		pos, err := parsePosition(cmd.args[1])
		if err != nil {
			return writeRedisError(err)
		}
		value, err := rh.store.Get(cmd.args[0], pos)
		if err != nil {
			return writeRedisError(err)
		}
		return writeRedisBulk(value)
	case "LFIND":
		return writeRedisInt(rh.store.Find(cmd.args[0], cmd.args[1]))
	case "LINSERTAT":
		pos, err := parsePosition(cmd.args[1])
		if err != nil {
			return writeRedisError(err)
		}
		size, err := rh.store.Insert(cmd.args[0], cmd.args[2], pos)
		if err != nil {
			return writeRedisError(err)
		}
		return writeRedisInt(size)
	case "LREMOVEAT":
		pos, err := parsePosition(cmd.args[1])
		if err != nil {
			return writeRedisError(err)
		}
		size, err := rh.store.Remove(cmd.args[0], pos)
		if err != nil {
			return writeRedisError(err)
		}
		return writeRedisInt(size)
	case "LDUMP":
		dump, err := rh.store.Dump(cmd.args[0])
		if errors.Is(err, store.ErrKeyNotFound) {
			return writeRedisNil()
		} else if err != nil {
			return writeRedisError(err)
		}
		return writeRedisBulk(dump)
	case "LCHECK":
		if err := rh.store.Validate(cmd.args[0]); err != nil {
			return writeRedisError(err)
		}
		return writeRedisString(RedisOk)
	case "DEL":
		return writeRedisInt(rh.store.Delete(cmd.args...))
	case "KEYS":
		matched, err := matchGlob(cmd.args[0], slices.Values(rh.store.Keys()))
		if err != nil {
			return writeRedisError(err)
		}
		return writeRedisArray(slices.Collect(matched))
	default:
		return writeRedisError(fmt.Errorf("unknown command '%s'", cmd.command))
	}
}

// serveRedisConn converts a redcon command, runs it and writes the output back to the client.
func (rh *redisHandler) serveRedisConn(conn redcon.Conn, cmd redcon.Command) {
	command := redisCommand{command: string(cmd.Args[0]), args: make([]string, len(cmd.Args)-1)}
	for i := 1; i < len(cmd.Args); i++ {
		command.args[i-1] = string(cmd.Args[i])
	}
	output := rh.handle(command)
	output.writeTo(conn)
	if output.closeConnection {
		if err := conn.Close(); err != nil {
			slog.Error("Failed to close connection.", "conn", conn.Context(), "error", err)
		}
	}
}

// RunRedisServer starts a Redis protocol server on --address serving the given list store.
// It blocks until `ctx` is cancelled or the server fails.
func RunRedisServer(ctx context.Context, listStore *store.ListStore) error {
	if *address == "" {
		return errors.New("expected a non-empty --address flag")
	}

	redisHandler, err := newRedisHandler(listStore)
	if err != nil {
		return fmt.Errorf("failed to create a new redis handler: %w", err)
	}

	redisServer := redcon.NewServerNetwork("tcp" /*net*/, *address,
		/*handler*/ redisHandler.serveRedisConn,
		/*accept*/ func(conn redcon.Conn) bool {
			connID := uuid.NewString()
			conn.SetContext(connID)
			slog.Debug("Accepted connection.", "conn", connID, "remote", conn.RemoteAddr())
			return true // Accept all connections.
		},
		/*closed*/ func(conn redcon.Conn, err error) {
			if err != nil {
				slog.Warn("Connection closed with an error.", "conn", conn.Context(), "error", err)
				return
			}
			slog.Debug("Connection closed.", "conn", conn.Context())
		})

	listenSignal := make(chan error, 1)
	serverErrSignal := make(chan error, 1)
	go func() {
		serverErrSignal <- redisServer.ListenServeAndSignal(listenSignal)
		close(serverErrSignal)
	}()

	// Close fails until the listener is bound, so wait for it before watching `ctx`.
	if err := <-listenSignal; err != nil {
		return fmt.Errorf("failed to listen on %s: %w", *address, err)
	}
	slog.Info("Serving Redis protocol.", "address", *address)

	select {
	case <-ctx.Done():
		if err := redisServer.Close(); err != nil {
			return fmt.Errorf("failed to close redis server: %w", err)
		}
		if err := <-serverErrSignal; err != nil { // Wait for open connections to be closed.
			return fmt.Errorf("redis server failed while closing: %w", err)
		}
	case err := <-serverErrSignal:
		if err != nil {
			return fmt.Errorf("redis server stopped unexpectedly: %w", err)
		}
	}

	return nil // Exited with no errors.
}
