package ctcp

import (
	"os"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// newEngineLogger returns the base logger an Engine hands out to every
// connection it opens. Output goes to stderr as a structured console
// stream.
func newEngineLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("component", "ctcp").
		Logger()
}

// connLogger derives a child logger carrying the connection's id, so
// every log line emitted while handling that connection's events can
// be filtered or correlated without threading an id through every
// call.
func connLogger(base zerolog.Logger, id xid.ID) zerolog.Logger {
	return base.With().Str("conn", id.String()).Logger()
}
