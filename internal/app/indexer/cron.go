package indexer

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// cronLogger routes scheduler messages to the global zerolog logger.
type cronLogger struct{}

func fields(e *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		k, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(k, keysAndValues[i+1])
	}
	return e
}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	fields(log.Trace(), keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields(log.Error().Err(err), keysAndValues).Msg("cron: " + msg)
}
