package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var RootLogger zerolog.Logger = zerolog.New(
	zerolog.NewConsoleWriter(
		func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr },
		func(w *zerolog.ConsoleWriter) { w.TimeFormat = "15:04:05.000" })).Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// ContractLogger returns a child logger scoped to one contract instance.
func ContractLogger(contract string, id string) zerolog.Logger {
	return RootLogger.With().Str(contract, id).Logger()
}
