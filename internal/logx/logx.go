// Package logx fronts zerolog with a small package-level API so callers
// don't carry a logger handle through every function.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.Kitchen,
}).With().Timestamp().Logger()

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetVerbose lowers the global level to debug when v is true.
func SetVerbose(v bool) {
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

// Errf logs at error level.
func Errf(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}
