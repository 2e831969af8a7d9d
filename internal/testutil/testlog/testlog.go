package testlog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Start silences global logging for one test unless QREGCTL_LOG_LEVEL
// asks otherwise.
func Start(t *testing.T) {
	t.Helper()
	log.Logger = log.Logger.Level(zerolog.WarnLevel)
	log.Debug().Str("test", t.Name()).Msg("start")
}
