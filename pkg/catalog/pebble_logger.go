package catalog

import (
	"fmt"
	"log/slog"
	"os"
)

// pebbleLogger routes pebble's internal logging through slog. Informational
// output is demoted to Debug so routine flushes stay quiet.
type pebbleLogger struct {
	log *slog.Logger
}

func (l pebbleLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...), slog.String("component", "pebble"))
}

func (l pebbleLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...), slog.String("component", "pebble"))
}

func (l pebbleLogger) Fatalf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...), slog.String("component", "pebble"))
	os.Exit(1)
}
