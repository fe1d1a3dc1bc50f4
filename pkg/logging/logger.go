package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *logrus.Logger

// InitLogger configures Log. Output goes to stderr so reports on stdout stay clean;
// when logFile is set, entries are also appended to a rotating file.
func InitLogger(debug bool, quiet bool, logFile string) *logrus.Logger {
	Log = logrus.New()

	var out io.Writer = os.Stderr
	if logFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	Log.Out = out

	switch {
	case debug:
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	case quiet:
		Log.SetLevel(logrus.WarnLevel)
		Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
	return Log
}

// Discard returns a logger that drops everything; used by tests and library callers
// that do not care about logs.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
