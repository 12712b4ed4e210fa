package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogFile is the diagnostic log name inside the log directory.
const LogFile = "renameit.log"

// Setup configures the global zerolog logger. Console output goes to stderr
// at warn level, or debug when verbose. When dir is non-empty a rotating file
// at debug level is added.
func Setup(stderr io.Writer, verbose bool, dir string) error {
	consoleLevel := zerolog.WarnLevel
	if verbose {
		consoleLevel = zerolog.DebugLevel
	}

	writers := []io.Writer{
		levelWriter{
			Writer: zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"},
			level:  consoleLevel,
		},
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(dir, LogFile),
			MaxSize:    1,
			MaxBackups: 2,
		})
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zlog.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()
	return nil
}

// levelWriter drops events below level.
type levelWriter struct {
	io.Writer
	level zerolog.Level
}

func (w levelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < w.level {
		return len(p), nil
	}
	return w.Writer.Write(p)
}
