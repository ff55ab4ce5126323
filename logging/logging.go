package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes the global logger. Logs always go to os.Stderr; when
// logFile is set they are also written to a rotating file.
// verbose forces the debug level regardless of level.
func Init(level string, verbose bool, logFile string) error {
	// 1. Determine log level
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	// 2. Setup Stderr Writer (Console)
	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}}

	// 3. Setup File Writer (Rotating)
	if logFile != "" {
		fileWriter, err := NewFileWriter(logFile)
		if err != nil {
			return err
		}
		writers = append(writers, fileWriter)
	}

	// 4. Set Global Logger
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	if err != nil {
		log.Warn().Str("level", level).Msg("invalid log level, using info")
	}
	return nil
}

// NewFileWriter returns a size-rotated writer for logFile, creating its
// directory if needed.
func NewFileWriter(logFile string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %q: %w", logFile, err)
	}

	return &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}, nil
}
