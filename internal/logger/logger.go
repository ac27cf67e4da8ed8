package logger

import (
	"io"
	"log/slog"
)

var ProgramLevel = new(slog.LevelVar)

// SetupLogger initialiserer loggeren med JSON-format mot w og standard nivå.
func SetupLogger(w io.Writer) {
	ProgramLevel.Set(slog.LevelInfo)

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ProgramLevel,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

// SetDebug setter loggnivået til Debug hvis debug er true.
func SetDebug(debug bool) {
	if debug {
		ProgramLevel.Set(slog.LevelDebug)
	}
}

// ForRepo gir en logger der alle linjer er merket med repoet som behandles.
func ForRepo(fullName string) *slog.Logger {
	return slog.Default().With("repo", fullName)
}
