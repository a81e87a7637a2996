package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	InfoLog  *slog.Logger = slog.Default()
	ErrorLog *slog.Logger = slog.Default()
)

// ParsearNivel traduce el LOG_LEVEL de la configuración a un slog.Level
func ParsearNivel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InicializarLogger configura los loggers globales
func InicializarLogger(logLevel string, moduleName string) {
	InicializarLoggerEn(os.Stdout, logLevel, moduleName)
}

// InicializarLoggerEn es InicializarLogger con destino configurable
func InicializarLoggerEn(w io.Writer, logLevel string, moduleName string) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParsearNivel(logLevel),
	})

	logger := slog.New(handler).With("modulo", moduleName)

	InfoLog = logger
	ErrorLog = logger
	slog.SetDefault(logger)
}
