// -----------------------------------------------------------------------------
// Logger
// -----------------------------------------------------------------------------
// zerolog tabanlı, yapılandırılmış (structured) log katmanı.
//
// Varsayılan çıktı insan tarafından okunabilir console formatıdır. WithOutput
// ile ham JSON yazılır, WithFile ile lumberjack üzerinden dönen (rotating)
// dosyaya yazılır. Bileşenler *Logger'ı option olarak alır; verilmezse
// Default() kullanılır.
// -----------------------------------------------------------------------------

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	TraceLevel = zerolog.TraceLevel
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	Disabled   = zerolog.Disabled
)

// Option, zerolog.Logger üzerinde değişiklik yapan fonksiyondur.
type Option func(zerolog.Logger) zerolog.Logger

// Logger, zerolog.Logger wrapper'ı.
type Logger struct {
	l zerolog.Logger
}

// New, console çıktısına yazan yeni bir Logger oluşturur ve option'ları sırayla uygular.
//
// Örnek:
//
//	log := logger.New(logger.WithLevel(logger.DebugLevel))
//	log.Info().Str("path", "events.venue").Msg("relation joined")
func New(opts ...Option) *Logger {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.TimestampFieldName = "time"

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}
	console.FormatTimestamp = func(i interface{}) string {
		return fmt.Sprintf("[%s] ", i)
	}
	console.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}

	l := zerolog.New(console).With().Timestamp().Logger()
	for _, o := range opts {
		l = o(l)
	}
	return &Logger{l: l}
}

// WithOutput, çıktıyı verilen writer'a JSON olarak yönlendirir.
func WithOutput(w io.Writer) Option {
	return func(l zerolog.Logger) zerolog.Logger {
		return l.Output(w)
	}
}

// WithLevel, minimum log seviyesini belirler.
func WithLevel(level Level) Option {
	return func(l zerolog.Logger) zerolog.Logger {
		return l.Level(level)
	}
}

// WithFields, her kayda eklenecek sabit alanları belirler.
func WithFields(fields map[string]interface{}) Option {
	return func(l zerolog.Logger) zerolog.Logger {
		return l.With().Fields(fields).Logger()
	}
}

// ParseLevel, "debug", "info" gibi string değerleri Level'a çevirir.
// Boş değer InfoLevel döner.
func ParseLevel(value string) (Level, error) {
	if strings.TrimSpace(value) == "" {
		return InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
}

// SetLevel, logger'ın seviyesini değiştirir.
func (lg *Logger) SetLevel(level Level) {
	lg.l = lg.l.Level(level)
}

// With, ek context alanlarıyla alt logger üretmek için kullanılır.
func (lg *Logger) With() zerolog.Context {
	return lg.l.With()
}

// Named, "component" alanı eklenmiş yeni bir Logger döner.
func (lg *Logger) Named(component string) *Logger {
	return &Logger{l: lg.l.With().Str("component", component).Logger()}
}

// Zerolog, alttaki zerolog.Logger'ı döner (gorm/redis adapter'ları için).
func (lg *Logger) Zerolog() zerolog.Logger {
	return lg.l
}

func (lg *Logger) Trace() *zerolog.Event { return lg.l.Trace() }
func (lg *Logger) Debug() *zerolog.Event { return lg.l.Debug() }
func (lg *Logger) Info() *zerolog.Event  { return lg.l.Info() }
func (lg *Logger) Warn() *zerolog.Event  { return lg.l.Warn() }
func (lg *Logger) Error() *zerolog.Event { return lg.l.Error() }

var std = New(WithOutput(os.Stderr), WithLevel(InfoLevel))

// Default, paket seviyesindeki varsayılan logger'ı döner.
func Default() *Logger { return std }

// SetDefault, varsayılan logger'ı değiştirir.
func SetDefault(l *Logger) { std = l }

func Debug() *zerolog.Event { return std.Debug() }
func Info() *zerolog.Event  { return std.Info() }
func Warn() *zerolog.Event  { return std.Warn() }
func Error() *zerolog.Event { return std.Error() }
