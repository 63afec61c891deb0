package logger

import (
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotate, dosya log'u için dönme (rotation) ayarları.
type Rotate struct {
	Filename   string // log dosyası yolu
	MaxSize    int    // MB cinsinden dosya başına maksimum boyut
	MaxAge     int    // gün cinsinden saklama süresi
	MaxBackups int    // saklanacak eski dosya sayısı
	Compress   bool
}

// DefaultRotate, varsayılan rotation ayarlarını döner.
func DefaultRotate(filename string) *Rotate {
	if filename == "" {
		filename = "logs/app.log"
	}
	return &Rotate{
		Filename:   filename,
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
	}
}

// Writer, ayarlara göre lumberjack writer'ı üretir.
func (r *Rotate) Writer() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   r.Filename,
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
		LocalTime:  true,
		Compress:   r.Compress,
	}
}

// WithFile, çıktıyı dönen log dosyasına yönlendirir.
func WithFile(r *Rotate) Option {
	return func(l zerolog.Logger) zerolog.Logger {
		if r == nil || r.Filename == "" {
			return l
		}
		return l.Output(r.Writer())
	}
}
