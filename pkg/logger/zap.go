// Пакет logger — обёртка над zap, реализующая ports.Logger.
// Контекст в сигнатурах зарезервирован под обогащение полей запроса.
package logger

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger — логгер сервиса; production-конфиг для прода,
// человекочитаемый development-конфиг для всего остального.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger — конструктор; вторым значением возвращает cleanup (Sync).
func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	build := zap.NewDevelopment
	if isProd {
		build = zap.NewProduction
	}

	base, err := build()
	if err != nil {
		return nil, nil, err
	}

	l := &ZapLogger{base: base, sugar: base.Sugar()}
	return l, l.base.Sync, nil
}

func (z *ZapLogger) Debugf(_ context.Context, format string, args ...any) {
	z.sugar.Debugf(format, args...)
}

func (z *ZapLogger) Infof(_ context.Context, format string, args ...any) {
	z.sugar.Infof(format, args...)
}

func (z *ZapLogger) Warnf(_ context.Context, format string, args ...any) {
	z.sugar.Warnf(format, args...)
}

func (z *ZapLogger) Errorf(_ context.Context, format string, args ...any) {
	z.sugar.Errorf(format, args...)
}

// Base — прямой доступ к zap.Logger для нестандартных мест.
func (z *ZapLogger) Base() *zap.Logger { return z.base }

// Sugared — sugared-вариант для форматных вызовов вне ports.Logger.
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
