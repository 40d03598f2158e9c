/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger opens (or appends to) dir/filename and returns a Logger writing JSON lines to it.
func InitLogger(dir string, filename string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "while creating query log dir %s", dir)
	}
	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "while opening query log %s", path)
	}
	return NewLogger(f), nil
}

// NewLogger returns a Logger writing JSON lines to ws.
func NewLogger(ws zapcore.WriteSyncer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		ws, zap.DebugLevel)
	return &Logger{
		logger: zap.New(core),
		closer: ws,
	}
}

// Logger records one entry per query. A nil *Logger discards everything.
type Logger struct {
	logger *zap.Logger
	closer zapcore.WriteSyncer
}

func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		flds = append(flds, zap.Any(key, args[i+1]))
	}
	return flds
}

// QueryI logs an info entry. args are alternating keys and values.
func (l *Logger) QueryI(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Info(msg, fields(args)...)
}

// QueryE logs an error entry. args are alternating keys and values.
func (l *Logger) QueryE(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Error(msg, fields(args)...)
}

func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.logger.Sync()
}

// Close flushes the logger and closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.Sync()
	if c, ok := l.closer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
