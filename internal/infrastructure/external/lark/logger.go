package lark

import (
	"context"
	"fmt"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"go.uber.org/zap"
)

// SDKLogger routes the Lark SDK's internal logging into zap
type SDKLogger struct {
	logger *zap.SugaredLogger
}

// NewSDKLogger wraps logger for use with lark.WithLogger and larkws.WithLogger
func NewSDKLogger(logger *zap.Logger) *SDKLogger {
	return &SDKLogger{logger: logger.Named("lark-sdk").Sugar()}
}

func (l *SDKLogger) Debug(ctx context.Context, args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *SDKLogger) Info(ctx context.Context, args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *SDKLogger) Warn(ctx context.Context, args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *SDKLogger) Error(ctx context.Context, args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

var _ larkcore.Logger = (*SDKLogger)(nil)
