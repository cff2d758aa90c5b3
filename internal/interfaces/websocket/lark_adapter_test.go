package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	infralark "github.com/garyjia/voucher-bot/internal/infrastructure/external/lark"
)

func TestLarkAdapter_StopBeforeStart(t *testing.T) {
	processor := infralark.NewEventProcessor(nil, zap.NewNop())
	adapter := NewLarkAdapter(LarkAdapterConfig{AppID: "cli_a", AppSecret: "s"}, processor, zap.NewNop())

	assert.False(t, adapter.IsRunning())
	assert.NoError(t, adapter.Stop())
	assert.False(t, adapter.IsRunning())
}
