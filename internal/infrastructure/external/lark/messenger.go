package lark

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/application/port"
	"github.com/garyjia/voucher-bot/internal/domain/conversation"
)

const (
	receiveIDTypeOpenID = "open_id"
	msgTypeText         = "text"
	msgTypeInteractive  = "interactive"
)

// messageAPI creates one message; the seam for tests
type messageAPI interface {
	Create(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

type sdkMessageAPI struct {
	client *lark.Client
}

func (a *sdkMessageAPI) Create(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := a.client.Im.Message.Create(ctx, req)
	if err != nil {
		return "", err
	}
	if !resp.Success() {
		return "", fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}
	return messageID, nil
}

// Messenger implements port.Messenger over im/v1 message create. Plain replies
// go out as text; replies with suggestions go out as an interactive card that
// lists them. Lark has no reply keyboard, so a remove-keyboard hint is sent as
// plain text.
type Messenger struct {
	api    messageAPI
	logger *zap.Logger
}

// NewMessenger creates a new Lark message sender adapter
func NewMessenger(client *SDKClient, logger *zap.Logger) *Messenger {
	return &Messenger{
		api:    &sdkMessageAPI{client: client.GetClient()},
		logger: logger,
	}
}

// Send delivers one reply to the user's p2p chat
func (m *Messenger) Send(ctx context.Context, userID string, reply conversation.Reply) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	if reply.Text == "" {
		return fmt.Errorf("reply text cannot be empty")
	}

	msgType, content, err := BuildContent(reply)
	if err != nil {
		return err
	}

	messageID, err := m.api.Create(ctx, receiveIDTypeOpenID, userID, msgType, content)
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("receive_id", userID),
			zap.String("msg_type", msgType),
			zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	m.logger.Debug("Message sent",
		zap.String("message_id", messageID),
		zap.String("receive_id", userID),
		zap.String("msg_type", msgType))
	return nil
}

// BuildContent renders a reply as a Lark message type and JSON content
func BuildContent(reply conversation.Reply) (msgType string, content string, err error) {
	if reply.Keyboard.Kind == conversation.KeyboardSuggest && len(reply.Keyboard.Rows) > 0 {
		data, err := json.Marshal(suggestionCard(reply))
		if err != nil {
			return "", "", fmt.Errorf("failed to marshal card content: %w", err)
		}
		return msgTypeInteractive, string(data), nil
	}

	data, err := json.Marshal(map[string]string{"text": reply.Text})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal text content: %w", err)
	}
	return msgTypeText, string(data), nil
}

type cardText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

type cardField struct {
	IsShort bool     `json:"is_short"`
	Text    cardText `json:"text"`
}

type cardElement struct {
	Tag    string      `json:"tag"`
	Text   *cardText   `json:"text,omitempty"`
	Fields []cardField `json:"fields,omitempty"`
}

type card struct {
	Config   map[string]bool `json:"config"`
	Elements []cardElement   `json:"elements"`
}

// suggestionCard shows the prompt followed by one block per suggestion row
func suggestionCard(reply conversation.Reply) card {
	elements := []cardElement{
		{Tag: "div", Text: &cardText{Tag: "plain_text", Content: reply.Text}},
		{Tag: "hr"},
	}

	for _, row := range reply.Keyboard.Rows {
		fields := make([]cardField, 0, len(row))
		for _, option := range row {
			fields = append(fields, cardField{
				IsShort: true,
				Text:    cardText{Tag: "plain_text", Content: option},
			})
		}
		elements = append(elements, cardElement{Tag: "div", Fields: fields})
	}

	return card{
		Config:   map[string]bool{"wide_screen_mode": true},
		Elements: elements,
	}
}

var _ port.Messenger = (*Messenger)(nil)
