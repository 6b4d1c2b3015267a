// Package bus is the in-process change-notification channel. Components
// that share client state (the session directory, the chat log, any
// mounted view) communicate through typed broadcast messages instead of
// holding references to each other.
package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/knowlab/knowlab-cli/internal/domain"
)

const (
	// TopicSessions carries SessionAdded events.
	TopicSessions = "sessions"
	// TopicChat carries ChatAppended events.
	TopicChat = "chat"
)

// SessionAdded announces a session newly known to the directory, so other
// mounted directory instances can prepend it without a re-fetch.
type SessionAdded struct {
	Session domain.Session `json:"session"`
}

// ChatAppended announces a new exchange in a session's chat history.
type ChatAppended struct {
	SessionID string `json:"session_id"`
}

// Bus wraps an in-memory watermill pub/sub channel.
type Bus struct {
	pubSub *gochannel.GoChannel
}

// New creates a bus. Subscribers registered after a publish do not see
// earlier messages.
func New() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
}

// PublishSessionAdded broadcasts a new session.
func (b *Bus) PublishSessionAdded(s domain.Session) error {
	payload, err := json.Marshal(SessionAdded{Session: s})
	if err != nil {
		return fmt.Errorf("failed to encode session event: %w", err)
	}
	return b.pubSub.Publish(TopicSessions, message.NewMessage(watermill.NewUUID(), payload))
}

// PublishChatAppended broadcasts a chat-history change.
func (b *Bus) PublishChatAppended(sessionID string) error {
	payload, err := json.Marshal(ChatAppended{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to encode chat event: %w", err)
	}
	return b.pubSub.Publish(TopicChat, message.NewMessage(watermill.NewUUID(), payload))
}

// SubscribeSessions delivers decoded SessionAdded events until ctx is
// cancelled. Undecodable messages are acked and dropped.
func (b *Bus) SubscribeSessions(ctx context.Context) (<-chan SessionAdded, error) {
	messages, err := b.pubSub.Subscribe(ctx, TopicSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", TopicSessions, err)
	}

	out := make(chan SessionAdded)
	go func() {
		defer close(out)
		for msg := range messages {
			var evt SessionAdded
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// SubscribeChat delivers decoded ChatAppended events until ctx is
// cancelled.
func (b *Bus) SubscribeChat(ctx context.Context) (<-chan ChatAppended, error) {
	messages, err := b.pubSub.Subscribe(ctx, TopicChat)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", TopicChat, err)
	}

	out := make(chan ChatAppended)
	go func() {
		defer close(out)
		for msg := range messages {
			var evt ChatAppended
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the underlying channel down and closes subscriber channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
