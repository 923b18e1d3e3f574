package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mymmrac/telego"

	"github.com/nkka404/tginfo/internal/model"
)

// BotClient implements Client over the Telegram Bot API via telego.
//
// Two Bot API limitations surface here and are accepted:
//   - data-center ids are not exposed, so DCID stays nil and geography
//     degrades to the "Unknown" sentinel;
//   - bot/premium flags are not reported for looked-up users, so they
//     default to false.
type BotClient struct {
	bot *telego.Bot

	mu        sync.Mutex
	connected bool
}

// BotClientConfig configures the Bot API session.
type BotClientConfig struct {
	// Token is the bot token used to authenticate.
	Token string
	// APIServer overrides the Bot API server URL. Empty means the public
	// https://api.telegram.org.
	APIServer string
	// Timeout bounds each outbound HTTP call.
	Timeout time.Duration
}

// NewBotClient builds the client without touching the network; the first
// Connect call authenticates.
func NewBotClient(cfg BotClientConfig) (*BotClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram: bot token required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	options := []telego.BotOption{
		telego.WithDiscardLogger(),
		telego.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.APIServer != "" {
		options = append(options, telego.WithAPIServer(cfg.APIServer))
	}

	bot, err := telego.NewBot(cfg.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("telegram: creating bot client: %w", err)
	}
	return &BotClient{bot: bot}, nil
}

var _ Client = (*BotClient)(nil)

// Connect authenticates the session by fetching the bot's own identity.
func (c *BotClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}
	if _, err := c.bot.GetMe(ctx); err != nil {
		return fmt.Errorf("telegram: connecting: %w", err)
	}
	c.connected = true
	return nil
}

// IsConnected reports whether Connect has succeeded on this session.
func (c *BotClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close marks the session dead. The Bot API is stateless over HTTP, so
// there is nothing to tear down besides the connected flag.
func (c *BotClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	return nil
}

// AccountByHandle resolves a public handle to an account.
func (c *BotClient) AccountByHandle(ctx context.Context, handle string) (*model.Account, error) {
	chat, err := c.getChat(ctx, telego.ChatID{Username: "@" + strings.TrimPrefix(handle, "@")})
	if err != nil {
		return nil, err
	}
	return c.accountFromChat(chat)
}

// AccountByID resolves a numeric id to an account.
func (c *BotClient) AccountByID(ctx context.Context, id int64) (*model.Account, error) {
	chat, err := c.getChat(ctx, telego.ChatID{ID: id})
	if err != nil {
		return nil, err
	}
	return c.accountFromChat(chat)
}

// GroupByHandle resolves a public handle to a group, supergroup or channel.
func (c *BotClient) GroupByHandle(ctx context.Context, handle string) (*model.Group, error) {
	chat, err := c.getChat(ctx, telego.ChatID{Username: "@" + strings.TrimPrefix(handle, "@")})
	if err != nil {
		return nil, err
	}
	return c.groupFromChat(ctx, chat)
}

// GroupByID resolves a numeric id to a group, supergroup or channel.
func (c *BotClient) GroupByID(ctx context.Context, id int64) (*model.Group, error) {
	chat, err := c.getChat(ctx, telego.ChatID{ID: id})
	if err != nil {
		return nil, err
	}
	return c.groupFromChat(ctx, chat)
}

func (c *BotClient) getChat(ctx context.Context, id telego.ChatID) (*telego.ChatFullInfo, error) {
	chat, err := c.bot.GetChat(ctx, &telego.GetChatParams{ChatID: id})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return chat, nil
}

// accountFromChat maps a private chat to the Account variant. Non-private
// chats report ErrNotFound so the caller can fall through to the group
// phase.
func (c *BotClient) accountFromChat(chat *telego.ChatFullInfo) (*model.Account, error) {
	if chat.Type != telego.ChatTypePrivate {
		return nil, ErrNotFound
	}
	acc := &model.Account{
		ID:        chat.ID,
		FirstName: chat.FirstName,
		Usernames: chat.ActiveUsernames,
	}
	if chat.LastName != "" {
		acc.LastName = strPtr(chat.LastName)
	}
	if chat.Username != "" {
		acc.Username = strPtr(chat.Username)
	}
	if chat.Bio != "" {
		acc.Bio = strPtr(chat.Bio)
	}
	return acc, nil
}

// groupFromChat maps a non-private chat to the Group variant, fetching the
// member count best-effort.
func (c *BotClient) groupFromChat(ctx context.Context, chat *telego.ChatFullInfo) (*model.Group, error) {
	var kind model.GroupKind
	switch chat.Type {
	case telego.ChatTypeGroup:
		kind = model.GroupKindGroup
	case telego.ChatTypeSupergroup:
		kind = model.GroupKindSupergroup
	case telego.ChatTypeChannel:
		kind = model.GroupKindChannel
	default:
		return nil, ErrNotFound
	}

	group := &model.Group{
		ID:        chat.ID,
		Kind:      kind,
		Title:     chat.Title,
		Usernames: chat.ActiveUsernames,
	}
	if chat.Username != "" {
		group.Username = strPtr(chat.Username)
	}
	if chat.Description != "" {
		group.Description = strPtr(chat.Description)
	}

	// Member count is a separate call and not worth failing the whole
	// lookup over.
	if count, err := c.bot.GetChatMemberCount(ctx, &telego.GetChatMemberCountParams{
		ChatID: telego.ChatID{ID: chat.ID},
	}); err == nil {
		group.MembersCount = count
	}

	return group, nil
}

// isNotFound classifies Bot API errors. The API reports missing entities as
// generic 400s with a description, so classification is message-based.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "chat_id is empty") ||
		strings.Contains(msg, "invalid user_id") ||
		strings.Contains(msg, "username is invalid")
}

func strPtr(s string) *string {
	return &s
}
