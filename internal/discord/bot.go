// internal/discord/bot.go
//
// Discord adapter for the room engine.
// Responsibilities:
//   - Translate channel messages into room events (one room per channel).
//   - Deliver effects back to the channel as embeds.
//   - Ask for a room name when "create" arrives without one, waiting up to
//     PROMPT_TIMEOUT for the author's next message.
//
// Notes:
//   - Free-text guesses are only acted on while the author is a player in a
//     started room; anything else typed in the channel is ordinary chat.
//   - Errors go back to the author as a reply and never change room state.

package discord

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
	"github.com/robalobadob/wordle/apps/room-bot/internal/prompt"
	"github.com/robalobadob/wordle/apps/room-bot/internal/render"
	"github.com/robalobadob/wordle/apps/room-bot/internal/room"
)

// Submitter applies events in order. *room.Dispatcher implements it.
type Submitter interface {
	Submit(ctx context.Context, ev room.Event) ([]room.Effect, error)
}

// Rooms answers read-only room queries. *room.Controller implements it.
type Rooms interface {
	Snapshot(ctx context.Context, scopeID string) (room.View, error)
}

// Messenger is the part of *discordgo.Session the bot sends through.
type Messenger interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Options configures the bot.
type Options struct {
	Prefix        string        // command prefix; defaults to "!"
	PromptTimeout time.Duration // room-name wait; defaults to 60s
}

// Incoming is a channel message stripped to what the bot needs.
type Incoming struct {
	ChannelID string
	GuildID   string
	MessageID string
	AuthorID  string
	Content   string
}

// Bot relays between a Discord session and the room dispatcher.
type Bot struct {
	session *discordgo.Session
	events  Submitter
	rooms   Rooms
	prompts *prompt.Broker
	render  render.Renderer
	opts    Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Mention formats a user id as a Discord mention.
func Mention(id string) string { return "<@" + id + ">" }

// New creates a bot for token. Call Open to connect.
func New(token string, events Submitter, rooms Rooms, prompts *prompt.Broker, opts Options) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	b := newBot(events, rooms, prompts, opts)
	b.session = dg
	dg.AddHandler(b.onMessageCreate)
	return b, nil
}

func newBot(events Submitter, rooms Rooms, prompts *prompt.Broker, opts Options) *Bot {
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	if opts.PromptTimeout <= 0 {
		opts.PromptTimeout = 60 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		events:  events,
		rooms:   rooms,
		prompts: prompts,
		render:  render.New(opts.Prefix, Mention),
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Open connects to the Discord gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Info().Str("prefix", b.opts.Prefix).Msg("discord bot connected")
	return nil
}

// Close abandons open prompts, waits for in-flight work and disconnects.
func (b *Bot) Close() error {
	b.cancel()
	b.wg.Wait()
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	b.Handle(s, Incoming{
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
	})
}

// Handle processes one message.
func (b *Bot) Handle(out Messenger, in Incoming) {
	if b.prompts.Offer(in.ChannelID, in.AuthorID, in.Content) {
		return
	}

	cmd, ok := Parse(b.opts.Prefix, in.Content)
	if !ok {
		return
	}

	ev := room.Event{
		Type:    cmd.Type,
		ScopeID: in.ChannelID,
		ActorID: in.AuthorID,
		Payload: room.Payload{Name: cmd.Name, Mode: cmd.Mode, Text: cmd.Text},
	}

	if cmd.Type == room.EventCreate && cmd.Name == "" {
		b.askName(out, in, ev)
		return
	}

	b.dispatch(out, in, ev)
}

// askName prompts the author for a room name and creates the room with it.
// The prompt is registered before it is posted, so a fast reply is never
// mistaken for chat. A channel that already has a room is refused up front.
func (b *Bot) askName(out Messenger, in Incoming, ev room.Event) {
	if _, err := b.rooms.Snapshot(b.ctx, in.ChannelID); err == nil {
		b.reply(out, in, b.render.Error(apperr.ErrSessionExists))
		return
	} else if !errors.Is(err, apperr.ErrNoSession) {
		b.reply(out, in, b.render.Error(err))
		return
	}

	w, err := b.prompts.Register(in.ChannelID, in.AuthorID)
	if err != nil {
		// already asked
		return
	}
	b.send(out, in.ChannelID, render.Message{Body: "Please enter a room name:", Color: render.ColorRoom})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		name, err := w.Wait(b.ctx, b.opts.PromptTimeout)
		switch {
		case errors.Is(err, prompt.ErrTimeout):
			b.reply(out, in, "Timed out waiting for a room name, try again later")
			return
		case err != nil:
			return
		}
		ev.Payload.Name = name
		b.dispatch(out, in, ev)
	}()
}

func (b *Bot) dispatch(out Messenger, in Incoming, ev room.Event) {
	effects, err := b.events.Submit(b.ctx, ev)
	if err != nil {
		if ev.Type == room.EventGuess && chatter(err) {
			return
		}
		b.reply(out, in, b.render.Error(err))
		return
	}
	for _, e := range effects {
		b.send(out, in.ChannelID, b.render.Effect(e))
	}
}

// chatter reports whether a rejected guess was really ordinary chat: no
// room, no round yet, or an author who isn't playing.
func chatter(err error) bool {
	return errors.Is(err, apperr.ErrNoSession) ||
		errors.Is(err, apperr.ErrNotStarted) ||
		errors.Is(err, apperr.ErrNotParticipant)
}

func (b *Bot) send(out Messenger, channelID string, msg render.Message) {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Body,
		Color:       msg.Color,
	}
	if _, err := out.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Warn().Err(err).Str("channel", channelID).Msg("send embed failed")
	}
}

func (b *Bot) reply(out Messenger, in Incoming, text string) {
	ref := &discordgo.MessageReference{
		MessageID: in.MessageID,
		ChannelID: in.ChannelID,
		GuildID:   in.GuildID,
	}
	if _, err := out.ChannelMessageSendReply(in.ChannelID, text, ref); err != nil {
		log.Warn().Err(err).Str("channel", in.ChannelID).Msg("send reply failed")
	}
}
