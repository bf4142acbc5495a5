package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/rokuon/internal/notify"
)

const alertCustomIDPrefix = "rokuon-alert:"

// DiscordNotifier mirrors notices to a Discord text channel. Meeting alerts
// carry Record/Ignore buttons; clicks arrive over the gateway once Connect
// has been called.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string

	mu      sync.Mutex
	opened  bool
	pending map[string]func()
}

func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{
		session:   s,
		channelID: channelID,
		pending:   make(map[string]func()),
	}, nil
}

// Connect opens the gateway so alert button clicks are delivered.
func (d *DiscordNotifier) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.session.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)
	d.session.AddHandler(d.handleInteraction)
	if err := d.session.Open(); err != nil {
		return err
	}
	d.mu.Lock()
	d.opened = true
	d.mu.Unlock()
	return nil
}

func (d *DiscordNotifier) Close() error {
	d.mu.Lock()
	opened := d.opened
	d.opened = false
	d.mu.Unlock()
	if opened {
		return d.session.Close()
	}
	return nil
}

func (d *DiscordNotifier) Notify(ctx context.Context, n notify.Notice) {
	d.send(ctx, noticeMessage(n))
}

func (d *DiscordNotifier) PresentMeetingAlert(ctx context.Context, alert notify.MeetingAlert, accept func()) {
	d.mu.Lock()
	d.pending[alert.WindowHandle] = accept
	d.mu.Unlock()

	msg := &discordgo.MessageSend{
		Content: alertMessage(alert),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: alertButtons(alert)},
		},
	}
	if _, err := d.session.ChannelMessageSendComplex(d.channelID, msg, discordgo.WithContext(ctx)); err != nil {
		logSinkError("discord", err)
	}
}

func (d *DiscordNotifier) SetIndicator(ctx context.Context, indicator notify.Indicator) {
	switch indicator {
	case notify.IndicatorRecording:
		d.send(ctx, ":red_circle: **Recording**")
	case notify.IndicatorPaused:
		d.send(ctx, ":pause_button: **Paused**")
	}
}

func (d *DiscordNotifier) handleInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic == nil || ic.Interaction == nil || ic.Type != discordgo.InteractionMessageComponent {
		return
	}
	action, handle, ok := parseAlertCustomID(ic.MessageComponentData().CustomID)
	if !ok {
		return
	}

	d.mu.Lock()
	accept, found := d.pending[handle]
	delete(d.pending, handle)
	d.mu.Unlock()

	content := fmt.Sprintf(":calendar: Meeting alert dismissed.\n-# window: %s", handle)
	switch {
	case !found:
		content = fmt.Sprintf(":calendar: This meeting alert has already been handled.\n-# window: %s", handle)
	case action == notify.AlertActionRecord:
		slog.Info("meeting alert accepted from discord", "window_handle", handle)
		accept()
		content = fmt.Sprintf(":red_circle: Recording requested.\n-# window: %s", handle)
	default:
		slog.Info("meeting alert ignored from discord", "window_handle", handle)
	}

	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		logSinkError("discord", err)
	}
}

func (d *DiscordNotifier) send(ctx context.Context, content string) {
	if _, err := d.session.ChannelMessageSend(d.channelID, content, discordgo.WithContext(ctx)); err != nil {
		logSinkError("discord", err)
	}
}

func alertMessage(alert notify.MeetingAlert) string {
	return fmt.Sprintf(":calendar: **%s**\n%s\n-# window: %s", alert.Title, alert.Body, alert.WindowHandle)
}

func alertButtons(alert notify.MeetingAlert) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(alert.Actions))
	for _, action := range alert.Actions {
		style := discordgo.SecondaryButton
		if action == notify.AlertActionRecord {
			style = discordgo.PrimaryButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    action,
			Style:    style,
			CustomID: alertCustomID(action, alert.WindowHandle),
		})
	}
	return buttons
}

func alertCustomID(action, handle string) string {
	return alertCustomIDPrefix + action + ":" + handle
}

// parseAlertCustomID splits on the first separator only; window handles may
// contain colons.
func parseAlertCustomID(id string) (action, handle string, ok bool) {
	rest, ok := strings.CutPrefix(id, alertCustomIDPrefix)
	if !ok {
		return "", "", false
	}
	action, handle, ok = strings.Cut(rest, ":")
	if !ok || handle == "" {
		return "", "", false
	}
	return action, handle, true
}

func noticeMessage(n notify.Notice) string {
	icon := ":information_source:"
	if n.Level == notify.LevelError {
		icon = ":warning:"
	}
	lines := []string{fmt.Sprintf("%s **%s**", icon, n.Title)}
	if body := strings.TrimSpace(n.Body); body != "" {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}
