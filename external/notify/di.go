package notify

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/notify"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Fanout, error) {
		cfg := do.MustInvoke[*config.Config](i)
		sinks := []notify.Notifier{LogNotifier{}}
		if cfg.DiscordNoticesEnabled() {
			d, err := NewDiscordNotifier(cfg.DiscordToken, cfg.DiscordNoticeChannelID)
			if err != nil {
				return nil, err
			}
			if err := d.Connect(context.Background()); err != nil {
				slog.Warn("discord gateway unavailable; alert buttons will not respond", "error", err)
			}
			sinks = append(sinks, d)
		}
		if cfg.NoticeWebhookURL != "" {
			sinks = append(sinks, NewWebhookNotifier(cfg.NoticeWebhookURL))
		}
		return NewFanout(sinks...), nil
	})
	do.Provide(injector, func(i do.Injector) (notify.Notifier, error) {
		return do.MustInvoke[*Fanout](i), nil
	})
}
