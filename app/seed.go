package app

import (
	"context"

	"log/slog"

	"github.com/m3rciful/kinobot/config"
	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
)

// channelEnsurer is the optional write side of a channel store. The
// remote api driver does not implement it; its channel set is owned by
// the backing service.
type channelEnsurer interface {
	Ensure(ctx context.Context, ch storage.Channel) error
}

// seedChannels upserts the configured required channels into storage so
// the verifier sees them on the first update.
func seedChannels(ctx context.Context, cfg *config.Config, store storage.Store) error {
	if len(cfg.Channels) == 0 {
		logger.SEED.Info("no channels configured",
			slog.String("event", "skip"),
		)
		return nil
	}
	ensurer, ok := store.Channels.(channelEnsurer)
	if !ok {
		logger.SEED.Info("channel store is read-only",
			slog.String("event", "skip"),
			slog.Int("channels_total", len(cfg.Channels)),
		)
		return nil
	}

	for _, ch := range cfg.Channels {
		err := ensurer.Ensure(ctx, storage.Channel{Name: ch.Name, ChatRef: ch.ChatRef})
		if err != nil {
			logger.SEED.Error("channel seed failed",
				slog.String("event", "ensure"),
				slog.String("channel", ch.ChatRef),
				slog.String("err", err.Error()),
			)
			return err
		}
	}
	logger.SEED.Info("channels ensured",
		slog.String("event", "complete"),
		slog.Int("channels_total", len(cfg.Channels)),
	)
	return nil
}
