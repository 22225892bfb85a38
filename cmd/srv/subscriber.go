package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafflehub/backend/internal/domain/notification/event"
	"github.com/rafflehub/backend/pkg/kafka"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

// startSubscriber runs the event feed worker. It tails the raffle event topic
// and logs every lifecycle event, which is also how the feed is inspected in
// development.
func (s *srv) startSubscriber(*cli.Context) error {
	s.loadContext()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	subscriber := kafka.NewSubscriber(
		"rafflehub-events",
		[]string{xcontext.Configs(s.ctx).Kafka.Addr},
		[]string{event.Topic},
		s.handleEvent,
	)

	subscriber.Subscribe(ctx)
	xcontext.Logger(s.ctx).Infof("Event subscriber started")

	<-ctx.Done()
	return subscriber.Stop(context.Background())
}

func (s *srv) handleEvent(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var req event.EventRequest
	if err := json.Unmarshal(pack.Msg, &req); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal event of %s: %v", string(pack.Key), err)
		return
	}

	xcontext.Logger(ctx).Infof("%s | %s | %s", t.Format(time.RFC3339), req.Op, string(pack.Key))
}
