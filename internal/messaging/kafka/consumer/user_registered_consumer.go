package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hrms/internal/events"
	"go-hrms/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeUserRegistered sends the welcome mail for every registration
// event. Delivery is best-effort: a dead mail channel is logged and
// the message committed, never replayed forever.
func ConsumeUserRegistered(
	ctx context.Context,
	reader *kafkago.Reader,
	mailService mailer.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_registered")
	log.Info("user registered consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("user registered consumer stopped")
				return
			}
			log.Error("fetch user registered message failed", zap.Error(err))
			continue
		}

		var event events.UserRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode user_registered event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		subject := "Welcome to the HR portal"
		body := fmt.Sprintf(
			"Hi %s,\n\nYour account has been created and is awaiting HR approval. You will be able to sign in once HR completes your onboarding.\n",
			event.Username,
		)
		if err := mailService.Send(ctx, event.CompanyID, []string{event.Email}, subject, body); err != nil {
			log.Warn("welcome mail not delivered",
				zap.String("user_id", event.UserID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit user registered message failed", zap.Error(err))
			continue
		}

		log.Info("user registered event processed",
			zap.String("user_id", event.UserID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
