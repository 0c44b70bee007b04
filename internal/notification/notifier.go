package notification

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetroom/config"
	"meetroom/infras/kafka"
	"meetroom/infras/otel"
	"meetroom/shared/constant"

	"github.com/rs/zerolog/log"
)

// Template kinds understood by the downstream mailer.
const (
	KindInvite   = "invite"
	KindAccepted = "accepted"
	KindReminder = "reminder"
)

// EmailPayload is the message body published to the email topic.
type EmailPayload struct {
	Recipient    string `json:"recipient"`
	Kind         string `json:"kind"`
	BookingID    string `json:"booking_id"`
	BookingTitle string `json:"booking_title"`
	RoomName     string `json:"room_name"`
	TimeStart    string `json:"time_start"`
	TimeEnd      string `json:"time_end"`
}

// PushPayload is the message body published to the push topic.
type PushPayload struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Dispatcher interface {
	SendEmail(ctx context.Context, payload EmailPayload) error
	SendPush(ctx context.Context, payload PushPayload) error
}

type dispatcherImpl struct {
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Dispatcher {
	return &dispatcherImpl{
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

func (d *dispatcherImpl) SendEmail(ctx context.Context, payload EmailPayload) (err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".SendEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"notification.kind": payload.Kind,
		"booking.id":        payload.BookingID,
	})

	message := kafka.Message{
		Key:   payload.BookingID,
		Value: payload,
	}

	err = d.kafka.SendMessages(ctx, d.cfg.Kafka.Topics.Email, message)
	if err != nil {
		log.Error().Err(err).Str("kind", payload.Kind).Msg("failed to publish email notification")

		return fmt.Errorf("failed to publish email notification: %w", err)
	}

	return nil
}

func (d *dispatcherImpl) SendPush(ctx context.Context, payload PushPayload) (err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".SendPush")
	defer scope.End()
	defer scope.TraceIfError(err)

	message := kafka.Message{
		Key:   payload.Token,
		Value: payload,
	}

	err = d.kafka.SendMessages(ctx, d.cfg.Kafka.Topics.Push, message)
	if err != nil {
		log.Error().Err(err).Msg("failed to publish push notification")

		return fmt.Errorf("failed to publish push notification: %w", err)
	}

	return nil
}
