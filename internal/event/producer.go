package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Bvcott21/ai-store/internal/domain"
	pkgkafka "github.com/Bvcott21/ai-store/pkg/kafka"
	"github.com/Bvcott21/ai-store/pkg/logger"
)

const (
	AggregateTypeUser = "user"
	SourceAuthService = "store-auth"
)

// TopicUserRegistered receives one event per completed registration.
var TopicUserRegistered = pkgkafka.Topic("user", "registered")

// UserRegisteredData is the user.registered payload.
type UserRegisteredData struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

// Producer publishes identity events.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a Producer on kafka.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishUserRegistered announces a new identity. The request correlation
// ID, when present, is carried on the event.
func (p *Producer) PublishUserRegistered(ctx context.Context, identity *domain.Identity) error {
	data := UserRegisteredData{
		ID:        identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Roles:     identity.Authorities(),
	}

	id := strconv.FormatInt(identity.ID, 10)
	event, err := pkgkafka.NewEvent("user.registered", id, AggregateTypeUser, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.Int64("user_id", identity.ID),
		slog.String("username", identity.Username),
	)
	return nil
}

// NopProducer drops every event. Used by the seed command and when no
// brokers are configured.
type NopProducer struct{}

// PublishUserRegistered does nothing.
func (NopProducer) PublishUserRegistered(context.Context, *domain.Identity) error { return nil }
