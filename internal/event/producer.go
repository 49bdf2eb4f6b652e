package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enkitstudio/restaurant/internal/domain"
	pkgkafka "github.com/enkitstudio/restaurant/pkg/kafka"
)

// Kafka topic constants for account lifecycle events. These drive the
// notification pipeline (email delivery happens downstream).
const (
	TopicUserRegistered  = "restaurant.user.registered"
	TopicUserActivated   = "restaurant.user.activated"
	TopicResetRequested  = "restaurant.user.reset_requested"
	TopicProfileUpdated  = "restaurant.user.profile_updated"
	TopicPasswordChanged = "restaurant.user.password_changed"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from this API.
const SourceRestaurantAPI = "restaurant-api"

// Notifier is the fire-and-forget notification collaborator. Implementations
// may fail; callers log and continue, never rolling back the state change
// that preceded the notification.
type Notifier interface {
	UserRegistered(ctx context.Context, user *domain.User, activationToken string) error
	UserActivated(ctx context.Context, user *domain.User) error
	ResetRequested(ctx context.Context, user *domain.User, resetToken string) error
	ProfileUpdated(ctx context.Context, user *domain.User) error
	PasswordChanged(ctx context.Context, user *domain.User) error
}

// UserRegisteredData is the payload for a user.registered event. The
// activation token rides along so the mailer can build the activation link.
type UserRegisteredData struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	ActivationToken string `json:"activation_token"`
}

// UserActivatedData is the payload for a user.activated event.
type UserActivatedData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ResetRequestedData is the payload for a user.reset_requested event.
type ResetRequestedData struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// ProfileUpdatedData is the payload for a user.profile_updated event.
type ProfileUpdatedData struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PasswordChangedData is the payload for a user.password_changed event.
type PasswordChangedData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Producer publishes account lifecycle events to Kafka. It satisfies Notifier.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// UserRegistered publishes a user.registered event.
func (p *Producer) UserRegistered(ctx context.Context, user *domain.User, activationToken string) error {
	data := UserRegisteredData{
		ID:              user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ActivationToken: activationToken,
	}
	return p.publish(ctx, TopicUserRegistered, user, data)
}

// UserActivated publishes a user.activated event.
func (p *Producer) UserActivated(ctx context.Context, user *domain.User) error {
	data := UserActivatedData{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
	return p.publish(ctx, TopicUserActivated, user, data)
}

// ResetRequested publishes a user.reset_requested event.
func (p *Producer) ResetRequested(ctx context.Context, user *domain.User, resetToken string) error {
	data := ResetRequestedData{
		ID:         user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		ResetToken: resetToken,
	}
	return p.publish(ctx, TopicResetRequested, user, data)
}

// ProfileUpdated publishes a user.profile_updated event.
func (p *Producer) ProfileUpdated(ctx context.Context, user *domain.User) error {
	data := ProfileUpdatedData{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	return p.publish(ctx, TopicProfileUpdated, user, data)
}

// PasswordChanged publishes a user.password_changed event.
func (p *Producer) PasswordChanged(ctx context.Context, user *domain.User) error {
	data := PasswordChangedData{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
	return p.publish(ctx, TopicPasswordChanged, user, data)
}

func (p *Producer) publish(ctx context.Context, topic string, user *domain.User, data any) error {
	event, err := pkgkafka.NewEvent(topic, user.ID.String(), AggregateTypeUser, SourceRestaurantAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published account event",
		slog.String("topic", topic),
		slog.String("username", user.Username),
	)

	return nil
}
