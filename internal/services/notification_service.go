package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeclean-backend/internal/email"
	"homeclean-backend/internal/models"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

type EmailSender interface {
	Configured() bool
	Send(ctx context.Context, to string, msg *email.Message) (string, error)
}

type ProfileLookup interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type NotificationService struct {
	sender   EmailSender
	profiles ProfileLookup
	logger   *zap.Logger
}

func NewNotificationService(sender EmailSender, profiles ProfileLookup, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{sender: sender, profiles: profiles, logger: logger}
}

// Dispatch sends one notification. sms and push are accepted channels that
// have no provider yet and return ErrUnsupported.
func (s *NotificationService) Dispatch(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResponse, error) {
	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	switch channel {
	case ChannelEmail:
	case ChannelSMS, ChannelPush:
		s.logger.Info("notification channel not implemented",
			zap.String("channel", channel),
			zap.String("type", req.Type),
		)
		return &models.NotificationResponse{
			Success: false,
			Message: fmt.Sprintf("%s notifications not supported yet", channel),
		}, ErrUnsupported
	default:
		return nil, invalid("channel", "must be email, sms or push")
	}

	if strings.TrimSpace(req.Recipient) == "" || !strings.Contains(req.Recipient, "@") {
		return nil, invalid("recipient", "must be an email address")
	}
	if !email.KnownType(req.Type) {
		return nil, invalid("type", "unknown notification type %q", req.Type)
	}

	messageID, err := s.sendEmail(ctx, strings.TrimSpace(req.Recipient), req.Type, req.Payload)
	if err != nil {
		return nil, err
	}
	return &models.NotificationResponse{Success: true, Message: "email sent", MessageID: messageID}, nil
}

// NotifyUser emails the user's profile address.
func (s *NotificationService) NotifyUser(ctx context.Context, userID uuid.UUID, notificationType string, payload map[string]interface{}) error {
	if s.sender == nil || !s.sender.Configured() {
		return nil
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load recipient profile: %w", err)
	}
	if profile.Email == "" {
		s.logger.Info("skipping notification, profile has no email", zap.String("user_id", userID.String()))
		return nil
	}

	data := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		data[k] = v
	}
	data["name"] = profile.DisplayName()

	_, err = s.sendEmail(ctx, profile.Email, notificationType, data)
	return err
}

func (s *NotificationService) sendEmail(ctx context.Context, to, notificationType string, payload map[string]interface{}) (string, error) {
	if s.sender == nil || !s.sender.Configured() {
		return "", fmt.Errorf("email: %w", ErrNotConfigured)
	}
	msg, err := email.Render(notificationType, payload)
	if err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", notificationType, err)
	}
	messageID, err := s.sender.Send(ctx, to, msg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	s.logger.Info("email sent",
		zap.String("type", notificationType),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}
