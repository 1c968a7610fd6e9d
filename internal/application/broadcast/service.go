package broadcast

import (
	"context"
	"strconv"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Service stores feed rows for a broadcast and pushes it to devices.
// Store* must run inside the caller's transaction; Deliver* runs after commit
// and never fails.
type Service interface {
	StoreCircular(ctx context.Context, c *domain.Circular) (int64, error)
	DeliverCircular(ctx context.Context, c *domain.Circular)
	StoreAlert(ctx context.Context, a *domain.SecurityAlert) (int64, error)
	DeliverAlert(ctx context.Context, a *domain.SecurityAlert)
}

type feedStore interface {
	InsertForAudience(ctx context.Context, schoolID uint, a domain.Audience, item domain.FeedItem) (int64, error)
}

type tokenStore interface {
	TokensForAudience(ctx context.Context, schoolID uint, a domain.Audience) ([]string, error)
}

// Pusher is the push gateway as seen by broadcast.
type Pusher interface {
	IsEnabled() bool
	SendToTokens(ctx context.Context, tokens []string, p domain.PushPayload)
}

type service struct {
	feed   feedStore
	tokens tokenStore
	push   Pusher
}

func NewService(feed feedStore, tokens tokenStore, push Pusher) Service {
	return &service{feed: feed, tokens: tokens, push: push}
}

func circularAudience() domain.Audience {
	return domain.Audience{Roles: domain.CircularRecipientRoles}
}

func alertAudience(a *domain.SecurityAlert) domain.Audience {
	return domain.Audience{ExcludeUserID: a.RaisedBy}
}

func (s *service) StoreCircular(ctx context.Context, c *domain.Circular) (int64, error) {
	item := domain.FeedItem{
		Title:      c.Title,
		Body:       strPtr(c.Description),
		Category:   strPtr(string(c.Category)),
		SourceType: strPtr(domain.SourceCircular),
		SourceID:   &c.ID,
	}
	if img, ok := c.FirstImage(); ok {
		item.Image = &img
	}
	n, err := s.feed.InsertForAudience(ctx, c.SchoolID, circularAudience(), item)
	if err != nil {
		return 0, err
	}
	metrics.FanoutRecipientsTotal.WithLabelValues(domain.SourceCircular).Add(float64(n))
	return n, nil
}

func (s *service) DeliverCircular(ctx context.Context, c *domain.Circular) {
	s.deliver(ctx, c.SchoolID, circularAudience(), CircularPayload(c))
}

func (s *service) StoreAlert(ctx context.Context, a *domain.SecurityAlert) (int64, error) {
	item := domain.FeedItem{
		Title:      alertTitle(a),
		Body:       strPtr(a.Message),
		Category:   strPtr(string(a.Kind)),
		SourceType: strPtr(domain.SourceSecurityAlert),
		SourceID:   &a.ID,
	}
	n, err := s.feed.InsertForAudience(ctx, a.SchoolID, alertAudience(a), item)
	if err != nil {
		return 0, err
	}
	metrics.FanoutRecipientsTotal.WithLabelValues(domain.SourceSecurityAlert).Add(float64(n))
	return n, nil
}

func (s *service) DeliverAlert(ctx context.Context, a *domain.SecurityAlert) {
	s.deliver(ctx, a.SchoolID, alertAudience(a), AlertPayload(a))
}

func (s *service) deliver(ctx context.Context, schoolID uint, a domain.Audience, p domain.PushPayload) {
	if s.push == nil || !s.push.IsEnabled() {
		return
	}
	tokens, err := s.tokens.TokensForAudience(ctx, schoolID, a)
	if err != nil {
		logger.FromContext(ctx).Error("load push tokens", zap.Error(err), zap.Uint("school_id", schoolID))
		return
	}
	tokens = dedup(tokens)
	if len(tokens) == 0 {
		return
	}
	s.push.SendToTokens(ctx, tokens, p)
}

// CircularPayload shows only the first image when there is one, otherwise the description.
func CircularPayload(c *domain.Circular) domain.PushPayload {
	p := domain.PushPayload{
		Title: c.Title,
		Body:  c.Description,
		Data: map[string]string{
			"type":        domain.SourceCircular,
			"category":    string(c.Category),
			"circular_id": strconv.FormatUint(uint64(c.ID), 10),
		},
	}
	if img, ok := c.FirstImage(); ok {
		p.Body = ""
		p.ImageURL = img
	}
	return p
}

func AlertPayload(a *domain.SecurityAlert) domain.PushPayload {
	return domain.PushPayload{
		Title: alertTitle(a),
		Body:  a.Message,
		Data: map[string]string{
			"type":     domain.SourceSecurityAlert,
			"kind":     string(a.Kind),
			"alert_id": strconv.FormatUint(uint64(a.ID), 10),
		},
	}
}

func alertTitle(a *domain.SecurityAlert) string {
	return "Security alert: " + string(a.Kind)
}

func dedup(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func strPtr(s string) *string { return &s }
