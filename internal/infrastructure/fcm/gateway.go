package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/pkg/metrics"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// MaxTokensPerRequest is the FCM multicast limit.
const MaxTokensPerRequest = 500

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Gateway delivers push notifications through Firebase Cloud Messaging.
// Delivery is best effort: errors are logged and counted, never returned.
type Gateway struct {
	client    multicastSender
	chunkSize int
}

// NewGateway returns a disabled gateway when credentialsFile is empty or
// Firebase cannot be initialised.
func NewGateway(ctx context.Context, credentialsFile string) *Gateway {
	if credentialsFile == "" {
		logger.L().Info("push disabled: no firebase credentials configured")
		return &Gateway{}
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		logger.L().Error("push disabled: firebase app init failed", zap.Error(err))
		return &Gateway{}
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		logger.L().Error("push disabled: firebase messaging init failed", zap.Error(err))
		return &Gateway{}
	}
	return newGateway(client, MaxTokensPerRequest)
}

func newGateway(client multicastSender, chunkSize int) *Gateway {
	if chunkSize <= 0 || chunkSize > MaxTokensPerRequest {
		chunkSize = MaxTokensPerRequest
	}
	return &Gateway{client: client, chunkSize: chunkSize}
}

func (g *Gateway) IsEnabled() bool { return g != nil && g.client != nil }

func (g *Gateway) SendToToken(ctx context.Context, token string, p domain.PushPayload) {
	g.SendToTokens(ctx, []string{token}, p)
}

// SendToTokens sends p to tokens in chunks of at most chunkSize. A failed
// chunk is logged and the next one is still attempted. Cancelling ctx stops
// before the next chunk.
func (g *Gateway) SendToTokens(ctx context.Context, tokens []string, p domain.PushPayload) {
	if !g.IsEnabled() || len(tokens) == 0 {
		return
	}
	log := logger.FromContext(ctx)
	for _, chunk := range chunks(tokens, g.chunkSize) {
		if err := ctx.Err(); err != nil {
			log.Warn("push aborted", zap.Error(err), zap.Int("remaining_tokens", len(chunk)))
			return
		}
		g.sendChunk(ctx, log, chunk, p)
	}
}

func (g *Gateway) sendChunk(ctx context.Context, log *zap.Logger, tokens []string, p domain.PushPayload) {
	defer func() {
		if r := recover(); r != nil {
			metrics.PushChunksTotal.WithLabelValues("error").Inc()
			log.Error("push chunk panicked", zap.Any("panic", r), zap.Int("tokens", len(tokens)))
		}
	}()

	resp, err := g.client.SendEachForMulticast(ctx, buildMessage(tokens, p))
	if err != nil {
		metrics.PushChunksTotal.WithLabelValues("error").Inc()
		metrics.PushTokensTotal.WithLabelValues("failure").Add(float64(len(tokens)))
		log.Error("push chunk failed", zap.Error(err), zap.Int("tokens", len(tokens)))
		return
	}
	metrics.PushChunksTotal.WithLabelValues("ok").Inc()
	metrics.PushTokensTotal.WithLabelValues("success").Add(float64(resp.SuccessCount))
	metrics.PushTokensTotal.WithLabelValues("failure").Add(float64(resp.FailureCount))
	if resp.FailureCount > 0 {
		log.Warn("push chunk partially failed",
			zap.Int("success", resp.SuccessCount),
			zap.Int("failure", resp.FailureCount),
			zap.Int("unregistered", countUnregistered(resp)),
		)
	}
}

func buildMessage(tokens []string, p domain.PushPayload) *messaging.MulticastMessage {
	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   p.Data,
		Notification: &messaging.Notification{
			Title:    p.Title,
			Body:     p.Body,
			ImageURL: p.ImageURL,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:          "default",
					MutableContent: p.ImageURL != "",
				},
			},
		},
	}
	if p.ImageURL != "" {
		msg.APNS.FCMOptions = &messaging.APNSFCMOptions{ImageURL: p.ImageURL}
	}
	return msg
}

func countUnregistered(resp *messaging.BatchResponse) int {
	n := 0
	for _, r := range resp.Responses {
		if r != nil && r.Error != nil && messaging.IsUnregistered(r.Error) {
			n++
		}
	}
	return n
}

// chunks splits tokens into consecutive slices of at most size elements.
func chunks(tokens []string, size int) [][]string {
	out := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, tokens[start:end])
	}
	return out
}
