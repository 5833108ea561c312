// Package push delivers alarm notifications over web push. Delivery is fire
// and forget: sends run on their own goroutine, failures are logged and
// swallowed, and expired subscriptions are pruned.
package push

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/dukerupert/memoboard/internal/store"
)

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
}

// Config holds VAPID configuration.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

// Service sends alarm notifications to every registered subscription.
type Service struct {
	cfg    Config
	subs   *store.PushStore
	logger *slog.Logger
}

func NewService(cfg Config, subs *store.PushStore, logger *slog.Logger) *Service {
	if cfg.Subscriber == "" {
		cfg.Subscriber = "mailto:noreply@memoboard.local"
	}
	return &Service{cfg: cfg, subs: subs, logger: logger}
}

// Configured reports whether VAPID keys are available.
func (s *Service) Configured() bool {
	return s.cfg.VAPIDPublicKey != "" && s.cfg.VAPIDPrivateKey != ""
}

// VAPIDPublicKey returns the public key clients need to subscribe.
func (s *Service) VAPIDPublicKey() string {
	return s.cfg.VAPIDPublicKey
}

// Notify implements the alarm engine's Notifier port. It returns immediately;
// the subscription lookup and delivery both happen in the background, so a
// caller holding a storage transaction is never blocked on it.
func (s *Service) Notify(title string) {
	if !s.Configured() {
		return
	}
	if title == "" {
		title = "Alarm"
	}

	go s.send(Payload{Title: "Memoboard", Body: title, Tag: "alarm"})
}

func (s *Service) send(payload Payload) {
	subs, err := s.subs.List()
	if err != nil {
		s.logger.Error("push: list subscriptions", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("push: marshal payload", "error", err)
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(data, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dhKey,
				Auth:   sub.AuthKey,
			},
		}, &webpush.Options{
			VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
			VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
			Subscriber:      s.cfg.Subscriber,
			TTL:             3600,
		})
		if err != nil {
			s.logger.Warn("push: send", "error", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusGone {
			if err := s.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
				s.logger.Warn("push: prune expired subscription", "error", err)
			}
		}
	}
}

// GenerateVAPIDKeys creates a fresh VAPID key pair, base64url encoded the way
// push services expect.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate vapid key: %w", err)
	}

	pub := elliptic.Marshal(elliptic.P256(), key.PublicKey.X, key.PublicKey.Y)
	publicKey = base64.RawURLEncoding.EncodeToString(pub)
	privateKey = base64.RawURLEncoding.EncodeToString(key.D.Bytes())
	return publicKey, privateKey, nil
}
