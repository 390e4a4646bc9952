package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// InitFirebase creates the Firebase app used for storage and messaging.
// It returns nil without error when no service account is configured
// (dev mode).
func InitFirebase(ctx context.Context, serviceAccountPath, storageBucket string) (*firebase.App, error) {
	if serviceAccountPath == "" {
		log.Println("Firebase: No service account configured, storage and push disabled")
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	return app, nil
}

// topicSender is the part of *messaging.Client PushNotifier uses.
type topicSender interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

// PushNotifier publishes sweep summaries to an FCM topic watched by the
// operators' devices.
type PushNotifier struct {
	client topicSender
	topic  string
}

// NewPushNotifier returns a notifier for topic. Without an app or topic it
// returns a notifier that does nothing.
func NewPushNotifier(ctx context.Context, app *firebase.App, topic string) *PushNotifier {
	if app == nil || topic == "" {
		log.Println("FCM: No ops topic configured, sweep notifications disabled")
		return &PushNotifier{}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("FCM: Failed to get messaging client: %v", err)
		return &PushNotifier{}
	}

	log.Printf("FCM: Sweep notifications enabled on topic %s", topic)
	return &PushNotifier{client: client, topic: topic}
}

func (p *PushNotifier) SweepFinished(ctx context.Context, r *SweepResult) {
	if p.client == nil {
		return
	}

	msg := &messaging.Message{
		Topic: p.topic,
		Notification: &messaging.Notification{
			Title: "Envio diário de quadros",
			Body:  fmt.Sprintf("%s: %d enviados, %d falharam", r.Date, r.Sent, r.Failed),
		},
		Data: map[string]string{
			"date":   r.Date,
			"sent":   strconv.Itoa(r.Sent),
			"failed": strconv.Itoa(r.Failed),
		},
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		log.Printf("FCM: Failed to send sweep summary to topic %s: %v", p.topic, err)
	}
}
