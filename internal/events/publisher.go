// Package events publishes recognized words and sentences to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/ayusman/signspeak/internal/logging"
	"github.com/ayusman/signspeak/internal/metrics"
)

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers       []string
	TopicWords    string
	TopicSentence string
	Principal     string
	Enabled       bool
	Metrics       *metrics.Metrics
}

// Publisher writes word and sentence events to separate topics. When Kafka
// is disabled events are only logged.
//
// Writers run in async mode: WriteMessages returns once the message is
// buffered and delivery results arrive through the completion callback, so
// publishing never stalls the frame loop.
type Publisher struct {
	writerWords    *kafka.Writer
	writerSentence *kafka.Writer
	principal      string
	sessionID      string
	topicWords     string
	topicSentence  string
	enabled        bool
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// New creates a publisher. Each publisher gets its own session ID, used as
// the message key so a session's events stay ordered within a partition.
func New(cfg *Config) *Publisher {
	if cfg == nil {
		cfg = &Config{}
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}

	sessionID := uuid.NewString()
	p := &Publisher{
		principal:     cfg.Principal,
		sessionID:     sessionID,
		topicWords:    cfg.TopicWords,
		topicSentence: cfg.TopicSentence,
		metrics:       m,
		logger:        logging.WithSession("events", sessionID),
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		p.logger.Info().Msg("Kafka disabled, using log-only mode")
		return p
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	p.writerWords = p.newWriter(cfg.Brokers, cfg.TopicWords, TypeWord, transport)
	p.writerSentence = p.newWriter(cfg.Brokers, cfg.TopicSentence, TypeSentence, transport)
	p.enabled = true

	p.logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicWords", cfg.TopicWords).
		Str("topicSentence", cfg.TopicSentence).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return p
}

func (p *Publisher) newWriter(brokers []string, topic, eventType string, transport *kafka.Transport) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Transport:    transport,
		Completion: func(messages []kafka.Message, err error) {
			for range messages {
				p.metrics.RecordEvent(eventType, err)
			}
			if err != nil {
				p.logger.Error().
					Err(err).
					Str("topic", topic).
					Int("messages", len(messages)).
					Msg("Failed to write to Kafka")
			}
		},
	}
}

// SessionID returns the session ID stamped on this publisher's events.
func (p *Publisher) SessionID() string {
	return p.sessionID
}

// Enabled reports whether events are sent to Kafka.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// PublishWord publishes a word event to the words topic.
func (p *Publisher) PublishWord(ctx context.Context, event WordEvent) error {
	return p.publish(ctx, p.writerWords, p.topicWords, TypeWord, event)
}

// PublishSentence publishes a sentence event to the sentence topic.
func (p *Publisher) PublishSentence(ctx context.Context, event SentenceEvent) error {
	return p.publish(ctx, p.writerSentence, p.topicSentence, TypeSentence, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		p.metrics.RecordEvent(eventType, err)
		return err
	}

	p.logger.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordEvent(eventType, nil)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(p.sessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	// Async writers only fail here when closed or given an invalid message.
	if err := writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().
			Err(err).
			Str("topic", topic).
			Msg("Failed to queue Kafka message")
		p.metrics.RecordEvent(eventType, err)
		return err
	}

	return nil
}

// Close flushes and closes both writers.
func (p *Publisher) Close() error {
	var errs []error
	if p.writerWords != nil {
		if err := p.writerWords.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Error closing words writer")
			errs = append(errs, err)
		}
	}
	if p.writerSentence != nil {
		if err := p.writerSentence.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Error closing sentence writer")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
