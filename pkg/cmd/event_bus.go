package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/pagecraft/pagecraft/pkg/channels/gochannel"
	"github.com/pagecraft/pagecraft/pkg/channels/kafka"
	"github.com/pagecraft/pagecraft/pkg/eventbus"
)

// NewEventBus builds a Watermill event bus. Provider "kafka" publishes to brokers under a
// consumer group derived from serviceName; "gochannel" keeps events in process.
func NewEventBus(provider string, brokers []string, serviceName string, logger *slog.Logger) (*eventbus.WatermillEventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, brokers, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "gochannel", "memory":
		pub, sub := gochannel.CreateChannel(wmLogger)

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, errors.New("unsupported event bus provider: " + provider)
	}
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(value string) []string {
	var brokers []string

	for broker := range strings.SplitSeq(value, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return brokers
}
