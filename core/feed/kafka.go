package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
	"github.com/tokenscope/memebot/config"
	"github.com/tokenscope/memebot/core/model"
	"github.com/tokenscope/memebot/utils/logger"
)

// KafkaFeed consumes candidate snapshot batches pushed by an upstream
// producer and buffers them until the next scan cycle drains the buffer. It
// serves the same Discovery interface as the HTTP pollers.
type KafkaFeed struct {
	consumer *kafka.Consumer
	topic    string

	mu      sync.Mutex
	pending []model.TokenSnapshot

	done chan struct{}
}

func NewKafkaFeed(cfg config.KafkaConfig) (*KafkaFeed, error) {
	var kafkaconf = &kafka.ConfigMap{
		"api.version.request":       "true",
		"auto.offset.reset":         "latest",
		"enable.auto.commit":        true,
		"auto.commit.interval.ms":   1000,
		"heartbeat.interval.ms":     3000,
		"session.timeout.ms":        30000,
		"max.poll.interval.ms":      120000,
		"fetch.max.bytes":           1024000,
		"max.partition.fetch.bytes": 256000}
	kafkaconf.SetKey("bootstrap.servers", cfg.Host)
	kafkaconf.SetKey("group.id", cfg.CandidateGroup)

	switch cfg.Protocol {
	case "plaintext":
		kafkaconf.SetKey("security.protocol", "plaintext")
	case "sasl_ssl":
		kafkaconf.SetKey("security.protocol", "sasl_ssl")
		kafkaconf.SetKey("sasl.username", cfg.Username)
		kafkaconf.SetKey("sasl.password", cfg.Password)
		kafkaconf.SetKey("sasl.mechanism", "PLAIN")
		kafkaconf.SetKey("enable.ssl.certificate.verification", "false")
		kafkaconf.SetKey("ssl.endpoint.identification.algorithm", "None")
		kafkaconf.SetKey("ssl.ca.location", cfg.CAPath)
	case "sasl_plaintext":
		kafkaconf.SetKey("sasl.mechanism", "PLAIN")
		kafkaconf.SetKey("security.protocol", "sasl_plaintext")
		kafkaconf.SetKey("sasl.username", cfg.Username)
		kafkaconf.SetKey("sasl.password", cfg.Password)
	default:
		return nil, fmt.Errorf("unknown kafka protocol %s", cfg.Protocol)
	}

	consumer, err := kafka.NewConsumer(kafkaconf)
	if err != nil {
		return nil, fmt.Errorf("connect kafka failed, %v", err)
	}

	return &KafkaFeed{
		consumer: consumer,
		topic:    cfg.CandidateTopic,
		done:     make(chan struct{}),
	}, nil
}

// Start subscribes and buffers messages until Close.
func (f *KafkaFeed) Start() error {
	if err := f.consumer.SubscribeTopics([]string{f.topic}, nil); err != nil {
		return fmt.Errorf("subscribe %s failed, %v", f.topic, err)
	}

	go func() {
		for {
			select {
			case <-f.done:
				return
			default:
			}

			msg, err := f.consumer.ReadMessage(-1)
			if err != nil {
				logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("kafka feed read message failed")
				continue
			}

			var batch []model.TokenSnapshot
			if err := json.Unmarshal(msg.Value, &batch); err != nil {
				logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("kafka feed unmarshal message failed")
				continue
			}

			f.mu.Lock()
			f.pending = append(f.pending, batch...)
			f.mu.Unlock()
		}
	}()

	return nil
}

// FetchCandidates drains whatever arrived since the previous cycle.
func (f *KafkaFeed) FetchCandidates(ctx context.Context) ([]model.TokenSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := f.pending
	f.pending = nil
	return batch, nil
}

func (f *KafkaFeed) Close() {
	close(f.done)
	f.consumer.Close()
}
