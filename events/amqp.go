package events

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// AMQPPublisher publishes domain events on a topic exchange, one routing key
// per event name.
type AMQPPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
}

func NewAMQPPublisher(url string, exchange string) (*AMQPPublisher, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		connection.Close()
		return nil, err
	}

	return &AMQPPublisher{
		connection: connection,
		channel:    channel,
		exchange:   exchange,
	}, nil
}

func (p *AMQPPublisher) Publish(event string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		event,
		false,
		false,
		amqp.Publishing{
			Headers:      amqp.Table{},
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	return p.connection.Close()
}
