package rabbitmq

import (
	"errors"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	called := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return called.Get(0).(amqp.Queue), called.Error(1)
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublishJSON(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", "reports", true, false, false, false, amqp.Table(nil)).Return(amqp.Queue{Name: "reports"}, nil)
	ch.On("Publish", "", "reports", false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			string(msg.Body) == `{"job":"store-status-sync"}`
	})).Return(nil).Once()

	client, err := newClient(ch, "reports", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "reports", client.Queue())

	require.NoError(t, client.PublishJSON(map[string]string{"job": "store-status-sync"}))
	ch.AssertExpectations(t)
}

func TestPublish_Error(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", "reports", true, false, false, false, amqp.Table(nil)).Return(amqp.Queue{Name: "reports"}, nil)
	ch.On("Publish", "", "reports", false, false, mock.Anything).Return(errors.New("channel closed"))

	client, err := newClient(ch, "reports", nil)
	require.NoError(t, err)

	err = client.Publish("", "reports", []byte("{}"))
	assert.EqualError(t, err, "failed to publish message: channel closed")
}

func TestNewClient_DeclareFailureClosesChannel(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", "reports", true, false, false, false, amqp.Table(nil)).Return(amqp.Queue{}, errors.New("access refused"))
	ch.On("Close").Return(nil).Once()

	_, err := newClient(ch, "reports", nil)
	assert.EqualError(t, err, "failed to declare reports: access refused")
	ch.AssertExpectations(t)
}

func TestClose(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Close").Return(nil).Once()

	client := &Client{channel: ch}
	assert.NoError(t, client.Close())
	ch.AssertExpectations(t)
}
