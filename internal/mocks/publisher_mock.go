package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Publisher struct{ mock.Mock }

func (m *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return m.Called(ctx, subject, data).Error(0)
}

func (m *Publisher) Close() error {
	return m.Called().Error(0)
}
