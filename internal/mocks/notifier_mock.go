package mocks

import (
	"context"

	"eazicred/internal/adapters/notify"

	"github.com/stretchr/testify/mock"
)

type Notifier struct{ mock.Mock }

func (m *Notifier) Send(ctx context.Context, msg notify.Message) error {
	return m.Called(ctx, msg).Error(0)
}
