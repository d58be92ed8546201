package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/order/command"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
	"github.com/Hiro-mackay/gc-commerce/backend/tests/testutil/mocks"
)

type updateOrderStatusTestDeps struct {
	orderRepo *mocks.MockOrderRepository
	notifier  *mocks.MockRealtimeNotifier
}

func newUpdateOrderStatusTestDeps(t *testing.T) *updateOrderStatusTestDeps {
	t.Helper()
	return &updateOrderStatusTestDeps{
		orderRepo: mocks.NewMockOrderRepository(t),
		notifier:  mocks.NewMockRealtimeNotifier(t),
	}
}

func (d *updateOrderStatusTestDeps) newCommand() *command.UpdateOrderStatusCommand {
	return command.NewUpdateOrderStatusCommand(d.orderRepo, d.notifier)
}

func TestUpdateOrderStatusCommand_Execute_Success(t *testing.T) {
	ctx := context.Background()
	deps := newUpdateOrderStatusTestDeps(t)

	orderID := uuid.New()
	order := &entity.Order{
		ID:        orderID,
		UserID:    "user-1",
		Status:    entity.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	deps.orderRepo.On("FindByID", ctx, orderID).Return(order, nil)
	deps.orderRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	deps.notifier.On("Notify", ctx, "user-1", mock.AnythingOfType("command.OrderStatusEvent")).Return(true)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.UpdateOrderStatusInput{
		OrderID: orderID,
		Status:  entity.OrderStatusShipped,
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, entity.OrderStatusShipped, output.Order.Status)
	assert.True(t, output.Notified)
}

func TestUpdateOrderStatusCommand_Execute_UserOffline(t *testing.T) {
	ctx := context.Background()
	deps := newUpdateOrderStatusTestDeps(t)

	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: "user-1", Status: entity.OrderStatusPending}

	deps.orderRepo.On("FindByID", ctx, orderID).Return(order, nil)
	deps.orderRepo.On("UpdateStatus", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	deps.notifier.On("Notify", ctx, "user-1", mock.Anything).Return(false)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.UpdateOrderStatusInput{
		OrderID: orderID,
		Status:  entity.OrderStatusProcessing,
	})

	// 未接続でも更新自体は成功する
	require.NoError(t, err)
	assert.False(t, output.Notified)
	assert.Equal(t, entity.OrderStatusProcessing, output.Order.Status)
}

func TestUpdateOrderStatusCommand_Execute_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	deps := newUpdateOrderStatusTestDeps(t)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.UpdateOrderStatusInput{
		OrderID: uuid.New(),
		Status:  entity.OrderStatus("unknown"),
	})

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidRequest, appErr.Code)
}

func TestUpdateOrderStatusCommand_Execute_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newUpdateOrderStatusTestDeps(t)

	orderID := uuid.New()
	deps.orderRepo.On("FindByID", ctx, orderID).Return(nil, apperror.NewNotFoundError("order"))

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.UpdateOrderStatusInput{
		OrderID: orderID,
		Status:  entity.OrderStatusShipped,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateOrderStatusCommand_Execute_PersistFailure(t *testing.T) {
	ctx := context.Background()
	deps := newUpdateOrderStatusTestDeps(t)

	orderID := uuid.New()
	order := &entity.Order{ID: orderID, UserID: "user-1", Status: entity.OrderStatusPending}

	deps.orderRepo.On("FindByID", ctx, orderID).Return(order, nil)
	deps.orderRepo.On("UpdateStatus", ctx, mock.Anything).Return(errors.New("db error"))

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.UpdateOrderStatusInput{
		OrderID: orderID,
		Status:  entity.OrderStatusShipped,
	})

	// 永続化に失敗した場合は通知しない
	require.Error(t, err)
	assert.Nil(t, output)
	deps.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}
