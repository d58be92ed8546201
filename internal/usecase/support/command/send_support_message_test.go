package command_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/support/command"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
	"github.com/Hiro-mackay/gc-commerce/backend/tests/testutil/mocks"
)

type sendSupportMessageTestDeps struct {
	messageRepo *mocks.MockSupportMessageRepository
	notifier    *mocks.MockRealtimeNotifier
}

func newSendSupportMessageTestDeps(t *testing.T) *sendSupportMessageTestDeps {
	t.Helper()
	return &sendSupportMessageTestDeps{
		messageRepo: mocks.NewMockSupportMessageRepository(t),
		notifier:    mocks.NewMockRealtimeNotifier(t),
	}
}

func (d *sendSupportMessageTestDeps) newCommand() *command.SendSupportMessageCommand {
	return command.NewSendSupportMessageCommand(d.messageRepo, d.notifier)
}

func TestSendSupportMessageCommand_Execute_DeliveredToConnectedUser(t *testing.T) {
	ctx := context.Background()
	deps := newSendSupportMessageTestDeps(t)

	deps.messageRepo.On("Create", ctx, mock.AnythingOfType("*entity.SupportMessage")).Return(nil)
	deps.notifier.On("Notify", ctx, "user-1", mock.AnythingOfType("command.SupportMessageEvent")).Return(true)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SendSupportMessageInput{
		UserID:  "user-1",
		Sender:  entity.SupportSenderSupport,
		Content: "How can I help?",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Delivered)
	assert.Equal(t, "user-1", output.Message.UserID)
	assert.Equal(t, entity.SupportSenderSupport, output.Message.Sender)
	assert.Equal(t, "How can I help?", output.Message.Content)
}

func TestSendSupportMessageCommand_Execute_StoredWhenUserOffline(t *testing.T) {
	ctx := context.Background()
	deps := newSendSupportMessageTestDeps(t)

	deps.messageRepo.On("Create", ctx, mock.AnythingOfType("*entity.SupportMessage")).Return(nil)
	deps.notifier.On("Notify", ctx, "user-1", mock.Anything).Return(false)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SendSupportMessageInput{
		UserID:  "user-1",
		Sender:  entity.SupportSenderSupport,
		Content: "Your ticket was updated",
	})

	// 未接続でも履歴には残る
	require.NoError(t, err)
	assert.False(t, output.Delivered)
}

func TestSendSupportMessageCommand_Execute_EmptyContent(t *testing.T) {
	ctx := context.Background()
	deps := newSendSupportMessageTestDeps(t)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SendSupportMessageInput{
		UserID:  "user-1",
		Sender:  entity.SupportSenderUser,
		Content: "",
	})

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}

func TestSendSupportMessageCommand_Execute_ContentTooLong(t *testing.T) {
	ctx := context.Background()
	deps := newSendSupportMessageTestDeps(t)

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SendSupportMessageInput{
		UserID:  "user-1",
		Sender:  entity.SupportSenderUser,
		Content: strings.Repeat("a", 2001),
	})

	require.Error(t, err)
	assert.Nil(t, output)
	deps.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendSupportMessageCommand_Execute_PersistFailure(t *testing.T) {
	ctx := context.Background()
	deps := newSendSupportMessageTestDeps(t)

	deps.messageRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	cmd := deps.newCommand()
	output, err := cmd.Execute(ctx, command.SendSupportMessageInput{
		UserID:  "user-1",
		Sender:  entity.SupportSenderUser,
		Content: "hello",
	})

	// 永続化に失敗した場合はプッシュしない
	require.Error(t, err)
	assert.Nil(t, output)
	deps.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}
