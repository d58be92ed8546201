package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/service"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/dto/request"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/dto/response"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/middleware"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/interface/presenter"
	supportcmd "github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/support/command"
	supportqry "github.com/Hiro-mackay/gc-commerce/backend/internal/usecase/support/query"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// SupportHandler はサポートチャット関連のHTTPハンドラーです
type SupportHandler struct {
	sendMessageCommand *supportcmd.SendSupportMessageCommand
	historyQuery       *supportqry.GetSupportHistoryQuery
	notifier           service.RealtimeNotifier
}

// NewSupportHandler は新しいSupportHandlerを作成します
func NewSupportHandler(
	sendMessageCommand *supportcmd.SendSupportMessageCommand,
	historyQuery *supportqry.GetSupportHistoryQuery,
	notifier service.RealtimeNotifier,
) *SupportHandler {
	return &SupportHandler{
		sendMessageCommand: sendMessageCommand,
		historyQuery:       historyQuery,
		notifier:           notifier,
	}
}

// SendMessage はサポートメッセージを送信します
// サポートスタッフはuser_idで顧客宛に、顧客は自身の会話に送信します
// POST /api/support/messages
func (h *SupportHandler) SendMessage(c echo.Context) error {
	var req request.SendSupportMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	targetUserID := middleware.GetUserID(c)
	sender := entity.SupportSenderUser

	if req.UserID != "" && req.UserID != targetUserID {
		// 他ユーザー宛の送信はサポートロールのみ
		if !middleware.HasRole(c, entity.RoleSupport) && !middleware.HasRole(c, entity.RoleAdmin) {
			return apperror.NewForbiddenError("insufficient role")
		}
		targetUserID = req.UserID
		sender = entity.SupportSenderSupport
	}

	output, err := h.sendMessageCommand.Execute(c.Request().Context(), supportcmd.SendSupportMessageInput{
		UserID:  targetUserID,
		Sender:  sender,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.ToSupportMessageResponse(output.Message, output.Delivered))
}

// ListMessages はサポートの会話履歴を取得します
// サポートロールはuser_idクエリで任意の会話を参照できます
// GET /api/support/messages
func (h *SupportHandler) ListMessages(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if requested := c.QueryParam("user_id"); requested != "" && requested != userID {
		if !middleware.HasRole(c, entity.RoleSupport) && !middleware.HasRole(c, entity.RoleAdmin) {
			return apperror.NewForbiddenError("insufficient role")
		}
		userID = requested
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.NewInvalidRequestError("invalid limit")
		}
		limit = parsed
	}

	output, err := h.historyQuery.Execute(c.Request().Context(), supportqry.GetSupportHistoryInput{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToSupportMessageListResponse(output.Messages))
}

// GetPresence は顧客の接続状態を返します
// GET /api/support/presence/:userId
func (h *SupportHandler) GetPresence(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return apperror.NewInvalidRequestError("user id is required")
	}

	return presenter.OK(c, response.PresenceResponse{
		UserID: userID,
		Online: h.notifier.IsOnline(userID),
	})
}
