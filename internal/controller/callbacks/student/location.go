package student

import (
	"context"

	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func showPicker(hc *common.HandlerContext, text string, kb *models.InlineKeyboardMarkup) {
	hc.Answer("")
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render location picker", zap.Error(err))
	}
}

// HandleCampuses показывает список кампусов
func HandleCampuses(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		campuses, err := h.Locations.Campuses(ctx)
		if err != nil {
			h.Logger.Error("Failed to load campuses", zap.Error(err))
			hc.AnswerError(err)
			return
		}
		text, kb := common.BuildCampusPicker(campuses)
		showPicker(hc, text, kb)
	})
}

// HandleSelectCampus выбирает кампус и показывает его здания
func HandleSelectCampus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		campusID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		buildings, err := h.Locations.Buildings(ctx, campusID)
		if err != nil {
			h.Logger.Error("Failed to load buildings", zap.Int64("campus_id", campusID), zap.Error(err))
			hc.AnswerError(err)
			return
		}

		loc := &draft.Selection.Location
		loc.SetRemote(false)
		loc.SelectCampus(campusID)
		common.SetDraft(h.StateManager, hc.TelegramID, draft)

		text, kb := common.BuildBuildingPicker(buildings)
		showPicker(hc, text, kb)
	})
}

// HandleSelectBuilding выбирает здание и показывает его комнаты
func HandleSelectBuilding(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		buildingID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		loc := &draft.Selection.Location
		if loc.CampusID == 0 {
			hc.AnswerError(common.ErrInvalidFormat)
			return
		}

		rooms, err := h.Locations.Rooms(ctx, loc.CampusID, buildingID)
		if err != nil {
			h.Logger.Error("Failed to load rooms", zap.Int64("building_id", buildingID), zap.Error(err))
			hc.AnswerError(err)
			return
		}

		loc.SelectBuilding(buildingID)
		common.SetDraft(h.StateManager, hc.TelegramID, draft)

		text, kb := common.BuildRoomPicker(rooms, loc.CampusID)
		showPicker(hc, text, kb)
	})
}

// HandleSelectRoom выбирает комнату и показывает её столы
func HandleSelectRoom(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err != nil {
			hc.AnswerError(err)
			return
		}
		roomID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}

		room, err := h.Locations.Room(ctx, hc.Session, roomID)
		if err != nil {
			h.Logger.Error("Failed to load room", zap.Int64("room_id", roomID), zap.Error(err))
			hc.AnswerError(err)
			return
		}

		loc := &draft.Selection.Location
		loc.SelectRoom(roomID)
		common.SetDraft(h.StateManager, hc.TelegramID, draft)

		text, kb := common.BuildTablePicker(room, loc.BuildingID)
		showPicker(hc, text, kb)
	})
}

// HandleSelectTable выбирает стол и возвращает к форме
func HandleSelectTable(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDraft(ctx, b, callback, h, func(hc *common.HandlerContext, draft *common.Draft) {
		table, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerError(err)
			return
		}
		draft.Selection.Location.SelectTable(int(table))
		hc.Answer("")
		renderForm(hc, draft)
	})
}
