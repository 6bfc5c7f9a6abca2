package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/simshi01/thansgiving-day/app/db"
	"github.com/simshi01/thansgiving-day/app/models"
)

// region HttpHandlers

func (app *App) CreateMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := models.CreateMessageRequest{}
		if err := parse(w, r, &req); err != nil {
			app.log.Debug().Err(err).Msg("cannot parse post body")
			sendResponse(w, models.InvalidBody, http.StatusBadRequest)
			return
		}

		msg, err := app.Submit(r.Context(), req)
		var reject *models.RejectError
		switch {
		case errors.As(err, &reject):
			app.log.Debug().Str("reason", reject.Reason).Msg("message rejected")
			sendResponse(w, models.ErrorResponse{Error: reject.Reason}, http.StatusBadRequest)
			return
		case err != nil:
			app.log.Error().Err(err).Msg("cannot create message")
			sendResponse(w, models.CreateFailed, http.StatusInternalServerError)
			return
		}

		sendResponse(w, models.CreateMessageResponse{
			Success: true,
			Message: mapMessageToJson(msg, false),
		}, http.StatusCreated)
	}
}

func (app *App) ListMessagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseLimit(r.URL.Query().Get("limit"))

		messages, err := app.Repository.GetMessages(r.Context(), limit)
		if err != nil {
			app.log.Error().Err(err).Msg("cannot list messages")
			sendResponse(w, models.ListFailed, http.StatusInternalServerError)
			return
		}

		sendResponse(w, models.ListMessagesResponse{
			Success:  true,
			Messages: mapMessagesToJson(messages, true),
		}, http.StatusOK)
	}
}

func (app *App) DeleteMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			sendResponse(w, models.IDRequired, http.StatusBadRequest)
			return
		}

		err := app.Delete(r.Context(), id)
		switch {
		case errors.Is(err, db.ErrMessageNotFound):
			app.log.Debug().Str("id", id).Msg("message not found")
			sendResponse(w, models.MessageNotFound, http.StatusNotFound)
			return
		case err != nil:
			app.log.Error().Err(err).Str("id", id).Msg("cannot delete message")
			sendResponse(w, models.DeleteFailed, http.StatusInternalServerError)
			return
		}

		sendResponse(w, models.SuccessResponse{Success: true}, http.StatusOK)
	}
}

func (app *App) ScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schedule, err := app.Schedule(r.Context())
		if err != nil {
			app.log.Error().Err(err).Msg("cannot build schedule")
			sendResponse(w, models.ScheduleFailed, http.StatusInternalServerError)
			return
		}
		sendResponse(w, schedule, http.StatusOK)
	}
}

func (app *App) TimeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := app.now()
		sendResponse(w, models.TimeResponse{
			ServerTime: now.UnixMilli(),
			Timestamp:  formatTime(now),
		}, http.StatusOK)
	}
}

func (app *App) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendResponse(w, models.HealthResponse{
			Status:    "ok",
			Timestamp: formatTime(app.now()),
		}, http.StatusOK)
	}
}

// endregion

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
