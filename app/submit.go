package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/simshi01/thansgiving-day/app/duration"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/app/requests"
)

// Submit validates, moderates and stores a new message, then announces it
// to connected viewers. A *models.RejectError means the author should fix
// the message; any other error is a storage failure.
func (app *App) Submit(ctx context.Context, req models.CreateMessageRequest) (models.Message, error) {
	if failed := requests.Validate(req); len(failed) > 0 {
		if failed[0] == "text" {
			return models.Message{}, &models.RejectError{Reason: models.TextRequired.Error}
		}
		return models.Message{}, &models.RejectError{Reason: models.PositionRequired.Error}
	}
	if *req.Text == "" {
		return models.Message{}, &models.RejectError{Reason: models.TextRequired.Error}
	}

	if res := app.Filter.Validate(*req.Text); !res.OK() {
		return models.Message{}, &models.RejectError{Reason: res.Reason}
	}

	x := int(math.Round(*req.PositionX))
	y := int(math.Round(*req.PositionY))
	seconds := duration.Normalize(req.Duration)

	msg, err := app.Repository.CreateMessage(ctx, strings.TrimSpace(*req.Text), &x, &y, seconds)
	if err != nil {
		return models.Message{}, fmt.Errorf("app: store message: %w", err)
	}

	app.publish(models.EventMessageNew, mapMessageToJson(msg, false))
	return msg, nil
}

// ActiveMessages lists what a freshly connected viewer should catch up on:
// messages created within the active window.
func (app *App) ActiveMessages(ctx context.Context) ([]models.JsonMessage, error) {
	msgs, err := app.Repository.GetMessagesSince(ctx, app.now().Add(-app.activeWindow))
	if err != nil {
		return nil, fmt.Errorf("app: active messages: %w", err)
	}
	return mapMessagesToJson(msgs, false), nil
}

// Delete removes a message and tells viewers to take it down.
func (app *App) Delete(ctx context.Context, id string) error {
	if err := app.Repository.DeleteMessage(ctx, id); err != nil {
		return err
	}
	app.publish(models.EventMessageDeleted, models.DeletedPayload{ID: id})
	return nil
}

// Schedule lays every active message out on a shared cycle, one slot per
// interval in creation order.
func (app *App) Schedule(ctx context.Context) (models.ScheduleResponse, error) {
	msgs, err := app.Repository.GetAllMessages(ctx)
	if err != nil {
		return models.ScheduleResponse{}, fmt.Errorf("app: schedule: %w", err)
	}

	interval := app.interval.Milliseconds()
	showFor := app.showFor.Milliseconds()

	resp := models.ScheduleResponse{
		Schedule:        make([]models.ScheduleEntry, 0, len(msgs)),
		TotalMessages:   len(msgs),
		CycleDuration:   int64(len(msgs)) * interval,
		MessageInterval: interval,
		MessageDuration: showFor,
		ServerTime:      app.now().UnixMilli(),
	}
	for i, m := range msgs {
		resp.Schedule = append(resp.Schedule, models.ScheduleEntry{
			ID:       m.ID,
			Text:     m.Text,
			Duration: showFor,
			ShowTime: int64(i) * interval,
			Position: i,
		})
	}
	return resp, nil
}

// publish hands an event to the hub without waiting. A full channel drops
// the event; viewers catch up on their next reload.
func (app *App) publish(name string, data interface{}) {
	if app.notifications == nil {
		return
	}
	ev, err := models.NewEvent(name, data)
	if err != nil {
		app.log.Error().Err(err).Str("event", name).Msg("cannot encode event")
		return
	}
	select {
	case app.notifications <- ev:
	default:
		app.log.Warn().Str("event", name).Msg("hub is saturated, event dropped")
	}
}
