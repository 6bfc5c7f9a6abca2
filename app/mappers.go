package app

import "github.com/simshi01/thansgiving-day/app/models"

func mapMessageToJson(message models.Message, withCreatedAt bool) models.JsonMessage {
	m := models.JsonMessage{
		ID:        message.ID,
		Text:      message.Text,
		PositionX: message.PositionX,
		PositionY: message.PositionY,
		Duration:  message.Duration,
	}
	if withCreatedAt {
		m.CreatedAt = formatTime(message.CreatedAt)
	}
	return m
}

func mapMessagesToJson(messages []models.Message, withCreatedAt bool) []models.JsonMessage {
	out := make([]models.JsonMessage, 0, len(messages))
	for _, message := range messages {
		out = append(out, mapMessageToJson(message, withCreatedAt))
	}
	return out
}
