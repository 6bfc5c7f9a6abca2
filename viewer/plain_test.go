package viewer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlain(t *testing.T) {
	feed := &fakeFeed{messages: []models.JsonMessage{{ID: "a", Text: "Спасибо маме", Duration: 4}}}
	events := make(chan models.Event, 1)
	events <- event(t, models.EventMessageNew, models.JsonMessage{ID: "live", Text: "Спасибо за всё", Duration: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := RunPlain(ctx, &out, newTestWall(config.ModeRotation), feed, events, nil, time.Minute)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "+ live Спасибо за всё (3s)")
	assert.Contains(t, out.String(), "+ a Спасибо маме (4s)")
}

func TestRunPlain_LoadError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := RunPlain(ctx, &out, newTestWall(config.ModeRotation), &fakeFeed{err: errors.New("down")}, nil, nil, 0)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "! down")
}
