package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocationService_RoomImage(t *testing.T) {
	api := newFakeAPI()
	api.roomImage = []byte{0x89, 'P', 'N', 'G'}
	svc := NewLocationService(api, zap.NewNop())

	image, err := svc.RoomImage(context.Background(), testSession(), 12)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, image)
	assert.Equal(t, 1, api.countOf("GetRoomImage"))

	image, err = svc.RoomImage(context.Background(), testSession(), model.RemoteRoomID)
	require.NoError(t, err)
	assert.Nil(t, image)
	assert.Equal(t, 1, api.countOf("GetRoomImage"), "remote room must not hit the API")

	api.failOn["GetRoomImage"] = errors.New("connection reset")
	_, err = svc.RoomImage(context.Background(), testSession(), 12)
	assert.Error(t, err)

	_, err = svc.RoomImage(context.Background(), nil, 12)
	assert.ErrorIs(t, err, ErrNoSession)
}
