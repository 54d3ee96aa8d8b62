package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/memory"
	"github.com/Freeeeeet/room_booking/internal/service"
)

func TestRoomServiceCreateRoom(t *testing.T) {
	ctx := context.Background()
	rooms := service.NewRoomService(memory.NewStore(), zap.NewNop())

	room, v, err := rooms.CreateRoom(ctx, " A ")
	require.NoError(t, err)
	require.True(t, v.Empty())
	assert.Equal(t, "A", room.ID)

	_, v, err = rooms.CreateRoom(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"Room A already exists."}, v.Messages())

	_, v, err = rooms.CreateRoom(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"The Name field is required."}, v.Messages())

	list, err := rooms.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAccountServiceRegister(t *testing.T) {
	ctx := context.Background()
	accounts := service.NewAccountService(memory.NewStore(), zap.NewNop())

	v, err := accounts.Register(ctx, &model.Account{ID: "e12345", Role: model.RoleStaff, FirstName: "Matthew", LastName: "Bolger"})
	require.NoError(t, err)
	require.True(t, v.Empty())

	v, err = accounts.Register(ctx, &model.Account{ID: "e12345", Role: model.RoleStaff, FirstName: "Matthew", LastName: "Bolger"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Account e12345 already exists."}, v.Messages())

	v, err = accounts.Register(ctx, &model.Account{ID: "s12", Role: model.RoleStudent, FirstName: " ", LastName: "X"})
	require.NoError(t, err)
	assert.Equal(t, []string{invalidStudentMessage("s12"), "The First Name field is required."}, v.Messages())

	require.NoError(t, accounts.LinkTelegram(ctx, "e12345", 777))
	account, err := accounts.GetByTelegramID(ctx, 777)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "e12345", account.ID)

	assert.ErrorIs(t, accounts.LinkTelegram(ctx, "e99999", 778), model.ErrNotFound)
}

func invalidStudentMessage(id string) string {
	return "The student ID " + id + " is invalid, it always starts with a letter ‘s’ followed by 7 numbers."
}

func TestSlotServiceListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "A", at(9), "e12345")
	f.create(t, "B", at(10), "e54321")
	f.book(t, "B", at(10), "s1234567")

	byStaff, v, err := f.slots.ListByStaff(ctx, "e12345")
	require.NoError(t, err)
	require.True(t, v.Empty())
	require.Len(t, byStaff, 1)
	assert.Equal(t, "A", byStaff[0].RoomID)

	byStudent, v, err := f.slots.ListByStudent(ctx, "s1234567")
	require.NoError(t, err)
	require.True(t, v.Empty())
	require.Len(t, byStudent, 1)
	assert.Equal(t, "B", byStudent[0].RoomID)

	_, v, err = f.slots.ListByStudent(ctx, "s0000000")
	require.NoError(t, err)
	assert.Equal(t, []string{"Student does not exist."}, v.Messages())

	_, v, err = f.slots.ListByStaff(ctx, "s1234567")
	require.NoError(t, err)
	assert.Equal(t, []string{"Staff does not exist."}, v.Messages())
}

func TestSlotServiceListRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "A", at(9), "e12345")
	f.create(t, "A", at(24+9), "e12345")
	f.create(t, "B", at(7*24+9), "e54321")

	week, err := f.slots.ListRange(ctx, jan1, jan1.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Len(t, week, 2)

	day, err := f.slots.ListByDay(ctx, jan1)
	require.NoError(t, err)
	assert.Len(t, day, 1)
}
