package model_test

import (
	"testing"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingWindow_Overlaps(t *testing.T) {
	w := model.BookingWindow{From: day(10), To: day(15)}

	assert.True(t, w.Overlaps(day(14), day(20)), "tail overlaps")
	assert.True(t, w.Overlaps(day(5), day(10)), "touching start bound")
	assert.True(t, w.Overlaps(day(15), day(16)), "touching end bound")
	assert.True(t, w.Overlaps(day(11), day(12)), "contained")
	assert.True(t, w.Overlaps(day(1), day(30)), "containing")
	assert.False(t, w.Overlaps(day(16), day(20)))
	assert.False(t, w.Overlaps(day(1), day(9)))
}

func TestCheckAssetAvailability(t *testing.T) {
	window := model.BookingWindow{From: day(10), To: day(15)}
	reserved := model.BookingBrief{ID: "b-1", Status: model.BookingStatusReserved, From: day(14), To: day(20)}

	t.Run("not bookable regardless of window", func(t *testing.T) {
		asset := &model.Asset{AvailableToBook: false}
		assert.Equal(t, model.ReasonNotBookable, model.CheckAssetAvailability(asset, nil, window, nil))
		far := model.BookingWindow{From: day(1).AddDate(1, 0, 0), To: day(2).AddDate(1, 0, 0)}
		assert.Equal(t, model.ReasonNotBookable, model.CheckAssetAvailability(asset, nil, far, nil))
	})

	t.Run("in custody", func(t *testing.T) {
		asset := &model.Asset{AvailableToBook: true, Custody: &model.Custody{TeamMemberID: "tm-1"}}
		assert.Equal(t, model.ReasonInCustody, model.CheckAssetAvailability(asset, nil, window, nil))
	})

	t.Run("overlapping reserved booking", func(t *testing.T) {
		asset := &model.Asset{AvailableToBook: true}
		assert.Equal(t, model.ReasonAlreadyBooked,
			model.CheckAssetAvailability(asset, []model.BookingBrief{reserved}, window, nil))
	})

	t.Run("overlapping booking is exempt", func(t *testing.T) {
		asset := &model.Asset{AvailableToBook: true}
		assert.Equal(t, model.ReasonNone,
			model.CheckAssetAvailability(asset, []model.BookingBrief{reserved}, window, []string{"b-1"}))
	})

	t.Run("non overlapping booking", func(t *testing.T) {
		asset := &model.Asset{AvailableToBook: true}
		later := model.BookingBrief{ID: "b-2", Status: model.BookingStatusReserved, From: day(16), To: day(20)}
		assert.Equal(t, model.ReasonNone,
			model.CheckAssetAvailability(asset, []model.BookingBrief{later}, window, nil))
	})

	t.Run("inactive booking does not block", func(t *testing.T) {
		asset := &model.Asset{AvailableToBook: true}
		done := reserved
		done.Status = model.BookingStatusComplete
		assert.Equal(t, model.ReasonNone,
			model.CheckAssetAvailability(asset, []model.BookingBrief{done}, window, nil))
	})
}

func TestPermissionTable_Allows(t *testing.T) {
	table := model.RolePermissions[model.RoleSelfService]

	assert.True(t, table.Allows(model.EntityBooking, model.ActionDelete))
	assert.True(t, table.Allows(model.EntityAsset, model.ActionRead))
	assert.False(t, table.Allows(model.EntityAsset, model.ActionUpdate))
	assert.False(t, table.Allows(model.EntityQr, model.ActionRead))
}

func TestBooking_CustodianName(t *testing.T) {
	b := &model.Booking{CustodianUser: &model.User{FirstName: "Ada", LastName: "Lovelace"}}
	assert.Equal(t, "Ada Lovelace", b.CustodianName())

	b = &model.Booking{CustodianTeamMember: &model.TeamMember{Name: "Front desk"}}
	assert.Equal(t, "Front desk", b.CustodianName())

	b = &model.Booking{CustodianUser: &model.User{}, CustodianTeamMember: &model.TeamMember{Name: "Front desk"}}
	assert.Equal(t, "Front desk", b.CustodianName())
}
