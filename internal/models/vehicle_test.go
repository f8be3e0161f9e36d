package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublicViewStripsInternalFields(t *testing.T) {
	v := &Vehicle{
		Title:        "2023 Tata LPT 3118 6x2 Truck",
		AskingPrice:  2850000,
		VendorPrice:  2500000,
		TargetMargin: 12.5,
		Status:       StatusPublished,
	}

	public := v.PublicView(time.Now())

	assert.Equal(t, v.Title, public.Title)
	assert.Equal(t, v.AskingPrice, public.AskingPrice)
	// No vendor price or target margin fields exist on the public shape;
	// spot-check the important passthroughs instead.
	assert.Equal(t, StatusPublished, public.Status)
}

func TestPublicViewLapsedReservationShowsPublished(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	lapsed := &Vehicle{Status: StatusReserved, ReservedUntil: &past}
	assert.Equal(t, StatusPublished, lapsed.PublicView(now).Status)
	// The stored status is untouched.
	assert.Equal(t, StatusReserved, lapsed.Status)

	held := &Vehicle{Status: StatusReserved, ReservedUntil: &future}
	assert.Equal(t, StatusReserved, held.PublicView(now).Status)

	openEnded := &Vehicle{Status: StatusReserved}
	assert.Equal(t, StatusReserved, openEnded.PublicView(now).Status)
}
