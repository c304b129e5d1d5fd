package models

import (
	"errors"
	"testing"
	"time"
)

func TestReserveSlot(t *testing.T) {
	gdb := openTestDB(t)
	consultant, _ := seedParties(t, gdb)

	slot := AvailabilitySlot{
		ConsultantID:    consultant.ID,
		StartTime:       time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
	if err := gdb.Create(&slot).Error; err != nil {
		t.Fatalf("failed to create slot: %v", err)
	}

	if err := ReserveSlot(gdb, slot.ID); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	if err := ReserveSlot(gdb, slot.ID); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second reservation: want ErrSlotTaken, got %v", err)
	}

	var got AvailabilitySlot
	if err := gdb.First(&got, slot.ID).Error; err != nil {
		t.Fatalf("failed to reload slot: %v", err)
	}
	if !got.IsBooked {
		t.Fatal("slot should be booked after reservation")
	}
}

func TestReserveSlotMissing(t *testing.T) {
	gdb := openTestDB(t)

	if err := ReserveSlot(gdb, 9999); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("reserving a missing slot: want ErrSlotTaken, got %v", err)
	}
}

func TestReleaseSlot(t *testing.T) {
	gdb := openTestDB(t)
	consultant, _ := seedParties(t, gdb)

	slot := AvailabilitySlot{
		ConsultantID:    consultant.ID,
		StartTime:       time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		IsBooked:        true,
	}
	if err := gdb.Create(&slot).Error; err != nil {
		t.Fatalf("failed to create slot: %v", err)
	}

	if err := ReleaseSlot(gdb, slot.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if err := ReleaseSlot(gdb, slot.ID); !errors.Is(err, ErrSlotFree) {
		t.Fatalf("second release: want ErrSlotFree, got %v", err)
	}

	// Released slots are bookable again.
	if err := ReserveSlot(gdb, slot.ID); err != nil {
		t.Fatalf("re-reservation after release failed: %v", err)
	}
}
