package models

import "testing"

func TestEnsureClientProfileIdempotent(t *testing.T) {
	gdb := openTestDB(t)

	user := User{Name: "Sam", Email: "sam@example.com"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	first, err := EnsureClientProfile(gdb, user.ID)
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	second, err := EnsureClientProfile(gdb, user.ID)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("ensure created a second profile: %d != %d", first.ID, second.ID)
	}

	var count int64
	gdb.Model(&ClientProfile{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("profile count = %d, want 1", count)
	}
}

func TestEnsureConsultantProfileIdempotent(t *testing.T) {
	gdb := openTestDB(t)

	user := User{Name: "Noor", Email: "noor@example.com"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	first, err := EnsureConsultantProfile(gdb, user.ID)
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	second, err := EnsureConsultantProfile(gdb, user.ID)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("ensure created a second profile: %d != %d", first.ID, second.ID)
	}
}
