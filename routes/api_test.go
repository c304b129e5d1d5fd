package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/consultbridge/consult-booking/config"
	"github.com/consultbridge/consult-booking/db"
	"github.com/consultbridge/consult-booking/models"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.Role{}, &models.User{}, &models.ConsultantProfile{},
		&models.ClientProfile{}, &models.Service{}, &models.AvailabilitySlot{},
		&models.Booking{}, &models.Document{}, &models.Review{}, &models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.DB = gdb
	db.SeedRoles(gdb)
	config.App = config.Config{CatalogTTL: time.Minute}

	app := fiber.New()
	SetupAuthRoutes(app)
	SetupConsultantRoutes(app)
	SetupClientRoutes(app)
	SetupBookingRoutes(app)
	SetupReviewRoutes(app)
	SetupNotificationRoutes(app)
	return app
}

func signToken(t *testing.T, user *models.User, roleName string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  roleName,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("solid_secret_key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// seedConsultant creates a consultant user with a profile and returns the
// profile plus a bearer token.
func seedConsultant(t *testing.T, email string) (*models.ConsultantProfile, string) {
	t.Helper()

	var role models.Role
	if err := db.DB.Where("name = ?", models.RoleConsultant).First(&role).Error; err != nil {
		t.Fatalf("consultant role missing: %v", err)
	}
	user := models.User{Name: "Consultant", Email: email, RoleID: role.ID}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create consultant user: %v", err)
	}
	profile, err := models.EnsureConsultantProfile(db.DB, user.ID)
	if err != nil {
		t.Fatalf("failed to create consultant profile: %v", err)
	}
	return profile, signToken(t, &user, models.RoleConsultant)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
	return resp
}

type idOnly struct {
	ID uint `json:"ID"`
}

func TestBookingLifecycle(t *testing.T) {
	app := setupTestApp(t)

	// Client signs up and logs in.
	resp := doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"name": "Rene", "email": "rene@example.com", "password": "hunter22",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}

	var login struct {
		Token string `json:"token"`
	}
	resp = doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "rene@example.com", "password": "hunter22",
	}, &login)
	if resp.StatusCode != http.StatusOK || login.Token == "" {
		t.Fatalf("login: status %d token %q", resp.StatusCode, login.Token)
	}
	clientToken := login.Token

	// Consultant publishes a service and a slot.
	consultant, consultantToken := seedConsultant(t, "dana@example.com")

	var service idOnly
	resp = doJSON(t, app, "POST", "/consultant/services", consultantToken, fiber.Map{
		"name": "Tax consultation", "price_cents": 15000, "duration_minutes": 60,
	}, &service)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create service: status %d", resp.StatusCode)
	}

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Hour)
	var slot idOnly
	resp = doJSON(t, app, "POST", "/consultant/slots", consultantToken, fiber.Map{
		"start_time": start.Format(time.RFC3339), "duration_minutes": 60,
	}, &slot)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create slot: status %d", resp.StatusCode)
	}

	// Client books the slot.
	var booking struct {
		ID     uint                 `json:"ID"`
		Status models.BookingStatus `json:"status"`
	}
	bookingReq := fiber.Map{
		"consultant_id": consultant.ID, "service_id": service.ID, "slot_id": slot.ID,
	}
	resp = doJSON(t, app, "POST", "/bookings/book", clientToken, bookingReq, &booking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create booking: status %d", resp.StatusCode)
	}
	if booking.Status != models.StatusPending {
		t.Fatalf("new booking status = %s, want pending", booking.Status)
	}

	// A second client racing for the same slot gets a conflict.
	doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"name": "Sam", "email": "sam@example.com", "password": "hunter22",
	}, nil)
	var otherLogin struct {
		Token string `json:"token"`
	}
	doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "sam@example.com", "password": "hunter22",
	}, &otherLogin)
	resp = doJSON(t, app, "POST", "/bookings/book", otherLogin.Token, bookingReq, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double booking: status %d, want 409", resp.StatusCode)
	}

	bookingPath := "/bookings/" + itoa(booking.ID)

	// Only the consultant may confirm.
	resp = doJSON(t, app, "PUT", bookingPath+"/confirm", clientToken, nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("client confirm: status %d, want 403", resp.StatusCode)
	}
	resp = doJSON(t, app, "PUT", bookingPath+"/confirm", consultantToken, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("consultant confirm: status %d", resp.StatusCode)
	}

	// Reviews are rejected until completion.
	reviewReq := fiber.Map{"booking_id": booking.ID, "rating": 5, "comment": "great"}
	resp = doJSON(t, app, "POST", "/reviews/", clientToken, reviewReq, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("early review: status %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", bookingPath+"/complete", consultantToken, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: status %d", resp.StatusCode)
	}

	// Completed bookings are terminal.
	resp = doJSON(t, app, "PUT", bookingPath+"/cancel", clientToken, nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("cancel after completion: status %d, want 400", resp.StatusCode)
	}

	// One review per booking, and it feeds the consultant's rating.
	var review idOnly
	resp = doJSON(t, app, "POST", "/reviews/", clientToken, reviewReq, &review)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("review: status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/reviews/", clientToken, reviewReq, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate review: status %d, want 409", resp.StatusCode)
	}

	// Deleting the review frees the booking for a replacement.
	resp = doJSON(t, app, "DELETE", "/reviews/"+itoa(review.ID), clientToken, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete review: status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/reviews/", clientToken, reviewReq, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("replacement review: status %d", resp.StatusCode)
	}

	var detail struct {
		Consultant struct {
			AverageRating float64 `json:"average_rating"`
			ReviewCount   int64   `json:"review_count"`
		} `json:"consultant"`
	}
	resp = doJSON(t, app, "GET", "/consultants/"+itoa(consultant.ID), "", nil, &detail)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("consultant detail: status %d", resp.StatusCode)
	}
	if detail.Consultant.AverageRating != 5 || detail.Consultant.ReviewCount != 1 {
		t.Fatalf("rating = %v/%d, want 5/1", detail.Consultant.AverageRating, detail.Consultant.ReviewCount)
	}
}

func TestCancellationReleasesSlot(t *testing.T) {
	app := setupTestApp(t)

	doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"name": "Rene", "email": "rene@example.com", "password": "hunter22",
	}, nil)
	var login struct {
		Token string `json:"token"`
	}
	doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "rene@example.com", "password": "hunter22",
	}, &login)

	consultant, consultantToken := seedConsultant(t, "dana@example.com")

	var service idOnly
	doJSON(t, app, "POST", "/consultant/services", consultantToken, fiber.Map{
		"name": "Session", "price_cents": 5000, "duration_minutes": 30,
	}, &service)

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Hour)
	var slot idOnly
	doJSON(t, app, "POST", "/consultant/slots", consultantToken, fiber.Map{
		"start_time": start.Format(time.RFC3339), "duration_minutes": 30,
	}, &slot)

	var booking idOnly
	resp := doJSON(t, app, "POST", "/bookings/book", login.Token, fiber.Map{
		"consultant_id": consultant.ID, "service_id": service.ID, "slot_id": slot.ID,
	}, &booking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create booking: status %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "PUT", "/bookings/"+itoa(booking.ID)+"/cancel", login.Token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d", resp.StatusCode)
	}

	// The slot is open again and bookable by someone else.
	var slots []struct {
		ID       uint `json:"ID"`
		IsBooked bool `json:"is_booked"`
	}
	resp = doJSON(t, app, "GET", "/consultants/"+itoa(consultant.ID)+"/slots", "", nil, &slots)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list slots: status %d", resp.StatusCode)
	}
	if len(slots) != 1 || slots[0].ID != slot.ID || slots[0].IsBooked {
		t.Fatalf("slot not released: %+v", slots)
	}
}

func TestBookingValidation(t *testing.T) {
	app := setupTestApp(t)

	doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"name": "Rene", "email": "rene@example.com", "password": "hunter22",
	}, nil)
	var login struct {
		Token string `json:"token"`
	}
	doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"email": "rene@example.com", "password": "hunter22",
	}, &login)

	consultant, consultantToken := seedConsultant(t, "dana@example.com")
	var service idOnly
	doJSON(t, app, "POST", "/consultant/services", consultantToken, fiber.Map{
		"name": "Session", "price_cents": 5000, "duration_minutes": 30,
	}, &service)
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Hour)
	var slot idOnly
	doJSON(t, app, "POST", "/consultant/slots", consultantToken, fiber.Map{
		"start_time": start.Format(time.RFC3339), "duration_minutes": 30,
	}, &slot)

	// Unknown consultant.
	resp := doJSON(t, app, "POST", "/bookings/book", login.Token, fiber.Map{
		"consultant_id": 999, "service_id": service.ID, "slot_id": slot.ID,
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown consultant: status %d, want 404", resp.StatusCode)
	}

	// Slot belonging to a different consultant.
	other, otherToken := seedConsultant(t, "noor@example.com")
	var otherService idOnly
	doJSON(t, app, "POST", "/consultant/services", otherToken, fiber.Map{
		"name": "Other", "price_cents": 1000, "duration_minutes": 30,
	}, &otherService)
	resp = doJSON(t, app, "POST", "/bookings/book", login.Token, fiber.Map{
		"consultant_id": other.ID, "service_id": otherService.ID, "slot_id": slot.ID,
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign slot: status %d, want 404", resp.StatusCode)
	}

	// Absurd duration.
	resp = doJSON(t, app, "POST", "/bookings/book", login.Token, fiber.Map{
		"consultant_id": consultant.ID, "service_id": service.ID, "slot_id": slot.ID,
		"duration_minutes": 10000,
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized duration: status %d, want 400", resp.StatusCode)
	}

	// Malformed slot time on the consultant side.
	resp = doJSON(t, app, "POST", "/consultant/slots", consultantToken, fiber.Map{
		"start_time": "tomorrow at noon", "duration_minutes": 30,
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad start_time: status %d, want 400", resp.StatusCode)
	}

	// Unauthenticated booking.
	resp = doJSON(t, app, "POST", "/bookings/book", "", fiber.Map{
		"consultant_id": consultant.ID, "service_id": service.ID, "slot_id": slot.ID,
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: status %d, want 401", resp.StatusCode)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
