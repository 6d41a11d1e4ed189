package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"remindhub-backend/models"

	"gorm.io/gorm"
)

type waCall struct {
	To    string
	Text  string
	Image string
}

type fakeWhatsAppSender struct {
	calls  []waCall
	failTo string // numbers to reject, empty means accept all
}

func (f *fakeWhatsAppSender) Send(ctx context.Context, to, text, imageURL string) Result {
	f.calls = append(f.calls, waCall{To: to, Text: text, Image: imageURL})
	if f.failTo != "" && to == f.failTo {
		return errorResult("provider rejected message")
	}
	return successResult("fake-wa-id")
}

type emailCall struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	calls []emailCall
}

func (f *fakeEmailSender) Send(ctx context.Context, fromEmail, fromName, to, toName, subject, htmlBody string) Result {
	f.calls = append(f.calls, emailCall{To: to, Subject: subject, Body: htmlBody})
	return successResult("fake-email-id")
}

type dispatchHarness struct {
	db    *gorm.DB
	svc   *ReminderService
	wa    *fakeWhatsAppSender
	email *fakeEmailSender
}

func newDispatchHarness(t *testing.T, now time.Time) *dispatchHarness {
	t.Helper()
	h := &dispatchHarness{
		db:    newTestDB(t),
		wa:    &fakeWhatsAppSender{},
		email: &fakeEmailSender{},
	}
	h.svc = NewReminderService(h.db, nil)
	h.svc.whatsappFor = func(*models.UserSettings) (WhatsAppSender, error) { return h.wa, nil }
	h.svc.emailFor = func(*models.UserSettings) (EmailSender, error) { return h.email, nil }
	h.svc.now = func() time.Time { return now }
	return h
}

func (h *dispatchHarness) seedUser(t *testing.T, timezone, sendTime string, waCredits, emailCredits int) *models.User {
	t.Helper()
	user := models.User{
		Email:           fmt.Sprintf("owner%d@example.com", time.Now().UnixNano()),
		Password:        "secret",
		FullName:        "Asha Rao",
		WhatsAppCredits: waCredits,
		EmailCredits:    emailCredits,
		IsActive:        true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	settings := models.UserSettings{
		UserID:           user.ID,
		Timezone:         timezone,
		DailySendTime:    sendTime,
		WhatsAppProvider: ProviderMeta,
		SenderEmail:      "asha@example.com",
		SenderName:       "Asha",
	}
	if err := h.db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return &user
}

func (h *dispatchHarness) seedContact(t *testing.T, user *models.User, name, whatsapp, email string, birthday time.Time) *models.Contact {
	t.Helper()
	contact := models.Contact{
		UserID:   user.ID,
		Name:     name,
		WhatsApp: whatsapp,
		Email:    email,
		Birthday: &birthday,
		IsActive: true,
	}
	if err := h.db.Create(&contact).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return &contact
}

func TestRunDispatchesDueBirthday(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 3, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", summary.TotalUsers)
	}
	if summary.WhatsAppSent != 1 || summary.MessagesSent != 1 {
		t.Errorf("WhatsAppSent = %d, MessagesSent = %d, want 1 and 1", summary.WhatsAppSent, summary.MessagesSent)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("unexpected errors: %v", summary.Errors)
	}
	if len(h.wa.calls) != 1 {
		t.Fatalf("whatsapp calls = %d, want 1", len(h.wa.calls))
	}
	call := h.wa.calls[0]
	if call.To != "9876543210" {
		t.Errorf("sent to %q, want the normalized number", call.To)
	}
	if !strings.Contains(call.Text, "Priya") {
		t.Errorf("message %q should address the contact by name", call.Text)
	}

	// Delivery decrements the stored balance.
	var stored models.User
	if err := h.db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.WhatsAppCredits != 2 {
		t.Errorf("WhatsAppCredits = %d, want 2", stored.WhatsAppCredits)
	}
}

func TestRunSkipsUserOutsideWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "15:00", 3, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.TotalUsers != 0 || summary.MessagesSent != 0 {
		t.Errorf("summary = %+v, want nothing processed", summary)
	}
	if len(h.wa.calls) != 0 {
		t.Errorf("whatsapp calls = %d, want 0", len(h.wa.calls))
	}
}

func TestRunHonorsUserTimezone(t *testing.T) {
	// 03:35 UTC is 09:05 in Asia/Kolkata, inside the window for a 09:00
	// send time, and the contact's birthday matches the local date.
	now := time.Date(2025, 3, 15, 3, 35, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "Asia/Kolkata", "09:00", 3, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.TotalUsers != 1 || summary.WhatsAppSent != 1 {
		t.Errorf("summary = %+v, want the Kolkata user processed", summary)
	}
}

func TestRunInvalidTimezoneRecordedAndSkipped(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "Mars/Olympus", "09:00", 3, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.TotalUsers != 0 || len(h.wa.calls) != 0 {
		t.Errorf("summary = %+v, want nothing sent", summary)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "skipped") {
		t.Errorf("Errors = %v, want one skip entry", summary.Errors)
	}
}

func TestRunSendsBothChannels(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 3, 3)
	h.seedContact(t, user, "Priya", "9876543210", "priya@example.com",
		time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.MessagesSent != 2 || summary.WhatsAppSent != 1 || summary.EmailSent != 1 {
		t.Errorf("summary = %+v, want one send per channel", summary)
	}
	if len(h.email.calls) != 1 {
		t.Fatalf("email calls = %d, want 1", len(h.email.calls))
	}
	call := h.email.calls[0]
	if call.To != "priya@example.com" {
		t.Errorf("email to %q", call.To)
	}
	if call.Subject != "Happy Birthday, Priya!" {
		t.Errorf("subject = %q, want the birthday default", call.Subject)
	}
}

func TestRunDedupAcrossInvocations(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 10, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	first := h.svc.RunDailyReminders(context.Background())
	if first.MessagesSent != 1 {
		t.Fatalf("first run MessagesSent = %d, want 1", first.MessagesSent)
	}

	// A second invocation inside the same window finds the marker and sends
	// nothing.
	h.svc.now = func() time.Time { return now.Add(10 * time.Minute) }
	second := h.svc.RunDailyReminders(context.Background())
	if second.TotalUsers != 1 {
		t.Errorf("second run TotalUsers = %d, want 1", second.TotalUsers)
	}
	if second.MessagesSent != 0 {
		t.Errorf("second run MessagesSent = %d, want 0", second.MessagesSent)
	}
	if len(h.wa.calls) != 1 {
		t.Errorf("whatsapp calls = %d, want 1 across both runs", len(h.wa.calls))
	}
}

func TestRunIsolatesDeliveryFailure(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	h.wa.failTo = "9876543210"
	user := h.seedUser(t, "UTC", "09:00", 10, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))
	h.seedContact(t, user, "Rahul", "8765432109", "", time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.MessagesSent != 1 {
		t.Errorf("MessagesSent = %d, want the surviving contact counted", summary.MessagesSent)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", summary.Errors)
	}
	if !strings.Contains(summary.Errors[0], "Priya") {
		t.Errorf("error %q should name the failed contact", summary.Errors[0])
	}
}

func TestRunOutOfCreditsSkipsWithoutError(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 0, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.MessagesSent != 0 || len(h.wa.calls) != 0 {
		t.Errorf("summary = %+v with %d calls, want nothing sent", summary, len(h.wa.calls))
	}
	if len(summary.Errors) != 0 {
		t.Errorf("exhausted credits are a skip, not an error: %v", summary.Errors)
	}
}

func TestRunContactWithoutAddress(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 3, 3)
	h.seedContact(t, user, "Priya", "", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.MessagesSent != 0 {
		t.Errorf("MessagesSent = %d, want 0", summary.MessagesSent)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "no whatsapp number or email") {
		t.Errorf("Errors = %v, want one missing-address entry", summary.Errors)
	}
}

func TestRunMatchesAnniversary(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 3, 0)

	anniversary := time.Date(2015, 6, 10, 0, 0, 0, 0, time.UTC)
	contact := models.Contact{
		UserID:          user.ID,
		Name:            "Meera",
		WhatsApp:        "9876543210",
		AnniversaryDate: &anniversary,
		IsActive:        true,
	}
	if err := h.db.Create(&contact).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	summary := h.svc.RunDailyReminders(context.Background())
	if summary.WhatsAppSent != 1 {
		t.Fatalf("WhatsAppSent = %d, want 1", summary.WhatsAppSent)
	}
	text := h.wa.calls[0].Text
	if !strings.Contains(strings.ToLower(text), "anniversary") {
		t.Errorf("message %q should be about the anniversary", text)
	}
}

func TestRunPersistsReminderLog(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 3, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	summary := h.svc.RunDailyReminders(context.Background())

	var logs []models.ReminderLog
	if err := h.db.Find(&logs).Error; err != nil {
		t.Fatalf("fetch logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("reminder logs = %d, want 1", len(logs))
	}
	entry := logs[0]
	if entry.Date != "2025-03-15" {
		t.Errorf("log date = %q", entry.Date)
	}
	if entry.MessagesSent != summary.MessagesSent || entry.WhatsAppSent != summary.WhatsAppSent {
		t.Errorf("log %+v does not match summary %+v", entry, summary)
	}
}

func TestRunRecordsMarkerStorageFailure(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 3, 0)
	h.seedContact(t, user, "Priya", "9876543210", "", time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	// Break marker storage entirely. The contact cannot be claimed, so it
	// must not be sent, but the failure has to show up in the run record
	// rather than passing as a clean run.
	if err := h.db.Migrator().DropTable(&models.SentMarker{}); err != nil {
		t.Fatalf("drop marker table: %v", err)
	}

	summary := h.svc.RunDailyReminders(context.Background())

	if summary.MessagesSent != 0 || len(h.wa.calls) != 0 {
		t.Errorf("summary = %+v with %d calls, want nothing sent", summary, len(h.wa.calls))
	}
	if len(summary.Errors) == 0 {
		t.Fatal("marker storage failure must be recorded in the run errors")
	}
	var claimErr string
	for _, e := range summary.Errors {
		if strings.Contains(e, "Priya") && strings.Contains(e, "claim send marker") {
			claimErr = e
		}
	}
	if claimErr == "" {
		t.Errorf("Errors = %v, want a claim failure naming the contact", summary.Errors)
	}
}

func TestRunSweepsExpiredMarkers(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 5, 0, 0, time.UTC)
	h := newDispatchHarness(t, now)
	user := h.seedUser(t, "UTC", "09:00", 10, 0)
	contact := h.seedContact(t, user, "Priya", "9876543210", "",
		time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC))

	// A marker left over from a previous date, already expired. The sweep
	// must clear it so today's claim goes through.
	stale := models.SentMarker{
		ContactID: contact.ID,
		Occasion:  OccasionBirthday,
		Date:      "2025-03-14",
		ExpiresAt: now.Add(-2 * time.Hour),
	}
	if err := h.db.Create(&stale).Error; err != nil {
		t.Fatalf("seed marker: %v", err)
	}

	summary := h.svc.RunDailyReminders(context.Background())
	if summary.WhatsAppSent != 1 {
		t.Errorf("WhatsAppSent = %d, want 1", summary.WhatsAppSent)
	}

	var remaining int64
	h.db.Model(&models.SentMarker{}).Where("date = ?", "2025-03-14").Count(&remaining)
	if remaining != 0 {
		t.Errorf("stale markers remaining = %d, want 0", remaining)
	}
}
