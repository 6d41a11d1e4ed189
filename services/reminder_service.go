// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"remindhub-backend/models"
	"remindhub-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// RunSummary is the outcome of one scheduler invocation. It is persisted as a
// ReminderLog and returned to the trigger caller.
type RunSummary struct {
	ExecutionTime time.Time `json:"execution_time"`
	Date          string    `json:"date"`
	TotalUsers    int       `json:"total_users"`
	MessagesSent  int       `json:"messages_sent"`
	WhatsAppSent  int       `json:"whatsapp_sent"`
	EmailSent     int       `json:"email_sent"`
	Errors        []string  `json:"errors"`
}

// ReminderService orchestrates one dispatch run: window-gate each active
// user, match each contact's occasions against today, resolve message and
// image, consume credits and deliver. Every failure is recorded and skipped;
// a run always completes and always persists its log.
type ReminderService struct {
	db       *gorm.DB
	resolver *MessageResolver
	images   *ImageResolver
	ledger   *CreditLedger

	// Provider factories, replaceable in tests.
	whatsappFor func(*models.UserSettings) (WhatsAppSender, error)
	emailFor    func(*models.UserSettings) (EmailSender, error)

	now        func() time.Time
	tolerance  int
	runTimeout time.Duration
}

func NewReminderService(db *gorm.DB, generator MessageGenerator) *ReminderService {
	return &ReminderService{
		db:          db,
		resolver:    NewMessageResolver(db, generator),
		images:      NewImageResolver(db),
		ledger:      NewCreditLedger(db),
		whatsappFor: WhatsAppSenderFor,
		emailFor:    EmailSenderFor,
		now:         time.Now,
		tolerance:   DefaultToleranceMinutes,
		runTimeout:  10 * time.Minute,
	}
}

// StartScheduler triggers a run every 15 minutes; each invocation
// independently decides which users are due by windowing against wall-clock
// time.
func (s *ReminderService) StartScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("*/15 * * * *", func() {
		s.RunDailyReminders(context.Background())
	})
	c.Start()
	log.Println("Reminder scheduler started (every 15 minutes)")
	return c
}

// RunDailyReminders executes one dispatch run. It never returns an error:
// everything that goes wrong ends up in the summary's error list.
func (s *ReminderService) RunDailyReminders(ctx context.Context) RunSummary {
	nowUTC := s.now().UTC()
	summary := RunSummary{
		ExecutionTime: nowUTC,
		Date:          nowUTC.Format("2006-01-02"),
		Errors:        []string{},
	}
	log.Printf("Starting reminder run for %s", summary.Date)

	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	s.sweepMarkers(nowUTC, &summary)

	var users []models.User
	if err := s.db.Find(&users, "is_active = ?", true).Error; err != nil {
		summary.Errors = append(summary.Errors, "failed to fetch users: "+err.Error())
		s.persist(&summary)
		return summary
	}

	for i := range users {
		user := &users[i]
		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("user %s not processed: run deadline exceeded", user.Email))
			continue
		}
		s.processUser(ctx, nowUTC, user, &summary)
	}

	s.persist(&summary)
	log.Printf("Reminder run completed: %d users, %d messages sent, %d errors",
		summary.TotalUsers, summary.MessagesSent, len(summary.Errors))
	return summary
}

func (s *ReminderService) processUser(ctx context.Context, nowUTC time.Time, user *models.User, summary *RunSummary) {
	defer func() {
		if r := recover(); r != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: %v", user.Email, r))
		}
	}()

	settings, err := s.settingsFor(user)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: load settings: %v", user.Email, err))
		return
	}

	due, err := InSendWindow(nowUTC, settings.Timezone, settings.DailySendTime, s.tolerance)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("user %s skipped: %v", user.Email, err))
		return
	}
	if !due {
		return
	}
	summary.TotalUsers++

	// InSendWindow already validated the zone.
	loc, _ := time.LoadLocation(settings.Timezone)
	localNow := nowUTC.In(loc)

	var contacts []models.Contact
	if err := s.db.Where("user_id = ? AND is_active = ?", user.ID, true).Find(&contacts).Error; err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: fetch contacts: %v", user.Email, err))
		return
	}

	for i := range contacts {
		contact := &contacts[i]
		if contact.Birthday != nil && OccasionToday(localNow, *contact.Birthday) {
			s.processOccasion(ctx, localNow, user, settings, contact, OccasionBirthday, summary)
		}
		if contact.AnniversaryDate != nil && OccasionToday(localNow, *contact.AnniversaryDate) {
			s.processOccasion(ctx, localNow, user, settings, contact, OccasionAnniversary, summary)
		}
	}
}

func (s *ReminderService) processOccasion(ctx context.Context, localNow time.Time, user *models.User,
	settings *models.UserSettings, contact *models.Contact, occasion string, summary *RunSummary) {
	defer func() {
		if r := recover(); r != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("contact %s (%s): %v", contact.Name, occasion, r))
		}
	}()

	if contact.WhatsApp == "" && contact.Email == "" {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s): no whatsapp number or email address", contact.Name, occasion))
		return
	}

	claimed, err := s.claimSend(contact, occasion, localNow)
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s): claim send marker: %v", contact.Name, occasion, err))
		return
	}
	if !claimed {
		return
	}

	if contact.WhatsApp != "" {
		s.sendWhatsApp(ctx, user, settings, contact, occasion, summary)
	}
	if contact.Email != "" {
		s.sendEmail(ctx, user, settings, contact, occasion, summary)
	}
}

func (s *ReminderService) sendWhatsApp(ctx context.Context, user *models.User, settings *models.UserSettings,
	contact *models.Contact, occasion string, summary *RunSummary) {

	sender, err := s.whatsappFor(settings)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("contact %s (%s): %v", contact.Name, occasion, err))
		return
	}

	to, err := utils.NormalizePhone(contact.WhatsApp)
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s): invalid whatsapp number: %v", contact.Name, occasion, err))
		return
	}

	text := s.resolver.Resolve(ctx, contact, occasion, ChannelWhatsApp)
	image := s.images.Resolve(contact, occasion, ChannelWhatsApp)

	credit, err := s.ledger.TryConsume(user, ChannelWhatsApp, 1)
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s): credit check failed: %v", contact.Name, occasion, err))
		return
	}
	if !credit.Allowed {
		log.Printf("User %s out of WhatsApp credits, skipping %s", user.Email, contact.Name)
		return
	}

	result := sender.Send(ctx, to, text, image)
	if !result.OK() {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s) via whatsapp: %s", contact.Name, occasion, result.Message))
		return
	}

	summary.WhatsAppSent++
	summary.MessagesSent++
	log.Printf("WhatsApp %s reminder sent to %s (%s)", occasion, contact.Name, result.Message)
}

func (s *ReminderService) sendEmail(ctx context.Context, user *models.User, settings *models.UserSettings,
	contact *models.Contact, occasion string, summary *RunSummary) {

	sender, err := s.emailFor(settings)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("contact %s (%s): %v", contact.Name, occasion, err))
		return
	}

	if !utils.ValidateEmail(contact.Email) {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s): invalid email address", contact.Name, occasion))
		return
	}

	text := s.resolver.Resolve(ctx, contact, occasion, ChannelEmail)
	image := s.images.Resolve(contact, occasion, ChannelEmail)

	credit, err := s.ledger.TryConsume(user, ChannelEmail, 1)
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s): credit check failed: %v", contact.Name, occasion, err))
		return
	}
	if !credit.Allowed {
		log.Printf("User %s out of email credits, skipping %s", user.Email, contact.Name)
		return
	}

	subject := s.emailSubject(user, contact, occasion)
	fromName := settings.SenderName
	if fromName == "" {
		fromName = user.FullName
	}

	result := sender.Send(ctx, settings.SenderEmail, fromName, contact.Email, contact.Name,
		subject, emailBody(text, image))
	if !result.OK() {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("contact %s (%s) via email: %s", contact.Name, occasion, result.Message))
		return
	}

	summary.EmailSent++
	summary.MessagesSent++
	log.Printf("Email %s reminder sent to %s (%s)", occasion, contact.Name, result.Message)
}

// claimSend records the (contact, occasion, date) marker before delivery so
// two adjacent invocations landing in the same window cannot both send. The
// unique index makes the claim first-writer-wins. An existing marker is a
// legitimate skip (false, nil); any storage failure is returned so the caller
// can record it instead of silently dropping the contact.
func (s *ReminderService) claimSend(contact *models.Contact, occasion string, localNow time.Time) (bool, error) {
	date := localNow.Format("2006-01-02")

	var existing models.SentMarker
	err := s.db.Where("contact_id = ? AND occasion = ? AND date = ?", contact.ID, occasion, date).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	marker := models.SentMarker{
		ContactID: contact.ID,
		Occasion:  occasion,
		Date:      date,
		ExpiresAt: localNow.Add(24 * time.Hour),
	}
	if err := s.db.Create(&marker).Error; err != nil {
		// A concurrent run may have claimed between the lookup and the
		// insert; re-check before reporting a storage failure.
		if s.db.Where("contact_id = ? AND occasion = ? AND date = ?", contact.ID, occasion, date).
			First(&existing).Error == nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ReminderService) sweepMarkers(now time.Time, summary *RunSummary) {
	if err := s.db.Unscoped().Where("expires_at < ?", now).Delete(&models.SentMarker{}).Error; err != nil {
		summary.Errors = append(summary.Errors, "failed to sweep expired sent markers: "+err.Error())
		log.Printf("Failed to sweep expired sent markers: %v", err)
	}
}

// settingsFor loads the user's settings row, creating it with defaults on
// first read.
func (s *ReminderService) settingsFor(user *models.User) (*models.UserSettings, error) {
	settings := models.UserSettings{UserID: user.ID}
	err := s.db.Where("user_id = ?", user.ID).
		Attrs(models.UserSettings{Timezone: "UTC", DailySendTime: "09:00", WhatsAppProvider: ProviderMeta}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *ReminderService) emailSubject(user *models.User, contact *models.Contact, occasion string) string {
	var template models.Template
	err := s.db.Where("user_id = ? AND type = ? AND is_default = ?", user.ID, ChannelEmail, true).
		First(&template).Error
	if err == nil && template.Subject != "" {
		return template.Subject
	}
	if occasion == OccasionAnniversary {
		return fmt.Sprintf("Happy Anniversary, %s!", contact.Name)
	}
	return fmt.Sprintf("Happy Birthday, %s!", contact.Name)
}

func emailBody(text, imageURL string) string {
	body := "<p>" + text + "</p>"
	if imageURL != "" {
		body += fmt.Sprintf(`<p><img src=%q alt="celebration" width="400"/></p>`, imageURL)
	}
	return body
}

func (s *ReminderService) persist(summary *RunSummary) {
	entry := models.ReminderLog{
		Date:          summary.Date,
		ExecutionTime: summary.ExecutionTime,
		TotalUsers:    summary.TotalUsers,
		MessagesSent:  summary.MessagesSent,
		WhatsAppSent:  summary.WhatsAppSent,
		EmailSent:     summary.EmailSent,
		Errors:        models.StringList(summary.Errors),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to persist reminder log: %v", err)
	}
}
