package service

import (
	"context"
	"fmt"

	"tg-reminder/internal/config"
	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
	"tg-reminder/internal/storage"
)

var (
	globalConfig    *config.Config
	reminderStore   ReminderStore
	pendingMessages = models.NewPendingMessageManager()
	lastReminders   = models.NewLastReminderManager()

	creator    *Creator
	lifecycle  *Lifecycle
	correlator *Correlator
)

// Initialize initializes the service with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitStore selects the persistence backend. Google Sheets takes precedence
// when enabled; otherwise the database repository is used.
func InitStore(ctx context.Context) error {
	switch {
	case globalConfig.Sheets.Enabled:
		store, err := storage.NewSheetsStore(ctx, globalConfig.Sheets)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets store: %w", err)
		}
		reminderStore = store
		logger.Infof("Using Google Sheets storage: spreadsheet %s, worksheet %s",
			globalConfig.Sheets.SpreadsheetID, globalConfig.Sheets.Worksheet)
	case storage.DB != nil:
		repo := storage.NewReminderRepository(storage.DB)
		if err := repo.MigrateTable(); err != nil {
			logger.Warningf("Error migrating Reminder table: %v", err)
		}
		reminderStore = repo
		logger.Infof("Using database storage")
	default:
		return fmt.Errorf("no storage backend available; enable sheets or database in the config")
	}
	return nil
}

// InitServices wires the creator, lifecycle and correlator. handle receives
// every released correlation result; it is supplied by the handler layer,
// which owns the chat-facing side of creation.
func InitServices(extractor ReminderExtractor, handle func(CorrelationResult)) {
	creator = NewCreator(reminderStore, extractor, lastReminders, globalConfig.Reminder.DefaultTimezone)
	lifecycle = NewLifecycle(reminderStore, lastReminders)
	correlator = NewCorrelator(pendingMessages, globalConfig.Reminder.PairingWindow,
		globalConfig.Reminder.PairingRequireOpposite, handle)
}

// Store returns the active reminder store.
func Store() ReminderStore {
	return reminderStore
}

// GetCreator returns the reminder creator.
func GetCreator() *Creator {
	return creator
}

// GetLifecycle returns the lifecycle service.
func GetLifecycle() *Lifecycle {
	return lifecycle
}

// GetCorrelator returns the message correlator.
func GetCorrelator() *Correlator {
	return correlator
}
