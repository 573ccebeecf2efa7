package main

import (
	"log"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"schedule-bot/config"
	"schedule-bot/internal/app/service"
	"schedule-bot/internal/delivery/telegram"
	"schedule-bot/internal/delivery/telegram/flows"
	"schedule-bot/internal/delivery/telegram/router"
	"schedule-bot/internal/repository/jsonfile"
	"schedule-bot/pkg/calendar"
	"schedule-bot/pkg/logging"
	"schedule-bot/pkg/workerpool"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	store, err := jsonfile.Open(cfg.DataFile, time.Duration(cfg.SaveDelayMs)*time.Millisecond, logger)
	if err != nil {
		logger.Fatal("open schedule document", zap.Error(err))
	}
	defer store.Close()

	pool := workerpool.New(4, 32)
	defer pool.Close()

	employeeRepo := jsonfile.NewEmployeeRepo(store)
	scheduleRepo := jsonfile.NewScheduleRepo(store)
	hoursRepo := jsonfile.NewStoreHoursRepo(store)

	async := service.NewAsyncService(pool)
	schedule := service.NewScheduleService(scheduleRepo, employeeRepo, hoursRepo, logger)
	employees := service.NewEmployeeService(employeeRepo, logger)
	hours := service.NewStoreHoursService(hoursRepo, logger)
	export := service.NewExportService(scheduleRepo, employeeRepo, hoursRepo, logger)
	updates := service.NewUpdateService(cfg.UpdateRepo, cfg.AppVersion, async, logger)

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("start bot", zap.Error(err))
	}

	r := router.New(logger)
	handler := &telegram.Handler{
		Bot:       bot,
		Schedule:  schedule,
		Employees: employees,
		Hours:     hours,
		Calendar:  &calendar.Controller{Bot: bot},
		Router:    r,
		Log:       logger,
	}
	flows.RegisterMonths(r, schedule, export, async, cfg.ExportDir, logger)
	flows.RegisterUpdates(bot, r, updates)
	handler.Register()

	// A failed check on startup is logged and forgotten; /update re-checks.
	updates.CheckAsync(func(info *service.UpdateInfo, err error) {
		if err == nil && info.Newer {
			logger.Info("newer version available", zap.String("version", info.Version))
		}
	})

	logger.Info("bot started", zap.String("data_file", cfg.DataFile), zap.String("version", cfg.AppVersion))
	bot.Start()
}
