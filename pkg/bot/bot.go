package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"taxifleet/config"
	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/service"
)

type Bot struct {
	Bot      *tele.Bot
	Log      logger.ILogger
	Services service.IServiceManager
}

var messages = map[string]string{
	"welcome":   "👋 Taxi fleet lookup.\n\n/stats - fleet totals\n/drivers <username> - find drivers\n/cars <model> - find cars\n/manufacturers <name> - find manufacturers",
	"stats":     "📊 Fleet\n\nDrivers: %d\nCars: %d\nManufacturers: %d",
	"not_found": "📭 Nothing matches %q.",
	"error":     "⚠️ Something went wrong, try again later.",
	"invalid":   "⚠️ %s",
}

func New(cfg *config.Config, services service.IServiceManager, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:      b,
		Log:      log,
		Services: services,
	}
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info("🤖 Fleet bot started")
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/help", b.handleStart)
	b.Bot.Handle("/stats", b.handleStats)
	b.Bot.Handle("/drivers", b.handleDrivers)
	b.Bot.Handle("/cars", b.handleCars)
	b.Bot.Handle("/manufacturers", b.handleManufacturers)
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(messages["welcome"])
}

func (b *Bot) handleStats(c tele.Context) error {
	stats, err := b.Services.Stats().Index(context.Background())
	if err != nil {
		return b.fail(c, err)
	}
	return c.Send(fmt.Sprintf(messages["stats"], stats.Drivers, stats.Cars, stats.Manufacturers))
}

func (b *Bot) handleDrivers(c tele.Context) error {
	search := forms.DriverUsernameSearchForm{Username: c.Message().Payload}
	list, err := b.Services.Driver().List(context.Background(), search, 1)
	if err != nil {
		return b.fail(c, err)
	}

	lines := make([]fmt.Stringer, 0, len(list.Items))
	for _, d := range list.Items {
		lines = append(lines, d)
	}
	return c.Send(formatList("🚖 Drivers", search.Username, lines, list.Count))
}

func (b *Bot) handleCars(c tele.Context) error {
	search := forms.CarModelSearchForm{Model: c.Message().Payload}
	list, err := b.Services.Car().List(context.Background(), search, 1)
	if err != nil {
		return b.fail(c, err)
	}

	lines := make([]fmt.Stringer, 0, len(list.Items))
	for _, car := range list.Items {
		lines = append(lines, carLine{model: car.String(), manufacturer: car.Manufacturer})
	}
	return c.Send(formatList("🚗 Cars", search.Model, lines, list.Count))
}

func (b *Bot) handleManufacturers(c tele.Context) error {
	search := forms.ManufacturerNameSearchForm{Name: c.Message().Payload}
	list, err := b.Services.Manufacturer().List(context.Background(), search, 1)
	if err != nil {
		return b.fail(c, err)
	}

	lines := make([]fmt.Stringer, 0, len(list.Items))
	for _, m := range list.Items {
		lines = append(lines, m)
	}
	return c.Send(formatList("🏭 Manufacturers", search.Name, lines, list.Count))
}

func (b *Bot) fail(c tele.Context, err error) error {
	if errs, ok := forms.AsErrors(err); ok {
		return c.Send(fmt.Sprintf(messages["invalid"], errs.Error()))
	}
	b.Log.Error("bot lookup failed", logger.Error(err), logger.Int64("chat_id", c.Chat().ID))
	return c.Send(messages["error"])
}

type carLine struct {
	model        string
	manufacturer *models.Manufacturer
}

func (l carLine) String() string {
	if l.manufacturer == nil {
		return l.model
	}
	return fmt.Sprintf("%s (%s)", l.model, l.manufacturer)
}

// formatList renders the first page of a lookup. total may exceed len(items).
func formatList(title, query string, items []fmt.Stringer, total int) string {
	if len(items) == 0 {
		return fmt.Sprintf(messages["not_found"], query)
	}

	var sb strings.Builder
	sb.WriteString(title)
	if query != "" {
		fmt.Fprintf(&sb, " matching %q", query)
	}
	sb.WriteString("\n\n")
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}
	if total > len(items) {
		fmt.Fprintf(&sb, "\n…and %d more", total-len(items))
	}
	return sb.String()
}
