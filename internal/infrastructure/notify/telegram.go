package notify

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"weld_quote/internal/domain/entities"
	"weld_quote/internal/usecase/interfaces"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramConfig holds the bot credentials. An empty Token or ChatID disables delivery.
type TelegramConfig struct {
	Token   string
	ChatID  string
	APIURL  string
	Timeout time.Duration
}

func TelegramConfigFromEnv() TelegramConfig {
	api := os.Getenv("TELEGRAM_API_URL")
	if api == "" {
		api = defaultTelegramAPI
	}
	return TelegramConfig{
		Token:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ChatID:  strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
		APIURL:  api,
		Timeout: 10 * time.Second,
	}
}

// TelegramNotifier posts new orders to the workshop chat via the Bot API.
type TelegramNotifier struct {
	cfg  TelegramConfig
	http *resty.Client
}

var _ interfaces.INotifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultTelegramAPI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if !cfg.enabled() {
		log.Printf("[notify][telegram] disabled: TELEGRAM_TOKEN or TELEGRAM_CHAT_ID not set")
	}
	return &TelegramNotifier{
		cfg:  cfg,
		http: resty.New().SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).SetTimeout(cfg.Timeout),
	}
}

func (c TelegramConfig) enabled() bool {
	return c.Token != "" && c.ChatID != ""
}

type telegramReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) NotifyOrder(ctx context.Context, q entities.Quote) error {
	if !n.cfg.enabled() {
		log.Printf("[notify][telegram] skipped quote_id=%s (disabled)", q.ID)
		return nil
	}

	var reply telegramReply
	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"chat_id": n.cfg.ChatID, "text": FormatOrderMessage(q)}).
		SetResult(&reply).
		SetError(&reply).
		Post("/bot" + n.cfg.Token + "/sendMessage")
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if resp.IsError() || !reply.OK {
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode(), reply.Description)
	}
	log.Printf("[notify][telegram] sent quote_id=%s", q.ID)
	return nil
}

// FormatOrderMessage renders the chat message with Russian digit grouping.
func FormatOrderMessage(q entities.Quote) string {
	p := message.NewPrinter(language.Russian)
	description := strings.TrimSpace(q.Job.FreeText)
	if description == "" {
		description = "нет описания"
	}

	var b strings.Builder
	b.WriteString("🔧 Новая заявка на сварку\n\n")
	fmt.Fprintf(&b, "ID: %s\n", q.ID)
	fmt.Fprintf(&b, "Тип: %s\n", orUnset(string(q.Job.WorkType)))
	fmt.Fprintf(&b, "Материал: %s\n", orUnset(string(q.Job.Material)))
	fmt.Fprintf(&b, "Срок: %s\n", orUnset(string(q.Job.Deadline)))
	b.WriteString(p.Sprintf("Диапазон: от %d до %d ₽\n", q.Estimate.Range.Min, q.Estimate.Range.Max))
	fmt.Fprintf(&b, "Статус: %s\n", q.Status)
	fmt.Fprintf(&b, "Метод: %s\n", q.Estimate.Method)
	fmt.Fprintf(&b, "\nОписание:\n%s", description)
	return b.String()
}

func orUnset(v string) string {
	if v == "" {
		return "не указан"
	}
	return v
}
