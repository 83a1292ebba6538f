package telegram

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
)

var usernames string = os.Getenv("TG_ADMINS") //separated by comma from env

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func isAdmin(username string) bool {
	for _, admin := range strings.Split(usernames, ",") {
		if admin != "" && admin == username {
			return true
		}
	}
	return false
}

// AlertAdmins pushes an ops message to every chat id in TG_ALERT_CHATS.
// Used by the classification worker when Gemini quota keeps failing.
func AlertAdmins(message string) {
	token := os.Getenv("TG_TOKEN")
	chats := os.Getenv("TG_ALERT_CHATS")
	if token == "" || chats == "" {
		fmt.Println("[TG] alerting disabled, no token or chat list")
		return
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		fmt.Println("[TG] bot init failed:", err)
		return
	}
	for _, chat := range strings.Split(chats, ",") {
		chatID, err := strconv.ParseInt(strings.TrimSpace(chat), 10, 64)
		if err != nil {
			continue
		}
		msg := tgbotapi.NewMessage(chatID, EscapeMessage(message))
		msg.ParseMode = "markdown"
		if _, err := bot.Send(msg); err != nil {
			fmt.Println("[TG] send failed:", err)
		}
	}
}

// RunOpsBot serves admin commands over Telegram. Blocking, run it in its own
// goroutine.
func RunOpsBot(db *gorm.DB) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if !isAdmin(update.Message.From.UserName) {
			continue
		}
		switch update.Message.Command() {
		case "stuck":
			var stuck []models.GarmentItem
			db.Where("processing_status = ?", "failed").Order("updated_at desc").Limit(20).Find(&stuck)
			body := strings.Builder{}
			body.WriteString(fmt.Sprintf("Failed classifications: %d\n```\n", len(stuck)))
			for _, item := range stuck {
				reason := ""
				if item.ProcessErrorMessage != nil {
					reason = *item.ProcessErrorMessage
				}
				body.WriteString(fmt.Sprintf("#%d %s  retries: %d  %s\n", item.ID, item.Name, item.ProcessRetryTimes, reason))
			}
			body.WriteString("```")
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, body.String())
			msg.ParseMode = "markdown"
			bot.Send(msg)
		case "pending":
			var count int64
			db.Model(&models.GarmentItem{}).Where("processing_status = ?", "pending").Count(&count)
			bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Pending classifications: %d", count)))
		}
	}
}
