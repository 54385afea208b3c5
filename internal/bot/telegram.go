package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/i18n"
	"github.com/yuqiaowu/news-analyse/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(snapshots *service.SnapshotService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/summary", func(c tele.Context) error {
		lang := langFromArgs(c.Args())
		snapshot, err := snapshots.Latest(context.Background(), false)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching analysis: %v", err))
		}
		summary := snapshot.Summary(lang)
		if summary == "" {
			summary = "No summary available yet."
		}
		ts := snapshot.Timestamp
		if parsed, err := snapshot.Time(); err == nil {
			ts = parsed.Format("2006-01-02 15:04 UTC")
		}
		return c.Send(fmt.Sprintf("%s\n\n(%s)", summary, ts))
	})

	b.Handle("/coin", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /coin BTC [en]\nSupported: %s", strings.Join(domain.SupportedSymbols, ", ")))
		}
		symbol := strings.ToUpper(args[0])
		if _, ok := domain.OKXInstID[symbol]; !ok {
			return c.Send(fmt.Sprintf("Unknown symbol: %s\nSupported: %s", symbol, strings.Join(domain.SupportedSymbols, ", ")))
		}
		lang := langFromArgs(args[1:])
		snapshot, err := snapshots.Latest(context.Background(), false)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching analysis: %v", err))
		}
		for i := range snapshot.Coins {
			coin := &snapshot.Coins[i]
			if coin.Symbol != symbol {
				continue
			}
			sentiment := i18n.SentimentText(coin.Sentiment, lang)
			msg := fmt.Sprintf(
				"%s\nPrice: $%.2f\n24h Change: %+.2f%%\n4H RSI: %.1f\nSentiment: %s (%.0f/100)",
				symbol, coin.Price, coin.Change24h, coin.RSI4H, sentiment, coin.Score,
			)
			if comment := coin.Comment(lang); comment != "" {
				msg += "\n" + comment
			}
			return c.Send(msg)
		}
		return c.Send(fmt.Sprintf("No analysis for %s in the current snapshot", symbol))
	})

	if chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil && chatID != 0 {
		chat := &tele.Chat{ID: chatID}
		snapshots.SetOnRefresh(func(snapshot *domain.Snapshot) {
			msg := broadcastMessage(snapshot)
			if msg == "" {
				return
			}
			if _, err := b.Send(chat, msg); err != nil {
				log.Printf("telegram broadcast failed: %v", err)
			}
		})
		log.Printf("Telegram broadcast enabled for chat %d", chatID)
	}

	log.Println("Telegram bot started")
	go b.Start()
}

// broadcastMessage renders both language summaries of a fresh snapshot.
func broadcastMessage(snapshot *domain.Snapshot) string {
	cn := snapshot.Summary(domain.LangCN)
	en := snapshot.Summary(domain.LangEN)
	switch {
	case cn == "" && en == "":
		return ""
	case cn == "":
		return en
	case en == "" || cn == en:
		return cn
	}
	return cn + "\n\n" + en
}

func langFromArgs(args []string) domain.Language {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "en":
			return domain.LangEN
		case "cn", "zh":
			return domain.LangCN
		}
	}
	return domain.LangCN
}
