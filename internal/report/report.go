// Package report formats a collected report into chat messages and sends them.
package report

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/metrics"
	"github.com/deusflow/newsmon/internal/news"
)

const timeLayout = "2006-01-02 | 15:04"

// Sender delivers one text message to a recipient.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Shortener maps a link to a shorter alias, or returns it unchanged.
type Shortener interface {
	Shorten(ctx context.Context, link string) string
}

// Summary is returned to the requester whatever happened during delivery.
type Summary struct {
	Keywords string `json:"keywords"`
	Time     string `json:"time"`
	Days     int    `json:"days"`
	Count    int    `json:"count"`
}

type Deliverer struct {
	sender    Sender
	shortener Shortener
	metrics   *metrics.Metrics
}

// NewDeliverer builds a Deliverer. A nil shortener sends links as they are.
func NewDeliverer(sender Sender, shortener Shortener, m *metrics.Metrics) *Deliverer {
	if m == nil {
		m = metrics.Global
	}
	return &Deliverer{sender: sender, shortener: shortener, metrics: m}
}

// Summarize builds the summary without sending anything.
func Summarize(rep *news.Report) Summary {
	return Summary{
		Keywords: strings.Join(rep.Keywords, ", "),
		Time:     rep.GeneratedAt.In(news.KST).Format(timeLayout),
		Days:     rep.Days,
		Count:    len(rep.Items),
	}
}

// Deliver sends the header and one message per item, in order. Send failures
// are logged and counted; nothing is retried.
func (d *Deliverer) Deliver(ctx context.Context, rep *news.Report, recipient string) Summary {
	sum := Summarize(rep)
	if sum.Count == 0 {
		logger.Info("nothing to deliver", "keywords", sum.Keywords)
		return sum
	}

	d.send(ctx, recipient, Header(sum))
	for i, it := range rep.Items {
		link := it.URL
		if d.shortener != nil {
			link = d.shortener.Shorten(ctx, it.URL)
		}
		d.send(ctx, recipient, ItemMessage(i+1, it, link))
	}

	logger.Info("report delivered", "recipient", recipient, "items", sum.Count)
	return sum
}

func (d *Deliverer) send(ctx context.Context, recipient, text string) {
	err := d.sender.SendMessage(ctx, recipient, text)
	d.metrics.IncrementTelegramMessages(err == nil)
	if err != nil {
		logger.Warn("message not delivered", "recipient", recipient, "error", err)
	}
}

// Header is the first message of a report.
func Header(sum Summary) string {
	var b strings.Builder
	b.WriteString("=== 언론 뉴스 검색 ===\n")
	b.WriteString(fmt.Sprintf("🎯 검색 단어 : %s\n", html.EscapeString(sum.Keywords)))
	b.WriteString(fmt.Sprintf("🗓️ 검색 시간 : %s\n", sum.Time))
	b.WriteString(fmt.Sprintf("🗓️ 검색 기간 : %d일\n", sum.Days))
	b.WriteString(fmt.Sprintf("📝 해당 기사 : 총 %d건", sum.Count))
	return b.String()
}

// ItemMessage formats the index-th (1-based) article.
func ItemMessage(index int, it news.Item, link string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%d] %s\n", index, html.EscapeString(it.Title)))
	b.WriteString(fmt.Sprintf("🗓️ 발행시간: %s\n", it.Date))
	b.WriteString(fmt.Sprintf("📰 언론사: %s\n", html.EscapeString(it.Media)))
	b.WriteString(fmt.Sprintf("🔗 링크: %s\n", html.EscapeString(link)))
	return b.String()
}
