package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"yield-radar/internal/domain"
	"yield-radar/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(scanService *service.ScanService) {
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

	b.Handle("/top", func(c tele.Context) error {
		picks, err := scanService.TopPicks(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching top picks: %v", err))
		}
		if len(picks) == 0 {
			return c.Send("No opportunities pass the current thresholds.")
		}
		var sb strings.Builder
		sb.WriteString("Top picks by risk-adjusted return:\n")
		for i, o := range picks {
			sb.WriteString(fmt.Sprintf("%d. %s (%s) %s\n   APY %.2f%% | TVL $%s | risk %s | ROR %.2f%%\n",
				i+1, o.Project, o.Chain, o.Symbol, o.APY, formatUSD(o.TVLUSD), o.Risk, o.ROR))
		}
		return c.Send(sb.String())
	})

	b.Handle("/scan", func(c tele.Context) error {
		result, err := scanService.GetScan(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching scan: %v", err))
		}

		args := c.Args()
		if len(args) > 0 {
			chain := strings.ToLower(args[0])
			if !domain.SupportedChains[chain] {
				return c.Send(fmt.Sprintf("Unknown chain: %s", chain))
			}
			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Opportunities on %s:\n", chain))
			count := 0
			for _, o := range result.All() {
				if o.Chain != chain {
					continue
				}
				count++
				sb.WriteString(fmt.Sprintf("%d. %s %s: APY %.2f%%, TVL $%s, risk %s\n",
					count, o.Project, o.Symbol, o.APY, formatUSD(o.TVLUSD), o.Risk))
				if count == 10 {
					break
				}
			}
			if count == 0 {
				return c.Send(fmt.Sprintf("Nothing on %s passes the thresholds right now.", chain))
			}
			return c.Send(sb.String())
		}

		msg := fmt.Sprintf(
			"Scan summary (as of %s):\nFocus: %d\nLong-term: %d\nShort-term: %d\nLayer 2: %d\nUse /scan <chain> for details.",
			result.FetchedAt.Format(time.RFC822),
			len(result.Focus), len(result.LongTerm), len(result.ShortTerm), len(result.Layer2),
		)
		return c.Send(msg)
	})

	b.Handle("/meme", func(c tele.Context) error {
		pairs, err := scanService.GetMemePairs(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching meme pairs: %v", err))
		}
		if len(pairs) == 0 {
			return c.Send("No meme pairs pass the liquidity and volume cutoffs.")
		}
		var sb strings.Builder
		sb.WriteString("Trending meme pairs:\n")
		for i, p := range pairs {
			sb.WriteString(fmt.Sprintf("%d. %s (%s) $%s\n   Liq $%s | Vol $%s | 24h %+.1f%% | risk %s\n",
				i+1, p.Symbol, p.Chain, p.PriceUSD, formatUSD(p.LiquidityUSD), formatUSD(p.Volume24hUSD), p.Change24hPct, p.Risk))
		}
		return c.Send(sb.String())
	})

	log.Println("Telegram bot started")
	go b.Start()
}

// formatUSD renders large dollar amounts compactly (1.2M, 430K).
func formatUSD(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
