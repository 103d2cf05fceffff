package advisor

import (
	"fmt"
	"strings"
	"time"

	"yield-radar/internal/domain"
)

const yieldPhilosophy = `You are a DeFi yield farming advisor. Your role is to interpret the live opportunity scan and help the user compare pools, NOT to invent pools or rates.

Risk Framework:
- Low: deep TVL on established protocols. Suitable for larger allocations.
- Medium: solid pools with moderate TVL or elevated APY. Standard sizing.
- High: thin liquidity or triple-digit APY. Small speculative allocations only.

Rules:
- Always reference specific pools from the scan data when making observations.
- Never fabricate data. If a pool is not in the scan, say so.
- ROR is the risk-adjusted return: APY discounted by the pool's risk band. Prefer it over raw APY when ranking.
- Flag anomaly-marked pools explicitly; unusual APY/TVL combinations often mean incentive emissions about to dry up.
- Mention the chain for every pool; bridge costs matter for small positions.
- Keep responses concise and actionable.
- Do not provide financial advice disclaimers on every message. The user understands this is informational.`

func BuildSystemPrompt(scanContext string) string {
	var sb strings.Builder
	sb.WriteString(yieldPhilosophy)
	sb.WriteString("\n\n--- LIVE SCAN DATA (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(scanContext)
	return sb.String()
}

// FormatScanContext renders the scan buckets and top picks as compact text for
// the system prompt. Buckets are truncated so the prompt stays small.
func FormatScanContext(result domain.ScanResult, picks []domain.Opportunity) string {
	var sb strings.Builder

	if len(picks) > 0 {
		sb.WriteString("\nTop Picks (by risk-adjusted return):\n")
		for i, o := range picks {
			sb.WriteString(fmt.Sprintf("  %d. %s", i+1, formatOpportunity(o)))
		}
	}

	writeBucket(&sb, "Focus Protocols", result.Focus, 5)
	writeBucket(&sb, "Long-Term (low risk)", result.LongTerm, 5)
	writeBucket(&sb, "Short-Term (higher risk)", result.ShortTerm, 5)
	writeBucket(&sb, "Layer 2", result.Layer2, 5)

	if sb.Len() == 0 {
		return "No yield data currently available."
	}
	return sb.String()
}

func writeBucket(sb *strings.Builder, title string, opps []domain.Opportunity, limit int) {
	if len(opps) == 0 {
		return
	}
	if len(opps) > limit {
		opps = opps[:limit]
	}
	sb.WriteString("\n" + title + ":\n")
	for _, o := range opps {
		sb.WriteString("  " + formatOpportunity(o))
	}
}

func formatOpportunity(o domain.Opportunity) string {
	anomaly := ""
	if o.Outlier {
		anomaly = " [ANOMALY]"
	}
	return fmt.Sprintf("%s (%s) %s: APY %.2f%%, TVL $%.0f, risk %s, ROR %.2f%%%s\n",
		o.Project, o.Chain, o.Symbol, o.APY, o.TVLUSD, o.Risk, o.ROR, anomaly)
}
