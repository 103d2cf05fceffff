package domain

import "time"

// WalletKind identifies one of the simulated wallet integrations.
type WalletKind string

const (
	WalletMetaMask WalletKind = "metamask"
	WalletPhantom  WalletKind = "phantom"
	WalletSui      WalletKind = "sui"
	WalletTao      WalletKind = "tao"
)

// WalletKinds lists all simulated wallets in display order.
var WalletKinds = []WalletKind{WalletMetaMask, WalletPhantom, WalletSui, WalletTao}

func (k WalletKind) IsValid() bool {
	switch k {
	case WalletMetaMask, WalletPhantom, WalletSui, WalletTao:
		return true
	}
	return false
}

// WalletNetwork maps wallet kinds to the network they connect to.
var WalletNetwork = map[WalletKind]string{
	WalletMetaMask: "Ethereum Mainnet",
	WalletPhantom:  "Solana Mainnet",
	WalletSui:      "SUI Network",
	WalletTao:      "Bittensor Network",
}

// WalletToken maps wallet kinds to the native balance token.
var WalletToken = map[WalletKind]string{
	WalletMetaMask: "ETH",
	WalletPhantom:  "SOL",
	WalletSui:      "SUI",
	WalletTao:      "TAO",
}

// WalletChainID maps wallet kinds to their simulated chain id.
var WalletChainID = map[WalletKind]int{
	WalletMetaMask: 1,
	WalletPhantom:  101,
	WalletSui:      1001,
	WalletTao:      108,
}

// Wallet is a simulated wallet connection within one dashboard session.
type Wallet struct {
	Kind      WalletKind `json:"kind"`
	Connected bool       `json:"connected"`
	Address   string     `json:"address,omitempty"`
	Balance   float64    `json:"balance"`
	Token     string     `json:"token"`
	Network   string     `json:"network"`
	ChainID   int        `json:"chain_id,omitempty"`
}

type PositionStatus string

const (
	PositionActive PositionStatus = "active"
	PositionClosed PositionStatus = "closed"
)

// Position is a simulated stake in an opportunity. CurrentValue accrues
// daily compound interest from the APY captured at entry.
type Position struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id"`
	Project        string         `json:"project"`
	Chain          string         `json:"chain"`
	WalletKind     WalletKind     `json:"wallet_kind"`
	AmountInvested float64        `json:"amount_invested"`
	CurrentValue   float64        `json:"current_value"`
	APY            float64        `json:"apy"`
	EnteredAt      time.Time      `json:"entered_at"`
	ClosedAt       *time.Time     `json:"closed_at,omitempty"`
	Status         PositionStatus `json:"status"`
}

// Portfolio summarises a session's active positions.
type Portfolio struct {
	TotalInvested   float64 `json:"total_invested"`
	CurrentValue    float64 `json:"current_value"`
	PnL             float64 `json:"pnl"`
	PnLPct          float64 `json:"pnl_pct"`
	ActivePositions int     `json:"active_positions"`
}

// ScanSnapshot records counters from one completed scan for history views.
type ScanSnapshot struct {
	ID             int64     `json:"id"`
	FetchedAt      time.Time `json:"fetched_at"`
	PoolsSeen      int       `json:"pools_seen"`
	PoolsKept      int       `json:"pools_kept"`
	FocusCount     int       `json:"focus_count"`
	LongTermCount  int       `json:"long_term_count"`
	ShortTermCount int       `json:"short_term_count"`
	Layer2Count    int       `json:"layer2_count"`
	TopPicksJSON   string    `json:"top_picks_json"`
}

// ConversationMessage is one stored advisor chat turn.
type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
