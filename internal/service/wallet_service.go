package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"yield-radar/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const walletSessionTTL = 24 * time.Hour

// PositionStore persists simulated positions across sessions.
type PositionStore interface {
	Insert(ctx context.Context, p *domain.Position) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Position, error)
	ListActive(ctx context.Context) ([]*domain.Position, error)
	Get(ctx context.Context, id string) (*domain.Position, error)
	UpdateValues(ctx context.Context, positions []*domain.Position) error
	Close(ctx context.Context, id string, closedAt time.Time) error
}

// WalletService simulates wallet connections and yield positions per dashboard
// session. Wallet state lives in Redis keyed by session id, with an in-memory
// fallback when Redis is not configured.
type WalletService struct {
	tracer    trace.Tracer
	redis     RedisClient
	positions PositionStore
	now       func() time.Time

	mu    sync.Mutex
	local map[string]map[domain.WalletKind]*domain.Wallet
}

func NewWalletService(tracer trace.Tracer, redisClient RedisClient, positions PositionStore) *WalletService {
	return &WalletService{
		tracer:    tracer,
		redis:     redisClient,
		positions: positions,
		now:       func() time.Time { return time.Now().UTC() },
		local:     make(map[string]map[domain.WalletKind]*domain.Wallet),
	}
}

// Wallets returns all simulated wallets for a session, connected or not.
func (s *WalletService) Wallets(ctx context.Context, sessionID string) ([]domain.Wallet, error) {
	_, span := s.tracer.Start(ctx, "wallet-service.wallets")
	defer span.End()

	state, err := s.loadWallets(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	wallets := make([]domain.Wallet, 0, len(domain.WalletKinds))
	for _, kind := range domain.WalletKinds {
		if w, ok := state[kind]; ok {
			wallets = append(wallets, *w)
			continue
		}
		wallets = append(wallets, domain.Wallet{
			Kind:    kind,
			Token:   domain.WalletToken[kind],
			Network: domain.WalletNetwork[kind],
		})
	}
	return wallets, nil
}

// Connect simulates connecting a wallet: it generates a plausible address and
// a random starting balance for the wallet's native token.
func (s *WalletService) Connect(ctx context.Context, sessionID string, kind domain.WalletKind) (domain.Wallet, error) {
	_, span := s.tracer.Start(ctx, "wallet-service.connect")
	defer span.End()

	if !kind.IsValid() {
		return domain.Wallet{}, fmt.Errorf("unknown wallet kind: %s", kind)
	}

	state, err := s.loadWallets(ctx, sessionID)
	if err != nil {
		return domain.Wallet{}, err
	}
	if existing, ok := state[kind]; ok && existing.Connected {
		return *existing, nil
	}

	wallet := domain.Wallet{
		Kind:      kind,
		Connected: true,
		Address:   simulatedAddress(kind),
		Balance:   simulatedBalance(kind),
		Token:     domain.WalletToken[kind],
		Network:   domain.WalletNetwork[kind],
		ChainID:   domain.WalletChainID[kind],
	}
	state[kind] = &wallet

	if err := s.saveWallets(ctx, sessionID, state); err != nil {
		return domain.Wallet{}, err
	}
	log.Printf("Session %s connected %s wallet %s", sessionID, kind, wallet.Address)
	return wallet, nil
}

// Disconnect drops a wallet connection. Active positions opened from the
// wallet stay open and can be closed after reconnecting.
func (s *WalletService) Disconnect(ctx context.Context, sessionID string, kind domain.WalletKind) error {
	_, span := s.tracer.Start(ctx, "wallet-service.disconnect")
	defer span.End()

	if !kind.IsValid() {
		return fmt.Errorf("unknown wallet kind: %s", kind)
	}

	state, err := s.loadWallets(ctx, sessionID)
	if err != nil {
		return err
	}
	delete(state, kind)
	return s.saveWallets(ctx, sessionID, state)
}

// ConnectedWallet returns the first connected wallet in display order, or nil.
func (s *WalletService) ConnectedWallet(ctx context.Context, sessionID string) (*domain.Wallet, error) {
	state, err := s.loadWallets(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, kind := range domain.WalletKinds {
		if w, ok := state[kind]; ok && w.Connected {
			return w, nil
		}
	}
	return nil, nil
}

// OpenPosition stakes part of a connected wallet's balance into an
// opportunity and returns the new position with its simulated tx hash.
func (s *WalletService) OpenPosition(ctx context.Context, sessionID string, opp domain.Opportunity, amount float64) (*domain.Position, string, error) {
	ctx, span := s.tracer.Start(ctx, "wallet-service.open-position")
	defer span.End()

	if amount <= 0 {
		return nil, "", fmt.Errorf("amount must be positive")
	}

	state, err := s.loadWallets(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	var wallet *domain.Wallet
	for _, kind := range domain.WalletKinds {
		if w, ok := state[kind]; ok && w.Connected {
			wallet = w
			break
		}
	}
	if wallet == nil {
		return nil, "", fmt.Errorf("no wallet connected")
	}
	if wallet.Balance < amount {
		return nil, "", fmt.Errorf("insufficient balance: have %.4f %s, need %.4f", wallet.Balance, wallet.Token, amount)
	}

	now := s.now()
	position := &domain.Position{
		ID:             fmt.Sprintf("pos_%d_%04d", now.UnixMilli(), rand.Intn(10000)),
		SessionID:      sessionID,
		Project:        opp.Project,
		Chain:          opp.Chain,
		WalletKind:     wallet.Kind,
		AmountInvested: amount,
		CurrentValue:   amount,
		APY:            opp.APY,
		EnteredAt:      now,
		Status:         domain.PositionActive,
	}
	if err := s.positions.Insert(ctx, position); err != nil {
		return nil, "", fmt.Errorf("persist position: %w", err)
	}

	wallet.Balance = roundTo(wallet.Balance-amount, 6)
	if err := s.saveWallets(ctx, sessionID, state); err != nil {
		return nil, "", err
	}

	txHash := "0x" + randomHex(64)
	log.Printf("Session %s opened position %s: %.4f %s into %s on %s",
		sessionID, position.ID, amount, wallet.Token, opp.Project, opp.Chain)
	return position, txHash, nil
}

// ClosePosition exits an active position, crediting the accrued value back to
// the wallet it was opened from. That wallet must currently be connected.
func (s *WalletService) ClosePosition(ctx context.Context, sessionID, positionID string) (*domain.Position, string, error) {
	ctx, span := s.tracer.Start(ctx, "wallet-service.close-position")
	defer span.End()

	position, err := s.positions.Get(ctx, positionID)
	if err != nil {
		return nil, "", err
	}
	if position == nil || position.SessionID != sessionID {
		return nil, "", fmt.Errorf("position not found: %s", positionID)
	}
	if position.Status != domain.PositionActive {
		return nil, "", fmt.Errorf("position already closed: %s", positionID)
	}

	state, err := s.loadWallets(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	wallet, ok := state[position.WalletKind]
	if !ok || !wallet.Connected {
		return nil, "", fmt.Errorf("wallet %s is not connected", position.WalletKind)
	}

	now := s.now()
	position.CurrentValue = accruedValue(position, now)
	position.Status = domain.PositionClosed
	position.ClosedAt = &now

	if err := s.positions.UpdateValues(ctx, []*domain.Position{position}); err != nil {
		return nil, "", fmt.Errorf("update position value: %w", err)
	}
	if err := s.positions.Close(ctx, positionID, now); err != nil {
		return nil, "", fmt.Errorf("close position: %w", err)
	}

	wallet.Balance = roundTo(wallet.Balance+position.CurrentValue, 6)
	if err := s.saveWallets(ctx, sessionID, state); err != nil {
		return nil, "", err
	}

	txHash := "0x" + randomHex(64)
	log.Printf("Session %s closed position %s for %.4f %s", sessionID, positionID, position.CurrentValue, wallet.Token)
	return position, txHash, nil
}

// Positions lists a session's positions with current values accrued to now.
// Accrual here is read-only; the poller persists updated values.
func (s *WalletService) Positions(ctx context.Context, sessionID string) ([]*domain.Position, error) {
	ctx, span := s.tracer.Start(ctx, "wallet-service.positions")
	defer span.End()

	positions, err := s.positions.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, p := range positions {
		if p.Status == domain.PositionActive {
			p.CurrentValue = accruedValue(p, now)
		}
	}
	return positions, nil
}

// Portfolio summarises a session's active positions.
func (s *WalletService) Portfolio(ctx context.Context, sessionID string) (domain.Portfolio, error) {
	positions, err := s.Positions(ctx, sessionID)
	if err != nil {
		return domain.Portfolio{}, err
	}

	var summary domain.Portfolio
	for _, p := range positions {
		if p.Status != domain.PositionActive {
			continue
		}
		summary.ActivePositions++
		summary.TotalInvested += p.AmountInvested
		summary.CurrentValue += p.CurrentValue
	}
	summary.PnL = summary.CurrentValue - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.PnLPct = summary.PnL / summary.TotalInvested * 100
	}
	return summary, nil
}

// AccrueAll recomputes current values for every active position and persists
// them. Called periodically by the background poller.
func (s *WalletService) AccrueAll(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "wallet-service.accrue-all")
	defer span.End()

	positions, err := s.positions.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}

	now := s.now()
	for _, p := range positions {
		p.CurrentValue = accruedValue(p, now)
	}
	if err := s.positions.UpdateValues(ctx, positions); err != nil {
		return fmt.Errorf("update position values: %w", err)
	}
	log.Printf("Accrued %d active positions", len(positions))
	return nil
}

// accruedValue compounds the invested amount daily at the captured APY.
func accruedValue(p *domain.Position, now time.Time) float64 {
	days := int(now.Sub(p.EnteredAt).Hours() / 24)
	if days <= 0 {
		return p.AmountInvested
	}
	dailyRate := p.APY / 365 / 100
	return roundTo(p.AmountInvested*math.Pow(1+dailyRate, float64(days)), 6)
}

func (s *WalletService) loadWallets(ctx context.Context, sessionID string) (map[domain.WalletKind]*domain.Wallet, error) {
	if s.redis == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		state, ok := s.local[sessionID]
		if !ok {
			state = make(map[domain.WalletKind]*domain.Wallet)
			s.local[sessionID] = state
		}
		return state, nil
	}

	data, err := s.redis.Get(ctx, walletCacheKey(sessionID)).Bytes()
	if err == redis.Nil {
		return make(map[domain.WalletKind]*domain.Wallet), nil
	}
	if err != nil {
		return nil, err
	}
	var state map[domain.WalletKind]*domain.Wallet
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *WalletService) saveWallets(ctx context.Context, sessionID string, state map[domain.WalletKind]*domain.Wallet) error {
	if s.redis == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.local[sessionID] = state
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, walletCacheKey(sessionID), data, walletSessionTTL).Err()
}

func walletCacheKey(sessionID string) string {
	return "wallets:" + sessionID
}

const hexDigits = "0123456789abcdef"
const base58Digits = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func randomHex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return string(b)
}

func randomBase58(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base58Digits[rand.Intn(len(base58Digits))]
	}
	return string(b)
}

func simulatedAddress(kind domain.WalletKind) string {
	switch kind {
	case domain.WalletPhantom:
		return randomBase58(44)
	case domain.WalletTao:
		return "5" + randomBase58(47)
	default:
		return "0x" + randomHex(40)
	}
}

func simulatedBalance(kind domain.WalletKind) float64 {
	switch kind {
	case domain.WalletMetaMask:
		return roundTo(0.5+rand.Float64()*99.5, 4)
	case domain.WalletPhantom:
		return roundTo(10+rand.Float64()*1990, 2)
	case domain.WalletSui:
		return roundTo(50+rand.Float64()*4950, 2)
	case domain.WalletTao:
		return roundTo(0.1+rand.Float64()*49.9, 4)
	default:
		return 0
	}
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
