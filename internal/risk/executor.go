package risk

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kalshi-alpha/pkg/types"
)

// OrderPlacer submits live orders. Satisfied by gateway.Client.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req *types.OrderRequest) (*types.OrderConfirmation, error)
}

// Recorder persists committed trades. Satisfied by storage.Journal and
// storage.LogRecorder.
type Recorder interface {
	Record(order *types.TradeOrder) error
}

// Gate can veto live submissions. Satisfied by circuitbreaker.Breaker.
type Gate interface {
	Allow() bool
}

// Executor sizes signals under the fee-adjusted Kelly criterion and
// commits the survivors, to the paper journal or to the exchange.
type Executor struct {
	placer         OrderPlacer
	recorder       Recorder
	gate           Gate
	paper          bool
	feeRate        float64
	kellyFraction  float64
	kellyEdgeMin   float64
	maxPositionUSD float64
	logger         *zap.Logger
}

// Config holds executor configuration.
type Config struct {
	Placer         OrderPlacer
	Recorder       Recorder
	Gate           Gate // optional; nil means always allow
	Paper          bool
	FeeRate        float64
	KellyFraction  float64
	KellyEdgeMin   float64
	MaxPositionUSD float64
	Logger         *zap.Logger
}

// New creates a risk executor.
func New(cfg *Config) *Executor {
	return &Executor{
		placer:         cfg.Placer,
		recorder:       cfg.Recorder,
		gate:           cfg.Gate,
		paper:          cfg.Paper,
		feeRate:        cfg.FeeRate,
		kellyFraction:  cfg.KellyFraction,
		kellyEdgeMin:   cfg.KellyEdgeMin,
		maxPositionUSD: cfg.MaxPositionUSD,
		logger:         cfg.Logger,
	}
}

// Size computes the fee-adjusted Kelly sizing for one signal against the
// given bankroll. p and market price are projected onto the signal's
// side, so a NO signal is sized as a bet on NO at (1 - implied).
func (e *Executor) Size(signal *types.Signal, bankrollUSD float64) types.KellyResult {
	p := signal.EstimatedFairProb
	marketPrice := signal.ImpliedProb
	if signal.Side == types.SideNo {
		p = 1 - signal.EstimatedFairProb
		marketPrice = 1 - signal.ImpliedProb
	}

	if marketPrice <= 0 || marketPrice >= 1 {
		return types.KellyResult{}
	}

	grossB := 1/marketPrice - 1
	netB := NetPayoutAfterFees(grossB, e.feeRate)
	fStar := Kelly(p, netB)

	fUsed := math.Max(0, fStar*e.kellyFraction)
	positionUSD := math.Min(fUsed*bankrollUSD, e.maxPositionUSD)
	netEV := p*netB - (1 - p)

	return types.KellyResult{
		OptimalFraction: fStar,
		PositionSizeUSD: positionUSD,
		NetEV:           netEV,
		ShouldTrade:     fStar > e.kellyEdgeMin && netEV > 0 && positionUSD > 0,
	}
}

// BuildOrder turns a sized signal into a limit order intent. The limit
// price follows the market's implied probability, mirrored for NO and
// clamped to the valid 1-99 cent range.
func (e *Executor) BuildOrder(signal *types.Signal, kelly types.KellyResult) *types.TradeOrder {
	priceCents := int(math.Round(signal.ImpliedProb * 100))
	if signal.Side == types.SideNo {
		priceCents = 100 - priceCents
	}
	if priceCents < 1 {
		priceCents = 1
	}
	if priceCents > 99 {
		priceCents = 99
	}

	contracts := int(math.Floor(kelly.PositionSizeUSD * 100 / float64(priceCents)))
	if contracts < 1 {
		contracts = 1
	}

	return &types.TradeOrder{
		ID:              uuid.NewString(),
		Ticker:          signal.Ticker,
		Side:            signal.Side,
		Contracts:       contracts,
		LimitPriceCents: priceCents,
		Signal:          *signal,
		Kelly:           kelly,
		Paper:           e.paper,
		Timestamp:       time.Now().UTC(),
	}
}

// Execute commits one order and reports whether it was committed. Paper
// orders fill at their limit price and go to the journal; live orders
// are posted to the exchange. A gate-blocked order is not an error, but
// it is not committed either: nothing was submitted or recorded. A
// failed live submission leaves the order marked unsubmitted and
// returns the error for logging; the cycle continues.
func (e *Executor) Execute(ctx context.Context, order *types.TradeOrder) (bool, error) {
	if e.paper {
		order.FillPriceCents = order.LimitPriceCents
		order.Submitted = true
		err := e.recorder.Record(order)
		if err != nil {
			return false, err
		}
		OrdersCommittedTotal.WithLabelValues("paper").Inc()
		return true, nil
	}

	if e.gate != nil && !e.gate.Allow() {
		OrdersBlockedTotal.Inc()
		e.logger.Warn("order-blocked-by-breaker",
			zap.String("ticker", order.Ticker),
			zap.Float64("position-usd", order.Kelly.PositionSizeUSD))
		return false, nil
	}

	req := &types.OrderRequest{
		Ticker: order.Ticker,
		Action: "buy",
		Side:   order.Side,
		Type:   "limit",
		Count:  order.Contracts,
	}
	price := order.LimitPriceCents
	if order.Side == types.SideYes {
		req.YesPrice = &price
	} else {
		req.NoPrice = &price
	}

	confirmation, err := e.placer.CreateOrder(ctx, req)
	if err != nil {
		OrderFailuresTotal.Inc()
		return false, err
	}

	order.OrderID = confirmation.Order.OrderID
	order.Submitted = true
	OrdersCommittedTotal.WithLabelValues("live").Inc()

	// The exchange accepted the order, so it counts as committed even if
	// the audit record fails.
	return true, e.recorder.Record(order)
}

// ProcessSignals sizes every signal independently, drops the ones that
// fail the trade gate, and commits the rest sequentially. Per-order
// failures are logged and do not stop the batch; only orders Execute
// actually committed are returned.
func (e *Executor) ProcessSignals(ctx context.Context, signals []types.Signal, bankrollUSD float64) []types.TradeOrder {
	var committed []types.TradeOrder

	for i := range signals {
		signal := &signals[i]
		SignalsSizedTotal.Inc()

		kelly := e.Size(signal, bankrollUSD)
		if !kelly.ShouldTrade {
			e.logger.Debug("signal-rejected",
				zap.String("ticker", signal.Ticker),
				zap.String("source", string(signal.Source)),
				zap.Float64("kelly", kelly.OptimalFraction),
				zap.Float64("net-ev", kelly.NetEV))
			continue
		}

		order := e.BuildOrder(signal, kelly)
		ok, err := e.Execute(ctx, order)
		if err != nil {
			e.logger.Error("order-commit-failed",
				zap.String("ticker", order.Ticker),
				zap.String("side", string(order.Side)),
				zap.Error(err))
		}
		if !ok {
			continue
		}

		e.logger.Info("order-committed",
			zap.String("ticker", order.Ticker),
			zap.String("side", string(order.Side)),
			zap.Int("contracts", order.Contracts),
			zap.Int("limit-price-cents", order.LimitPriceCents),
			zap.Float64("position-usd", order.Kelly.PositionSizeUSD),
			zap.Bool("paper", order.Paper))

		committed = append(committed, *order)
	}

	return committed
}
