package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalshi-alpha/internal/testutil"
	"kalshi-alpha/pkg/types"
)

type fakePlacer struct {
	orders []types.OrderRequest
	err    error
}

func (f *fakePlacer) CreateOrder(ctx context.Context, req *types.OrderRequest) (*types.OrderConfirmation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.orders = append(f.orders, *req)
	return &types.OrderConfirmation{Order: types.Order{OrderID: "ord-1"}}, nil
}

type closedGate struct{}

func (closedGate) Allow() bool { return false }

func newTestExecutor(cfg Config) (*Executor, *testutil.MockRecorder) {
	recorder := &testutil.MockRecorder{}
	if cfg.Recorder == nil {
		cfg.Recorder = recorder
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return New(&cfg), recorder
}

func TestSizeAtEvenMoneyNoFees(t *testing.T) {
	executor, _ := newTestExecutor(Config{
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signal := testutil.TestSignal("CPI-24", 0.5, 0.6)
	kelly := executor.Size(&signal, 1000)

	assert.InDelta(t, 0.20, kelly.OptimalFraction, 1e-9)
	assert.InDelta(t, 200.00, kelly.PositionSizeUSD, 1e-6)
	assert.InDelta(t, 0.20, kelly.NetEV, 1e-9)
	assert.True(t, kelly.ShouldTrade)
}

func TestSizeWithFees(t *testing.T) {
	executor, _ := newTestExecutor(Config{
		FeeRate:        0.07,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signal := testutil.TestSignal("CPI-24", 0.5, 0.6)
	kelly := executor.Size(&signal, 1000)

	// net_b = 0.93, f* = (0.6*1.93 - 1)/0.93
	assert.InDelta(t, 0.169892, kelly.OptimalFraction, 1e-6)
	assert.InDelta(t, 169.89, kelly.PositionSizeUSD, 0.01)
	assert.InDelta(t, 0.6*0.93-0.4, kelly.NetEV, 1e-9)
	assert.True(t, kelly.ShouldTrade)
}

func TestSizeRejectsSubThresholdEdge(t *testing.T) {
	executor, _ := newTestExecutor(Config{
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signal := testutil.TestSignal("CPI-24", 0.50, 0.51)
	kelly := executor.Size(&signal, 1000)

	assert.InDelta(t, 0.02, kelly.OptimalFraction, 1e-9)
	assert.False(t, kelly.ShouldTrade)
}

func TestSizeProjectsNoSide(t *testing.T) {
	executor, _ := newTestExecutor(Config{
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	// NO signal at implied 0.5, fair 0.4: betting NO means p=0.6,
	// market_price=0.5, symmetric to the YES case.
	signal := testutil.TestSignal("CPI-24", 0.5, 0.4)
	require.Equal(t, types.SideNo, signal.Side)

	kelly := executor.Size(&signal, 1000)
	assert.InDelta(t, 0.20, kelly.OptimalFraction, 1e-9)
	assert.True(t, kelly.ShouldTrade)
}

func TestSizeCapsAtMaxPosition(t *testing.T) {
	executor, _ := newTestExecutor(Config{
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 100,
	})

	signal := testutil.TestSignal("CPI-24", 0.5, 0.6)
	kelly := executor.Size(&signal, 10000)

	assert.InDelta(t, 100, kelly.PositionSizeUSD, 1e-9)
}

func TestSizeRejectsDegenerateMarketPrice(t *testing.T) {
	executor, _ := newTestExecutor(Config{
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	for _, implied := range []float64{0, 1.0} {
		signal := testutil.TestSignal("X", implied, 0.6)
		kelly := executor.Size(&signal, 1000)
		assert.False(t, kelly.ShouldTrade, "implied=%v", implied)
		assert.Zero(t, kelly.OptimalFraction)
	}
}

func TestSizeRejectsNegativeEV(t *testing.T) {
	// Positive f* gate passes only with positive EV; fair below implied
	// on a YES signal must not trade.
	executor, _ := newTestExecutor(Config{
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signal := types.Signal{
		Ticker:            "X",
		Side:              types.SideYes,
		ImpliedProb:       0.6,
		EstimatedFairProb: 0.4,
	}
	kelly := executor.Size(&signal, 1000)

	assert.Negative(t, kelly.NetEV)
	assert.False(t, kelly.ShouldTrade)
}

func TestBuildOrderYesSide(t *testing.T) {
	executor, _ := newTestExecutor(Config{Paper: true})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.5)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 200, ShouldTrade: true})

	assert.Equal(t, 42, order.LimitPriceCents)
	assert.Equal(t, 476, order.Contracts) // floor(200*100/42)
	assert.Equal(t, types.SideYes, order.Side)
	assert.True(t, order.Paper)
	assert.NotEmpty(t, order.ID)
}

func TestBuildOrderInvertsPriceForNo(t *testing.T) {
	executor, _ := newTestExecutor(Config{})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.3) // NO side
	require.Equal(t, types.SideNo, signal.Side)

	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 100})
	assert.Equal(t, 58, order.LimitPriceCents)
}

func TestBuildOrderClampsPrice(t *testing.T) {
	executor, _ := newTestExecutor(Config{})

	low := testutil.TestSignal("X", 0.001, 0.05)
	order := executor.BuildOrder(&low, types.KellyResult{PositionSizeUSD: 10})
	assert.Equal(t, 1, order.LimitPriceCents)

	high := testutil.TestSignal("Y", 0.999, 0.9999)
	order = executor.BuildOrder(&high, types.KellyResult{PositionSizeUSD: 10})
	assert.Equal(t, 99, order.LimitPriceCents)
}

func TestBuildOrderMinimumOneContract(t *testing.T) {
	executor, _ := newTestExecutor(Config{})

	signal := testutil.TestSignal("X", 0.5, 0.6)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 0.1})
	assert.Equal(t, 1, order.Contracts)
}

func TestExecutePaperFillsAtLimitAndRecords(t *testing.T) {
	executor, recorder := newTestExecutor(Config{Paper: true})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.5)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 50})

	committed, err := executor.Execute(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, committed)

	assert.True(t, order.Submitted)
	assert.Equal(t, order.LimitPriceCents, order.FillPriceCents)
	require.Len(t, recorder.Trades, 1)
	assert.Equal(t, "CPI-24", recorder.Trades[0].Ticker)
}

func TestExecuteLiveSubmitsOrder(t *testing.T) {
	placer := &fakePlacer{}
	executor, recorder := newTestExecutor(Config{Placer: placer})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.5)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 50})

	committed, err := executor.Execute(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, committed)

	assert.Equal(t, "ord-1", order.OrderID)
	assert.True(t, order.Submitted)
	require.Len(t, placer.orders, 1)
	submitted := placer.orders[0]
	assert.Equal(t, "buy", submitted.Action)
	assert.Equal(t, "limit", submitted.Type)
	require.NotNil(t, submitted.YesPrice)
	assert.Equal(t, 42, *submitted.YesPrice)
	assert.Nil(t, submitted.NoPrice)
	require.Len(t, recorder.Trades, 1)
}

func TestExecuteLiveSetsNoPriceForNoSide(t *testing.T) {
	placer := &fakePlacer{}
	executor, _ := newTestExecutor(Config{Placer: placer})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.3)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 50})

	_, err := executor.Execute(context.Background(), order)
	require.NoError(t, err)

	require.Len(t, placer.orders, 1)
	require.NotNil(t, placer.orders[0].NoPrice)
	assert.Equal(t, 58, *placer.orders[0].NoPrice)
	assert.Nil(t, placer.orders[0].YesPrice)
}

func TestExecuteLiveFailureLeavesOrderUnsubmitted(t *testing.T) {
	placer := &fakePlacer{err: errors.New("exchange rejected")}
	executor, recorder := newTestExecutor(Config{Placer: placer})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.5)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 50})

	committed, err := executor.Execute(context.Background(), order)
	require.Error(t, err)
	assert.False(t, committed)
	assert.False(t, order.Submitted)
	assert.Empty(t, recorder.Trades)
}

func TestExecuteBlockedByGate(t *testing.T) {
	placer := &fakePlacer{}
	executor, recorder := newTestExecutor(Config{Placer: placer, Gate: closedGate{}})

	signal := testutil.TestSignal("CPI-24", 0.42, 0.5)
	order := executor.BuildOrder(&signal, types.KellyResult{PositionSizeUSD: 50})

	committed, err := executor.Execute(context.Background(), order)
	require.NoError(t, err)
	assert.False(t, committed, "blocked orders are not committed")
	assert.False(t, order.Submitted)
	assert.Empty(t, placer.orders)
	assert.Empty(t, recorder.Trades)
}

func TestProcessSignalsDropsGateBlockedOrders(t *testing.T) {
	placer := &fakePlacer{}
	executor, recorder := newTestExecutor(Config{
		Placer:         placer,
		Gate:           closedGate{},
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signals := []types.Signal{
		testutil.TestSignal("A", 0.5, 0.6),
		testutil.TestSignal("B", 0.5, 0.6),
	}

	orders := executor.ProcessSignals(context.Background(), signals, 1000)

	assert.Empty(t, orders, "blocked orders must not be reported as committed trades")
	assert.Empty(t, placer.orders)
	assert.Empty(t, recorder.Trades)
}

func TestProcessSignalsFiltersAndCommits(t *testing.T) {
	executor, recorder := newTestExecutor(Config{
		Paper:          true,
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signals := []types.Signal{
		testutil.TestSignal("TRADE", 0.5, 0.6),   // f*=0.20, trades
		testutil.TestSignal("WEAK", 0.50, 0.51),  // f*=0.02, dropped
		testutil.TestSignal("TRADE2", 0.4, 0.55), // trades
	}

	orders := executor.ProcessSignals(context.Background(), signals, 1000)

	require.Len(t, orders, 2)
	assert.Equal(t, "TRADE", orders[0].Ticker)
	assert.Equal(t, "TRADE2", orders[1].Ticker)
	assert.Len(t, recorder.Trades, 2)
}

func TestProcessSignalsIsolatesCommitFailures(t *testing.T) {
	placer := &fakePlacer{err: errors.New("down")}
	executor, _ := newTestExecutor(Config{
		Placer:         placer,
		FeeRate:        0,
		KellyFraction:  1.0,
		KellyEdgeMin:   0.05,
		MaxPositionUSD: 10000,
	})

	signals := []types.Signal{
		testutil.TestSignal("A", 0.5, 0.6),
		testutil.TestSignal("B", 0.5, 0.6),
	}

	orders := executor.ProcessSignals(context.Background(), signals, 1000)
	assert.Empty(t, orders, "failed commits are dropped, not returned")
}
