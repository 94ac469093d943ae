package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalshi-alpha/internal/testutil"
	"kalshi-alpha/pkg/types"
)

type fakeResolver struct {
	markets map[string][]types.Market
}

func (f *fakeResolver) MatchKeyword(ctx context.Context, keyword string) ([]types.Market, error) {
	return f.markets[keyword], nil
}

func newFeedServer(t *testing.T, body string) map[string]string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return map[string]string{"TEST_FEED": server.URL}
}

func newTestAnalyzer(completer Completer, resolver Resolver, feeds map[string]string) *Analyzer {
	return New(&Config{
		Completer: completer,
		Fetcher:   NewFetcher(zap.NewNop()),
		Resolver:  resolver,
		Feeds:     feeds,
		ShiftMin:  0.10,
		Logger:    zap.NewNop(),
	})
}

func TestScanEmitsSignalPerMatchedTicker(t *testing.T) {
	completer := &testutil.MockCompleter{
		Response: `[{"ticker_keyword":"CPI","side":"yes","prob_shift":0.15,"confidence":0.8,"rationale":"hot print"}]`,
	}
	resolver := &fakeResolver{markets: map[string][]types.Market{
		"CPI": {{Ticker: "CPI-24-ABOVE3"}, {Ticker: "CPI-24-ABOVE4"}},
	}}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "CPI rose 0.6% in July"))
	signals := analyzer.Scan(context.Background())

	require.Len(t, signals, 2)
	for _, signal := range signals {
		assert.Equal(t, types.SourceNLP, signal.Source)
		assert.Equal(t, types.SideYes, signal.Side)
		assert.InDelta(t, 0.5, signal.ImpliedProb, 1e-9)
		assert.InDelta(t, 0.65, signal.EstimatedFairProb, 1e-9)
		assert.InDelta(t, 0.15, signal.Edge, 1e-9)
		assert.InDelta(t, 0.8, signal.Confidence, 1e-9)
		assert.Contains(t, signal.Rationale, "hot print")
	}
}

func TestScanNegativeShiftYieldsNoSide(t *testing.T) {
	completer := &testutil.MockCompleter{
		Response: `[{"ticker_keyword":"FED","side":"no","prob_shift":-0.2,"confidence":0.7,"rationale":"dovish"}]`,
	}
	resolver := &fakeResolver{markets: map[string][]types.Market{
		"FED": {{Ticker: "FED-HIKE-SEP"}},
	}}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "Fed signals pause"))
	signals := analyzer.Scan(context.Background())

	require.Len(t, signals, 1)
	assert.Equal(t, types.SideNo, signals[0].Side)
	assert.InDelta(t, 0.3, signals[0].EstimatedFairProb, 1e-9)
	assert.InDelta(t, 0.2, signals[0].Edge, 1e-9)
}

func TestScanFiltersSubThresholdShift(t *testing.T) {
	completer := &testutil.MockCompleter{
		Response: `[{"ticker_keyword":"CPI","side":"yes","prob_shift":0.05,"confidence":0.9,"rationale":"minor"}]`,
	}
	resolver := &fakeResolver{markets: map[string][]types.Market{
		"CPI": {{Ticker: "CPI-24"}},
	}}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "small revision"))
	assert.Empty(t, analyzer.Scan(context.Background()))
}

func TestScanDropsUnresolvedKeywords(t *testing.T) {
	completer := &testutil.MockCompleter{
		Response: `[{"ticker_keyword":"OBSCURE","side":"yes","prob_shift":0.3,"confidence":0.9,"rationale":"x"}]`,
	}
	resolver := &fakeResolver{markets: map[string][]types.Market{}}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "news"))
	assert.Empty(t, analyzer.Scan(context.Background()))
}

func TestScanSurvivesNonJSONResponse(t *testing.T) {
	completer := &testutil.MockCompleter{Response: "I think this is bullish for CPI markets."}
	resolver := &fakeResolver{}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "news"))
	assert.Empty(t, analyzer.Scan(context.Background()))
}

func TestScanSurvivesLLMFailure(t *testing.T) {
	completer := &testutil.MockCompleter{Err: errors.New("provider down")}
	resolver := &fakeResolver{}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "news"))
	assert.Empty(t, analyzer.Scan(context.Background()))
}

func TestScanAcceptsSingleObjectResponse(t *testing.T) {
	completer := &testutil.MockCompleter{
		Response: `{"ticker_keyword":"TEMP","side":"yes","prob_shift":0.25,"confidence":0.6,"rationale":"heat wave"}`,
	}
	resolver := &fakeResolver{markets: map[string][]types.Market{
		"TEMP": {{Ticker: "HIGHNY-AUG"}},
	}}

	analyzer := newTestAnalyzer(completer, resolver, newFeedServer(t, "heat advisory"))
	signals := analyzer.Scan(context.Background())
	require.Len(t, signals, 1)
	assert.Equal(t, "HIGHNY-AUG", signals[0].Ticker)
}

func TestScanDisabledWithoutCompleter(t *testing.T) {
	analyzer := newTestAnalyzer(nil, &fakeResolver{}, newFeedServer(t, "news"))
	assert.Nil(t, analyzer.Scan(context.Background()))
}

func TestPromptQuotesFeedNameAndHeadline(t *testing.T) {
	completer := &testutil.MockCompleter{Response: "[]"}
	analyzer := newTestAnalyzer(completer, &fakeResolver{}, newFeedServer(t, "CPI rose sharply"))

	analyzer.Scan(context.Background())

	require.Len(t, completer.Prompts, 1)
	assert.Contains(t, completer.Prompts[0], "[TEST_FEED]")
	assert.Contains(t, completer.Prompts[0], "CPI rose sharply")
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 500))

	// 3-byte runes: 500 falls mid-character, so the cut backs off to 498.
	snowmen := strings.Repeat("☃", 200)
	cut := truncate(snowmen, 500)
	assert.Equal(t, 498, len(cut))
	assert.True(t, utf8.ValidString(cut))

	ascii := strings.Repeat("a", 600)
	assert.Len(t, truncate(ascii, 500), 500)
}

func TestPromptTruncatesMultiByteHeadlineCleanly(t *testing.T) {
	completer := &testutil.MockCompleter{Response: "[]"}
	feed := strings.Repeat("☃", 400) // 1200 bytes of 3-byte runes
	analyzer := newTestAnalyzer(completer, &fakeResolver{}, newFeedServer(t, feed))

	analyzer.Scan(context.Background())

	require.Len(t, completer.Prompts, 1)
	assert.True(t, utf8.ValidString(completer.Prompts[0]))
}

func TestParseItems(t *testing.T) {
	items, err := parseItems(`  [{"ticker_keyword":"A","prob_shift":0.1}] `)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].TickerKeyword)

	_, err = parseItems("not json at all {")
	require.Error(t, err)
	var llmErr *types.LLMError
	require.ErrorAs(t, err, &llmErr)
}
