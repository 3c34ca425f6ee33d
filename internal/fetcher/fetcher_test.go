package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x6982508145454ce325ddbe47a25d4ec3d2311933"

func stubServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, ProviderConfig) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, ProviderConfig{
		EtherscanAPIKey: "secret-key",
		EtherscanURL:    srv.URL + "/api",
		DexScreenerURL:  srv.URL,
		HoneypotURL:     srv.URL + "/v2",
		Timeout:         time.Second,
	}
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func etherscanBody(n int) string {
	txs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, fmt.Sprintf(`{"value":"1000000000000000000000","tokenDecimal":"18","timeStamp":"%d"}`, 1700000000-i*3600))
	}
	return `{"status":"1","message":"OK","result":[` + strings.Join(txs, ",") + `]}`
}

func TestTransferHistoryFetcher(t *testing.T) {
	var gotQuery map[string]string
	_, cfg := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"module":          q.Get("module"),
			"action":          q.Get("action"),
			"contractaddress": q.Get("contractaddress"),
			"sort":            q.Get("sort"),
			"apikey":          q.Get("apikey"),
		}
		jsonHandler(http.StatusOK, etherscanBody(12))(w, r)
	})

	res := NewTransferHistoryFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.True(t, res.IsOk(), res.Reason())

	history := res.Value()
	assert.Len(t, history.Events, MaxTransferEvents)
	assert.Equal(t, "Devs Dumping: 10,000 tokens moved to untracked wallet.", history.Summary)
	assert.True(t, decimal.NewFromInt(1000).Equal(history.Events[0].Amount))
	assert.Equal(t, int32(18), history.Events[0].Decimals)
	assert.Equal(t, int64(1700000000), history.Events[0].Timestamp)

	assert.Equal(t, map[string]string{
		"module":          "account",
		"action":          "tokentx",
		"contractaddress": testAddress,
		"sort":            "desc",
		"apikey":          "secret-key",
	}, gotQuery)
}

func TestTransferHistoryFetcherFractionalTotal(t *testing.T) {
	body := `{"status":"1","result":[
		{"value":"1234567890000","tokenDecimal":"6","timeStamp":"10"},
		{"value":"500000","tokenDecimal":"6","timeStamp":"20"}]}`
	_, cfg := stubServer(t, jsonHandler(http.StatusOK, body))

	res := NewTransferHistoryFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.True(t, res.IsOk())
	// 1234567.89 + 0.5 截断为 1234568
	assert.Equal(t, "Devs Dumping: 1,234,568 tokens moved to untracked wallet.", res.Value().Summary)
}

func TestTransferHistoryFetcherNoData(t *testing.T) {
	_, cfg := stubServer(t, jsonHandler(http.StatusOK, `{"status":"0","message":"No transactions found","result":[]}`))

	res := NewTransferHistoryFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.True(t, res.IsOk())
	assert.Empty(t, res.Value().Events)
	assert.Equal(t, NoTransferDataSummary, res.Value().Summary)
}

func TestTransferHistoryFetcherUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"invalid json", jsonHandler(http.StatusOK, `<html>`)},
		{"bad value", jsonHandler(http.StatusOK, `{"status":"1","result":[{"value":"abc","tokenDecimal":"18","timeStamp":"1"}]}`)},
		{"missing timestamp", jsonHandler(http.StatusOK, `{"status":"1","result":[{"value":"1000","tokenDecimal":"0"},{"value":"1000","tokenDecimal":"0"},{"value":"1000","tokenDecimal":"0"}]}`)},
		{"bad timestamp", jsonHandler(http.StatusOK, `{"status":"1","result":[{"value":"1000","tokenDecimal":"0","timeStamp":"yesterday"}]}`)},
		{"missing status", jsonHandler(http.StatusOK, `{"result":[]}`)},
		{"result not a list", jsonHandler(http.StatusOK, `{"status":"1","result":"Max rate limit reached"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg := stubServer(t, tt.handler)
			res := NewTransferHistoryFetcher(cfg, nil).Fetch(context.Background(), testAddress)
			require.False(t, res.IsOk())
			assert.True(t, strings.HasPrefix(res.Reason(), "Error checking dev wallets: "), res.Reason())
		})
	}
}

func TestTransferHistoryFetcherTransportError(t *testing.T) {
	srv, cfg := stubServer(t, jsonHandler(http.StatusOK, `{}`))
	srv.Close()

	res := NewTransferHistoryFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.False(t, res.IsOk())
	assert.True(t, strings.HasPrefix(res.Reason(), "Error checking dev wallets: "))
	assert.NotContains(t, res.Reason(), "secret-key")
}

func TestFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	_, cfg := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	cfg.Timeout = 50 * time.Millisecond

	res := NewHoneypotFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.False(t, res.IsOk())
	assert.True(t, strings.HasPrefix(res.Reason(), "Error checking honeypot: "), res.Reason())
}

func TestLiquidityFetcher(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"null pair", `{"schemaVersion":"1.0.0","pair":null}`, LiquidityMissing},
		{"empty pairs", `{"pairs":[]}`, LiquidityMissing},
		{"empty object", `{"pair":{}}`, LiquidityMissing},
		{"large drop", `{"pairs":[{"priceChange":{"h24":-45}}]}`, "Liquidity pool dropped 45.0% in 24h."},
		{"drop at threshold", `{"pair":{"priceChange":{"h24":"-30"}}}`, "Liquidity pool dropped 30.0% in 24h."},
		{"fractional drop", `{"pair":{"priceChange":{"h24":-62.37}}}`, "Liquidity pool dropped 62.37% in 24h."},
		{"small drop", `{"pair":{"priceChange":{"h24":-12.5}}}`, LiquidityStable},
		{"no price change", `{"pair":{"priceChange":{}}}`, LiquidityStable},
		{"pump", `{"pair":{"priceChange":{"h24":120}}}`, LiquidityStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			_, cfg := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				jsonHandler(http.StatusOK, tt.body)(w, r)
			})

			res := NewLiquidityFetcher(cfg, nil).Fetch(context.Background(), testAddress)
			require.True(t, res.IsOk(), res.Reason())
			assert.Equal(t, tt.want, res.Value())
			assert.Equal(t, "/latest/dex/pairs/ethereum/"+testAddress, path)
		})
	}
}

func TestLiquidityFetcherUnavailable(t *testing.T) {
	_, cfg := stubServer(t, jsonHandler(http.StatusTooManyRequests, `{}`))
	res := NewLiquidityFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.False(t, res.IsOk())
	assert.Equal(t, LiquidityUnavailable, res.Reason())

	_, cfg = stubServer(t, jsonHandler(http.StatusOK, `{"pair":{"priceChange":{"h24":"n/a"}}}`))
	res = NewLiquidityFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.False(t, res.IsOk())
	assert.True(t, strings.HasPrefix(res.Reason(), "Error checking liquidity: "), res.Reason())
}

func TestHoneypotFetcher(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"v1 honeypot", `{"IsHoneypot":true,"SellTax":0}`, HoneypotDetected},
		{"v2 honeypot", `{"honeypotResult":{"isHoneypot":true}}`, HoneypotDetected},
		{"v1 high tax", `{"IsHoneypot":false,"SellTax":35}`, "High sell tax (35%) — may trap sellers."},
		{"v2 high tax", `{"honeypotResult":{"isHoneypot":false},"simulationResult":{"sellTax":45.5}}`, "High sell tax (45.5%) — may trap sellers."},
		{"trailing zero tax", `{"IsHoneypot":false,"SellTax":35.50}`, "High sell tax (35.5%) — may trap sellers."},
		{"float tax", `{"IsHoneypot":false,"SellTax":40.0}`, "High sell tax (40.0%) — may trap sellers."},
		{"tax at threshold", `{"IsHoneypot":false,"SellTax":30}`, HoneypotClean},
		{"clean", `{"IsHoneypot":false}`, HoneypotClean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAddress, gotPath string
			_, cfg := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAddress = r.URL.Query().Get("address")
				jsonHandler(http.StatusOK, tt.body)(w, r)
			})

			res := NewHoneypotFetcher(cfg, nil).Fetch(context.Background(), testAddress)
			require.True(t, res.IsOk(), res.Reason())
			assert.Equal(t, tt.want, res.Value())
			assert.Equal(t, testAddress, gotAddress)
			assert.Equal(t, "/v2/IsHoneypot", gotPath)
		})
	}
}

func TestHoneypotFetcherUnavailable(t *testing.T) {
	_, cfg := stubServer(t, jsonHandler(http.StatusInternalServerError, `{}`))
	res := NewHoneypotFetcher(cfg, nil).Fetch(context.Background(), testAddress)
	require.False(t, res.IsOk())
	assert.Equal(t, HoneypotUnavailable, res.Reason())
}

func TestProviderConfigDefaults(t *testing.T) {
	cfg := ProviderConfig{}.WithDefaults()
	assert.Equal(t, DefaultEtherscanURL, cfg.EtherscanURL)
	assert.Equal(t, DefaultChain, cfg.Chain)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}
