package fetcher

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/pkg/utils"
)

const (
	// LiquidityDropThreshold 24h 价格变化不高于该值视为流动性下跌
	LiquidityDropThreshold = -30.0

	LiquidityUnavailable   = "Could not retrieve LP data."
	LiquidityMissing       = "Liquidity Missing: No locked funds detected — your money can vanish instantly."
	LiquidityStable        = "Liquidity is stable."
	liquidityDroppedFormat = "Liquidity pool dropped %s%% in 24h."
	liquidityErrorPrefix   = "Error checking liquidity: "
)

// LiquidityFetcher 从 DexScreener 读取交易对 24h 价格变化
type LiquidityFetcher struct {
	getter  *httpGetter
	baseURL string
	chain   string
}

func NewLiquidityFetcher(cfg ProviderConfig, client *http.Client) *LiquidityFetcher {
	cfg = cfg.WithDefaults()
	return &LiquidityFetcher{
		getter:  newHTTPGetter(client, ProviderDexScreener, cfg.Timeout),
		baseURL: strings.TrimRight(cfg.DexScreenerURL, "/"),
		chain:   cfg.Chain,
	}
}

func (f *LiquidityFetcher) Fetch(ctx context.Context, address string) model.FetchResult[string] {
	start := time.Now()
	status, err := f.fetch(ctx, address)
	if err != nil {
		reason := liquidityErrorPrefix + causeOf(err)
		f.getter.observe(ctx, address, start, false, reason)
		return model.Unavailable[string](reason)
	}
	if status == LiquidityUnavailable {
		f.getter.observe(ctx, address, start, false, status)
		return model.Unavailable[string](status)
	}
	f.getter.observe(ctx, address, start, true, "")
	return model.Ok(status)
}

func (f *LiquidityFetcher) fetch(ctx context.Context, address string) (string, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", f.baseURL, url.PathEscape(f.chain), url.PathEscape(address))
	code, body, err := f.getter.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return LiquidityUnavailable, nil
	}

	js, err := parseJSON(body)
	if err != nil {
		return "", err
	}

	pair := pairOf(js)
	if pair == nil {
		return LiquidityMissing, nil
	}

	change, _, _, err := numeric(pair.GetPath("priceChange", "h24"))
	if err != nil {
		return "", errors.Wrap(err, "priceChange.h24")
	}
	if change <= LiquidityDropThreshold {
		return fmt.Sprintf(liquidityDroppedFormat, utils.FormatFloat(math.Abs(change))), nil
	}
	return LiquidityStable, nil
}

// pairOf 优先 pair，其次 pairs 的第一个元素，空对象视为没有交易对
func pairOf(js *simplejson.Json) *simplejson.Json {
	if pair, ok := js.CheckGet("pair"); ok && truthy(pair) {
		if _, err := pair.Map(); err == nil {
			return pair
		}
	}
	if pairs, ok := js.CheckGet("pairs"); ok {
		if arr, err := pairs.Array(); err == nil && len(arr) > 0 {
			first := pairs.GetIndex(0)
			if m, err := first.Map(); err == nil && len(m) > 0 {
				return first
			}
		}
	}
	return nil
}
