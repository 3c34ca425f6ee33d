package fetcher

import (
	"context"
	"fmt"
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
	// SellTaxThreshold 卖出税超过该百分比视为高风险
	SellTaxThreshold = 30.0

	HoneypotUnavailable = "Could not check honeypot status."
	HoneypotDetected    = "Honeypot detected: users can't sell!"
	HoneypotClean       = "No honeypot behavior detected."
	highSellTaxFormat   = "High sell tax (%s%%) — may trap sellers."
	honeypotErrorPrefix = "Error checking honeypot: "
)

// HoneypotFetcher 查询 honeypot.is
type HoneypotFetcher struct {
	getter  *httpGetter
	baseURL string
}

func NewHoneypotFetcher(cfg ProviderConfig, client *http.Client) *HoneypotFetcher {
	cfg = cfg.WithDefaults()
	return &HoneypotFetcher{
		getter:  newHTTPGetter(client, ProviderHoneypot, cfg.Timeout),
		baseURL: strings.TrimRight(cfg.HoneypotURL, "/"),
	}
}

func (f *HoneypotFetcher) Fetch(ctx context.Context, address string) model.FetchResult[string] {
	start := time.Now()
	status, err := f.fetch(ctx, address)
	if err != nil {
		reason := honeypotErrorPrefix + causeOf(err)
		f.getter.observe(ctx, address, start, false, reason)
		return model.Unavailable[string](reason)
	}
	if status == HoneypotUnavailable {
		f.getter.observe(ctx, address, start, false, status)
		return model.Unavailable[string](status)
	}
	f.getter.observe(ctx, address, start, true, "")
	return model.Ok(status)
}

func (f *HoneypotFetcher) fetch(ctx context.Context, address string) (string, error) {
	query := url.Values{}
	query.Set("address", address)

	code, body, err := f.getter.get(ctx, f.baseURL+"/IsHoneypot?"+query.Encode())
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return HoneypotUnavailable, nil
	}

	js, err := parseJSON(body)
	if err != nil {
		return "", err
	}

	if isHoneypot(js) {
		return HoneypotDetected, nil
	}

	tax, taxText, _, err := numeric(sellTaxOf(js))
	if err != nil {
		return "", errors.Wrap(err, "sell tax")
	}
	if tax > SellTaxThreshold {
		return fmt.Sprintf(highSellTaxFormat, formatTax(tax, taxText)), nil
	}
	return HoneypotClean, nil
}

// formatTax 整数原样输出，小数按解析后的值输出，35.50 显示为 35.5
func formatTax(tax float64, raw string) string {
	if raw != "" && !strings.ContainsAny(raw, ".eE") {
		return raw
	}
	return utils.FormatFloat(tax)
}

// isHoneypot 兼容 v1 的 IsHoneypot 和 v2 的 honeypotResult.isHoneypot
func isHoneypot(js *simplejson.Json) bool {
	if present(js, "IsHoneypot") {
		return truthy(js.Get("IsHoneypot"))
	}
	return truthy(js.GetPath("honeypotResult", "isHoneypot"))
}

// sellTaxOf 兼容 v1 的 SellTax 和 v2 的 simulationResult.sellTax
func sellTaxOf(js *simplejson.Json) *simplejson.Json {
	if present(js, "SellTax") {
		return js.Get("SellTax")
	}
	return js.GetPath("simulationResult", "sellTax")
}
