package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/internal/metrics"
	"github.com/ninja0404/token-risk/pkg/logger"
)

const (
	ProviderEtherscan   = "etherscan"
	ProviderDexScreener = "dexscreener"
	ProviderHoneypot    = "honeypot"

	maxBodyBytes = 4 << 20
)

// httpGetter 单次 GET，超时由 ctx 控制
type httpGetter struct {
	client   *http.Client
	provider string
	timeout  time.Duration
}

func newHTTPGetter(client *http.Client, provider string, timeout time.Duration) *httpGetter {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpGetter{client: client, provider: provider, timeout: timeout}
}

// get 返回状态码和响应体，传输错误原样返回
func (g *httpGetter) get(ctx context.Context, rawURL string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "read body")
	}
	return resp.StatusCode, body, nil
}

// observe 记录指标和日志
func (g *httpGetter) observe(ctx context.Context, address string, start time.Time, ok bool, reason string) {
	cost := time.Since(start)
	metrics.ObserveProvider(g.provider, ok, cost.Seconds())
	if ok {
		return
	}
	logger.LogFromContext(ctx).Warn("⚠️ 数据源不可用",
		logger.FieldProvider(g.provider),
		logger.FieldContract(address),
		logger.FieldCost(cost),
		logger.String("reason", reason))
}

// causeOf 去掉 url.Error 中的完整请求地址，避免把 apikey 带进原因文本
func causeOf(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

func parseJSON(body []byte) (*simplejson.Json, error) {
	js, err := simplejson.NewJson(body)
	if err != nil {
		return nil, errors.Wrap(err, "invalid json")
	}
	return js, nil
}
