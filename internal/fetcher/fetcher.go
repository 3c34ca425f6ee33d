// Package fetcher 对接三个外部数据源。
//
// 每个 Fetch 都不返回 error：网络、超时、非 200、响应格式异常都会折叠成
// model.Unavailable，并携带可直接展示的诊断文本。
package fetcher

import (
	"context"
	"net/http"

	"github.com/ninja0404/token-risk/internal/model"
)

type TransferSource interface {
	Fetch(ctx context.Context, address string) model.FetchResult[model.TransferHistory]
}

type StatusSource interface {
	Fetch(ctx context.Context, address string) model.FetchResult[string]
}

var (
	_ TransferSource = (*TransferHistoryFetcher)(nil)
	_ StatusSource   = (*LiquidityFetcher)(nil)
	_ StatusSource   = (*HoneypotFetcher)(nil)
)

// Set 一次分析用到的三个 fetcher
type Set struct {
	Transfers TransferSource
	Liquidity StatusSource
	Honeypot  StatusSource
}

// NewSet 共用同一个 http.Client
func NewSet(cfg ProviderConfig, client *http.Client) Set {
	if client == nil {
		client = &http.Client{}
	}
	return Set{
		Transfers: NewTransferHistoryFetcher(cfg, client),
		Liquidity: NewLiquidityFetcher(cfg, client),
		Honeypot:  NewHoneypotFetcher(cfg, client),
	}
}
