package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ninja0404/token-risk/internal/model"
	"github.com/ninja0404/token-risk/pkg/utils"
)

const (
	// MaxTransferEvents 只取最近的若干笔转账
	MaxTransferEvents = 10

	NoTransferDataSummary = "No recent token transfer data found."
	devDumpSummaryFormat  = "Devs Dumping: %s tokens moved to untracked wallet."
	devDumpErrorPrefix    = "Error checking dev wallets: "
)

// TransferHistoryFetcher 从 Etherscan 拉取最近的代币转账
type TransferHistoryFetcher struct {
	getter  *httpGetter
	baseURL string
	apiKey  string
}

func NewTransferHistoryFetcher(cfg ProviderConfig, client *http.Client) *TransferHistoryFetcher {
	cfg = cfg.WithDefaults()
	return &TransferHistoryFetcher{
		getter:  newHTTPGetter(client, ProviderEtherscan, cfg.Timeout),
		baseURL: cfg.EtherscanURL,
		apiKey:  cfg.EtherscanAPIKey,
	}
}

func (f *TransferHistoryFetcher) Fetch(ctx context.Context, address string) model.FetchResult[model.TransferHistory] {
	start := time.Now()
	history, err := f.fetch(ctx, address)
	if err != nil {
		reason := devDumpErrorPrefix + causeOf(err)
		f.getter.observe(ctx, address, start, false, reason)
		return model.Unavailable[model.TransferHistory](reason)
	}
	f.getter.observe(ctx, address, start, true, "")
	return model.Ok(history)
}

func (f *TransferHistoryFetcher) fetch(ctx context.Context, address string) (model.TransferHistory, error) {
	query := url.Values{}
	query.Set("module", "account")
	query.Set("action", "tokentx")
	query.Set("contractaddress", address)
	query.Set("sort", "desc")
	query.Set("apikey", f.apiKey)

	_, body, err := f.getter.get(ctx, f.baseURL+"?"+query.Encode())
	if err != nil {
		return model.TransferHistory{}, err
	}
	js, err := parseJSON(body)
	if err != nil {
		return model.TransferHistory{}, err
	}

	status, err := text(js, "status")
	if err != nil {
		return model.TransferHistory{}, err
	}
	if status != "1" {
		return model.TransferHistory{Events: []model.TransferEvent{}, Summary: NoTransferDataSummary}, nil
	}

	txs, err := js.Get("result").Array()
	if err != nil {
		return model.TransferHistory{}, errors.Wrap(err, "result")
	}
	if len(txs) > MaxTransferEvents {
		txs = txs[:MaxTransferEvents]
	}

	events := make([]model.TransferEvent, 0, len(txs))
	total := decimal.Zero
	for i := range txs {
		event, err := parseTransfer(js.Get("result").GetIndex(i))
		if err != nil {
			return model.TransferHistory{}, errors.Wrapf(err, "transfer %d", i)
		}
		total = total.Add(event.Amount)
		events = append(events, event)
	}

	return model.TransferHistory{
		Events:  events,
		Summary: fmt.Sprintf(devDumpSummaryFormat, utils.FormatThousands(total)),
	}, nil
}

// parseTransfer value / 10^tokenDecimal
func parseTransfer(tx *simplejson.Json) (model.TransferEvent, error) {
	rawValue, err := text(tx, "value")
	if err != nil {
		return model.TransferEvent{}, err
	}
	rawDecimals, err := text(tx, "tokenDecimal")
	if err != nil {
		return model.TransferEvent{}, err
	}
	decimals, err := strconv.ParseInt(rawDecimals, 10, 32)
	if err != nil {
		return model.TransferEvent{}, errors.Wrap(err, "tokenDecimal")
	}
	amount, err := utils.ShiftDecimals(rawValue, int32(decimals))
	if err != nil {
		return model.TransferEvent{}, errors.Wrap(err, "value")
	}

	rawTs, err := text(tx, "timeStamp")
	if err != nil {
		return model.TransferEvent{}, errors.Wrap(err, "timeStamp")
	}
	ts, err := strconv.ParseInt(rawTs, 10, 64)
	if err != nil {
		return model.TransferEvent{}, errors.Wrap(err, "timeStamp")
	}

	return model.TransferEvent{Amount: amount, Timestamp: ts, Decimals: int32(decimals)}, nil
}
