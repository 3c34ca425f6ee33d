package fetcher

import "time"

const (
	DefaultEtherscanURL   = "https://api.etherscan.io/api"
	DefaultDexScreenerURL = "https://api.dexscreener.com"
	DefaultHoneypotURL    = "https://api.honeypot.is/v2"
	DefaultChain          = "ethereum"
	DefaultTimeout        = 10 * time.Second
)

// ProviderConfig 数据源配置，构造时注入各 fetcher
type ProviderConfig struct {
	EtherscanAPIKey string        `json:"etherscan_api_key" yaml:"etherscan_api_key"`
	EtherscanURL    string        `json:"etherscan_url" yaml:"etherscan_url"`
	DexScreenerURL  string        `json:"dexscreener_url" yaml:"dexscreener_url"`
	HoneypotURL     string        `json:"honeypot_url" yaml:"honeypot_url"`
	Chain           string        `json:"chain" yaml:"chain"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
}

func (c ProviderConfig) WithDefaults() ProviderConfig {
	if c.EtherscanURL == "" {
		c.EtherscanURL = DefaultEtherscanURL
	}
	if c.DexScreenerURL == "" {
		c.DexScreenerURL = DefaultDexScreenerURL
	}
	if c.HoneypotURL == "" {
		c.HoneypotURL = DefaultHoneypotURL
	}
	if c.Chain == "" {
		c.Chain = DefaultChain
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
