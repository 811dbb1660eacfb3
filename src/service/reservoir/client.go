// Package reservoir 外部订单聚合服务客户端, 以及基于它的订单来源
package reservoir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/config"
)

const (
	pathFloor  = "/tokens/floor"
	pathTokens = "/tokens"
	pathAsks   = "/orders/asks"

	pageSize       = 100
	maxTokenPages  = 50
	retryInterval  = 500 * time.Millisecond
	apiKeyHeader   = "x-api-key"
	defaultTimeout = 10 * time.Second
)

// Amount 价格, Raw 为最小单位整数字符串
type Amount struct {
	Raw     string          `json:"raw"`
	Decimal decimal.Decimal `json:"decimal"`
}

type Currency struct {
	Contract string `json:"contract"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

type Price struct {
	Amount   Amount   `json:"amount"`
	Currency Currency `json:"currency"`
}

// FloorAsk token 当前最低卖单
type FloorAsk struct {
	ID         string `json:"id"`
	Price      *Price `json:"price"`
	Maker      string `json:"maker"`
	ValidFrom  int64  `json:"validFrom"`
	ValidUntil int64  `json:"validUntil"`
}

type TokenInfo struct {
	Contract string `json:"contract"`
	TokenID  string `json:"tokenId"`
	Name     string `json:"name"`
}

// ListedToken 集合挂单列表中的一项
type ListedToken struct {
	Token  TokenInfo `json:"token"`
	Market struct {
		FloorAsk FloorAsk `json:"floorAsk"`
	} `json:"market"`
}

// Ask 单个 token 的卖单
type Ask struct {
	ID         string    `json:"id"`
	Side       string    `json:"side"`
	Status     string    `json:"status"`
	Contract   string    `json:"contract"`
	Maker      string    `json:"maker"`
	Price      *Price    `json:"price"`
	ValidFrom  int64     `json:"validFrom"`
	ValidUntil int64     `json:"validUntil"`
	CreatedAt  time.Time `json:"createdAt"`
	Criteria   struct {
		Data struct {
			Token struct {
				TokenID string `json:"tokenId"`
			} `json:"token"`
		} `json:"data"`
	} `json:"criteria"`
}

type floorResponse struct {
	Tokens map[string]decimal.Decimal `json:"tokens"`
}

type tokensResponse struct {
	Tokens       []ListedToken `json:"tokens"`
	Continuation string        `json:"continuation"`
}

type asksResponse struct {
	Orders []Ask `json:"orders"`
}

// Client 外部订单聚合服务 REST 客户端
type Client struct {
	baseURL string
	apiKey  string
	retries int
	http    *http.Client
}

func NewClient(c config.ReservoirCfg) *Client {
	timeout := defaultTimeout
	if c.Timeout > 0 {
		timeout = time.Duration(c.Timeout) * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(c.BaseURL, "/"),
		apiKey:  c.ApiKey,
		retries: c.Retries,
		http:    &http.Client{Timeout: timeout},
	}
}

// FloorPrices 集合内每个 token 的地板价 (原生币), key 为 tokenId
func (c *Client) FloorPrices(ctx context.Context, contract string) (map[string]decimal.Decimal, error) {
	var resp floorResponse
	if err := c.get(ctx, pathFloor, url.Values{"contract": {contract}}, &resp); err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(resp.Tokens))
	for key, price := range resp.Tokens {
		// key 形如 contract:tokenId
		if i := strings.LastIndex(key, ":"); i >= 0 {
			key = key[i+1:]
		}
		prices[key] = price
	}
	return prices, nil
}

// ListedTokens 集合内有挂单的 token, 按 continuation 翻页直到没有下一页
func (c *Client) ListedTokens(ctx context.Context, contract string) ([]ListedToken, error) {
	return c.listedTokens(ctx, contract, "", nil, make(map[string]struct{}), 0)
}

func (c *Client) listedTokens(ctx context.Context, contract, continuation string, acc []ListedToken, seen map[string]struct{}, page int) ([]ListedToken, error) {
	q := url.Values{
		"collection": {contract},
		"sortBy":     {"floorAskPrice"},
		"limit":      {fmt.Sprintf("%d", pageSize)},
	}
	if continuation != "" {
		q.Set("continuation", continuation)
	}

	var resp tokensResponse
	if err := c.get(ctx, pathTokens, q, &resp); err != nil {
		return nil, err
	}
	for _, t := range resp.Tokens {
		if _, ok := seen[t.Token.TokenID]; ok {
			continue
		}
		seen[t.Token.TokenID] = struct{}{}
		acc = append(acc, t)
	}

	if resp.Continuation == "" || resp.Continuation == continuation {
		return acc, nil
	}
	if page+1 >= maxTokenPages {
		xzap.WithContext(ctx).Warn("listed tokens truncated",
			zap.String("contract", contract), zap.Int("pages", page+1))
		return acc, nil
	}
	return c.listedTokens(ctx, contract, resp.Continuation, acc, seen, page+1)
}

// Asks 单个 token 当前有效的卖单
func (c *Client) Asks(ctx context.Context, contract, tokenID string) ([]Ask, error) {
	var resp asksResponse
	q := url.Values{
		"token":  {contract + ":" + tokenID},
		"status": {"active"},
	}
	if err := c.get(ctx, pathAsks, q, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + q.Encode()
	return utils.Retry(ctx, "reservoir "+path, c.retries+1, retryInterval, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(apiKeyHeader, c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.Wrap(err, "failed on request reservoir")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return errors.Errorf("reservoir %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "failed on decode reservoir response")
	})
}
