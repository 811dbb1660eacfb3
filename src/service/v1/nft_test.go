package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/errcode"
	"github.com/ProjectsTask/EasySwapExplorer/src/config"
	"github.com/ProjectsTask/EasySwapExplorer/src/dao"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

const contract = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestCheckNftParams(t *testing.T) {
	cases := []struct {
		name   string
		params types.NftQueryParams
		ok     bool
	}{
		{"empty", types.NftQueryParams{}, true},
		{"contract", types.NftQueryParams{ContractAddress: contract, NftSort: types.NftSortTokenIDAsc}, true},
		{"bad address", types.NftQueryParams{ContractAddress: "0x123"}, false},
		{"bad token type", types.NftQueryParams{TokenType: "ERC20"}, false},
		{"bad side", types.NftQueryParams{Side: "HOLD"}, false},
		{"bad price", types.NftQueryParams{MinPrice: "one"}, false},
		{"token ids", types.NftQueryParams{TokenIDs: "1, 2,3"}, true},
		{"bad token ids", types.NftQueryParams{TokenIDs: "1,a"}, false},
		{"bad order sort", types.NftQueryParams{OrderSort: "cheapest"}, false},
		{"two sorts", types.NftQueryParams{NftSort: types.NftSortTokenIDAsc, OrderSort: types.OrderSortLowestPrice}, false},
		{"last page", types.NftQueryParams{Page: types.MaxPage}, true},
		{"page too large", types.NftQueryParams{Page: types.MaxPage + 1}, false},
		{"history and order sort", types.NftQueryParams{HistorySort: types.HistorySortRecentlyMinted, OrderSort: types.OrderSortEndingSoon}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckNftParams(c.params)
			if c.ok {
				assert.NoError(t, err)
				return
			}
			var e *errcode.Err
			require.True(t, errors.As(err, &e))
			assert.Equal(t, errcode.CodeInvalidParams, e.Code)
		})
	}
}

// newTestServerCtx 策略配置错误在访问存储之前返回, Dao 不需要连接
func newTestServerCtx(t *testing.T) *svc.ServerCtx {
	t.Helper()
	c := &config.Config{Query: config.QueryCfg{DefaultLimit: 20, MaxLimit: 100, OrderSource: config.OrderSourceLocal}}
	d := dao.New(context.Background(), nil, nil, nil, dao.Options{})
	engine, err := svc.NewEngine(c, d)
	require.NoError(t, err)
	return svc.NewServerCtx(svc.WithDao(d), svc.WithEngine(engine))
}

func TestStrategyErrorsAreInvalidParams(t *testing.T) {
	svcCtx := newTestServerCtx(t)
	ctx := context.Background()

	_, err := QueryNfts(ctx, svcCtx, types.NftQueryParams{Page: 3})
	var e *errcode.Err
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errcode.CodeInvalidParams, e.Code)

	_, err = CountNfts(ctx, svcCtx, types.NftQueryParams{HistorySort: types.HistorySortRecentlyTransferred})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errcode.CodeInvalidParams, e.Code)
	assert.Contains(t, e.Msg, "contractAddress")
}
