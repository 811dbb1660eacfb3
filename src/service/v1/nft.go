package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/errcode"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/strategy"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// QueryNfts NFT 分页查询
// 1. 校验参数及排序互斥
// 2. 按参数组选择策略并执行
func QueryNfts(ctx context.Context, svcCtx *svc.ServerCtx, params types.NftQueryParams) (*types.PagedResult, error) {
	if err := CheckNftParams(params); err != nil {
		return nil, err
	}
	res, err := svcCtx.Engine.NewContext(params).Query(ctx)
	if err != nil {
		return nil, toErrCode(err, "failed on query nfts")
	}
	return res, nil
}

// CountNfts 与 QueryNfts 过滤条件一致的结果总数
func CountNfts(ctx context.Context, svcCtx *svc.ServerCtx, params types.NftQueryParams) (*types.CountResult, error) {
	if err := CheckNftParams(params); err != nil {
		return nil, err
	}
	res, err := svcCtx.Engine.NewContext(params).Count(ctx)
	if err != nil {
		return nil, toErrCode(err, "failed on count nfts")
	}
	return res, nil
}

// CheckNftParams 字段校验, 以及 nftSort/orderSort/historySort 至多指定一个
func CheckNftParams(params types.NftQueryParams) error {
	if err := utils.Verify(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errcode.NewInvalidParamsErr("invalid " + verrs[0].Field())
		}
		return errcode.ErrInvalidParams
	}

	sorts := 0
	for _, s := range []string{params.NftSort, params.OrderSort, params.HistorySort} {
		if s != "" {
			sorts++
		}
	}
	if sorts > 1 {
		return errcode.NewInvalidParamsErr("nftSort, orderSort and historySort are mutually exclusive")
	}
	return nil
}

// toErrCode 策略配置错误视为参数错误, 其余错误原样包装
func toErrCode(err error, msg string) error {
	switch {
	case errors.Is(err, strategy.ErrNoStrategy),
		errors.Is(err, strategy.ErrUnknownAction),
		errors.Is(err, strategy.ErrHistoryContract):
		return errcode.NewInvalidParamsErr(errors.Cause(err).Error())
	}
	return errors.Wrap(err, msg)
}
