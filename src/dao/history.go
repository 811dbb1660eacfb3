package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/config"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// FindHistory 按 token 聚合的转账历史, 按 historySort 倒序
// 数据来源由 history.source 决定: mongo 读 histories 集合, mysql 读索引服务的转账表
func (d *Dao) FindHistory(ctx context.Context, contract, historySort string) ([]types.HistoryEntry, error) {
	if d.opts.HistorySource == config.HistorySourceMySQL {
		return d.findHistorySQL(ctx, contract, historySort)
	}

	entries, err := aggregate[types.HistoryEntry](ctx, d.Mongo.Collection(filter.CollHistories),
		filter.BuildHistoryPipeline(contract, historySort), filter.OwnerCollation)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query transfer history")
	}
	return entries, nil
}

// TransferTableName 转账表名, 按链分表
func TransferTableName(chain string) string {
	return fmt.Sprintf("ob_transfer_%s", chain)
}

// transferRow 转账表按 token 聚合后的一行, 时间为秒级时间戳
type transferRow struct {
	CollectionAddress string `gorm:"column:collection_address"`
	TokenID           string `gorm:"column:token_id"`
	LastBlock         int64  `gorm:"column:last_block"`
	MintedAt          int64  `gorm:"column:minted_at"`
	LastTransferAt    int64  `gorm:"column:last_transfer_at"`
}

// findHistorySQL MySQL 版本的转账历史聚合
// SQL逻辑:
// SELECT collection_address, token_id, MAX(block_number), MIN(event_time), MAX(event_time)
// FROM {transfer_table} WHERE collection_address = ?
// GROUP BY collection_address, token_id
// ORDER BY {minted_at|last_transfer_at} DESC, last_block DESC, token_id ASC
func (d *Dao) findHistorySQL(ctx context.Context, contract, historySort string) ([]types.HistoryEntry, error) {
	if d.DB == nil {
		return nil, errors.New("mysql history source is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	order := "last_transfer_at DESC"
	if historySort == types.HistorySortRecentlyMinted {
		order = "minted_at DESC"
	}

	var rows []transferRow
	if err := d.DB.WithContext(ctx).
		Table(TransferTableName(d.opts.Chain)).
		Select("collection_address, token_id, MAX(block_number) AS last_block, "+
			"MIN(event_time) AS minted_at, MAX(event_time) AS last_transfer_at").
		Where("collection_address = ?", strings.ToLower(contract)).
		Group("collection_address, token_id").
		Order(order + ", last_block DESC, token_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query transfer history")
	}

	entries := make([]types.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, types.HistoryEntry{
			ContractAddress: r.CollectionAddress,
			TokenID:         r.TokenID,
			LastBlock:       r.LastBlock,
			MintedAt:        time.Unix(r.MintedAt, 0).UTC(),
			LastTransferAt:  time.Unix(r.LastTransferAt, 0).UTC(),
		})
	}
	return entries, nil
}
