package dao

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// FindCollectionAttributes 集合的 trait 索引, 不存在时返回 nil
func (d *Dao) FindCollectionAttributes(ctx context.Context, contractAddress string) (*types.CollectionAttributes, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var attrs types.CollectionAttributes
	err := d.Mongo.Collection(filter.CollCollectionAttributes).
		FindOne(ctx, bson.D{{Key: "contractAddress", Value: contractAddress}},
			options.FindOne().SetCollation(filter.OwnerCollation)).
		Decode(&attrs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed on query collection attributes")
	}
	return &attrs, nil
}
