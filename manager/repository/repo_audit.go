package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gthulhu/erp/manager/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (r *repo) CreateAuditLog(ctx context.Context, log *domain.AuditLog) error {
	if log == nil {
		return errors.New("nil audit log")
	}
	if log.ID.IsZero() {
		log.ID = bson.NewObjectID()
	}
	if log.Timestamp == 0 {
		log.Timestamp = time.Now().UnixMilli()
	}
	_, err := r.db.Collection(auditLogCollection).InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("create audit log, err: %w", err)
	}
	return nil
}

// QueryAuditLogs returns matching entries newest first.
func (r *repo) QueryAuditLogs(ctx context.Context, opt *domain.QueryAuditLogOptions) error {
	if opt == nil {
		return domain.ErrNilQueryInput
	}

	filter := bson.M{}
	timeRange := bson.M{}
	if opt.TimestampGTE > 0 {
		timeRange["$gte"] = opt.TimestampGTE
	}
	if opt.TimestampLTE > 0 {
		timeRange["$lte"] = opt.TimestampLTE
	}
	if len(timeRange) > 0 {
		filter["timestamp"] = timeRange
	}
	if len(opt.UserIDs) > 0 {
		filter["user_id"] = bson.M{"$in": opt.UserIDs}
	}
	if opt.AllowedOnly != nil {
		filter["allowed"] = *opt.AllowedOnly
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opt.Limit > 0 {
		findOpts.SetLimit(opt.Limit)
	}
	cursor, err := r.db.Collection(auditLogCollection).Find(ctx, filter, findOpts)
	if err != nil {
		return fmt.Errorf("find audit logs, err: %w", err)
	}

	var result []*domain.AuditLog
	if err := cursor.All(ctx, &result); err != nil {
		return fmt.Errorf("decode audit logs, err: %w", err)
	}
	opt.Result = result
	return nil
}
