package commandRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"CommandCore/internal/api/command"
	"CommandCore/internal/entity"
	contextPkg "CommandCore/pkg/context"
)

const uniqueViolation = "23505"

type CommandLogDB struct {
	ID        sql.NullString  `db:"id"`
	RequestID sql.NullString  `db:"request_id"`
	Input     sql.NullString  `db:"input"`
	Operation sql.NullString  `db:"operation"`
	Arguments sql.NullString  `db:"arguments"`
	Score     sql.NullFloat64 `db:"score"`
	Reply     sql.NullString  `db:"reply"`
	Source    sql.NullInt16   `db:"source"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r *commandLogRepository) CreateCommandLog(ctx context.Context, cl entity.CommandLog) error {
	requestID := contextPkg.GetRequestID(ctx)

	argumentsJSON, err := jsoniter.Marshal(cl.Arguments)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal command arguments")
		return err
	}

	argsKV := map[string]interface{}{
		"id":         cl.ID,
		"request_id": cl.RequestID,
		"input":      cl.Input,
		"operation":  cl.Operation,
		"arguments":  string(argumentsJSON),
		"score":      cl.Score,
		"reply":      cl.Reply,
		"source":     int16(cl.Source),
		"created_at": cl.CreatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateCommandLog, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCommandLog")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         cl.ID,
			}).Warn("Command log already exists")
			return command.ErrCommandLogExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating command log")
		return err
	}

	return nil
}

func (r *commandLogRepository) GetCommandLogByID(ctx context.Context, id string) (entity.CommandLog, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var logDB CommandLogDB

	query, args, err := sqlx.Named(queryGetCommandLogByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandLogByID named query preparation err")
		return entity.CommandLog{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&logDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.CommandLog{}, command.ErrCommandLogNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandLogByID execution err")
		return entity.CommandLog{}, err
	}

	return r.makeCommandLog(logDB), nil
}

func (r *commandLogRepository) ListCommandLogs(ctx context.Context, filter ListFilter) ([]entity.CommandLog, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountCommandLogs, map[string]interface{}{
		"operation": filter.Operation,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountCommandLogs named query preparation err")
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountCommandLogs execution err")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryListCommandLogs, map[string]interface{}{
		"operation": filter.Operation,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListCommandLogs named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []CommandLogDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListCommandLogs execution err")
		return nil, 0, err
	}

	logs := make([]entity.CommandLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, r.makeCommandLog(row))
	}

	return logs, total, nil
}

func (r *commandLogRepository) makeCommandLog(row CommandLogDB) entity.CommandLog {
	cl := entity.CommandLog{
		ID:        row.ID.String,
		RequestID: row.RequestID.String,
		Input:     row.Input.String,
		Operation: row.Operation.String,
		Score:     row.Score.Float64,
		Reply:     row.Reply.String,
		Source:    entity.CommandSource(row.Source.Int16),
		CreatedAt: row.CreatedAt,
	}

	if row.Arguments.Valid && row.Arguments.String != "" {
		if err := jsoniter.UnmarshalFromString(row.Arguments.String, &cl.Arguments); err != nil {
			r.log.WithFields(logrus.Fields{
				"id":    cl.ID,
				"error": err.Error(),
			}).Warn("Failed to unmarshal command arguments")
		}
	}

	return cl
}
