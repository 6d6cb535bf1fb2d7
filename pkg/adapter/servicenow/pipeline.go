package servicenow

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/jsonx"
	"github.com/ajitpratap0/ticketbridge/pkg/observability"
	"github.com/ajitpratap0/ticketbridge/pkg/ticket"
	"github.com/ajitpratap0/ticketbridge/pkg/transport"
)

// GetRecords reads the configured table and returns its records normalized,
// in the order the remote system returned them. Transport errors are
// propagated unchanged; a success response without a body is a payload error
// so the call always settles with either data or an explicit error.
func (a *Adapter) GetRecords(ctx context.Context) ([]ticket.ChangeTicket, error) {
	ctx, span := observability.StartSpan(ctx, "adapter.get_records",
		observability.String("adapter_id", a.id),
		observability.String("table", a.cfg.TableName))
	defer span.End()

	resp, err := a.connector.Get(ctx)
	if err != nil {
		span.RecordError(err)
		a.recordRequest("get", err)
		a.logger.Error("table read failed", zap.Error(err))
		return nil, err
	}

	if resp == nil || resp.Kind != transport.KindBody {
		err := errors.New(errors.ErrorTypePayload, "read response carried no body")
		span.RecordError(err)
		a.recordRequest("get", err)
		a.logger.Error("table read returned no payload")
		return nil, err
	}

	var envelope ticket.ListResponse
	if err := jsonx.Unmarshal(resp.Body, &envelope); err != nil {
		err := errors.Wrap(err, errors.ErrorTypeParse, "failed to parse read response body")
		span.RecordError(err)
		a.recordRequest("get", err)
		return nil, err
	}

	tickets := ticket.NormalizeAll(envelope.Result)
	a.recordRequest("get", nil)
	a.metrics.recordsRead.Add(int64(len(tickets)))
	span.SetAttributes(observability.Int("record_count", len(tickets)))
	a.logger.Debug("table read complete", zap.Int("records", len(tickets)))

	return tickets, nil
}

// PostRecord writes one record to the configured table and returns the
// created record normalized. A success response without a body yields the
// zero ticket and no error; every failure settles the call with an error.
func (a *Adapter) PostRecord(ctx context.Context, fields ticket.RawRecord) (ticket.ChangeTicket, error) {
	ctx, span := observability.StartSpan(ctx, "adapter.post_record",
		observability.String("adapter_id", a.id),
		observability.String("table", a.cfg.TableName))
	defer span.End()

	var body []byte
	if len(fields) > 0 {
		var err error
		body, err = jsonx.Marshal(fields)
		if err != nil {
			err := errors.Wrap(err, errors.ErrorTypeParse, "failed to serialize record fields")
			span.RecordError(err)
			a.recordRequest("post", err)
			return ticket.ChangeTicket{}, err
		}
	}

	resp, err := a.connector.Post(ctx, body)
	if err != nil {
		span.RecordError(err)
		a.recordRequest("post", err)
		a.logger.Error("table write failed", zap.Error(err))
		return ticket.ChangeTicket{}, err
	}

	if resp == nil || resp.Kind != transport.KindBody {
		// The remote accepted the write but echoed nothing back
		a.recordRequest("post", nil)
		a.metrics.recordsWritten.Add(1)
		a.logger.Debug("table write returned no payload")
		return ticket.ChangeTicket{}, nil
	}

	var envelope ticket.RecordResponse
	if err := jsonx.Unmarshal(resp.Body, &envelope); err != nil {
		err := errors.Wrap(err, errors.ErrorTypeParse, "failed to parse write response body")
		span.RecordError(err)
		a.recordRequest("post", err)
		return ticket.ChangeTicket{}, err
	}

	created := ticket.Normalize(envelope.Result)
	a.recordRequest("post", nil)
	a.metrics.recordsWritten.Add(1)
	a.logger.Debug("table write complete", zap.String("ticket_number", created.Number))

	return created, nil
}
