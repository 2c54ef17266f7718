package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
)

type UpsertResult struct {
	Created int                  `json:"created"`
	Updated int                  `json:"updated"`
	Errors  []mirror.RecordError `json:"errors"`
}

func (r *UpsertResult) Merge(other UpsertResult) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Errors = append(r.Errors, other.Errors...)
}

func (r UpsertResult) Written() int {
	return r.Created + r.Updated
}

// UpsertWriter persists records one by one. A failing record is reported and skipped.
type UpsertWriter struct {
	validate *validator.Validate
}

func NewUpsertWriter(validate *validator.Validate) *UpsertWriter {
	if validate == nil {
		validate = NewValidator()
	}
	return &UpsertWriter{validate: validate}
}

// Write returns the partial result together with ctx.Err() when cancelled mid-batch.
func (w *UpsertWriter) Write(ctx context.Context, collection Collection, records []mirror.Record) (UpsertResult, error) {
	result := UpsertResult{Errors: []mirror.RecordError{}}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if record == nil {
			continue
		}

		id := record.NaturalID()
		if err := w.validate.StructCtx(ctx, record); err != nil {
			result.Errors = append(result.Errors, mirror.RecordError{ID: id, Reason: validationReason(err)})
			continue
		}

		created, err := collection.Save(ctx, record)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.Errors = append(result.Errors, mirror.RecordError{ID: id, Reason: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func validationReason(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return "invalid record: " + strings.Join(parts, ", ")
}
