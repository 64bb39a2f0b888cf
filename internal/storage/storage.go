package storage

import "volfee/internal/model"

// QuoteSink is a sink for computed fee quotes.
type QuoteSink interface {
	PutQuoteBatch(quotes []model.FeeQuote) error
}
