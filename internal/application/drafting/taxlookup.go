package drafting

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-simulada/internal/domain"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
	"github.com/jhoicas/facturacion-simulada/internal/domain/invoicing"
	"github.com/jhoicas/facturacion-simulada/pkg/metrics"
)

// countingLookup cuenta las consultas de tarifa que terminarán en 0%.
type countingLookup struct {
	inner invoicing.TaxRateLookup
}

func (c countingLookup) TaxRateByID(ctx context.Context, id string) (*entity.TaxRate, error) {
	rate, err := c.inner.TaxRateByID(ctx, id)
	if err != nil {
		metrics.TaxRateLookupFailures.Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrTaxRateLookupFailed, err)
	}
	if rate == nil {
		metrics.TaxRateLookupFailures.Inc()
	}
	return rate, nil
}
