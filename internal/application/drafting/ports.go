package drafting

import (
	"context"
	"time"

	"github.com/jhoicas/facturacion-simulada/internal/application/dto"
	"github.com/jhoicas/facturacion-simulada/internal/domain/entity"
)

// CatalogSource API remota vista por un borrador (productos, clientes, tarifas, envío).
type CatalogSource interface {
	ListProducts(ctx context.Context, customerID string) ([]entity.Product, error)
	SearchProducts(ctx context.Context, q dto.ProductSearchQuery) ([]entity.Product, error)
	ProductByID(ctx context.Context, id string) (*entity.Product, error)
	ListCustomers(ctx context.Context, vendorID string) ([]entity.Customer, error)
	CustomerName(ctx context.Context, id string) (string, bool)
	TaxRateByID(ctx context.Context, id string) (*entity.TaxRate, error)
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
}

// SourceFactory crea la fuente autenticada con el token de la sesión.
type SourceFactory func(token string) CatalogSource

// Snapshot catálogo cargado para un alcance (empresa, cliente).
type Snapshot struct {
	Products  []entity.Product  `json:"products"`
	Customers []entity.Customer `json:"customers"`
	LoadedAt  time.Time         `json:"loadedAt"`
}

// SnapshotCache almacena snapshots por clave de alcance.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*Snapshot, bool)
	Set(ctx context.Context, key string, snap *Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
