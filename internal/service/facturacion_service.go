package service

import (
	"context"
	"fmt"

	"facturador/internal/repository"

	"github.com/google/uuid"
)

// FacturacionService exposes the generated document artifacts of a voucher.
type FacturacionService interface {
	ObtenerPDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type facturacionService struct {
	repo repository.ComprobanteRepository
}

func NewFacturacionService(repo repository.ComprobanteRepository) FacturacionService {
	return &facturacionService{repo: repo}
}

// ObtenerPDFPath returns the filesystem path of a generated PDF
// (GET /v1/facturacion/pdf/:id). The PDF is produced asynchronously after
// emission, so a freshly created comprobante may not have one yet.
func (s *facturacionService) ObtenerPDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	comp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("comprobante no encontrado")
	}
	if comp.PDFPath == nil || *comp.PDFPath == "" {
		return "", fmt.Errorf("PDF no disponible — el comprobante está en estado '%s'", comp.Estado)
	}
	return *comp.PDFPath, nil
}
