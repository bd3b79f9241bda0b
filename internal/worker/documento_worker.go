package worker

// documento_worker.go
// Processes document jobs from QueueDocumentos: renders the PDF (with the
// AFIP QR verification footer) for an already-emitted comprobante, records
// the path, and optionally chains an email job. Fiscal authorization never
// happens here — a comprobante only reaches this queue already persisted,
// with its CAE (or as a deliberate local/presupuesto document).

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"facturador/internal/infra"
	"facturador/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DocumentoJobPayload is the job envelope sent to QueueDocumentos.
type DocumentoJobPayload struct {
	ComprobanteID string  `json:"comprobante_id"`
	Email         *string `json:"email,omitempty"`
}

type DocumentoWorker struct {
	repo           repository.ComprobanteRepository
	dispatcher     *Dispatcher
	emisor         infra.PDFEmisor
	pdfStoragePath string
}

func NewDocumentoWorker(
	repo repository.ComprobanteRepository,
	dispatcher *Dispatcher,
	emisor infra.PDFEmisor,
	pdfStoragePath string,
) *DocumentoWorker {
	return &DocumentoWorker{
		repo:           repo,
		dispatcher:     dispatcher,
		emisor:         emisor,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders and records the PDF for one comprobante:
//  1. Parse DocumentoJobPayload from the job envelope
//  2. Fetch the Comprobante (with items+contacto) from DB
//  3. Generate the PDF with retries (disk hiccups are transient)
//  4. Store pdf_path on the record
//  5. Optionally enqueue the email job
func (w *DocumentoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload DocumentoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("documento_worker: invalid payload")
		return
	}

	id, err := uuid.Parse(payload.ComprobanteID)
	if err != nil {
		log.Error().Str("comprobante_id", payload.ComprobanteID).Msg("documento_worker: invalid comprobante_id")
		return
	}

	comp, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("comprobante_id", payload.ComprobanteID).Msg("documento_worker: comprobante not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerarComprobantePDF(comp, w.emisor, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("comprobante_id", payload.ComprobanteID).
				Msg("documento_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		log.Error().Err(genErr).Str("comprobante_id", payload.ComprobanteID).Msg("documento_worker: PDF generation failed after all retries")
		return
	}

	if err := w.repo.UpdatePDFPath(ctx, id, pdfPath); err != nil {
		log.Error().Err(err).Str("comprobante_id", payload.ComprobanteID).Msg("documento_worker: failed to record pdf_path")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("comprobante_id", payload.ComprobanteID).Msg("documento_worker: PDF generated")

	if payload.Email != nil && *payload.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.Email,
			Subject: fmt.Sprintf("Comprobante %04d-%08d", comp.PuntoDeVenta, comp.Numero),
			Body:    fmt.Sprintf("Adjunto encontrarás tu comprobante.\nTotal: $%s", comp.MontoTotal.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.Email).Msg("documento_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
