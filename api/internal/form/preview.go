package form

import (
	"context"

	"form-bot/api/internal/metrics"
)

// refreshPreview asks the backend for a freshly rendered snapshot reflecting
// the committed values and replaces the stored preview. Failure is non-fatal:
// the previous preview stays, a warning is surfaced, and field progression is
// never blocked.
func (o *Orchestrator) refreshPreview(ctx context.Context, s *Session, fx *[]Effect) {
	metrics.PreviewRefreshes.Inc()

	var (
		img []byte
		err error
	)
	if s.Kind == DocPDF && s.PDF == PDFFill {
		img, err = o.backend.FillPage(ctx, s.PDFSessionID, s.Page, s.FormData, s.Signature, s.SignatureField)
	} else {
		img, err = o.backend.AnnotateImage(ctx, s.Original, s.FormData, s.Fields, s.Signature, s.SignatureField)
	}
	if err != nil {
		o.log.Warn().Err(err).Str("session", s.ID).Msg("live preview update failed")
		warn(fx, Prompt(s.Dir, "preview_failed", nil))
		return
	}
	s.Preview = img
	*fx = append(*fx, Effect{Kind: FxPreview, Data: img})
}
