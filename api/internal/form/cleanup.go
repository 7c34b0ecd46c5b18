package form

import (
	"context"

	"form-bot/api/internal/metrics"
)

// Cleanup releases whichever backend session id the session holds. Best
// effort by design: failures are counted and logged, never surfaced to the
// user. An absent id is a no-op, so calling it again after success costs
// nothing.
func (o *Orchestrator) Cleanup(ctx context.Context, s *Session) {
	if s.SessionID != "" {
		if err := o.backend.DeleteSession(ctx, s.SessionID); err != nil {
			metrics.CleanupFailures.Inc()
			o.log.Warn().Err(err).Str("session", s.ID).Msg("session cleanup failed")
		} else {
			s.SessionID = ""
		}
	}
	if s.PDFSessionID != "" {
		if err := o.backend.DeletePDFSession(ctx, s.PDFSessionID); err != nil {
			metrics.CleanupFailures.Inc()
			o.log.Warn().Err(err).Str("session", s.ID).Msg("pdf session cleanup failed")
		} else {
			s.PDFSessionID = ""
		}
	}
}
