package form

import (
	"context"

	"form-bot/api/internal/export"
	"form-bot/api/internal/metrics"
)

// startImage runs the image intake: quality check first, then wait for an
// explicit continue. A poor quality score is surfaced but never blocks.
func (o *Orchestrator) startImage(ctx context.Context, chatID int64, ev Event, voice bool, fx *[]Effect) {
	res, err := o.backend.CheckFile(ctx, ev.Filename, ev.Data)
	if err != nil {
		// No session is created; the user re-uploads to retry.
		fail(fx, err.Error())
		return
	}

	s := newSession(DocImage, ev.Filename, ev.Data, voice)
	s.SessionID = res.SessionID
	if res.Direction != "" {
		s.Dir = res.Direction
	}
	s.QualityGood = res.QualityGood
	s.QualityMessage = res.QualityMessage
	s.Explanation = res.FormExplanation
	s.Conv = ConvAwaitContinue
	o.store.Put(chatID, s)
	metrics.SessionsStarted.WithLabelValues(string(DocImage)).Inc()
	o.log.Info().Str("session", s.ID).Str("backend_session", s.SessionID).Msg("image session started")

	if !s.QualityGood {
		msg := s.QualityMessage
		if msg == "" {
			msg = Prompt(s.Dir, "poor_quality", nil)
		}
		warn(fx, msg)
		say(fx, s, msg, false)
	}
	if s.Explanation != "" {
		info(fx, s.Explanation)
		say(fx, s, s.Explanation, false)
	}
	info(fx, Prompt(s.Dir, "ready_to_analyze", nil))
	*fx = append(*fx, Effect{Kind: FxOfferContinue})
}

func (o *Orchestrator) handleImageEvent(ctx context.Context, chatID int64, s *Session, ev Event, fx *[]Effect) {
	switch ev.Kind {
	case EvContinue:
		if s.Conv != ConvAwaitContinue {
			return
		}
		o.analyzeImage(ctx, s, fx)
	case EvRecording, EvTyped, EvCheckbox, EvSave, EvSkip, EvConfirm, EvRetry:
		o.handleFieldEvent(ctx, s, ev, fx)
	case EvExportPNG:
		if s.Conv != ConvReview {
			return
		}
		o.exportImage(ctx, chatID, s, "filled_form.png", "image/png", false, fx)
	case EvExportPDF:
		if s.Conv != ConvReview {
			return
		}
		o.exportImage(ctx, chatID, s, "filled_form.pdf", "application/pdf", true, fx)
	default:
		o.log.Debug().Str("session", s.ID).Int("event", int(ev.Kind)).Msg("event ignored in image flow")
	}
}

func (o *Orchestrator) analyzeImage(ctx context.Context, s *Session, fx *[]Effect) {
	msg := Prompt(s.Dir, "analyzing_form", nil)
	info(fx, msg)
	say(fx, s, msg, false)

	res, err := o.backend.AnalyzeForm(ctx, s.Filename, s.Original, s.SessionID, s.Dir)
	if err != nil {
		// Stays in await_continue; continue acts as the retry affordance.
		fail(fx, err.Error())
		return
	}
	if res.Direction != "" {
		s.Dir = res.Direction
	}
	s.resetFields(res.Fields)
	s.Conv = ConvFilling
	o.promptField(ctx, s, fx)
}

// exportImage yields the final artifact. The PDF variant is derived locally
// from the rendered PNG; the snapshot itself always comes from the backend.
func (o *Orchestrator) exportImage(ctx context.Context, chatID int64, s *Session, name, mime string, asPDF bool, fx *[]Effect) {
	if s.Preview == nil {
		o.refreshPreview(ctx, s, fx)
	}
	if s.Preview == nil {
		return // refreshPreview already surfaced the warning
	}
	data := s.Preview
	if asPDF {
		pdf, err := export.ImageToPDF(data)
		if err != nil {
			fail(fx, err.Error())
			return
		}
		data = pdf
	}
	*fx = append(*fx, Effect{Kind: FxFile, Name: name, Mime: mime, Data: data})
	info(fx, Prompt(s.Dir, "download_success", nil))
	metrics.SessionsCompleted.WithLabelValues(string(DocImage)).Inc()
	o.Cleanup(ctx, s)
	o.store.Delete(chatID)
}
