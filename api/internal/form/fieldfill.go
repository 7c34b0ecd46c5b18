package form

import (
	"context"
	"strings"

	"form-bot/api/internal/metrics"
)

// handleFieldEvent is the per-field sub-machine shared by both flows:
// prompt → await-input → {confirmation | direct-commit} → advance.
func (o *Orchestrator) handleFieldEvent(ctx context.Context, s *Session, ev Event, fx *[]Effect) {
	switch ev.Kind {
	case EvRecording:
		if s.Conv == ConvFilling {
			o.handleRecording(ctx, s, ev.Data, fx)
		}
	case EvTyped:
		if s.Conv == ConvFilling {
			o.handleTyped(ctx, s, ev.Text, fx)
		}
	case EvCheckbox:
		if s.Conv == ConvFilling {
			o.handleCheckbox(ctx, s, ev.Checked, fx)
		}
	case EvSave:
		// Commits whatever is staged; values land in FormData on change.
		if s.Conv == ConvFilling {
			if _, ok := s.CurrentField(); ok {
				o.advanceField(ctx, s, fx)
			}
		}
	case EvSkip:
		if s.Conv == ConvFilling {
			if _, ok := s.CurrentField(); ok {
				o.advanceField(ctx, s, fx)
			}
		}
	case EvConfirm:
		if s.Conv == ConvConfirm {
			o.handleConfirm(ctx, s, fx)
		}
	case EvRetry:
		if s.Conv == ConvConfirm {
			o.handleRetry(ctx, s, fx)
		}
	}
}

// handleRecording transcribes a finished voice recording and routes it by
// intent. Signature fields never take voice input; an empty transcript keeps
// the field in await-input with a retryable error.
func (o *Orchestrator) handleRecording(ctx context.Context, s *Session, audio []byte, fx *[]Effect) {
	f, ok := s.CurrentField()
	if !ok {
		return
	}
	if IsSignatureLabel(f.Label) {
		warn(fx, Prompt(s.Dir, "upload_signature_prompt", nil))
		return
	}

	transcript, err := o.backend.SpeechToText(ctx, audio, s.LangCode())
	if err != nil || strings.TrimSpace(transcript) == "" {
		metrics.TranscriptsRejected.Inc()
		if err != nil {
			o.log.Warn().Err(err).Str("session", s.ID).Msg("speech-to-text failed")
		}
		msg := Prompt(s.Dir, "stt_error", nil)
		fail(fx, msg)
		say(fx, s, msg, false)
		return
	}

	switch Classify(transcript, f.Type) {
	case IntentSkip:
		o.advanceField(ctx, s, fx)
	default:
		s.Pending = transcript
		s.Conv = ConvConfirm
		display := transcript
		if f.Type == FieldCheckbox {
			if IsAffirmative(transcript) {
				display = Prompt(s.Dir, "checkbox_checked", nil)
			} else {
				display = Prompt(s.Dir, "checkbox_unchecked", nil)
			}
		}
		heard := Prompt(s.Dir, "heard_you_say", map[string]string{"transcript": display})
		*fx = append(*fx, Effect{Kind: FxAskConfirm, Text: heard})
		say(fx, s, Prompt(s.Dir, "confirmation_prompt", nil), false)
	}
}

// handleTyped is the direct-commit path: the value lands in FormData
// immediately and refreshes the preview; save/skip end the field.
func (o *Orchestrator) handleTyped(ctx context.Context, s *Session, text string, fx *[]Effect) {
	f, ok := s.CurrentField()
	if !ok {
		return
	}
	if IsSignatureLabel(f.Label) {
		warn(fx, Prompt(s.Dir, "upload_signature_prompt", nil))
		return
	}
	if f.Type == FieldCheckbox {
		s.FormData[f.ID] = IsAffirmative(text)
	} else {
		s.FormData[f.ID] = text
	}
	o.refreshPreview(ctx, s, fx)
}

func (o *Orchestrator) handleCheckbox(ctx context.Context, s *Session, checked bool, fx *[]Effect) {
	f, ok := s.CurrentField()
	if !ok || f.Type != FieldCheckbox {
		return
	}
	s.FormData[f.ID] = checked
	o.refreshPreview(ctx, s, fx)
}

// handleConfirm commits the classified value: a boolean for checkboxes, the
// literal transcript otherwise. Never the raw transcript for checkboxes.
func (o *Orchestrator) handleConfirm(ctx context.Context, s *Session, fx *[]Effect) {
	f, ok := s.CurrentField()
	if !ok || s.Pending == "" {
		s.Pending = ""
		s.Conv = ConvFilling
		o.promptField(ctx, s, fx)
		return
	}
	if f.Type == FieldCheckbox {
		s.FormData[f.ID] = IsAffirmative(s.Pending)
	} else {
		s.FormData[f.ID] = s.Pending
	}
	s.Pending = ""
	s.Conv = ConvFilling
	o.refreshPreview(ctx, s, fx)
	o.advanceField(ctx, s, fx)
}

// handleRetry discards the transcript and re-prompts the same field.
func (o *Orchestrator) handleRetry(ctx context.Context, s *Session, fx *[]Effect) {
	s.Pending = ""
	s.Conv = ConvFilling
	say(fx, s, Prompt(s.Dir, "retry_prompt", nil), false)
	o.promptField(ctx, s, fx)
}
