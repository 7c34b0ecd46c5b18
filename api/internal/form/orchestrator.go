package form

import (
	"context"

	"github.com/rs/zerolog"

	"form-bot/api/internal/metrics"
	"form-bot/api/internal/util"
)

// Orchestrator drives every session through its flow. One external event is
// one synchronous pass: the event mutates the session, automatic progression
// runs to completion inside the same pass, and the resulting effects describe
// everything the frontend must render. Nothing survives a pass outside the
// session itself.
type Orchestrator struct {
	backend Backend
	store   *Store
	log     zerolog.Logger
}

func New(backend Backend, store *Store, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{backend: backend, store: store, log: log}
}

// Store exposes the session store, mainly for the frontend's read paths.
func (o *Orchestrator) Store() *Store { return o.store }

// Handle processes one event for one chat and returns the render effects.
func (o *Orchestrator) Handle(ctx context.Context, chatID int64, ev Event) []Effect {
	fx := make([]Effect, 0, 4)

	switch ev.Kind {
	case EvVoiceToggle:
		o.toggleVoice(chatID, ev.Enabled, &fx)
	case EvUpload:
		o.handleUpload(ctx, chatID, ev, &fx)
	default:
		s, ok := o.store.Get(chatID)
		if !ok {
			fail(&fx, Prompt(DirRTL, "upload_first", nil))
			return fx
		}
		if s.Kind == DocPDF {
			o.handlePDFEvent(ctx, chatID, s, ev, &fx)
		} else {
			o.handleImageEvent(ctx, chatID, s, ev, &fx)
		}
	}
	return fx
}

func (o *Orchestrator) toggleVoice(chatID int64, on bool, fx *[]Effect) {
	o.store.SetVoiceEnabled(chatID, on)
	s, ok := o.store.Get(chatID)
	if ok {
		s.VoiceEnabled = on
	}
	if on {
		dir := DirRTL
		if ok {
			dir = s.Dir
		}
		msg := Prompt(dir, "voice_enabled", nil)
		info(fx, msg)
		if ok {
			say(fx, s, msg, true)
		}
	}
}

// handleUpload is the intake dispatcher: it decides between the signature
// path (an image arriving while a signature field is active), the image flow
// and the PDF flow. A replacement upload abandons the existing session
// wholesale; the backend side is not released, which is a known gap inherited
// from the product behavior.
func (o *Orchestrator) handleUpload(ctx context.Context, chatID int64, ev Event, fx *[]Effect) {
	isPDF := util.IsPDF(ev.Filename, ev.Data)

	if s, ok := o.store.Get(chatID); ok {
		if !isPDF && s.Conv == ConvFilling {
			if f, live := s.CurrentField(); live && IsSignatureLabel(f.Label) {
				o.commitSignature(ctx, s, f, ev.Data, fx)
				return
			}
		}
		o.log.Info().Str("session", s.ID).Msg("session abandoned by replacement upload")
		metrics.SessionsAbandoned.Inc()
		o.store.Delete(chatID)
	}

	voice := o.store.VoiceEnabled(chatID)
	if isPDF {
		o.startPDF(ctx, chatID, ev, voice, fx)
	} else {
		o.startImage(ctx, chatID, ev, voice, fx)
	}
}

func (o *Orchestrator) commitSignature(ctx context.Context, s *Session, f FieldSpec, data []byte, fx *[]Effect) {
	s.Signature = data
	s.SignatureField = f.ID
	info(fx, Prompt(s.Dir, "signature_uploaded", nil))
	o.refreshPreview(ctx, s, fx)
}

// promptField emits the prompt for the current field, or moves the flow to
// its review stage when the index has run past the field list.
func (o *Orchestrator) promptField(ctx context.Context, s *Session, fx *[]Effect) {
	f, ok := s.CurrentField()
	if !ok {
		o.enterReview(ctx, s, fx)
		return
	}
	var prompt string
	if f.Type == FieldCheckbox {
		prompt = Prompt(s.Dir, "checkbox_prompt", map[string]string{"label": f.Label})
	} else {
		prompt = Prompt(s.Dir, "text_prompt", map[string]string{"label": f.Label})
	}
	*fx = append(*fx, Effect{Kind: FxPromptField, Text: prompt, Field: &f})
	say(fx, s, prompt, false)
	if IsSignatureLabel(f.Label) {
		info(fx, Prompt(s.Dir, "upload_signature_prompt", nil))
	}
}

// advanceField is the single place the field index moves forward. Leaving the
// confirmation stage by any path clears the staged transcript.
func (o *Orchestrator) advanceField(ctx context.Context, s *Session, fx *[]Effect) {
	s.FieldIndex++
	s.Pending = ""
	s.Conv = ConvFilling
	o.promptField(ctx, s, fx)
}

func (o *Orchestrator) enterReview(ctx context.Context, s *Session, fx *[]Effect) {
	s.Conv = ConvReview
	s.Pending = ""
	if s.Kind == DocPDF {
		*fx = append(*fx, Effect{Kind: FxOfferFinishPage, Page: s.Page})
		return
	}
	msg := Prompt(s.Dir, "review_prompt", nil)
	info(fx, msg)
	say(fx, s, msg, false)
	if s.Preview == nil {
		o.refreshPreview(ctx, s, fx)
	}
	*fx = append(*fx, Effect{Kind: FxOfferExport})
}
