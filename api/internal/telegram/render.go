package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"form-bot/api/internal/form"
)

// render plays back one pass's effects in order. Plain text effects are
// buffered so that a following offer can attach its keyboard to them instead
// of producing a second message.
func (r *Router) render(ctx context.Context, cid int64, fx []form.Effect) {
	d := r.dir(cid)
	var pending string

	flush := func() {
		if pending != "" {
			r.send(cid, pending)
			pending = ""
		}
	}
	hold := func(text string) {
		flush()
		pending = text
	}

	for _, e := range fx {
		switch e.Kind {
		case form.FxInfo:
			hold(e.Text)
		case form.FxWarn:
			hold("⚠️ " + e.Text)
		case form.FxError:
			hold("❌ " + e.Text)

		case form.FxOfferContinue:
			r.sendWithKb(cid, take(&pending, e.Text), continueKb(d))
		case form.FxOfferExplain:
			r.sendWithKb(cid, take(&pending, ""), explainKb(d, e.Page))
		case form.FxOfferNext:
			r.sendWithKb(cid, take(&pending, ""), nextPageKb(d))
		case form.FxOfferAnalyze:
			r.sendWithKb(cid, take(&pending, ""), analyzeKb(d))
		case form.FxOfferFinishPage:
			r.sendWithKb(cid, take(&pending, ""), finishPageKb(d))
		case form.FxOfferExport:
			r.sendWithKb(cid, take(&pending, ""), exportKb(d))
		case form.FxOfferDownload:
			r.sendWithKb(cid, take(&pending, ""), downloadKb(d))

		case form.FxPromptField:
			flush()
			text := e.Text
			if e.Field != nil && e.Field.Type == form.FieldText && !form.IsSignatureLabel(e.Field.Label) {
				text += "\n" + form.Prompt(d, "or_type_prompt", nil)
			}
			r.sendWithKb(cid, text, fieldKb(d, e.Field))
		case form.FxAskConfirm:
			flush()
			r.sendWithKb(cid, e.Text+"\n"+form.Prompt(d, "confirmation_prompt", nil), confirmKb(d))

		case form.FxPreview:
			flush()
			photo := tgbotapi.NewPhoto(cid, tgbotapi.FileBytes{Name: "preview.png", Bytes: e.Data})
			if _, err := r.Bot.Send(photo); err != nil {
				r.Log.Warn().Err(err).Int64("chat", cid).Msg("preview send failed")
			}
		case form.FxFile:
			flush()
			doc := tgbotapi.NewDocument(cid, tgbotapi.FileBytes{Name: e.Name, Bytes: e.Data})
			if _, err := r.Bot.Send(doc); err != nil {
				r.Log.Warn().Err(err).Int64("chat", cid).Msg("file send failed")
			}

		case form.FxSay:
			r.speak(ctx, cid, e.Text)
		}
	}
	flush()
}

// take consumes the buffered text if present, else falls back.
func take(pending *string, fallback string) string {
	if *pending != "" {
		t := *pending
		*pending = ""
		return t
	}
	return fallback
}

func (r *Router) sendWithKb(cid int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if text == "" {
		text = "👇"
	}
	msg := tgbotapi.NewMessage(cid, text)
	msg.ReplyMarkup = markup
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warn().Err(err).Int64("chat", cid).Msg("send keyboard failed")
	}
}

// speak synthesizes the guidance line and plays it as a voice note. Failures
// never break the pass; the text was already shown.
func (r *Router) speak(ctx context.Context, cid int64, text string) {
	if r.Proc == nil {
		return
	}
	wav, err := r.Proc.TextToSpeech(ctx, text)
	if err != nil {
		r.Log.Warn().Err(err).Msg("speech synthesis failed")
		return
	}
	audio := tgbotapi.NewAudio(cid, tgbotapi.FileBytes{Name: "guidance.wav", Bytes: wav})
	if _, err := r.Bot.Send(audio); err != nil {
		r.Log.Warn().Err(err).Int64("chat", cid).Msg("audio send failed")
	}
}
