// Package telegram is the display glue: it turns bot updates into orchestrator
// events and renders the resulting effects as messages, keyboards and files.
package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"form-bot/api/internal/docproc"
	"form-bot/api/internal/form"
)

// Callback payloads for the inline keyboards.
const (
	cbContinue      = "continue"
	cbExplainPage   = "explain_page"
	cbNextPage      = "next_page"
	cbStartAnalysis = "start_analysis"
	cbSave          = "save"
	cbSkip          = "skip"
	cbConfirm       = "confirm"
	cbRetry         = "retry"
	cbCheckYes      = "check_yes"
	cbCheckNo       = "check_no"
	cbFinishPage    = "finish_page"
	cbExportPNG     = "export_png"
	cbExportPDF     = "export_pdf"
	cbDownloadPDF   = "download_pdf"
)

type Router struct {
	Bot  *tgbotapi.BotAPI
	Orch *form.Orchestrator
	Proc *docproc.Client // speech synthesis for FxSay
	Log  zerolog.Logger
}

// HandleUpdate processes one Telegram update synchronously; the bot loop
// feeds updates one at a time, which keeps session passes strictly
// sequential.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	if msg.IsCommand() {
		r.handleCommand(ctx, *msg)
		return
	}

	switch {
	case msg.Document != nil:
		data, err := r.fetchFile(msg.Document.FileID)
		if err != nil {
			r.sendError(cid, err)
			return
		}
		r.dispatch(ctx, cid, form.Event{
			Kind:     form.EvUpload,
			Filename: msg.Document.FileName,
			Data:     data,
			Mime:     msg.Document.MimeType,
		})
	case len(msg.Photo) > 0:
		ph := msg.Photo[len(msg.Photo)-1]
		data, err := r.fetchFile(ph.FileID)
		if err != nil {
			r.sendError(cid, err)
			return
		}
		r.dispatch(ctx, cid, form.Event{Kind: form.EvUpload, Filename: "photo.jpg", Data: data})
	case msg.Voice != nil:
		data, err := r.fetchFile(msg.Voice.FileID)
		if err != nil {
			r.sendError(cid, err)
			return
		}
		r.dispatch(ctx, cid, form.Event{Kind: form.EvRecording, Data: data})
	case msg.Text != "":
		r.dispatch(ctx, cid, form.Event{Kind: form.EvTyped, Text: msg.Text})
	}
}

func (r *Router) handleCommand(ctx context.Context, msg tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.send(cid, "أهلاً بك! أرسل صورة أو ملف PDF للنموذج وسأساعدك في تعبئته حقلاً حقلاً.\n"+
			"Send a form image or PDF and I will guide you through filling it field by field.\n"+
			"Commands: /voice, /health")
	case "health":
		r.send(cid, "✅ OK")
	case "voice":
		on := !r.Orch.Store().VoiceEnabled(cid)
		r.dispatch(ctx, cid, form.Event{Kind: form.EvVoiceToggle, Enabled: on})
		if !on {
			r.send(cid, "🔇 Voice guidance disabled")
		}
	default:
		r.send(cid, "Unknown command. Available: /start, /voice, /health")
	}
}

func (r *Router) handleCallback(ctx context.Context, cb tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack

	// Retire the pressed keyboard so stale buttons don't pile up.
	edit := tgbotapi.NewEditMessageReplyMarkup(cid, cb.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	_, _ = r.Bot.Send(edit)

	var ev form.Event
	switch cb.Data {
	case cbContinue:
		ev = form.Event{Kind: form.EvContinue}
	case cbExplainPage:
		ev = form.Event{Kind: form.EvExplainPage}
	case cbNextPage:
		ev = form.Event{Kind: form.EvNextPage}
	case cbStartAnalysis:
		ev = form.Event{Kind: form.EvStartAnalysis}
	case cbSave:
		ev = form.Event{Kind: form.EvSave}
	case cbSkip:
		ev = form.Event{Kind: form.EvSkip}
	case cbConfirm:
		ev = form.Event{Kind: form.EvConfirm}
	case cbRetry:
		ev = form.Event{Kind: form.EvRetry}
	case cbCheckYes:
		ev = form.Event{Kind: form.EvCheckbox, Checked: true}
	case cbCheckNo:
		ev = form.Event{Kind: form.EvCheckbox, Checked: false}
	case cbFinishPage:
		ev = form.Event{Kind: form.EvFinishPage}
	case cbExportPNG:
		ev = form.Event{Kind: form.EvExportPNG}
	case cbExportPDF:
		ev = form.Event{Kind: form.EvExportPDF}
	case cbDownloadPDF:
		ev = form.Event{Kind: form.EvDownloadPDF}
	default:
		r.Log.Debug().Str("data", cb.Data).Msg("unknown callback")
		return
	}
	r.dispatch(ctx, cid, ev)
}

func (r *Router) dispatch(ctx context.Context, cid int64, ev form.Event) {
	fx := r.Orch.Handle(ctx, cid, ev)
	r.render(ctx, cid, fx)
}

// dir resolves the active session's language direction for button labels.
func (r *Router) dir(cid int64) form.Direction {
	if s, ok := r.Orch.Store().Get(cid); ok {
		return s.Dir
	}
	return form.DirRTL
}

func (r *Router) send(cid int64, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if len(text) > 3900 {
		text = text[:3900] + "…"
	}
	msg := tgbotapi.NewMessage(cid, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warn().Err(err).Int64("chat", cid).Msg("send failed")
	}
}

func (r *Router) sendError(cid int64, err error) {
	r.send(cid, "❌ "+err.Error())
}
