package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"form-bot/api/internal/form"
)

func btn(label, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

func kb(rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func continueKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "continue_button", nil), cbContinue),
	))
}

func explainKb(d form.Direction, page int) tgbotapi.InlineKeyboardMarkup {
	label := form.Prompt(d, "pdf_explain_page_button", map[string]string{
		"page_number": strconv.Itoa(page),
	})
	return kb(tgbotapi.NewInlineKeyboardRow(btn(label, cbExplainPage)))
}

func nextPageKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "pdf_next_page", nil), cbNextPage),
	))
}

func analyzeKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "pdf_start_analysis", nil), cbStartAnalysis),
	))
}

func finishPageKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "pdf_finish_page", nil), cbFinishPage),
	))
}

func exportKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "download_png", nil), cbExportPNG),
		btn(form.Prompt(d, "download_pdf", nil), cbExportPDF),
	))
}

func downloadKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "pdf_download_filled", nil), cbDownloadPDF),
	))
}

func confirmKb(d form.Direction) tgbotapi.InlineKeyboardMarkup {
	return kb(tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "confirm_button", nil), cbConfirm),
		btn(form.Prompt(d, "retry_button", nil), cbRetry),
	))
}

// fieldKb builds the input affordances for one field. Checkboxes get explicit
// check/uncheck buttons; every field gets save and skip.
func fieldKb(d form.Direction, f *form.FieldSpec) tgbotapi.InlineKeyboardMarkup {
	saveSkip := tgbotapi.NewInlineKeyboardRow(
		btn(form.Prompt(d, "save_and_next_button", nil), cbSave),
		btn(form.Prompt(d, "skip_button", nil), cbSkip),
	)
	if f != nil && f.Type == form.FieldCheckbox {
		return kb(tgbotapi.NewInlineKeyboardRow(
			btn(form.Prompt(d, "checkbox_checked", nil), cbCheckYes),
			btn(form.Prompt(d, "checkbox_unchecked", nil), cbCheckNo),
		), saveSkip)
	}
	return kb(saveSkip)
}
