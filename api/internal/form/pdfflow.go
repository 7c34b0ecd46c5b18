package form

import (
	"context"
	"strconv"
	"strings"

	"form-bot/api/internal/metrics"
)

// startPDF runs the PDF intake (explore) and parks the flow at the first
// page's explanation step.
func (o *Orchestrator) startPDF(ctx context.Context, chatID int64, ev Event, voice bool, fx *[]Effect) {
	res, err := o.backend.ExplorePDF(ctx, ev.Filename, ev.Data)
	if err != nil {
		fail(fx, err.Error())
		return
	}

	s := newSession(DocPDF, ev.Filename, ev.Data, voice)
	s.PDFSessionID = res.SessionID
	s.TotalPages = res.TotalPages
	if res.Filename != "" {
		s.Filename = res.Filename
	}
	s.PDF = PDFExplain
	o.store.Put(chatID, s)
	metrics.SessionsStarted.WithLabelValues(string(DocPDF)).Inc()
	o.log.Info().Str("session", s.ID).Str("backend_session", s.PDFSessionID).
		Int("pages", s.TotalPages).Msg("pdf session started")

	if res.Message != "" {
		info(fx, res.Message)
		say(fx, s, res.Message, false)
	}
	info(fx, Prompt(s.Dir, "pdf_explain_stage", nil))
	*fx = append(*fx, Effect{Kind: FxOfferExplain, Page: s.Page})
}

func (o *Orchestrator) handlePDFEvent(ctx context.Context, chatID int64, s *Session, ev Event, fx *[]Effect) {
	switch ev.Kind {
	case EvExplainPage:
		if s.PDF != PDFExplain {
			return
		}
		o.explainCurrentPage(ctx, s, fx)
	case EvNextPage:
		if s.PDF != PDFExplain {
			return
		}
		if s.Page < s.TotalPages {
			s.Page++
		}
		if s.page(s.Page).Explanation != "" {
			o.explainCurrentPage(ctx, s, fx)
		} else {
			*fx = append(*fx, Effect{Kind: FxOfferExplain, Page: s.Page})
		}
	case EvStartAnalysis:
		o.startAnalysis(ctx, s, fx)
	case EvRecording, EvTyped, EvCheckbox, EvSave, EvSkip, EvConfirm, EvRetry:
		if s.PDF != PDFFill {
			return
		}
		o.handleFieldEvent(ctx, s, ev, fx)
	case EvFinishPage:
		if s.PDF != PDFFill || s.Conv != ConvReview {
			return
		}
		o.finishPage(ctx, s, fx)
	case EvDownloadPDF:
		if s.PDF != PDFComplete {
			return
		}
		o.downloadFilled(ctx, chatID, s, fx)
	default:
		o.log.Debug().Str("session", s.ID).Int("event", int(ev.Kind)).Msg("event ignored in pdf flow")
	}
}

// explainCurrentPage fetches the page explanation once and replays the cache
// afterwards. The explanation is spoken at most once per page.
func (o *Orchestrator) explainCurrentPage(ctx context.Context, s *Session, fx *[]Effect) {
	p := s.page(s.Page)
	if p.Explanation == "" {
		res, err := o.backend.ExplainPage(ctx, s.PDFSessionID, s.Page)
		if err != nil {
			fail(fx, err.Error())
			return
		}
		p.Explanation = res.Explanation
		if res.Direction != "" {
			s.Dir = res.Direction
		}
	}
	info(fx, p.Explanation)
	if !p.Spoken {
		say(fx, s, p.Explanation, false)
		p.Spoken = true
	}
	if s.Page < s.TotalPages {
		*fx = append(*fx, Effect{Kind: FxOfferNext, Page: s.Page + 1})
	} else {
		*fx = append(*fx, Effect{Kind: FxOfferAnalyze})
	}
}

// startAnalysis carries the explicit two-step transition out of the
// explanation stage, and doubles as the retry trigger when an analyze call
// failed mid-loop.
func (o *Orchestrator) startAnalysis(ctx context.Context, s *Session, fx *[]Effect) {
	switch s.PDF {
	case PDFExplain:
		s.PDF = PDFReady
		s.Page = 1
		info(fx, Prompt(s.Dir, "pdf_all_explained", nil))
		info(fx, Prompt(s.Dir, "pdf_analyze_stage", nil))
		*fx = append(*fx, Effect{Kind: FxOfferAnalyze})
	case PDFReady:
		s.PDF = PDFAnalyze
		s.Page = 1
		o.analyzeLoop(ctx, s, fx)
	case PDFAnalyze:
		o.analyzeLoop(ctx, s, fx)
	}
}

// analyzeLoop walks pages sequentially until fields are found, every page is
// exhausted, or a backend call fails. A page with a cached analysis replays
// the cached decision without a second backend call; a page with no fields is
// skipped without any user interaction.
func (o *Orchestrator) analyzeLoop(ctx context.Context, s *Session, fx *[]Effect) {
	for s.PDF == PDFAnalyze {
		if s.Page > s.TotalPages {
			s.PDF = PDFComplete
			break
		}
		p := s.page(s.Page)
		if p.Analysis == nil {
			msg := Prompt(s.Dir, "pdf_analyzing_page", map[string]string{
				"page_number": strconv.Itoa(s.Page),
				"total_pages": strconv.Itoa(s.TotalPages),
			})
			info(fx, msg)
			say(fx, s, msg, false)

			res, err := o.backend.AnalyzePage(ctx, s.PDFSessionID, s.Page)
			if err != nil {
				fail(fx, err.Error())
				*fx = append(*fx, Effect{Kind: FxOfferAnalyze})
				return
			}
			p.Analysis = &res
		}

		a := p.Analysis
		if a.HasFields {
			info(fx, Prompt(s.Dir, "pdf_fields_found", map[string]string{
				"field_count": strconv.Itoa(a.FieldCount),
				"page_number": strconv.Itoa(s.Page),
			}))
			s.resetFields(a.Fields)
			s.PDF = PDFFill
			s.Conv = ConvFilling
			fill := Prompt(s.Dir, "pdf_filling_page", map[string]string{
				"page_number": strconv.Itoa(s.Page),
				"total_pages": strconv.Itoa(s.TotalPages),
			})
			info(fx, fill)
			say(fx, s, fill, false)
			o.promptField(ctx, s, fx)
			return
		}

		noFields := Prompt(s.Dir, "pdf_no_fields_page", nil)
		info(fx, noFields)
		say(fx, s, noFields, false)
		if a.HasNextPage {
			s.Page++
			continue
		}
		s.PDF = PDFComplete
	}
	if s.PDF == PDFComplete {
		o.offerDownload(s, fx)
	}
}

// finishPage commits the page's collected values, then either advances to the
// next page's analysis (with that page's stale cache cleared) or completes
// the flow.
func (o *Orchestrator) finishPage(ctx context.Context, s *Session, fx *[]Effect) {
	if _, err := o.backend.FillPage(ctx, s.PDFSessionID, s.Page, s.FormData, s.Signature, s.SignatureField); err != nil {
		fail(fx, err.Error())
		return
	}
	s.page(s.Page).Filled = true
	info(fx, Prompt(s.Dir, "pdf_page_filled", map[string]string{
		"page_number": strconv.Itoa(s.Page),
	}))

	if s.Page < s.TotalPages {
		next := s.Page + 1
		if ps, ok := s.Pages[next]; ok {
			ps.Analysis = nil
		}
		s.Page = next
		s.PDF = PDFAnalyze
		s.Conv = ConvIdle
		s.resetFields(nil)
		s.Preview = nil
		o.analyzeLoop(ctx, s, fx)
		return
	}
	s.PDF = PDFComplete
	s.Conv = ConvIdle
	o.offerDownload(s, fx)
}

func (o *Orchestrator) offerDownload(s *Session, fx *[]Effect) {
	msg := Prompt(s.Dir, "pdf_download_complete", nil)
	info(fx, msg)
	say(fx, s, msg, false)
	*fx = append(*fx, Effect{Kind: FxOfferDownload})
}

func (o *Orchestrator) downloadFilled(ctx context.Context, chatID int64, s *Session, fx *[]Effect) {
	data, err := o.backend.DownloadFilledPDF(ctx, s.PDFSessionID)
	if err != nil {
		fail(fx, err.Error())
		return
	}
	*fx = append(*fx, Effect{Kind: FxFile, Name: filledName(s.Filename), Mime: "application/pdf", Data: data})
	info(fx, Prompt(s.Dir, "download_success", nil))
	metrics.SessionsCompleted.WithLabelValues(string(DocPDF)).Inc()
	o.Cleanup(ctx, s)
	o.store.Delete(chatID)
}

// filledName appends the _filled suffix to the uploaded PDF's name, unless it
// already carries one.
func filledName(orig string) string {
	name := orig
	if name == "" {
		name = "filled_form.pdf"
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "_filled.pdf"):
		return name
	case strings.HasSuffix(lower, ".pdf"):
		return name[:len(name)-len(".pdf")] + "_filled.pdf"
	default:
		return name + "_filled.pdf"
	}
}
