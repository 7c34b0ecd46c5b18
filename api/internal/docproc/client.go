// Package docproc is the HTTP client for the document-processing backend:
// quality checks, field detection, page explanation/analysis, annotation,
// and the speech endpoints. The bot never interprets documents itself.
package docproc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"form-bot/api/internal/form"
	"form-bot/api/internal/metrics"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// do executes a request, counts it, and returns the raw body. A non-2xx
// response becomes an error carrying the backend's own message.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	metrics.BackendRequests.WithLabelValues(op).Inc()
	started := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.BackendErrors.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendErrors.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	c.log.Debug().Str("op", op).Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendErrors.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) postMultipart(ctx context.Context, op, path string, build func(w *multipart.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, op)
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op)
}

func writeFilePart(w *multipart.Writer, field, filename string, data []byte) error {
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func direction(s string) form.Direction {
	if s == string(form.DirLTR) {
		return form.DirLTR
	}
	if s == string(form.DirRTL) {
		return form.DirRTL
	}
	return ""
}

// CheckFile runs the image intake quality check.
func (c *Client) CheckFile(ctx context.Context, filename string, data []byte) (form.CheckFileResult, error) {
	body, err := c.postMultipart(ctx, "check-file", "/form/check-file", func(w *multipart.Writer) error {
		return writeFilePart(w, "file", filename, data)
	})
	if err != nil {
		return form.CheckFileResult{}, err
	}
	var raw struct {
		SessionID           string `json:"session_id"`
		QualityGood         bool   `json:"quality_good"`
		QualityMessage      string `json:"quality_message"`
		FormExplanation     string `json:"form_explanation"`
		LanguageDirection   string `json:"language_direction"`
		RecommendedLanguage string `json:"recommended_language"`
		ImageWidth          int    `json:"image_width"`
		ImageHeight         int    `json:"image_height"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return form.CheckFileResult{}, fmt.Errorf("check-file: decode: %w", err)
	}
	dir := direction(raw.LanguageDirection)
	if dir == "" {
		dir = direction(raw.RecommendedLanguage)
	}
	return form.CheckFileResult{
		SessionID:       raw.SessionID,
		QualityGood:     raw.QualityGood,
		QualityMessage:  raw.QualityMessage,
		FormExplanation: raw.FormExplanation,
		Direction:       dir,
		ImageWidth:      raw.ImageWidth,
		ImageHeight:     raw.ImageHeight,
	}, nil
}

// AnalyzeForm detects the fillable fields of an image document.
func (c *Client) AnalyzeForm(ctx context.Context, filename string, data []byte, sessionID string, dir form.Direction) (form.AnalyzeFormResult, error) {
	body, err := c.postMultipart(ctx, "analyze-form", "/form/analyze-form", func(w *multipart.Writer) error {
		if err := writeFilePart(w, "file", filename, data); err != nil {
			return err
		}
		if err := w.WriteField("session_id", sessionID); err != nil {
			return err
		}
		return w.WriteField("language_direction", string(dir))
	})
	if err != nil {
		return form.AnalyzeFormResult{}, err
	}
	var raw struct {
		Fields            []form.FieldSpec `json:"fields"`
		LanguageDirection string           `json:"language_direction"`
		ImageWidth        int              `json:"image_width"`
		ImageHeight       int              `json:"image_height"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return form.AnalyzeFormResult{}, fmt.Errorf("analyze-form: decode: %w", err)
	}
	return form.AnalyzeFormResult{
		Fields:      raw.Fields,
		Direction:   direction(raw.LanguageDirection),
		ImageWidth:  raw.ImageWidth,
		ImageHeight: raw.ImageHeight,
	}, nil
}

// ExplorePDF opens a backend session for a multi-page PDF.
func (c *Client) ExplorePDF(ctx context.Context, filename string, data []byte) (form.ExploreResult, error) {
	body, err := c.postMultipart(ctx, "explore-pdf", "/form/explore-pdf", func(w *multipart.Writer) error {
		return writeFilePart(w, "file", filename, data)
	})
	if err != nil {
		return form.ExploreResult{}, err
	}
	var raw struct {
		SessionID  string `json:"session_id"`
		TotalPages int    `json:"total_pages"`
		Filename   string `json:"filename"`
		Message    string `json:"message"`
		Stage      string `json:"stage"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return form.ExploreResult{}, fmt.Errorf("explore-pdf: decode: %w", err)
	}
	return form.ExploreResult{
		SessionID:  raw.SessionID,
		TotalPages: raw.TotalPages,
		Filename:   raw.Filename,
		Message:    raw.Message,
		Stage:      raw.Stage,
	}, nil
}

// ExplainPage fetches the narrated explanation for one page.
func (c *Client) ExplainPage(ctx context.Context, sessionID string, page int) (form.ExplainResult, error) {
	body, err := c.postMultipart(ctx, "explain-pdf-page", "/form/explain-pdf-page", func(w *multipart.Writer) error {
		if err := w.WriteField("session_id", sessionID); err != nil {
			return err
		}
		return w.WriteField("page_number", strconv.Itoa(page))
	})
	if err != nil {
		return form.ExplainResult{}, err
	}
	var raw struct {
		Explanation       string `json:"explanation"`
		LanguageDirection string `json:"language_direction"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return form.ExplainResult{}, fmt.Errorf("explain-pdf-page: decode: %w", err)
	}
	return form.ExplainResult{
		Explanation: raw.Explanation,
		Direction:   direction(raw.LanguageDirection),
	}, nil
}

// AnalyzePage detects the fillable fields of one PDF page.
func (c *Client) AnalyzePage(ctx context.Context, sessionID string, page int) (form.AnalysisResult, error) {
	body, err := c.postMultipart(ctx, "analyze-pdf-page", "/form/analyze-pdf-page", func(w *multipart.Writer) error {
		if err := w.WriteField("session_id", sessionID); err != nil {
			return err
		}
		return w.WriteField("page_number", strconv.Itoa(page))
	})
	if err != nil {
		return form.AnalysisResult{}, err
	}
	var res form.AnalysisResult
	if err := json.Unmarshal(body, &res); err != nil {
		return form.AnalysisResult{}, fmt.Errorf("analyze-pdf-page: decode: %w", err)
	}
	return res, nil
}

// FillPage renders one page with the collected values and returns the page
// snapshot. The same call serves both the live preview and the page commit.
func (c *Client) FillPage(ctx context.Context, sessionID string, page int, values map[string]any, signature []byte, signatureField string) ([]byte, error) {
	texts, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("fill-pdf-page: %w", err)
	}
	return c.postMultipart(ctx, "fill-pdf-page", "/form/fill-pdf-page", func(w *multipart.Writer) error {
		if err := w.WriteField("session_id", sessionID); err != nil {
			return err
		}
		if err := w.WriteField("page_number", strconv.Itoa(page)); err != nil {
			return err
		}
		if err := w.WriteField("texts_dict", string(texts)); err != nil {
			return err
		}
		sig := ""
		if len(signature) > 0 {
			sig = base64.StdEncoding.EncodeToString(signature)
		}
		if err := w.WriteField("signature_image_b64", sig); err != nil {
			return err
		}
		return w.WriteField("signature_field_id", signatureField)
	})
}

// AnnotateImage renders the original image with the collected values drawn in.
func (c *Client) AnnotateImage(ctx context.Context, original []byte, values map[string]any, fields []form.FieldSpec, signature []byte, signatureField string) ([]byte, error) {
	payload := map[string]any{
		"original_image_b64": base64.StdEncoding.EncodeToString(original),
		"texts_dict":         values,
		"ui_fields":          fields,
	}
	if len(signature) > 0 {
		payload["signature_image_b64"] = base64.StdEncoding.EncodeToString(signature)
		payload["signature_field_id"] = signatureField
	}
	return c.postJSON(ctx, "annotate-image", "/form/annotate-image", payload)
}

// DownloadFilledPDF fetches the assembled multi-page result.
func (c *Client) DownloadFilledPDF(ctx context.Context, sessionID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/form/download-filled-pdf/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("download-filled-pdf: %w", err)
	}
	return c.do(req, "download-filled-pdf")
}

// SpeechToText transcribes a finished recording.
func (c *Client) SpeechToText(ctx context.Context, audio []byte, langCode string) (string, error) {
	body, err := c.postMultipart(ctx, "speech-to-text", "/document/speech-to-text", func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("audio", "audio.wav")
		if err != nil {
			return err
		}
		if _, err := part.Write(audio); err != nil {
			return err
		}
		return w.WriteField("language_code", langCode)
	})
	if err != nil {
		return "", err
	}
	var raw struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		// Some deployments answer with a bare string.
		var s string
		if err2 := json.Unmarshal(body, &s); err2 == nil {
			return s, nil
		}
		return "", fmt.Errorf("speech-to-text: decode: %w", err)
	}
	return raw.Text, nil
}

// TextToSpeech synthesizes guidance audio (WAV bytes).
func (c *Client) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	return c.postJSON(ctx, "text-to-speech", "/document/text-to-speech", map[string]string{
		"text":     text,
		"provider": "gemini",
	})
}

// DeleteSession releases an image session on the backend.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/form/session/"+sessionID, nil)
	if err != nil {
		return fmt.Errorf("delete-session: %w", err)
	}
	_, err = c.do(req, "delete-session")
	return err
}

// DeletePDFSession releases a PDF session on the backend.
func (c *Client) DeletePDFSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/form/pdf-session/"+sessionID, nil)
	if err != nil {
		return fmt.Errorf("delete-pdf-session: %w", err)
	}
	_, err = c.do(req, "delete-pdf-session")
	return err
}

var _ form.Backend = (*Client)(nil)
