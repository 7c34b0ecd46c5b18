package form

import "context"

// CheckFileResult is the intake response for an image upload.
type CheckFileResult struct {
	SessionID       string
	QualityGood     bool
	QualityMessage  string
	FormExplanation string
	Direction       Direction
	ImageWidth      int
	ImageHeight     int
}

// AnalyzeFormResult carries the detected fields for an image document.
type AnalyzeFormResult struct {
	Fields      []FieldSpec
	Direction   Direction
	ImageWidth  int
	ImageHeight int
}

// ExploreResult is the intake response for a multi-page PDF upload.
type ExploreResult struct {
	SessionID  string
	TotalPages int
	Filename   string
	Message    string
	Stage      string
}

// ExplainResult is one page's explanation.
type ExplainResult struct {
	Explanation string
	Direction   Direction
}

// Backend is the document-processing collaborator. All calls are synchronous;
// a call either returns a result, a non-success response error, or a
// transport error — the orchestrator never retries on its own.
type Backend interface {
	CheckFile(ctx context.Context, filename string, data []byte) (CheckFileResult, error)
	AnalyzeForm(ctx context.Context, filename string, data []byte, sessionID string, dir Direction) (AnalyzeFormResult, error)

	ExplorePDF(ctx context.Context, filename string, data []byte) (ExploreResult, error)
	ExplainPage(ctx context.Context, sessionID string, page int) (ExplainResult, error)
	AnalyzePage(ctx context.Context, sessionID string, page int) (AnalysisResult, error)
	FillPage(ctx context.Context, sessionID string, page int, values map[string]any, signature []byte, signatureField string) ([]byte, error)
	DownloadFilledPDF(ctx context.Context, sessionID string) ([]byte, error)

	AnnotateImage(ctx context.Context, original []byte, values map[string]any, fields []FieldSpec, signature []byte, signatureField string) ([]byte, error)

	SpeechToText(ctx context.Context, audio []byte, langCode string) (string, error)
	TextToSpeech(ctx context.Context, text string) ([]byte, error)

	DeleteSession(ctx context.Context, sessionID string) error
	DeletePDFSession(ctx context.Context, sessionID string) error
}
