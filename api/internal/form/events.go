package form

// EventKind identifies one external action. Every user interaction (upload,
// button press, finished recording, typed value) becomes exactly one Event,
// and every Event is handled in one synchronous pass.
type EventKind int

const (
	EvUpload EventKind = iota
	EvContinue
	EvExplainPage
	EvNextPage
	EvStartAnalysis
	EvRecording
	EvTyped
	EvCheckbox
	EvSave
	EvSkip
	EvConfirm
	EvRetry
	EvFinishPage
	EvExportPNG
	EvExportPDF
	EvDownloadPDF
	EvVoiceToggle
)

type Event struct {
	Kind EventKind

	// Upload / recording / signature payload.
	Filename string
	Data     []byte
	Mime     string

	// Typed text value.
	Text string

	// Checkbox state.
	Checked bool

	// Voice toggle state.
	Enabled bool
}
