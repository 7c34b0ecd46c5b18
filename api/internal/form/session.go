// Package form implements the conversation orchestrator that walks a user
// through filling an uploaded form field by field. All document intelligence
// (quality scoring, field detection, rendering, speech) lives in the backend
// collaborator; this package only owns the state machines.
package form

import (
	"github.com/google/uuid"
)

type DocKind string

const (
	DocImage DocKind = "image"
	DocPDF   DocKind = "pdf"
)

type Direction string

const (
	DirLTR Direction = "ltr"
	DirRTL Direction = "rtl"
)

// ConvStage is the per-field conversation sub-machine shared by both flows.
type ConvStage string

const (
	ConvIdle          ConvStage = ""
	ConvAwaitContinue ConvStage = "await_continue"
	ConvFilling       ConvStage = "filling_fields"
	ConvConfirm       ConvStage = "confirmation"
	ConvReview        ConvStage = "review"
)

// PDFStage is the five-stage machine for multi-page PDFs.
type PDFStage string

const (
	PDFNone     PDFStage = ""
	PDFExplain  PDFStage = "explain"
	PDFReady    PDFStage = "ready_for_analysis"
	PDFAnalyze  PDFStage = "analyze"
	PDFFill     PDFStage = "fill"
	PDFComplete PDFStage = "complete"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldCheckbox FieldType = "checkbox"
)

// FieldSpec is one detected input slot on the document. The wire name for the
// identifier is box_id, matching the backend's detection payload.
type FieldSpec struct {
	ID    string    `json:"box_id"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// AnalysisResult is the backend's verdict for one PDF page.
type AnalysisResult struct {
	HasFields   bool        `json:"has_fields"`
	FieldCount  int         `json:"field_count"`
	Fields      []FieldSpec `json:"fields"`
	HasNextPage bool        `json:"has_next_page"`
}

// PageState caches everything collected for one PDF page. Analysis is written
// at most once per visit; advancing past a filled page clears the next page's
// slot so it is re-analyzed fresh.
type PageState struct {
	Explanation string
	Spoken      bool
	Analysis    *AnalysisResult
	Filled      bool
}

// Session holds the full mutable state for one uploaded document. A chat has
// at most one Session; replacing the upload discards it wholesale.
type Session struct {
	ID   string // local correlation id for logs
	Kind DocKind
	Dir  Direction

	Conv ConvStage
	PDF  PDFStage

	Filename string
	Original []byte // uploaded bytes, kept for annotation calls

	SessionID    string // backend image session, exclusive with PDFSessionID
	PDFSessionID string

	QualityGood    bool
	QualityMessage string
	Explanation    string

	Fields     []FieldSpec
	FieldIndex int
	FormData   map[string]any // fieldID -> string or bool

	// Pending is the staged voice transcript; non-empty iff Conv == ConvConfirm.
	Pending string

	Signature      []byte
	SignatureField string

	Page       int
	TotalPages int
	Pages      map[int]*PageState

	// Preview is the most recent rendered snapshot.
	Preview []byte

	VoiceEnabled bool
}

func newSession(kind DocKind, filename string, original []byte, voice bool) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Kind:         kind,
		Dir:          DirRTL,
		Filename:     filename,
		Original:     original,
		FormData:     map[string]any{},
		Pages:        map[int]*PageState{},
		Page:         1,
		VoiceEnabled: voice,
	}
}

// CurrentField returns the field being filled, if the index is in range.
func (s *Session) CurrentField() (FieldSpec, bool) {
	if s.FieldIndex < 0 || s.FieldIndex >= len(s.Fields) {
		return FieldSpec{}, false
	}
	return s.Fields[s.FieldIndex], true
}

// LangCode maps the form's language direction to the STT language code.
func (s *Session) LangCode() string {
	if s.Dir == DirRTL {
		return "ar"
	}
	return "en"
}

func (s *Session) page(n int) *PageState {
	if p, ok := s.Pages[n]; ok {
		return p
	}
	p := &PageState{}
	s.Pages[n] = p
	return p
}

// resetFields clears page-local fill state before a new field list takes over.
func (s *Session) resetFields(fields []FieldSpec) {
	s.Fields = fields
	s.FieldIndex = 0
	s.FormData = map[string]any{}
	s.Pending = ""
}
