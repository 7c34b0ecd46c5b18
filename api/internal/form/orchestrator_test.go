package form

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"

	"github.com/rs/zerolog"
)

// tinyPNG is a real 1x1 PNG; local PDF wrapping parses the preview bytes, so
// the fake must hand back something decodable.
var tinyPNG = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// fakeBackend scripts every collaborator call and counts invocations so tests
// can assert how many network round-trips a pass would have cost.
type fakeBackend struct {
	check      CheckFileResult
	checkErr   error
	analyze    AnalyzeFormResult
	analyzeErr error

	explore      ExploreResult
	exploreErr   error
	explanations map[int]string
	pageAnalysis map[int]AnalysisResult
	pageErr      map[int]error

	transcript string
	sttErr     error

	fillErr      error
	annotateErr  error
	deleteErr    error
	deletePDFErr error

	calls map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		explanations: map[int]string{},
		pageAnalysis: map[int]AnalysisResult{},
		pageErr:      map[int]error{},
		calls:        map[string]int{},
	}
}

func (b *fakeBackend) CheckFile(_ context.Context, _ string, _ []byte) (CheckFileResult, error) {
	b.calls["CheckFile"]++
	return b.check, b.checkErr
}

func (b *fakeBackend) AnalyzeForm(_ context.Context, _ string, _ []byte, _ string, _ Direction) (AnalyzeFormResult, error) {
	b.calls["AnalyzeForm"]++
	return b.analyze, b.analyzeErr
}

func (b *fakeBackend) ExplorePDF(_ context.Context, _ string, _ []byte) (ExploreResult, error) {
	b.calls["ExplorePDF"]++
	return b.explore, b.exploreErr
}

func (b *fakeBackend) ExplainPage(_ context.Context, _ string, page int) (ExplainResult, error) {
	b.calls["ExplainPage"]++
	return ExplainResult{Explanation: b.explanations[page]}, nil
}

func (b *fakeBackend) AnalyzePage(_ context.Context, _ string, page int) (AnalysisResult, error) {
	b.calls["AnalyzePage"]++
	if err := b.pageErr[page]; err != nil {
		return AnalysisResult{}, err
	}
	a, ok := b.pageAnalysis[page]
	if !ok {
		return AnalysisResult{}, errors.New("no script for page")
	}
	return a, nil
}

func (b *fakeBackend) FillPage(_ context.Context, _ string, _ int, _ map[string]any, _ []byte, _ string) ([]byte, error) {
	b.calls["FillPage"]++
	if b.fillErr != nil {
		return nil, b.fillErr
	}
	return tinyPNG, nil
}

func (b *fakeBackend) DownloadFilledPDF(_ context.Context, _ string) ([]byte, error) {
	b.calls["DownloadFilledPDF"]++
	return []byte("%PDF-1.7 filled"), nil
}

func (b *fakeBackend) AnnotateImage(_ context.Context, _ []byte, _ map[string]any, _ []FieldSpec, _ []byte, _ string) ([]byte, error) {
	b.calls["AnnotateImage"]++
	if b.annotateErr != nil {
		return nil, b.annotateErr
	}
	return tinyPNG, nil
}

func (b *fakeBackend) SpeechToText(_ context.Context, _ []byte, _ string) (string, error) {
	b.calls["SpeechToText"]++
	return b.transcript, b.sttErr
}

func (b *fakeBackend) TextToSpeech(_ context.Context, _ string) ([]byte, error) {
	b.calls["TextToSpeech"]++
	return []byte("RIFF"), nil
}

func (b *fakeBackend) DeleteSession(_ context.Context, _ string) error {
	b.calls["DeleteSession"]++
	return b.deleteErr
}

func (b *fakeBackend) DeletePDFSession(_ context.Context, _ string) error {
	b.calls["DeletePDFSession"]++
	return b.deletePDFErr
}

func newTestOrch(b Backend) *Orchestrator {
	return New(b, NewStore(), zerolog.Nop())
}

func hasKind(fx []Effect, k EffectKind) bool {
	for _, e := range fx {
		if e.Kind == k {
			return true
		}
	}
	return false
}

func firstOfKind(fx []Effect, k EffectKind) (Effect, bool) {
	for _, e := range fx {
		if e.Kind == k {
			return e, true
		}
	}
	return Effect{}, false
}
