package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imageFields = []FieldSpec{
	{ID: "name_field", Label: "Full name", Type: FieldText},
	{ID: "agree_field", Label: "Agree to terms", Type: FieldCheckbox},
}

func uploadImage(t *testing.T, o *Orchestrator, b *fakeBackend, chatID int64) *Session {
	t.Helper()
	b.check = CheckFileResult{
		SessionID:       "img-1",
		QualityGood:     true,
		FormExplanation: "An application form",
		Direction:       DirLTR,
	}
	b.analyze = AnalyzeFormResult{Fields: imageFields, Direction: DirLTR}

	fx := o.Handle(context.Background(), chatID, Event{Kind: EvUpload, Filename: "form.jpg", Data: []byte{0xFF, 0xD8}})
	require.True(t, hasKind(fx, FxOfferContinue))

	s, ok := o.Store().Get(chatID)
	require.True(t, ok)
	require.Equal(t, ConvAwaitContinue, s.Conv)
	return s
}

func TestImageIntakeAndAnalyze(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := uploadImage(t, o, b, 1)
	assert.Equal(t, DocImage, s.Kind)
	assert.Equal(t, DirLTR, s.Dir)
	assert.Equal(t, "img-1", s.SessionID)

	fx := o.Handle(ctx, 1, Event{Kind: EvContinue})
	assert.Equal(t, 1, b.calls["AnalyzeForm"])
	assert.Equal(t, ConvFilling, s.Conv)

	p, ok := firstOfKind(fx, FxPromptField)
	require.True(t, ok)
	assert.Equal(t, "name_field", p.Field.ID)
}

func TestImagePoorQualityIsSurfacedNotBlocking(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	b.check = CheckFileResult{SessionID: "img-2", QualityGood: false, QualityMessage: "too blurry"}
	b.analyze = AnalyzeFormResult{Fields: imageFields}

	fx := o.Handle(context.Background(), 2, Event{Kind: EvUpload, Filename: "blurry.jpg"})
	w, ok := firstOfKind(fx, FxWarn)
	require.True(t, ok)
	assert.Equal(t, "too blurry", w.Text)
	assert.True(t, hasKind(fx, FxOfferContinue), "continue offered despite poor quality")

	fx = o.Handle(context.Background(), 2, Event{Kind: EvContinue})
	assert.True(t, hasKind(fx, FxPromptField))
}

func TestImageCheckFileErrorCreatesNoSession(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	b.checkErr = assert.AnError

	fx := o.Handle(context.Background(), 3, Event{Kind: EvUpload, Filename: "form.jpg"})
	assert.True(t, hasKind(fx, FxError))
	_, ok := o.Store().Get(3)
	assert.False(t, ok)
}

func TestImageAnalyzeErrorKeepsContinueAsRetry(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	s := uploadImage(t, o, b, 4)

	b.analyzeErr = assert.AnError
	fx := o.Handle(context.Background(), 4, Event{Kind: EvContinue})
	assert.True(t, hasKind(fx, FxError))
	assert.Equal(t, ConvAwaitContinue, s.Conv)

	b.analyzeErr = nil
	fx = o.Handle(context.Background(), 4, Event{Kind: EvContinue})
	assert.True(t, hasKind(fx, FxPromptField))
	assert.Equal(t, 2, b.calls["AnalyzeForm"])
}

// Full walk: typed text, checkbox toggle, two saves, review, PNG export.
func TestImageFullFillAndExport(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := uploadImage(t, o, b, 5)
	o.Handle(ctx, 5, Event{Kind: EvContinue})

	fx := o.Handle(ctx, 5, Event{Kind: EvTyped, Text: "Ana"})
	assert.Equal(t, "Ana", s.FormData["name_field"])
	assert.True(t, hasKind(fx, FxPreview), "typed commit refreshes preview")

	o.Handle(ctx, 5, Event{Kind: EvSave})
	assert.Equal(t, 1, s.FieldIndex)

	o.Handle(ctx, 5, Event{Kind: EvCheckbox, Checked: true})
	assert.Equal(t, true, s.FormData["agree_field"])

	fx = o.Handle(ctx, 5, Event{Kind: EvSave})
	assert.Equal(t, ConvReview, s.Conv)
	assert.True(t, hasKind(fx, FxOfferExport))

	fx = o.Handle(ctx, 5, Event{Kind: EvExportPNG})
	f, ok := firstOfKind(fx, FxFile)
	require.True(t, ok)
	assert.Equal(t, "filled_form.png", f.Name)
	assert.Equal(t, tinyPNG, f.Data)

	assert.Equal(t, 1, b.calls["DeleteSession"], "export releases the backend session")
	_, live := o.Store().Get(5)
	assert.False(t, live, "session removed after export")
}

func TestImageExportPDFWrapsSnapshot(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	uploadImage(t, o, b, 6)
	o.Handle(ctx, 6, Event{Kind: EvContinue})
	o.Handle(ctx, 6, Event{Kind: EvSkip})
	o.Handle(ctx, 6, Event{Kind: EvSkip})

	fx := o.Handle(ctx, 6, Event{Kind: EvExportPDF})
	f, ok := firstOfKind(fx, FxFile)
	require.True(t, ok)
	assert.Equal(t, "filled_form.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.Mime)
	assert.Equal(t, "%PDF-", string(f.Data[:5]))
}

func TestReplacementUploadAbandonsSession(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	first := uploadImage(t, o, b, 7)
	o.Handle(ctx, 7, Event{Kind: EvUpload, Filename: "other.jpg"})

	second, ok := o.Store().Get(7)
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, b.calls["CheckFile"])
}

func TestSignatureUploadDuringSignatureField(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	b.check = CheckFileResult{SessionID: "img-7", QualityGood: true}
	b.analyze = AnalyzeFormResult{Fields: []FieldSpec{
		{ID: "sig_field", Label: "Signature", Type: FieldText},
	}}
	o.Handle(ctx, 8, Event{Kind: EvUpload, Filename: "form.jpg"})
	o.Handle(ctx, 8, Event{Kind: EvContinue})

	s, _ := o.Store().Get(8)
	fx := o.Handle(ctx, 8, Event{Kind: EvUpload, Filename: "sig.png", Data: []byte{0x89, 0x50}})

	assert.Equal(t, []byte{0x89, 0x50}, s.Signature)
	assert.Equal(t, "sig_field", s.SignatureField)
	assert.True(t, hasKind(fx, FxPreview))
	assert.Equal(t, 1, b.calls["CheckFile"], "signature upload must not start a new session")
}

func TestEventWithoutSession(t *testing.T) {
	o := newTestOrch(newFakeBackend())
	fx := o.Handle(context.Background(), 9, Event{Kind: EvSave})
	assert.True(t, hasKind(fx, FxError))
}
