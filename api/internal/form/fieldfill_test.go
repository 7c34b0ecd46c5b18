package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startFilling gets an image session into the filling stage with the standard
// two-field list.
func startFilling(t *testing.T, o *Orchestrator, b *fakeBackend, chatID int64) *Session {
	t.Helper()
	s := uploadImage(t, o, b, chatID)
	o.Handle(context.Background(), chatID, Event{Kind: EvContinue})
	require.Equal(t, ConvFilling, s.Conv)
	return s
}

func TestRecordingStagesTranscriptForConfirmation(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 21)
	b.transcript = "Ana Ahmed"

	fx := o.Handle(ctx, 21, Event{Kind: EvRecording, Data: []byte("opus")})
	assert.Equal(t, 1, b.calls["SpeechToText"])
	assert.Equal(t, ConvConfirm, s.Conv)
	assert.Equal(t, "Ana Ahmed", s.Pending)
	c, ok := firstOfKind(fx, FxAskConfirm)
	require.True(t, ok)
	assert.Contains(t, c.Text, "Ana Ahmed")
	assert.Empty(t, s.FormData, "nothing committed before confirmation")
}

func TestConfirmCommitsLiteralAndAdvances(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 22)
	b.transcript = "Ana Ahmed"
	o.Handle(ctx, 22, Event{Kind: EvRecording})

	fx := o.Handle(ctx, 22, Event{Kind: EvConfirm})
	assert.Equal(t, "Ana Ahmed", s.FormData["name_field"])
	assert.Empty(t, s.Pending)
	assert.Equal(t, 1, s.FieldIndex, "confirm advances exactly one field")
	assert.Equal(t, ConvFilling, s.Conv)
	assert.True(t, hasKind(fx, FxPreview))
}

func TestSkipWordAdvancesWithoutConfirmation(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 23)
	b.transcript = "skip"

	fx := o.Handle(ctx, 23, Event{Kind: EvRecording})
	assert.Equal(t, 1, s.FieldIndex)
	assert.Empty(t, s.Pending)
	assert.False(t, hasKind(fx, FxAskConfirm))
	assert.NotContains(t, s.FormData, "name_field")
}

func TestCheckboxConfirmStoresBooleanNotTranscript(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 24)
	o.Handle(ctx, 24, Event{Kind: EvSkip}) // move to the checkbox field

	b.transcript = "نعم"
	fx := o.Handle(ctx, 24, Event{Kind: EvRecording})
	assert.Equal(t, ConvConfirm, s.Conv)
	c, ok := firstOfKind(fx, FxAskConfirm)
	require.True(t, ok)
	assert.NotContains(t, c.Text, "نعم", "checkbox confirmations show the state, not the words")

	o.Handle(ctx, 24, Event{Kind: EvConfirm})
	assert.Equal(t, true, s.FormData["agree_field"])
}

func TestRetryDiscardsTranscriptAndRepeatsField(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 25)
	b.transcript = "Ana"
	o.Handle(ctx, 25, Event{Kind: EvRecording})

	fx := o.Handle(ctx, 25, Event{Kind: EvRetry})
	assert.Empty(t, s.Pending)
	assert.Equal(t, ConvFilling, s.Conv)
	assert.Equal(t, 0, s.FieldIndex, "retry stays on the same field")
	p, ok := firstOfKind(fx, FxPromptField)
	require.True(t, ok)
	assert.Equal(t, "name_field", p.Field.ID)
	assert.Empty(t, s.FormData)
}

func TestEmptyTranscriptKeepsAwaitingInput(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 26)
	b.transcript = "   "

	fx := o.Handle(ctx, 26, Event{Kind: EvRecording})
	assert.True(t, hasKind(fx, FxError))
	assert.Equal(t, ConvFilling, s.Conv)
	assert.Equal(t, 0, s.FieldIndex)
}

func TestSTTErrorKeepsAwaitingInput(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 27)
	b.sttErr = assert.AnError

	fx := o.Handle(ctx, 27, Event{Kind: EvRecording})
	assert.True(t, hasKind(fx, FxError))
	assert.Equal(t, ConvFilling, s.Conv)
	assert.Empty(t, s.Pending)
}

func TestTypedValueOnCheckboxCommitsBoolean(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 28)
	o.Handle(ctx, 28, Event{Kind: EvSkip})

	o.Handle(ctx, 28, Event{Kind: EvTyped, Text: "yes"})
	assert.Equal(t, true, s.FormData["agree_field"])

	o.Handle(ctx, 28, Event{Kind: EvTyped, Text: "absolutely not"})
	assert.Equal(t, false, s.FormData["agree_field"])
}

func TestConfirmOutsideConfirmationStageIsIgnored(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	s := startFilling(t, o, b, 29)
	o.Handle(ctx, 29, Event{Kind: EvConfirm})
	assert.Equal(t, 0, s.FieldIndex)
	assert.Empty(t, s.FormData)
}

func TestVoiceInputOnSignatureFieldIsRejected(t *testing.T) {
	b := newFakeBackend()
	o := newTestOrch(b)
	ctx := context.Background()

	b.check = CheckFileResult{SessionID: "img-sig", QualityGood: true}
	b.analyze = AnalyzeFormResult{Fields: []FieldSpec{
		{ID: "sig", Label: "Signature", Type: FieldText},
	}}
	o.Handle(ctx, 30, Event{Kind: EvUpload, Filename: "form.jpg"})
	o.Handle(ctx, 30, Event{Kind: EvContinue})

	fx := o.Handle(ctx, 30, Event{Kind: EvRecording, Data: []byte("opus")})
	assert.True(t, hasKind(fx, FxWarn))
	assert.Equal(t, 0, b.calls["SpeechToText"], "signature fields never transcribe")
}
