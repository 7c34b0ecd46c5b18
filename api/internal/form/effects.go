package form

// EffectKind identifies one render instruction produced by a pass. The
// frontend decides how each effect looks; the orchestrator only decides what
// must be shown, spoken, or offered.
type EffectKind int

const (
	// FxSay requests text-to-speech playback of Text.
	FxSay EffectKind = iota
	FxInfo
	FxWarn
	FxError
	// FxPromptField shows the prompt for the current field plus input
	// affordances (save/skip, checkbox toggles, signature upload hint).
	FxPromptField
	// FxAskConfirm shows the heard transcript with confirm/retry actions.
	FxAskConfirm
	FxOfferContinue
	FxOfferExplain
	FxOfferNext
	FxOfferAnalyze
	FxOfferFinishPage
	FxOfferExport
	FxOfferDownload
	// FxPreview carries the freshly rendered document snapshot.
	FxPreview
	// FxFile carries a final named artifact for download.
	FxFile
)

type Effect struct {
	Kind EffectKind

	Text  string
	Force bool // FxSay: bypass the voice toggle

	Field *FieldSpec // FxPromptField
	Page  int        // FxOfferExplain / FxOfferNext / FxOfferFinishPage

	Data []byte // FxPreview / FxFile
	Name string // FxFile
	Mime string // FxFile
}

func say(fx *[]Effect, s *Session, text string, force bool) {
	if text == "" {
		return
	}
	if !s.VoiceEnabled && !force {
		return
	}
	*fx = append(*fx, Effect{Kind: FxSay, Text: text, Force: force})
}

func info(fx *[]Effect, text string) { *fx = append(*fx, Effect{Kind: FxInfo, Text: text}) }
func warn(fx *[]Effect, text string) { *fx = append(*fx, Effect{Kind: FxWarn, Text: text}) }
func fail(fx *[]Effect, text string) { *fx = append(*fx, Effect{Kind: FxError, Text: text}) }
