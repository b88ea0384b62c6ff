package style

// Resolve turns loose style, colour and stroke descriptions into Params.
// A positive strokeWidth overrides the preset width; the stroke style always
// follows the final width.
func Resolve(styleText, colorText string, strokeWidth float64) Params {
	preset := ParseStyle(styleText)

	width := preset.Stroke
	if strokeWidth > 0 {
		width = strokeWidth
	}

	return Params{
		Type:      preset.Type,
		Color:     Color{Primary: ParseColor(colorText), Background: "white"},
		Stroke:    Stroke{Width: width},
		Modifiers: preset.Modifiers,
		Quality:   preset.Quality,
	}.Normalize()
}

// Compile produces the prompt item for the subject at index within a batch.
// It is a pure function of its arguments.
func Compile(subjectText string, params Params, baseSeed int64, index int) PromptItem {
	subject := ParseSubject(subjectText)
	return PromptItem{
		Subject: subject.Original,
		Prompt:  BuildPrompt(subject, params),
		Seed:    GenerateSeed(subject.English, baseSeed+int64(index)),
	}
}
