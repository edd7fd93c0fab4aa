package letters

import "fmt"

// Length styles accepted by the prompt builder.
const (
	LengthOneParagraph = "one-paragraph"
	LengthMedium       = "2-3 paragraphs"
	LengthLong         = "3-5 paragraphs"
)

// Format styles accepted by the prompt builder.
const (
	FormatReferralBlurb = "blurb for referral"
	FormatChatMessage   = "Short message in chat"
	FormatFormalLetter  = "Formal cover letter"
)

// PromptInput carries everything the prompt template needs. Highlights is a
// comma-separated list.
type PromptInput struct {
	Resume      string `json:"resume"`
	JD          string `json:"jd"`
	Highlights  string `json:"highlights,omitempty"`
	LengthStyle string `json:"length_style,omitempty"`
	FormatStyle string `json:"format_style,omitempty"`
}

// normalize applies the UI defaults and rejects unknown style values.
func (in *PromptInput) normalize() error {
	switch in.LengthStyle {
	case "":
		in.LengthStyle = LengthMedium
	case LengthOneParagraph, LengthMedium, LengthLong:
	default:
		return fmt.Errorf("%w: length %q", ErrUnknownStyle, in.LengthStyle)
	}

	switch in.FormatStyle {
	case "":
		in.FormatStyle = FormatReferralBlurb
	case FormatReferralBlurb, FormatChatMessage, FormatFormalLetter:
	default:
		return fmt.Errorf("%w: format %q", ErrUnknownStyle, in.FormatStyle)
	}

	return nil
}
