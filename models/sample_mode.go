package models

// SampleMode represents the depth of sampling to perform on a page.
type SampleMode int

const (
	// SampleModeMinimal captures page metadata only, no observations.
	SampleModeMinimal SampleMode = iota
	SampleModeInline             // Inline styles and <style> blocks
	SampleModeFull               // Inline plus linked stylesheets
)

var sampleModeNames = map[SampleMode]string{
	SampleModeMinimal: "minimal",
	SampleModeInline:  "inline",
	SampleModeFull:    "full",
}

func (m SampleMode) String() string {
	if s, ok := sampleModeNames[m]; ok {
		return s
	}
	return "full"
}

// ParseSampleMode maps a flag value onto a mode, defaulting to full
// sampling when the string is empty or unrecognized.
func ParseSampleMode(s string) SampleMode {
	switch s {
	case "minimal":
		return SampleModeMinimal
	case "inline":
		return SampleModeInline
	default:
		return SampleModeFull
	}
}

// SampleRequest describes one page to sample.
type SampleRequest struct {
	URL   string
	HTML  []byte
	Mode  SampleMode
	Trust TrustConfig
}
