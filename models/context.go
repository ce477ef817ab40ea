package models

// Context is the closed set of places a value was observed. Samplers
// map raw DOM and CSS positions onto these tags; anything they cannot
// place becomes ContextUnknown rather than a new tag.
type Context string

const (
	ContextPageBackground   Context = "page-background"
	ContextSurface          Context = "surface"
	ContextButtonBackground Context = "button-background"
	ContextButtonForeground Context = "button-foreground"
	ContextBadgeBackground  Context = "badge-background"
	ContextBadgeForeground  Context = "badge-foreground"
	ContextLinkText         Context = "link-text"
	ContextBodyText         Context = "body-text"
	ContextHeadingText      Context = "heading-text"
	ContextMutedText        Context = "muted-text"
	ContextBorder           Context = "border"
	ContextIcon             Context = "icon"
	ContextSpacing          Context = "spacing"
	ContextRadius           Context = "radius"
	ContextFontSize         Context = "font-size"
	ContextUnknown          Context = "unknown"
)

var knownContexts = map[Context]bool{
	ContextPageBackground:   true,
	ContextSurface:          true,
	ContextButtonBackground: true,
	ContextButtonForeground: true,
	ContextBadgeBackground:  true,
	ContextBadgeForeground:  true,
	ContextLinkText:         true,
	ContextBodyText:         true,
	ContextHeadingText:      true,
	ContextMutedText:        true,
	ContextBorder:           true,
	ContextIcon:             true,
	ContextSpacing:          true,
	ContextRadius:           true,
	ContextFontSize:         true,
	ContextUnknown:          true,
}

// ParseContext maps a string onto the closed tag set. Unrecognized
// strings collapse to ContextUnknown instead of failing.
func ParseContext(s string) Context {
	c := Context(s)
	if knownContexts[c] {
		return c
	}
	return ContextUnknown
}

// Known reports whether c is a member of the closed tag set.
func (c Context) Known() bool {
	return knownContexts[c]
}

// Usage is the coarse rendering position a context implies.
type Usage int

const (
	UsageUnknown Usage = iota
	UsageBackground
	UsageForeground
	UsageBorder
)

// Usage buckets a context by whether the color paints behind or in
// front of content. Resolution uses this to pair fills with their text.
func (c Context) Usage() Usage {
	switch c {
	case ContextPageBackground, ContextSurface, ContextButtonBackground, ContextBadgeBackground:
		return UsageBackground
	case ContextButtonForeground, ContextBadgeForeground, ContextLinkText,
		ContextBodyText, ContextHeadingText, ContextMutedText, ContextIcon:
		return UsageForeground
	case ContextBorder:
		return UsageBorder
	default:
		return UsageUnknown
	}
}

// Interactive reports whether the context belongs to a clickable
// affordance. Colors seen here are candidates for the primary role.
func (c Context) Interactive() bool {
	switch c {
	case ContextButtonBackground, ContextButtonForeground, ContextLinkText:
		return true
	}
	return false
}

// Text reports whether the context is running text.
func (c Context) Text() bool {
	switch c {
	case ContextBodyText, ContextHeadingText, ContextMutedText:
		return true
	}
	return false
}

// Dimension reports whether the context carries a length rather than a color.
func (c Context) Dimension() bool {
	switch c {
	case ContextSpacing, ContextRadius, ContextFontSize:
		return true
	}
	return false
}
