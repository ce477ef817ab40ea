package runs

// Verb constants for the Runs API.
const (
	VerbLIST   = "list"
	VerbSHOW   = "show"
	VerbDIFF   = "diff"
	VerbEXPORT = "export"
	VerbTREND  = "trend"
)

// AllVerbs returns a list of all valid verbs.
func AllVerbs() []string {
	return []string{
		VerbLIST,
		VerbSHOW,
		VerbDIFF,
		VerbEXPORT,
		VerbTREND,
	}
}

// IsValidVerb checks if a verb is valid.
func IsValidVerb(verb string) bool {
	for _, v := range AllVerbs() {
		if v == verb {
			return true
		}
	}
	return false
}
