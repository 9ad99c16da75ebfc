package domain

// LocaleListing is the store listing text for one locale.
type LocaleListing struct {
	Code             string
	Dir              string
	Title            string
	ShortDescription string
	FullDescription  string
}

// DefaultExcludedLocales returns the locale codes the distribution platform does not accept.
func DefaultExcludedLocales() []string {
	return []string{"de_DE", "el-EL", "en", "eo", "eu", "nb", "nl_BE", "nn", "ta"}
}
