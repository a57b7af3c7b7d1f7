package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	Once         bool
	SetKey       string
	HistoryLimit int
	NoHistory    bool

	// Service endpoints, overridable for proxies and tests
	RecognitionEndpoint string
	TranslationEndpoint string
	TimeoutSeconds      int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		TimeoutSeconds: 30,
	}
}
