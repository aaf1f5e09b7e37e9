package model

import "time"

// Shared defaults used by both the clock and the counter service binaries.
const (
	DefaultDuration          = 90 * time.Minute
	DefaultTickInterval      = time.Second
	DefaultFrameInterval     = 33 * time.Millisecond
	DefaultIntensity         = 60
	DefaultTheme             = "dark"
	DefaultHeading           = "Exam Timer"
	DefaultVisitorSessionTTL = 12 * time.Hour
	DefaultAPIPort           = 3000
)

// Preference keys shared by every PreferenceStore implementation.
const (
	PrefTheme          = "theme"
	PrefVisitorSession = "visitor.session"
	PrefHeading        = "heading"
)
