package internal

// Version is the wortschatz release, overridden at build time through
// -ldflags "-X codeberg.org/snonux/wortschatz/internal.Version=...".
var Version = "0.3.0"
