package concierge

// Version is replaced at build time with -ldflags "-X github.com/aretw0/concierge.Version=...".
var Version = "0.1.0-dev"
