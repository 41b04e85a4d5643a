package graft

// Version exposes the version of the library. Overridden at release time via
// -ldflags "-X github.com/aretw0/graft.Version=vX.Y.Z".
var Version = "dev"
