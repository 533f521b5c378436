package version

// Version is the current hs release. Override at build time with:
//
//	go build -ldflags "-X github.com/vanderheijden86/healthscatter/pkg/version.Version=v0.2.0"
var Version = "v0.1.0"
