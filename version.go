package lyricslides

// Version is set at build time with -ldflags "-X github.com/a-h/lyricslides.Version=...".
var Version = "dev"
