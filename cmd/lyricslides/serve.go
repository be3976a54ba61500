package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	generatepost "github.com/a-h/lyricslides/handlers/generate/post"
	healthget "github.com/a-h/lyricslides/handlers/health/get"
	"github.com/a-h/lyricslides/lyrics"
	"github.com/rs/cors"
)

type ServeCommand struct {
	WaybackBase  string        `help:"The Wayback Machine snapshot URL that pages are fetched through." env:"WAYBACK_BASE" default:"https://web.archive.org/web/20250831152901"`
	FetchTimeout time.Duration `help:"The timeout for fetching a page." env:"FETCH_TIMEOUT" default:"30s"`
	ListenAddr   string        `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:7071"`
	TLSCertFile  string        `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile   string        `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	LogLevel     string        `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	fetcher := lyrics.NewFetcher(&http.Client{Timeout: c.FetchTimeout}, c.WaybackBase)
	svc := lyrics.NewService(log, fetcher)

	mux := http.NewServeMux()
	mux.Handle("POST /create_pptx_from_lyrics", generatepost.New(log, svc))
	mux.Handle("GET /health", healthget.New())

	// The task pane runs inside the presentation host's browser, so requests are cross-origin.
	withCORSMux := cors.AllowAll().Handler(mux)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: withCORSMux,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}
