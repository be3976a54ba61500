// Package lyrics turns a lyrics page into slide bodies.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/lyricslides/models"
)

// DefaultWaybackBase is the snapshot that pages are fetched through.
const DefaultWaybackBase = "https://web.archive.org/web/20250831152901"

const DefaultFetchTimeout = 30 * time.Second

var ErrNoLyrics = errors.New("no lyrics found (class='spanManglish MangFont')")

const (
	titleSelector  = "a#SongTitleName"
	lyricsSelector = `span[class="spanManglish MangFont"]`
	slideSeparator = "-----"
	defaultTitle   = "Untitled"
)

var lineBreak = regexp.MustCompile(`<br\s*/?>`)

// NewFetcher creates a Fetcher. A nil httpClient uses DefaultFetchTimeout and an
// empty waybackBase uses DefaultWaybackBase.
func NewFetcher(httpClient *http.Client, waybackBase string) Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if waybackBase == "" {
		waybackBase = DefaultWaybackBase
	}
	return Fetcher{
		httpClient:  httpClient,
		waybackBase: strings.TrimSuffix(waybackBase, "/"),
	}
}

// Fetcher downloads archived copies of pages.
type Fetcher struct {
	httpClient  *http.Client
	waybackBase string
}

func (f Fetcher) Fetch(ctx context.Context, pageURL string) (html string, err error) {
	archivedURL := f.waybackBase + "/" + pageURL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archivedURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", archivedURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: unexpected status %d", archivedURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// Extract returns the song title and the lyric lines of the page.
func Extract(r io.Reader) (title string, lines []string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title = strippedText(doc.Find(titleSelector).First())
	if title == "" {
		title = defaultTitle
	}

	spans := doc.Find(lyricsSelector)
	if spans.Length() == 0 {
		return title, nil, ErrNoLyrics
	}
	spans.EachWithBreak(func(i int, s *goquery.Selection) bool {
		var html string
		html, err = s.Html()
		if err != nil {
			err = fmt.Errorf("failed to read lyrics HTML: %w", err)
			return false
		}
		for _, part := range lineBreak.Split(html, -1) {
			var text string
			text, err = textOf(part)
			if err != nil {
				return false
			}
			if text != "" {
				lines = append(lines, text)
			}
		}
		return true
	})
	if err != nil {
		return title, nil, err
	}
	return title, lines, nil
}

func textOf(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse lyrics line: %w", err)
	}
	return strings.TrimSpace(doc.Text()), nil
}

// strippedText joins the trimmed text nodes of s without separators.
func strippedText(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			sb.WriteString(strings.TrimSpace(c.Text()))
			return
		}
		sb.WriteString(strippedText(c))
	})
	return sb.String()
}

// Split groups lines into slides. A line containing "-----" ends the current
// slide and is not included in any slide.
func Split(lines []string) (slides []string) {
	var current []string
	for _, line := range lines {
		if strings.Contains(line, slideSeparator) {
			if len(current) > 0 {
				slides = append(slides, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		slides = append(slides, strings.Join(current, "\n"))
	}
	return slides
}

type Downloader interface {
	Fetch(ctx context.Context, pageURL string) (html string, err error)
}

func NewService(log *slog.Logger, downloader Downloader) Service {
	return Service{
		log:        log,
		downloader: downloader,
	}
}

// Service generates slides from lyrics pages.
type Service struct {
	log        *slog.Logger
	downloader Downloader
}

func (s Service) Generate(ctx context.Context, pageURL string) (resp models.GenerateResponse, err error) {
	s.log.Info("fetching archived page", slog.String("url", pageURL))
	html, err := s.downloader.Fetch(ctx, pageURL)
	if err != nil {
		return resp, err
	}
	title, lines, err := Extract(strings.NewReader(html))
	if err != nil {
		return resp, err
	}
	resp.Title = title
	resp.Slides = Split(lines)
	if resp.Slides == nil {
		resp.Slides = []string{}
	}
	resp.SlideCount = len(resp.Slides)
	s.log.Info("lyrics extracted", slog.String("title", title), slog.Int("lines", len(lines)), slog.Int("slides", resp.SlideCount))
	return resp, nil
}
