package models

type GenerateRequest struct {
	// URL of the page to generate slides from.
	URL string `json:"url"`
}

type GenerateResponse struct {
	Title string `json:"title" yaml:"title"`

	// SlideCount is informational, it is not guaranteed to match len(Slides).
	SlideCount int      `json:"slide_count" yaml:"slide_count"`
	Slides     []string `json:"slides" yaml:"slides"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
