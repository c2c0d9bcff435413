package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"digestly/model"
)

// The innertube /player API has no stable public contract; the ANDROID
// client context below is what the web player itself sends and is the only
// known way to get caption tracks without authentication.
const innertubeClientVersion = "20.10.38"

var (
	videoIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	apiKeyRegex  = regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`)
)

type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Name    struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for auto-generated tracks, empty for human-authored ones.
	Kind string `json:"kind"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	} `json:"videoDetails"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type transcriptBody struct {
	Events []struct {
		Segs []struct {
			Utf8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// IsYouTubeLink reports whether input parses to a YouTube host. Matching is
// on the parsed host component, never a substring of the raw URL.
func IsYouTubeLink(input string) bool {
	u, err := url.Parse(ensureScheme(input))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

// ExtractVideoID pulls the 11-character video ID out of any supported
// YouTube URL shape: watch?v=, youtu.be/, /shorts/, /embed/, /live/, /v/,
// bare-ID paths, with or without a scheme.
func ExtractVideoID(input string) (string, bool) {
	u, err := url.Parse(ensureScheme(input))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	segments := pathSegments(u.Path)

	var candidate string
	switch {
	case host == "youtu.be":
		if len(segments) > 0 {
			candidate = segments[0]
		}
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if len(segments) == 0 {
			break
		}
		switch segments[0] {
		case "watch":
			candidate = u.Query().Get("v")
		case "live", "embed", "v", "shorts":
			if len(segments) > 1 {
				candidate = segments[1]
			}
		default:
			// youtube.com/VIDEO_ID shorthand
			candidate = segments[0]
		}
	}

	if !videoIDRegex.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

type YouTubeExtractor struct {
	client *http.Client
	logger *zap.Logger
}

func NewYouTubeExtractor(client *http.Client, logger *zap.Logger) *YouTubeExtractor {
	return &YouTubeExtractor{client: client, logger: logger}
}

// Extract resolves a YouTube URL to title, author and transcript text.
// preferredLanguage steers caption-track selection and defaults to English.
func (e *YouTubeExtractor) Extract(ctx context.Context, rawURL, preferredLanguage string) (*Content, error) {
	if preferredLanguage == "" {
		preferredLanguage = "en"
	}

	videoID, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, model.ErrInvalidLink.Wrap(fmt.Errorf("could not extract video id from %q", rawURL))
	}

	apiKey, err := e.fetchAPIKey(ctx, videoID)
	if err != nil {
		return nil, err
	}

	player, err := e.fetchPlayerResponse(ctx, videoID, apiKey)
	if err != nil {
		return nil, err
	}

	status := player.PlayabilityStatus.Status
	if status == "LOGIN_REQUIRED" || status == "UNPLAYABLE" {
		reason := player.PlayabilityStatus.Reason
		if reason == "" {
			reason = status
		}
		e.logger.Warn("video not playable",
			zap.String("videoId", videoID),
			zap.String("status", status),
			zap.String("reason", reason))
		return nil, model.ErrNoTranscript.Wrap(fmt.Errorf("playability status %s: %s", status, reason))
	}

	title := player.VideoDetails.Title
	author := player.VideoDetails.Author
	if title == "" || author == "" {
		return nil, model.ErrNoContent.Wrap(fmt.Errorf("missing video details for %s", videoID))
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	track, ok := selectCaptionTrack(tracks, preferredLanguage)
	if !ok {
		return nil, model.ErrNoTranscript.Wrap(fmt.Errorf("no caption tracks for %s", videoID))
	}

	text, err := e.downloadTranscript(ctx, track, preferredLanguage)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, model.ErrNoTranscript.Wrap(fmt.Errorf("empty transcript for %s", videoID))
	}

	return &Content{Title: title, Author: author, Text: text}, nil
}

// fetchAPIKey scrapes the innertube API key out of the watch-page HTML.
func (e *YouTubeExtractor) fetchAPIKey(ctx context.Context, videoID string) (string, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", model.ErrNoInternet.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.ErrNoInternet.Wrap(fmt.Errorf("watch page returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.ErrNoInternet.Wrap(err)
	}

	match := apiKeyRegex.FindSubmatch(body)
	if match == nil {
		return "", model.ErrNoInternet.Wrap(fmt.Errorf("INNERTUBE_API_KEY not found in watch page for %s", videoID))
	}
	return string(match[1]), nil
}

func (e *YouTubeExtractor) fetchPlayerResponse(ctx context.Context, videoID, apiKey string) (*playerResponse, error) {
	payload := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    "ANDROID",
				"clientVersion": innertubeClientVersion,
			},
		},
		"videoId": videoID,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	apiURL := "https://www.youtube.com/youtubei/v1/player?key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, model.ErrNoInternet.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.ErrNoInternet.Wrap(fmt.Errorf("player API returned status %d", resp.StatusCode))
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, model.ErrNoInternet.Wrap(fmt.Errorf("failed to decode player response: %w", err))
	}
	return &player, nil
}

// selectCaptionTrack picks exactly one track by strict priority: manual in
// the preferred language, manual English, any track whose language starts
// with the preferred code, any English-prefixed track, then the first track.
// First match wins; no scoring.
func selectCaptionTrack(tracks []captionTrack, preferredLanguage string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	for _, t := range tracks {
		if t.LanguageCode == preferredLanguage && t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" && t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, preferredLanguage) {
			return t, true
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return tracks[0], true
}

// transcriptURL forces the json3 transcript format on a track's base URL.
func transcriptURL(baseURL string) string {
	switch {
	case strings.Contains(baseURL, "fmt=srv3"):
		return strings.Replace(baseURL, "fmt=srv3", "fmt=json3", 1)
	case strings.Contains(baseURL, "?"):
		return baseURL + "&fmt=json3"
	default:
		return baseURL + "?fmt=json3"
	}
}

func (e *YouTubeExtractor) downloadTranscript(ctx context.Context, track captionTrack, preferredLanguage string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transcriptURL(track.BaseURL), nil)
	if err != nil {
		return "", err
	}
	// Mimic browser behavior; required for the request to succeed.
	lang := track.LanguageCode
	if lang == "" {
		lang = preferredLanguage
	}
	req.Header.Set("Accept-Language", lang+",en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", model.ErrNoInternet.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.ErrNoInternet.Wrap(fmt.Errorf("transcript download returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.ErrNoInternet.Wrap(err)
	}
	if len(body) == 0 {
		return "", model.ErrNoTranscript.Wrap(fmt.Errorf("empty transcript response for track %s", track.LanguageCode))
	}

	return parseJSONTranscript(body), nil
}

// parseJSONTranscript flattens a json3 transcript into plain text. Segments
// join with no separator; embedded newlines become spaces.
func parseJSONTranscript(body []byte) string {
	var transcript transcriptBody
	if err := json.Unmarshal(body, &transcript); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, event := range transcript.Events {
		for _, seg := range event.Segs {
			sb.WriteString(seg.Utf8)
		}
	}
	return strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
}
