package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"digestly/fetch"
	"digestly/model"
)

// SessionProvider supplies the BiliBili SESSDATA session token. The login
// flow that obtains it is external; the extractor only consumes a valid,
// unexpired token.
type SessionProvider interface {
	// SessionToken returns the current token and whether it is usable.
	SessionToken() (string, bool)
}

var bvidRegex = regexp.MustCompile(`^BV[1-9A-HJ-NP-Za-km-z]{10}$`)

// The subtitle API returns this placeholder body for videos without real
// subtitles instead of an error code. Matching the literal string is the
// only available signal and will break silently if upstream rewords it.
const biliFailedSubtitle = "友情提示：如果视频本身没有添加字幕的，是无法使用此方法打开字幕选项的！"

type biliVideoInfoResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Cid   int64  `json:"cid"`
		Title string `json:"title"`
		Owner struct {
			Name string `json:"name"`
		} `json:"owner"`
	} `json:"data"`
}

type biliSubtitleItem struct {
	// Lan is the language code, e.g. zh-CN or ai-zh.
	Lan string `json:"lan"`
	// Type is 0 for user-uploaded subtitles, 1 for AI-generated ones.
	Type        int    `json:"type"`
	SubtitleURL string `json:"subtitle_url"`
}

type biliPlayerResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Subtitle *struct {
			Subtitles []biliSubtitleItem `json:"subtitles"`
		} `json:"subtitle"`
	} `json:"data"`
}

type biliSubtitleContent struct {
	Body []struct {
		Content string `json:"content"`
	} `json:"body"`
}

// IsBiliBiliLink reports whether input parses to a BiliBili host.
func IsBiliBiliLink(input string) bool {
	u, err := url.Parse(ensureScheme(input))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "b23.tv" || host == "bilibili.com" || strings.HasSuffix(host, ".bilibili.com")
}

type BiliBiliExtractor struct {
	client  *http.Client
	session SessionProvider
	logger  *zap.Logger
}

func NewBiliBiliExtractor(client *http.Client, session SessionProvider, logger *zap.Logger) *BiliBiliExtractor {
	return &BiliBiliExtractor{client: client, session: session, logger: logger}
}

// Extract resolves a BiliBili URL to title, uploader and subtitle text.
// Requires a session token; absence is a hard gate, not a retry condition.
func (e *BiliBiliExtractor) Extract(ctx context.Context, rawURL string) (*Content, error) {
	bvid, err := e.extractBvid(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	sessData, ok := e.session.SessionToken()
	if !ok || sessData == "" {
		return nil, model.ErrBiliBiliLoginNeeded
	}

	info, err := e.fetchVideoInfo(ctx, bvid, sessData)
	if err != nil {
		return nil, err
	}

	subtitles, err := e.fetchSubtitleList(ctx, bvid, info.Data.Cid, sessData)
	if err != nil {
		return nil, err
	}

	transcript := ""
	for _, subtitle := range subtitles {
		text, err := e.fetchSubtitleContent(ctx, subtitle.SubtitleURL)
		if err != nil {
			e.logger.Warn("subtitle candidate failed",
				zap.String("bvid", bvid),
				zap.String("lan", subtitle.Lan),
				zap.Error(err))
			continue
		}
		if strings.Contains(text, biliFailedSubtitle) {
			continue
		}
		transcript = text
		break
	}
	if transcript == "" {
		return nil, model.ErrNoTranscript.Wrap(fmt.Errorf("no usable subtitle for %s", bvid))
	}

	return &Content{Title: info.Data.Title, Author: info.Data.Owner.Name, Text: transcript}, nil
}

// extractBvid pulls the BVID out of a BiliBili URL, resolving b23.tv short
// links through their redirect first.
func (e *BiliBiliExtractor) extractBvid(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(ensureScheme(rawURL))
	if err != nil {
		return "", model.ErrInvalidLink.Wrap(err)
	}

	finalURL := parsed
	if strings.ToLower(parsed.Hostname()) == "b23.tv" {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, parsed.String(), nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", fetch.DesktopUserAgent)
		resp, err := e.client.Do(req)
		if err != nil {
			return "", model.ErrNoInternet.Wrap(err)
		}
		resp.Body.Close()
		// The client follows redirects; the request URL on the final
		// response is the canonical video URL.
		finalURL = resp.Request.URL
	}

	segments := pathSegments(finalURL.Path)
	candidate := ""
	if len(segments) >= 2 && strings.EqualFold(segments[0], "video") {
		candidate = segments[1]
	} else if len(segments) > 0 {
		candidate = segments[0]
	}

	if !bvidRegex.MatchString(candidate) {
		return "", model.ErrInvalidLink.Wrap(fmt.Errorf("no BVID in %q", rawURL))
	}
	return candidate, nil
}

// biliGet performs a GET against the BiliBili web API with the session
// cookie and a desktop User-Agent; the API rejects default and mobile
// agents.
func (e *BiliBiliExtractor) biliGet(ctx context.Context, apiURL, sessData string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	if sessData != "" {
		req.Header.Set("Cookie", "SESSDATA="+sessData)
	}
	req.Header.Set("User-Agent", fetch.DesktopUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, model.ErrNoInternet.Wrap(err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, model.ErrNoInternet.Wrap(fmt.Errorf("bilibili API returned status %d", resp.StatusCode))
	}
	return resp, nil
}

func (e *BiliBiliExtractor) fetchVideoInfo(ctx context.Context, bvid, sessData string) (*biliVideoInfoResponse, error) {
	apiURL := "https://api.bilibili.com/x/web-interface/view?bvid=" + url.QueryEscape(bvid)
	resp, err := e.biliGet(ctx, apiURL, sessData)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info biliVideoInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, model.ErrNoInternet.Wrap(fmt.Errorf("failed to decode video info: %w", err))
	}
	if info.Code != 0 || info.Data == nil {
		e.logger.Warn("bilibili video info error",
			zap.String("bvid", bvid),
			zap.Int("code", info.Code),
			zap.String("message", info.Message))
		return nil, model.ErrNoContent.Wrap(fmt.Errorf("video info code %d: %s", info.Code, info.Message))
	}
	return &info, nil
}

func (e *BiliBiliExtractor) fetchSubtitleList(ctx context.Context, bvid string, cid int64, sessData string) ([]biliSubtitleItem, error) {
	query := url.Values{}
	query.Set("bvid", bvid)
	query.Set("cid", fmt.Sprintf("%d", cid))
	query.Set("isGaiaAvoided", "false")
	query.Set("web_location", "1315873")

	apiURL := "https://api.bilibili.com/x/player/wbi/v2?" + query.Encode()
	resp, err := e.biliGet(ctx, apiURL, sessData)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var player biliPlayerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, model.ErrNoInternet.Wrap(fmt.Errorf("failed to decode player info: %w", err))
	}
	if player.Code != 0 {
		return nil, model.ErrNoTranscript.Wrap(fmt.Errorf("player info code %d: %s", player.Code, player.Message))
	}
	if player.Data == nil || player.Data.Subtitle == nil || len(player.Data.Subtitle.Subtitles) == 0 {
		return nil, model.ErrNoTranscript.Wrap(fmt.Errorf("no subtitles listed for %s", bvid))
	}

	return sortSubtitleCandidates(player.Data.Subtitle.Subtitles), nil
}

// sortSubtitleCandidates normalizes subtitle URLs and orders user-uploaded
// or Chinese subtitles first, keeping the listing order otherwise.
func sortSubtitleCandidates(items []biliSubtitleItem) []biliSubtitleItem {
	candidates := make([]biliSubtitleItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.SubtitleURL) == "" {
			continue
		}
		// Subtitle URLs sometimes come protocol-relative.
		if strings.HasPrefix(item.SubtitleURL, "//") {
			item.SubtitleURL = "https:" + item.SubtitleURL
		}
		candidates = append(candidates, item)
	}

	preferred := func(item biliSubtitleItem) bool {
		return item.Type == 0 || strings.Contains(strings.ToLower(item.Lan), "zh")
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return preferred(candidates[i]) && !preferred(candidates[j])
	})
	return candidates
}

func (e *BiliBiliExtractor) fetchSubtitleContent(ctx context.Context, subtitleURL string) (string, error) {
	resp, err := e.biliGet(ctx, subtitleURL, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var content biliSubtitleContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", model.ErrNoInternet.Wrap(fmt.Errorf("failed to decode subtitle content: %w", err))
	}

	lines := make([]string, 0, len(content.Body))
	for _, item := range content.Body {
		lines = append(lines, item.Content)
	}
	return strings.Join(lines, "\n"), nil
}
