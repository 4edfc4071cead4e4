// Package reddit talks to the Reddit API as a script application: it reads a
// thread's top-level comments and assigns user flair in a subreddit.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"flairbot/pkg/domain"
	"flairbot/pkg/httpclient"
)

const (
	DefaultBaseURL  = "https://oauth.reddit.com"
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// commentLimit is the most comments Reddit returns for a thread in one request
	commentLimit = "500"
)

// ErrAPI is returned when Reddit accepts a request but reports errors in its body
var ErrAPI = errors.New("reddit api error")

// Config holds the script-app credentials and the thread to work on
type Config struct {
	Username  string
	Password  string
	AppID     string
	AppSecret string
	UserAgent string

	BaseURL  string
	TokenURL string

	Subreddit string
	ThreadID  string
}

// Client is an authenticated Reddit API client
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a client. Call Connect before using it.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg}
}

// Connect obtains an access token with the password grant
func (c *Client) Connect(ctx context.Context) error {
	base := httpclient.NewAPIClient(c.cfg.UserAgent)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base.HTTP())

	conf := &oauth2.Config{
		ClientID:     c.cfg.AppID,
		ClientSecret: c.cfg.AppSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	token, err := conf.PasswordCredentialsToken(ctx, c.cfg.Username, c.cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to obtain reddit token: %w", err)
	}

	c.http = conf.Client(ctx, token)
	return nil
}

// ThreadPath returns the API path of the configured thread
func (c *Client) ThreadPath() string {
	return fmt.Sprintf("/r/%s/comments/%s", c.cfg.Subreddit, c.cfg.ThreadID)
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchComments returns the thread's top-level comments in the order Reddit lists them
func (c *Client) FetchComments(ctx context.Context) ([]domain.Comment, error) {
	if c.http == nil {
		return nil, fmt.Errorf("reddit client not connected")
	}

	q := url.Values{}
	q.Set("raw_json", "1")
	q.Set("limit", commentLimit)
	q.Set("depth", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+c.ThreadPath()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}

	// The first listing holds the post itself, the second its replies.
	var listings []listing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("failed to decode thread: %w", err)
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("unexpected thread response: %d listings", len(listings))
	}

	children := listings[1].Data.Children
	comments := make([]domain.Comment, 0, len(children))
	for _, child := range children {
		// "more" stubs stand for comments that were not expanded
		if child.Kind != "t1" {
			continue
		}
		var comment domain.Comment
		if err := json.Unmarshal(child.Data, &comment); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// ApplyFlair sets author's flair in the subreddit, replacing any previous flair
func (c *Client) ApplyFlair(ctx context.Context, author, text, templateID string) error {
	if c.http == nil {
		return fmt.Errorf("reddit client not connected")
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("name", author)
	form.Set("text", text)
	if templateID != "" {
		form.Set("flair_template_id", templateID)
	}

	endpoint := fmt.Sprintf("%s/r/%s/api/selectflair", c.cfg.BaseURL, c.cfg.Subreddit)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to set flair for %s: %w", author, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("failed to set flair for %s: %w", author, err)
	}

	var out struct {
		JSON struct {
			Errors [][]any `json:"errors"`
		} `json:"json"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode flair response: %w", err)
	}
	if len(out.JSON.Errors) > 0 {
		return fmt.Errorf("failed to set flair for %s: %w: %v", author, ErrAPI, out.JSON.Errors)
	}

	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
