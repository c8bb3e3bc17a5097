package placeholder

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const BaseURL = "https://jsonplaceholder.typicode.com"

// SeedPost is one post as JSONPlaceholder returns it.
type SeedPost struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

func (c *Client) get(endpoint string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())
	log.Printf("placeholder API request: %s", fullURL)

	resp, err := c.httpClient.Get(fullURL)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("placeholder api error: status %d", resp.StatusCode)
	}

	log.Printf("placeholder API response: %d bytes", len(body))
	return body, nil
}

func (c *Client) FetchPosts(start, limit int) ([]SeedPost, error) {
	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("_limit", strconv.Itoa(limit))

	body, err := c.get("/posts", params)
	if err != nil {
		return nil, err
	}

	var posts []SeedPost
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return posts, nil
}
