package social

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tokenscope/memebot/core/model"
)

const maxTweets = 20

// TwitterClient searches recent tweets mentioning a token. Zero results is a
// normal outcome, not an error.
type TwitterClient struct {
	http *resty.Client
}

func NewTwitterClient(baseURL, bearer string, timeout time.Duration) *TwitterClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(bearer)
	return &TwitterClient{http: client}
}

type tweetSearchResponse struct {
	Data []struct {
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		PublicMetrics struct {
			LikeCount int `json:"like_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

func (c *TwitterClient) Search(ctx context.Context, query string) ([]model.Tweet, error) {
	var out tweetSearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  fmt.Sprintf("%d", maxTweets),
			"tweet.fields": "public_metrics,author_id",
		}).
		SetResult(&out).
		Get("/2/tweets/search/recent")
	if err != nil {
		return nil, fmt.Errorf("tweet search failed, %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tweet search failed, %s", resp.Status())
	}

	tweets := make([]model.Tweet, 0, len(out.Data))
	for _, t := range out.Data {
		tweets = append(tweets, model.Tweet{
			Author: t.AuthorID,
			Text:   t.Text,
			Likes:  t.PublicMetrics.LikeCount,
		})
	}
	return tweets, nil
}
