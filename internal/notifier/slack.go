package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts run summaries to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each summary to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends one Block Kit message per summary. Runs that saved nothing
// and did not fail are not posted.
func (s *SlackNotifier) Notify(summary model.RunSummary) error {
	if summary.Saved == 0 && summary.Err == nil {
		s.logger.Debug("nothing to report to slack", "search", summary.Search)
		return nil
	}

	body, err := json.Marshal(buildPayload(summary))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		time.Sleep(retryAfter)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack message sent", "search", summary.Search, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack message sent", "search", summary.Search)
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string     `json:"type"`
	Text  *slackText `json:"text,omitempty"`
	URL   string     `json:"url,omitempty"`
	Style string     `json:"style,omitempty"`
}

// SendTestMessage sends a dummy run summary to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	return n.Notify(model.RunSummary{
		RunID:      "test-run",
		Search:     "jobsweep test",
		StartURLs:  []string{"https://example.com/jobs?keywords=test"},
		Pages:      1,
		Discovered: 3,
		Enriched:   2,
		Fallback:   1,
		Saved:      3,
		StartedAt:  time.Now(),
		Duration:   1500 * time.Millisecond,
	})
}

func buildPayload(s model.RunSummary) slackPayload {
	header := "📥 " + s.Search + ": " + strconv.Itoa(s.Saved) + " new records"
	if s.Err != nil {
		header = "⚠️ " + s.Search + ": run failed"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: header},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Saved:*\n" + strconv.Itoa(s.Saved)},
				{Type: "mrkdwn", Text: "*Discovered:*\n" + strconv.Itoa(s.Discovered)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Detail pages:*\n%d enriched, %d fallback", s.Enriched, s.Fallback)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Pages / Duration:*\n%d / %s", s.Pages, s.Duration.Round(time.Second))},
			},
		},
	}

	if s.Err != nil {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Error:*\n```" + s.Err.Error() + "```"},
		})
	}

	if len(s.StartURLs) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  &slackText{Type: "plain_text", Text: "Open Search"},
					URL:   s.StartURLs[0],
					Style: "primary",
				},
			},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "_run " + s.RunID + "_"},
		},
		slackBlock{Type: "divider"},
	)
	return slackPayload{Blocks: blocks}
}
