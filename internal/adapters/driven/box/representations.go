package box

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
)

// repHints asks Box for the extracted plain-text representation.
const repHints = "[extracted_text]"

// representationsResponse is the representation info subset we read.
type representationsResponse struct {
	Representations struct {
		Entries []representation `json:"entries"`
	} `json:"representations"`
}

type representation struct {
	Representation string `json:"representation"`
	Status         struct {
		State string `json:"state"`
	} `json:"status"`
	Content struct {
		URLTemplate string `json:"url_template"`
	} `json:"content"`
}

// ExtractText fetches the provider-generated text representation of a
// file. Box generates representations lazily, so a file can report
// "pending" until its text is ready.
func (c *Client) ExtractText(ctx context.Context, fileID string) (string, error) {
	u := fmt.Sprintf("%s/files/%s?fields=representations", c.baseURL, url.PathEscape(fileID))

	var info representationsResponse
	if err := c.get(ctx, u, map[string]string{"x-rep-hints": repHints}, &info); err != nil {
		return "", fmt.Errorf("get representation info: %w", err)
	}

	entries := info.Representations.Entries
	if len(entries) == 0 {
		return "", domain.ErrNoTextContent
	}

	rep := entries[0]
	switch rep.Status.State {
	case "success", "viewable":
	case "none", "pending":
		return "", fmt.Errorf("%w: state %q", domain.ErrRepresentationNotReady, rep.Status.State)
	default:
		return "", fmt.Errorf("%w: state %q", domain.ErrNoTextContent, rep.Status.State)
	}
	if rep.Content.URLTemplate == "" {
		return "", domain.ErrNoTextContent
	}

	// The template carries an {+asset_path} placeholder; the full text
	// lives at the empty asset path.
	contentURL := strings.ReplaceAll(rep.Content.URLTemplate, "{+asset_path}", "")

	resp, err := c.do(ctx, contentURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return string(text), nil
}

// Download streams the raw file content to w. Box answers with a
// redirect to the storage backend, which the HTTP client follows.
func (c *Client) Download(ctx context.Context, fileID string, w io.Writer) error {
	u := fmt.Sprintf("%s/files/%s/content", c.baseURL, url.PathEscape(fileID))

	resp, err := c.do(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return nil
}
