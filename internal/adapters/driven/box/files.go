package box

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
)

// folderPageLimit is the page size for folder item listings.
const folderPageLimit = 1000

// itemFields are the descriptor fields requested per folder item.
const itemFields = "id,name,size,created_at,modified_at"

// folderItem is one entry of a Box folder listing.
type folderItem struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// folderItemsResponse is the Box folder items page format.
type folderItemsResponse struct {
	TotalCount int          `json:"total_count"`
	Entries    []folderItem `json:"entries"`
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
}

// ListFolder returns descriptors for every file directly inside the
// folder, walking all pages. Subfolders and web links are omitted.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]domain.FileDescriptor, error) {
	var files []domain.FileDescriptor

	for offset := 0; ; {
		page, err := c.listFolderPage(ctx, folderID, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Entries {
			if item.Type != "file" {
				continue
			}
			files = append(files, domain.FileDescriptor{
				ID:         item.ID,
				Name:       item.Name,
				Size:       item.Size,
				CreatedAt:  item.CreatedAt,
				ModifiedAt: item.ModifiedAt,
			})
		}

		offset += len(page.Entries)
		if offset >= page.TotalCount || len(page.Entries) == 0 {
			return files, nil
		}
	}
}

func (c *Client) listFolderPage(ctx context.Context, folderID string, offset int) (*folderItemsResponse, error) {
	u := fmt.Sprintf("%s/folders/%s/items?fields=%s&limit=%d&offset=%d",
		c.baseURL, url.PathEscape(folderID), itemFields, folderPageLimit, offset)

	var page folderItemsResponse
	if err := c.get(ctx, u, nil, &page); err != nil {
		return nil, fmt.Errorf("list folder items: %w", err)
	}
	return &page, nil
}

// userResponse is the Box current-user format.
type userResponse struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

// CurrentUser returns the authenticated Box account. Its ID doubles as
// the vector index namespace.
func (c *Client) CurrentUser(ctx context.Context) (driven.Account, error) {
	var user userResponse
	if err := c.get(ctx, c.baseURL+"/users/me", nil, &user); err != nil {
		return driven.Account{}, fmt.Errorf("get current user: %w", err)
	}
	return driven.Account{ID: user.ID, Login: user.Login}, nil
}
