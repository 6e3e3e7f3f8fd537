// Package plex wraps the Plex API for importing a user's watch history into
// the ratings table as implicit liked interactions.
package plex

import (
	"context"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/LukeHagar/plexgo"
	"github.com/LukeHagar/plexgo/models/operations"
)

type Client struct {
	api     *plexgo.PlexAPI
	plexURL string
	logger  *slog.Logger
}

func NewClient(plexURL, plexToken string, logger *slog.Logger) *Client {
	api := plexgo.New(
		plexgo.WithSecurity(plexToken),
		plexgo.WithServerURL(plexURL),
	)

	return &Client{
		api:     api,
		plexURL: plexURL,
		logger:  logger,
	}
}

// GetAllLibraries gets all libraries from the Plex server.
func (c *Client) GetAllLibraries(ctx context.Context) (*operations.GetAllLibrariesResponse, error) {
	c.logger.Debug("Fetching libraries from Plex", slog.String("url", c.plexURL))

	resp, err := c.api.Library.GetAllLibraries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get libraries: %w", err)
	}

	if resp.Object == nil {
		return nil, fmt.Errorf("invalid response from Plex API")
	}

	c.logger.Debug("Got libraries from Plex",
		slog.Int("count", len(resp.Object.MediaContainer.Directory)))

	return resp, nil
}

// Item is a media item from a Plex library.
type Item struct {
	RatingKey string
	Title     string
	Year      *int
	ViewCount *int
}

// GetItems pages through a Plex library and returns all of its items.
// libType must be "movie" or "show".
func (c *Client) GetItems(ctx context.Context, libraryKey, libType string) ([]Item, error) {
	sectionKey, err := strconv.Atoi(libraryKey)
	if err != nil {
		return nil, fmt.Errorf("invalid library key: %w", err)
	}

	var libraryType operations.GetLibraryItemsQueryParamType
	switch libType {
	case "movie":
		libraryType = operations.GetLibraryItemsQueryParamType(1)
	case "show":
		libraryType = operations.GetLibraryItemsQueryParamType(2)
	default:
		return nil, fmt.Errorf("unsupported library type: %s", libType)
	}

	containerSize := 50
	containerStart := 0
	includeGuids := operations.IncludeGuids(1)
	includeMeta := operations.GetLibraryItemsQueryParamIncludeMeta(1)

	var allItems []Item
	for {
		request := operations.GetLibraryItemsRequest{
			SectionKey:          sectionKey,
			Type:                libraryType,
			IncludeGuids:        &includeGuids,
			IncludeMeta:         &includeMeta,
			XPlexContainerSize:  &containerSize,
			XPlexContainerStart: &containerStart,
			Tag:                 operations.Tag("all"),
		}

		resp, err := c.api.Library.GetLibraryItems(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("failed to get items from library: %w", err)
		}

		c.logger.Debug("Got library page from Plex",
			slog.String("section_key", libraryKey),
			slog.Int("container_start", containerStart),
			slog.Int("metadata_count", len(resp.Object.MediaContainer.Metadata)),
			slog.Int("total_size", int(resp.Object.MediaContainer.TotalSize)))

		for _, item := range resp.Object.MediaContainer.Metadata {
			allItems = append(allItems, Item{
				RatingKey: item.RatingKey,
				Title:     item.Title,
				Year:      item.Year,
				ViewCount: item.ViewCount,
			})
		}

		if len(resp.Object.MediaContainer.Metadata) == 0 ||
			containerStart+len(resp.Object.MediaContainer.Metadata) >= int(resp.Object.MediaContainer.TotalSize) {
			break
		}
		containerStart += containerSize
	}

	return allItems, nil
}
