package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventsystem/service-booking/internal/application"
	"github.com/eventsystem/service-booking/internal/domain/media"
	"github.com/eventsystem/service-booking/internal/platform/paging"
)

// imageField is the multipart part carrying a venue image.
const imageField = "image"

// parseID reads the :id path parameter as a positive integer.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(paging.DefaultLimit)))
	return paging.Normalize(page, limit)
}

// readImage returns the uploaded image, or nil when the request has none. At
// most media.MaxImageSize+1 bytes are read so an oversized file still fails
// the size rule without being buffered whole.
func readImage(c *gin.Context) (*application.ImageUpload, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &application.ImageUpload{
		Data:        data,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
