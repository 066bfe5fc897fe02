package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"auctioneer/internal/model"
)

// maxImageSize bounds how much of an image response is read.
const maxImageSize = 20 << 20

// GetImage fetches the image at path, e.g. AuctionImagePath(id).
func (c *Client) GetImage(ctx context.Context, path string) (*model.Photo, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, unexpected(fmt.Errorf("failed to read image: %w", err))
	}
	return &model.Photo{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// PutImage replaces the image at path.
func (c *Client) PutImage(ctx context.Context, path, token string, photo model.Photo) error {
	resp, err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        path,
		token:       token,
		body:        bytes.NewReader(photo.Data),
		contentType: photo.ContentType,
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteImage removes the image at path.
func (c *Client) DeleteImage(ctx context.Context, path, token string) error {
	resp, err := c.do(ctx, request{method: http.MethodDelete, path: path, token: token})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
