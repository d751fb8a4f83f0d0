package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

// maxBulkUpload bounds one upload batch.
const maxBulkUpload = 50

// Picture is the denormalized listing shape returned by the server.
type Picture struct {
	ID           uint    `json:"id"`
	OriginalName *string `json:"originalName"`
	CreatedAt    string  `json:"createdAt"`
	GachaID      *uint   `json:"gachaId"`
	Source       string  `json:"source"`
	URL          string  `json:"url"`
}

type pictureList struct {
	Items []Picture `json:"items"`
}

// ListPictures fetches the picture listing, newest first.
func (c *Client) ListPictures(ctx context.Context) ([]Picture, error) {
	var list pictureList
	if err := c.getJSON(ctx, "/api/pictures", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// StartPictureRefresh polls the picture listing on a fixed interval, invoking
// fn with each result, until ctx is cancelled. An unauthorized response stops
// the loop; other errors skip the tick.
func (c *Client) StartPictureRefresh(ctx context.Context, interval time.Duration, fn func([]Picture)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			pics, err := c.ListPictures(ctx)
			if err == nil {
				fn(pics)
			} else if err == ErrUnauthorized {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// UploadFile is one file in a bulk upload batch.
type UploadFile struct {
	Name   string
	Source string // picture source: manual-upload or auto-capture
	Data   io.Reader
}

// UploadResult reports the outcome of one file in a batch.
type UploadResult struct {
	Name string
	ID   uint
	Err  error
}

type uploadResponse struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// UploadPicture sends a single file as multipart form data.
func (c *Client) UploadPicture(ctx context.Context, file UploadFile) (uint, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", file.Name)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(part, file.Data); err != nil {
		return 0, err
	}
	if file.Source != "" {
		if err := form.WriteField("source", file.Source); err != nil {
			return 0, err
		}
	}
	if err := form.Close(); err != nil {
		return 0, err
	}

	var resp uploadResponse
	err = c.do(ctx, "POST", "/api/pictures", form.FormDataContentType(), &buf, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// BulkUploadPictures uploads at most maxBulkUpload files, one at a time to
// bound server load, renaming each so names cannot collide. A failed file
// does not abort the rest of the batch; per-file outcomes are returned.
func (c *Client) BulkUploadPictures(ctx context.Context, files []UploadFile) []UploadResult {
	if len(files) > maxBulkUpload {
		files = files[:maxBulkUpload]
	}

	results := make([]UploadResult, 0, len(files))
	batchStamp := time.Now().UnixMilli()
	for i, file := range files {
		if ctx.Err() != nil {
			results = append(results, UploadResult{Name: file.Name, Err: ctx.Err()})
			continue
		}
		renamed := file
		renamed.Name = fmt.Sprintf("%d-%03d%s", batchStamp, i, strings.ToLower(filepath.Ext(file.Name)))
		id, err := c.UploadPicture(ctx, renamed)
		results = append(results, UploadResult{Name: file.Name, ID: id, Err: err})
	}
	return results
}
