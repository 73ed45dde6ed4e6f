package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// UploadImage sends a local file to the media endpoint and returns the url the
// server will serve it from.
func (c *Client) UploadImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		slog.Error(err.Error())
		return "", ErrApplication
	}
	if _, err = io.Copy(part, f); err != nil {
		slog.Error(err.Error())
		return "", ErrApplication
	}
	if err = mw.Close(); err != nil {
		slog.Error(err.Error())
		return "", ErrApplication
	}
	r, err := http.NewRequest(http.MethodPost, c.ep.uploads, &buf)
	if err != nil {
		slog.Error(err.Error())
		return "", ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return "", getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errors.New(http.StatusText(resp.StatusCode))
	}
	readBody, _ := io.ReadAll(resp.Body)
	var response struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err = json.Unmarshal(readBody, &response); err != nil {
		slog.Error(err.Error())
		return "", ErrApplication
	}
	return response.Data.URL, nil
}
