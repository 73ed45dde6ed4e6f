package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/minglehq/mingle/internal/domain"
)

// PostScope selects which feed slice to fetch.
type PostScope int

const (
	AllPosts PostScope = iota
	MyPosts
	FavoritePosts
)

// ReactionKind mirrors the server's like endpoint, which multiplexes likes and
// favorites through one route.
type ReactionKind string

const (
	ReactionLike ReactionKind = "like"
	ReactionFav  ReactionKind = "fav"
)

func (c *Client) GetPosts(scope PostScope) ([]*domain.Post, error, int) {
	var url string
	switch scope {
	case MyPosts:
		url = c.ep.myPosts
	case FavoritePosts:
		url = c.ep.favPosts
	default:
		url = c.ep.allPosts
	}
	r, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		slog.Error(err.Error())
		return nil, ErrApplication, 0
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return nil, getMostNestedError(err), http.StatusServiceUnavailable
	}
	defer resp.Body.Close()
	readBody, _ := io.ReadAll(resp.Body)
	var response struct {
		Data []*domain.Post `json:"data"`
	}
	if err = json.Unmarshal(readBody, &response); err != nil {
		slog.Error(err.Error())
		return nil, ErrApplication, 0
	}
	return response.Data, nil, resp.StatusCode
}

func (c *Client) CreatePost(p *domain.PostCreate) error {
	ev := domain.NewErrValidation()
	if domain.ValidatePostCreate(p, ev); ev.HasErrors() {
		return ev
	}
	body, err := json.Marshal(p)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	r, err := http.NewRequest(http.MethodPost, c.ep.createPost, bytes.NewBuffer(body))
	if err != nil {
		slog.Error(err.Error())
		return ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return nil
}

func (c *Client) DeletePost(postID string) error {
	r, err := http.NewRequest(http.MethodDelete, c.ep.postByID+"/"+postID, nil)
	if err != nil {
		slog.Error(err.Error())
		return ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return nil
}

// React toggles a like or favorite on a post and returns the new state.
func (c *Client) React(postID string, kind ReactionKind) (active bool, err error) {
	body := struct {
		PostID string `json:"postId"`
		Like   string `json:"like"`
	}{PostID: postID, Like: string(kind)}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error(err.Error())
		return false, err
	}
	r, err := http.NewRequest(http.MethodPost, c.ep.likePost, bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return false, ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return false, getMostNestedError(err)
	}
	defer resp.Body.Close()
	readBody, _ := io.ReadAll(resp.Body)
	var response struct {
		Data struct {
			Active bool `json:"active"`
		} `json:"data"`
	}
	if err = json.Unmarshal(readBody, &response); err != nil {
		slog.Error(err.Error())
		return false, ErrApplication
	}
	return response.Data.Active, nil
}

func (c *Client) CommentOnPost(postID, text string) error {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	r, err := http.NewRequest(http.MethodPost, c.ep.postByID+"/"+postID+c.ep.commentSuffix, bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return nil
}
