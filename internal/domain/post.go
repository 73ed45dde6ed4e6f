package domain

import "time"

type Post struct {
	ID            string    `json:"id"`
	Author        UserRef   `json:"author"`
	Title         string    `json:"title"`
	Caption       string    `json:"caption"`
	ImageURL      string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LikeCount     int       `json:"likeCount"`
	CommentCount  int       `json:"commentCount"`
	LikedByMe     bool      `json:"likedByMe"`
	FavoritedByMe bool      `json:"favorited"`
	Comments      []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	Author    UserRef   `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DTO

type PostCreate struct {
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	ImageURL string `json:"image,omitempty"`
}

func ValidatePostCreate(p *PostCreate, ev *ErrValidation) {
	ev.Evaluate(p.Title != "", "title", "must be provided")
	ev.Evaluate(len(p.Title) <= 120, "title", "must be no more than 120 bytes long")
	ev.Evaluate(len(p.Caption) <= 2200, "caption", "must be no more than 2200 bytes long")
}
