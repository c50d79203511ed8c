package api

import (
	"encoding/json"
	"time"
)

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Member is a join request or membership on an idea.
type Member struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"idea_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Idea is a project listing in the feed.
type Idea struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	SubTitle          string   `json:"sub_title"`
	FullExplainedIdea string   `json:"full_explained_idea"`
	UserID            string   `json:"user_id"`
	ImageURL          string   `json:"image_url,omitempty"`
	Members           []Member `json:"members,omitempty"`
}

// NewIdea is the payload for CreateIdea.
type NewIdea struct {
	Title             string
	SubTitle          string
	FullExplainedIdea string
	ImageURL          string
}

// Profile is the current user's profile. UserData and Skills are free-form.
type Profile struct {
	UUID     string         `json:"uuid,omitempty"`
	Email    string         `json:"email,omitempty"`
	UserData map[string]any `json:"user_data,omitempty"`
	Skills   map[string]any `json:"skills,omitempty"`
}

// ProfileUpdate is the payload for UpdateUserProfile.
type ProfileUpdate struct {
	UserData map[string]any `json:"user_data,omitempty"`
	Skills   map[string]any `json:"skills,omitempty"`
}

// SearchResult is one hit; Type is "idea" or "user" and Data the raw record.
type SearchResult struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
