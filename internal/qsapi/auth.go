package qsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/queue_bot/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID    int64  `json:"userID"`
	RoleID    int    `json:"roleID"`
	Email     string `json:"personEmail"`
	FirstName string `json:"personFirstName"`
	LastName  string `json:"personLastName"`
}

// Login входит по email и паролю, возвращает пользователя и bearer токен.
// Токен приходит значением первой cookie из Set-Cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	const path = "/login"

	resp, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   path,
		body:   loginRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if len(resp.cookies) == 0 || resp.cookies[0].Value == "" {
		return nil, "", ErrNoToken
	}
	token := resp.cookies[0].Value

	var body loginResponse
	if err := decode(resp, path, &body); err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	user := &model.User{
		ID:        body.UserID,
		RoleID:    body.RoleID,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	}
	return user, token, nil
}

// GetUserPhoto фото пользователя в предмете, nil если фото нет (204)
func (c *Client) GetUserPhoto(ctx context.Context, token string, subjectID, userID int64) ([]byte, error) {
	path := fmt.Sprintf("/subjects/%d/users/%d/photo", subjectID, userID)

	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return nil, fmt.Errorf("get user photo: %w", err)
	}
	if resp.empty() {
		return nil, nil
	}
	return resp.body, nil
}
