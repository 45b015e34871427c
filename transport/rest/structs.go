package rest

import "encoding/json"

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type createGameRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

type assignPlayerRequest struct {
	CurrentPlayer string `json:"current_player"`
}

type moveRequest struct {
	Move     json.RawMessage `json:"move"`
	MoveTime int             `json:"move_time"`
}

type errorResponse struct {
	Error string `json:"error"`
}
