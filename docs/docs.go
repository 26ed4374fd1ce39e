// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/sign-up": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a coach or player",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "400": {"description": "Validation failed or username taken", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with username and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/players/market": {
            "get": {
                "tags": ["players"],
                "summary": "List every player with their club",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/MarketPlayer"}}}}
            }
        },
        "/players/me": {
            "get": {
                "tags": ["players"],
                "summary": "Current user with pending invitations",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}}
            }
        },
        "/players/{playerID}": {
            "get": {
                "tags": ["players"],
                "summary": "Player profile",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "playerID", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/club": {
            "get": {
                "tags": ["clubs"],
                "summary": "List clubs",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Club"}}}}
            }
        },
        "/club/create": {
            "post": {
                "tags": ["clubs"],
                "summary": "Create the coach's club",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClubInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Club"}},
                    "403": {"description": "Coach role required", "schema": {"$ref": "#/definitions/Error"}},
                    "400": {"description": "Validation failed or coach already owns a club", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/club/{clubID}": {
            "get": {
                "tags": ["clubs"],
                "summary": "Club with teams and players",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "clubID", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ClubDetails"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/club/{clubID}/invite/{playerID}": {
            "post": {
                "tags": ["membership"],
                "summary": "Invite a player",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "playerID", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Already in a club or invited", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/club/{clubID}/accept": {
            "post": {
                "tags": ["membership"],
                "summary": "Accept the club's invitation",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "clubID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}}}
            }
        },
        "/club/{clubID}/reject": {
            "post": {
                "tags": ["membership"],
                "summary": "Reject or leave the club",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "clubID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}}}
            }
        },
        "/club/{clubID}/players/{playerID}": {
            "delete": {
                "tags": ["membership"],
                "summary": "Remove a member",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "playerID", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}}}
            }
        },
        "/club/{clubID}/teams/create": {
            "post": {
                "tags": ["teams"],
                "summary": "Create a team",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeamInput"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Team"}}}
            }
        },
        "/club/{clubID}/teams/{teamID}": {
            "get": {
                "tags": ["teams"],
                "summary": "Get a team",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "teamID", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Team"}}}
            }
        },
        "/club/{clubID}/teams/{teamID}/formation": {
            "put": {
                "tags": ["teams"],
                "summary": "Change the formation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "teamID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"formation": {"type": "string", "example": "1-2-2-1"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Team"}}}
            }
        },
        "/club/{clubID}/teams/{teamID}/add-player": {
            "post": {
                "tags": ["teams"],
                "summary": "Add an approved member to the roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "teamID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RosterEntry"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Team"}}}
            }
        },
        "/club/{clubID}/teams/{teamID}/players/{playerID}": {
            "delete": {
                "tags": ["teams"],
                "summary": "Remove a player from the roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "teamID", "type": "integer", "required": true},
                    {"in": "path", "name": "playerID", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Team"}}}
            }
        },
        "/club/{clubID}/games": {
            "get": {
                "tags": ["games"],
                "summary": "List the club's games",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "clubID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Game"}}}}
            }
        },
        "/club/{clubID}/games/create": {
            "post": {
                "tags": ["games"],
                "summary": "Schedule a game between two teams of the club",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGameInput"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}": {
            "get": {
                "tags": ["games"],
                "summary": "Get a game",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}/score": {
            "put": {
                "tags": ["games"],
                "summary": "Overwrite both scores",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"score_team_a": {"type": "integer"}, "score_team_b": {"type": "integer"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}/rate/{playerID}": {
            "put": {
                "tags": ["games"],
                "summary": "Rate a player from 0 to 5",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true},
                    {"in": "path", "name": "playerID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"rating": {"type": "number"}, "notes": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}/mvp/{playerID}": {
            "put": {
                "tags": ["games"],
                "summary": "Set the game's MVP",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true},
                    {"in": "path", "name": "playerID", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}/photos": {
            "post": {
                "tags": ["photos"],
                "summary": "Upload a game photo",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true},
                    {"in": "formData", "name": "photo", "type": "file", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}/photos/{photoID}": {
            "delete": {
                "tags": ["photos"],
                "summary": "Delete a game photo",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true},
                    {"in": "path", "name": "photoID", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        },
        "/club/{clubID}/games/{gameID}/photos/{photoID}/tags": {
            "put": {
                "tags": ["photos"],
                "summary": "Replace the players tagged on a photo",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "clubID", "type": "integer", "required": true},
                    {"in": "path", "name": "gameID", "type": "integer", "required": true},
                    {"in": "path", "name": "photoID", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"tagged_player_ids": {"type": "array", "items": {"type": "integer"}}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Game"}}}
            }
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}}},
        "Message": {"type": "object", "properties": {"message": {"type": "string"}}},
        "RegisterInput": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["Coach", "Player"]}
            }
        },
        "LoginInput": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "AuthResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/User"}, "token": {"type": "string"}}
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "role": {"type": "string"},
                "club_id": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "invitations": {"type": "array", "items": {"type": "integer"}},
                "club": {"type": "object", "properties": {"id": {"type": "integer"}, "club_name": {"type": "string"}}}
            }
        },
        "MarketPlayer": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "club_id": {"type": "integer"}}
        },
        "CreateClubInput": {
            "type": "object",
            "required": ["club_name"],
            "properties": {"club_name": {"type": "string"}}
        },
        "Membership": {
            "type": "object",
            "properties": {
                "player_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["requested", "invited", "approved"]},
                "joined_at": {"type": "string", "format": "date-time"},
                "player": {"$ref": "#/definitions/MarketPlayer"}
            }
        },
        "Club": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "club_name": {"type": "string"},
                "coach_id": {"type": "integer"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/Membership"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ClubDetails": {
            "type": "object",
            "properties": {
                "club": {"$ref": "#/definitions/Club"},
                "teams": {"type": "array", "items": {"$ref": "#/definitions/Team"}},
                "clubPlayers": {"type": "array", "items": {"$ref": "#/definitions/MarketPlayer"}}
            }
        },
        "RosterEntry": {
            "type": "object",
            "required": ["player_id"],
            "properties": {"player_id": {"type": "integer"}, "position": {"type": "string"}}
        },
        "CreateTeamInput": {
            "type": "object",
            "required": ["team_name", "formation"],
            "properties": {
                "team_name": {"type": "string"},
                "formation": {"type": "string", "example": "1-2-2-1"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/RosterEntry"}}
            }
        },
        "Team": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "club_id": {"type": "integer"},
                "team_name": {"type": "string"},
                "formation": {"type": "string"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/RosterEntry"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "CreateGameInput": {
            "type": "object",
            "required": ["team_a_id", "team_b_id", "match_date", "location"],
            "properties": {
                "team_a_id": {"type": "integer"},
                "team_b_id": {"type": "integer"},
                "match_date": {"type": "string", "format": "date-time"},
                "location": {"type": "string"}
            }
        },
        "Photo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "url": {"type": "string"},
                "public_id": {"type": "string"},
                "tagged_player_ids": {"type": "array", "items": {"type": "integer"}},
                "uploaded_at": {"type": "string", "format": "date-time"}
            }
        },
        "PlayerStat": {
            "type": "object",
            "properties": {"player_id": {"type": "integer"}, "rating": {"type": "number"}, "notes": {"type": "string"}}
        },
        "Game": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "club_id": {"type": "integer"},
                "team_a_id": {"type": "integer"},
                "team_b_id": {"type": "integer"},
                "match_date": {"type": "string", "format": "date-time"},
                "location": {"type": "string"},
                "score_team_a": {"type": "integer"},
                "score_team_b": {"type": "integer"},
                "mvp_player_id": {"type": "integer"},
                "player_stats": {"type": "array", "items": {"$ref": "#/definitions/PlayerStat"}},
                "photos": {"type": "array", "items": {"$ref": "#/definitions/Photo"}},
                "created_at": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "90Plus API",
	Description:      "Club, team and match management for amateur football coaches and players.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
