// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
    "paths": {
        "/v1/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new guest account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/v1/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/v1/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/v1/users": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user with any role", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}},
        "/v1/users/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/v1/users/{id}/role": {"put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Change a user's role", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/users/{id}/active": {"put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Activate or deactivate a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/users/{id}/lock": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Lock a user for a number of minutes", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/users/{id}/unlock": {"post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Clear a user's lock and failure count", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/rooms": {
            "get": {"tags": ["rooms"], "summary": "List rooms", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["rooms"], "summary": "Create a room", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/v1/rooms/{id}/status": {"patch": {"security": [{"BearerAuth": []}], "tags": ["rooms"], "summary": "Update a room's housekeeping status", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/rooms/{id}/availability": {"get": {"tags": ["rooms"], "summary": "Check whether a room can be booked for a stay", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/v1/guests": {"post": {"security": [{"BearerAuth": []}], "tags": ["guests"], "summary": "Register a guest at the front desk", "responses": {"201": {"description": "Created"}}}},
        "/v1/guests/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["guests"], "summary": "Get a guest", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/v1/reservations": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "List reservations", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Book a room", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/reservations/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Get a reservation", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Change dates, room, party size or notes", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/reservations/{id}/cancel": {"post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Cancel a pending or confirmed reservation", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/reservations/{id}/confirm": {"post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Confirm a pending reservation", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/reservations/{id}/check-in": {"post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Check a guest in", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/reservations/{id}/check-out": {"post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Check a guest out", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/reservations/{id}/no-show": {"post": {"security": [{"BearerAuth": []}], "tags": ["reservations"], "summary": "Mark a confirmed reservation as a no-show", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hotel Reservations API",
	Description:      "Authentication, room inventory and reservation lifecycle for a single hotel.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
