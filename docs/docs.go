// Package docs registers the OpenAPI document served at /swagger-doc.json.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "responses": {"204": {"description": "No Content"}}}},
        "/auth/me": {"get": {"security": [{"CookieAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/todos": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["todos"], "summary": "List the caller's todos", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["todos"], "summary": "Create a todo", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/goals": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["goals"], "summary": "List the caller's goals", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["goals"], "summary": "Create a goal", "responses": {"201": {"description": "Created"}}}
        },
        "/campaigns": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["campaigns"], "summary": "List campaigns", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["campaigns"], "summary": "Create a campaign", "responses": {"201": {"description": "Created"}}}
        },
        "/campaigns/{id}/dispatch": {"post": {"security": [{"CookieAuth": []}], "tags": ["campaigns"], "summary": "Enqueue campaign processing", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"202": {"description": "Accepted"}, "409": {"description": "Conflict"}, "503": {"description": "Service Unavailable"}}}},
        "/jobs/{id}": {"get": {"security": [{"CookieAuth": []}], "tags": ["jobs"], "summary": "Poll a processing job", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/vouchers/{code}/redeem": {"post": {"security": [{"CookieAuth": []}], "tags": ["vouchers"], "summary": "Redeem a voucher", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "410": {"description": "Gone"}}}},
        "/event-sessions": {"get": {"security": [{"CookieAuth": []}], "tags": ["events"], "summary": "List event sessions", "responses": {"200": {"description": "OK"}}}},
        "/restricted-addresses/check": {"post": {"security": [{"CookieAuth": []}], "tags": ["restricted-addresses"], "summary": "Check an address against the do-not-mail list", "responses": {"200": {"description": "OK"}}}},
        "/email-templates/{id}/preview": {"post": {"security": [{"CookieAuth": []}], "tags": ["email-templates"], "summary": "Render a template", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/audit": {"get": {"security": [{"CookieAuth": []}], "tags": ["audit"], "summary": "Read the audit log", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "CookieAuth": {
            "type": "apiKey",
            "name": "session_id",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "HubPlus API",
	Description:      "Todos, goals, campaigns, vouchers, event sessions and do-not-mail addresses.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
