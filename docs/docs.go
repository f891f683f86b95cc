// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["home"],
                "summary": "Landing page",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/account/register": {
            "get": {
                "produces": ["text/html"],
                "tags": ["account"],
                "summary": "Registration form",
                "parameters": [
                    {"type": "string", "description": "Local URL to return to after registering", "name": "returnUrl", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["account"],
                "summary": "Register a new user",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "Email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "Password", "in": "formData", "required": true},
                    {"type": "string", "description": "Password confirmation", "name": "ConfirmPassword", "in": "formData", "required": true},
                    {"type": "string", "description": "Local URL to return to", "name": "returnUrl", "in": "formData"},
                    {"type": "string", "description": "Anti-forgery token", "name": "_csrf", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/account/login": {
            "get": {
                "produces": ["text/html"],
                "tags": ["account"],
                "summary": "Login form",
                "parameters": [
                    {"type": "string", "description": "Local URL to return to after login", "name": "returnUrl", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["account"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "Email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "Password", "in": "formData", "required": true},
                    {"type": "boolean", "description": "Keep the session across browser restarts", "name": "RememberMe", "in": "formData"},
                    {"type": "string", "description": "Local URL to return to", "name": "returnUrl", "in": "formData"},
                    {"type": "string", "description": "Anti-forgery token", "name": "_csrf", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/account/logout": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["account"],
                "summary": "Log out",
                "parameters": [
                    {"type": "string", "description": "Anti-forgery token", "name": "_csrf", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/account/adduser": {
            "get": {
                "produces": ["text/html"],
                "tags": ["account"],
                "summary": "Add-user form",
                "parameters": [
                    {"type": "string", "description": "Local URL to return to", "name": "returnUrl", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["account"],
                "summary": "Add a user",
                "parameters": [
                    {"type": "string", "description": "Email", "name": "Email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "Password", "in": "formData", "required": true},
                    {"enum": ["admin", "normal"], "type": "string", "description": "Role", "name": "SelectedRole", "in": "formData", "required": true},
                    {"type": "string", "description": "Local URL to return to", "name": "returnUrl", "in": "formData"},
                    {"type": "string", "description": "Anti-forgery token", "name": "_csrf", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}
                },
                "status": {"type": "string"}
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
	Title:            "AuthUser Accounts",
	Description:      "Registration, login, logout and admin user management.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
