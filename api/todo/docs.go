// Package todo provides the generated Swagger/OpenAPI documentation for
// the todo service API.
package todo

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/todo"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token": {
            "post": {
                "description": "Exchanges credentials for an access/refresh token pair via the upstream identity provider. Supports the password and client_credentials grants.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Acquire Tokens",
                "parameters": [
                    {
                        "description": "Grant parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todosdk.TokenRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "access_token, token_type, expires_in, refresh_token",
                        "schema": {"$ref": "#/definitions/todosdk.TokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "503": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "description": "Exchanges a refresh token for a new access/refresh token pair via the upstream identity provider.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh Tokens",
                "parameters": [
                    {
                        "description": "Refresh parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todosdk.RefreshRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "access_token, token_type, expires_in, refresh_token",
                        "schema": {"$ref": "#/definitions/todosdk.TokenResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "503": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            }
        },
        "/auth/revoke": {
            "post": {
                "description": "Revokes a refresh token at the upstream identity provider.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Revoke Token",
                "parameters": [
                    {
                        "description": "Revocation parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todosdk.RevokeRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "status",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "503": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            }
        },
        "/todos": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists the caller's todos. Service callers (client_credentials tokens) see all records.",
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "List Todos",
                "responses": {
                    "200": {
                        "description": "todos",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/todosdk.Todo"}}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "403": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a todo owned by the caller.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Create Todo",
                "parameters": [
                    {
                        "description": "Todo fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todosdk.TodoRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "created todo",
                        "schema": {"$ref": "#/definitions/todosdk.Todo"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "403": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            }
        },
        "/todos/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Fetches a single todo by id. Records owned by other users read as absent.",
                "produces": ["application/json"],
                "tags": ["Todos"],
                "summary": "Get Todo",
                "parameters": [
                    {"type": "integer", "description": "Todo id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "todo",
                        "schema": {"$ref": "#/definitions/todosdk.Todo"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "403": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "404": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the writable fields of an existing todo.",
                "consumes": ["application/json"],
                "tags": ["Todos"],
                "summary": "Update Todo",
                "parameters": [
                    {"type": "integer", "description": "Todo id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Todo fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/todosdk.TodoRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "no content"},
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "403": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "404": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes a todo by id.",
                "tags": ["Todos"],
                "summary": "Delete Todo",
                "parameters": [
                    {"type": "integer", "description": "Todo id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "no content"},
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "403": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    },
                    "404": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/todosdk.ErrorResponse"}
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning basic service health, uptime, and version information.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/todosdk.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe checking the database connection and whether the provider's signing keys have been fetched at least once.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/todosdk.HealthResponse"}
                    },
                    "503": {
                        "description": "status, uptime, version, checks - service not ready",
                        "schema": {"$ref": "#/definitions/todosdk.HealthResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "todosdk.TokenRequest": {
            "type": "object",
            "properties": {
                "grant_type": {"type": "string"},
                "client_id": {"type": "string"},
                "client_secret": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "todosdk.RefreshRequest": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "client_secret": {"type": "string"},
                "refresh_token": {"type": "string"}
            }
        },
        "todosdk.RevokeRequest": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "client_secret": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "todosdk.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "scope": {"type": "string"}
            }
        },
        "todosdk.Todo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "is_completed": {"type": "boolean"},
                "created_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "todosdk.TodoRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "is_completed": {"type": "boolean"}
            }
        },
        "todosdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "todosdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "keys": {"type": "string"}
            }
        },
        "todosdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/todosdk.HealthChecks"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Todo Service API",
	Description:      "A multi-tenant to-do service. Identity is delegated to an external OpenID Connect provider; this service brokers token acquisition and validates bearer tokens locally against the provider's JWKS.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
