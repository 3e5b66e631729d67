// Package swagger registers the hostpanel OpenAPI document with swag so the
// dev-mode Swagger UI can serve it at /swagger/doc.json.
//
// Regenerate with: swag init -g cmd/hostpanel/main.go -o api/swagger
package swagger

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
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Service health",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/theme/palette": {
            "get": {
                "tags": ["theme"],
                "summary": "Canonical palette for both modes",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/theme/css": {
            "get": {
                "tags": ["theme"],
                "summary": "CSS custom properties for one mode",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["dark", "light"], "default": "dark", "description": "Palette mode", "name": "mode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/theme/stylesheet.css": {
            "get": {
                "tags": ["theme"],
                "summary": "Stylesheet with both modes",
                "produces": ["text/css"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/theme/email": {
            "get": {
                "tags": ["theme"],
                "summary": "Default email theme",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/theme/preset": {
            "get": {
                "tags": ["theme"],
                "summary": "Preset active now",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/settings/theme/colors": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Stored color overrides",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Problem"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Store color overrides",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/settings/theme/colors/{key}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Remove one color override",
                "parameters": [
                    {"type": "string", "description": "Override key, e.g. primary_dark", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/settings/theme/presets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "List presets",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/settings/theme/presets/{name}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Create or replace a preset",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Preset name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Delete a preset",
                "parameters": [
                    {"type": "string", "description": "Preset name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        }
    },
    "definitions": {
        "Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT Bearer token. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "hostpanel API",
	Description:      "Theme palette resolution, CSS and email projections.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
