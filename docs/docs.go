// Package docs registers the OpenAPI document served at /api/v1/swagger.
// It mirrors the @Router annotations of internal/server; regenerate it with
// `swag init -g cmd/server/main.go` after changing them. TestSwaggerDoc_MatchesRoutes
// fails when the two drift apart.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/brain/share": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "share=true mints a new public hash; share=false revokes every hash of the caller",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["share"],
                "summary": "Publish or revoke the shared vault",
                "parameters": [
                    {
                        "description": "Share flag",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {"share": {"type": "boolean"}}
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "hash": {"type": "string"},
                                "message": {"type": "string"},
                                "user": {"type": "integer"}
                            }
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/brain/{shareLink}": {
            "get": {
                "description": "Resolve a share hash and return the owner's content. No authentication.",
                "produces": ["application/json"],
                "tags": ["share"],
                "summary": "View a shared vault",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Share hash",
                        "name": "shareLink",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Content"}},
                                "message": {"type": "string"}
                            }
                        }
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/content": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return every item in the caller's vault, newest first",
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "List content",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Content"}}
                            }
                        }
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Store a new item in the caller's vault",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Add content",
                "parameters": [
                    {
                        "description": "Content item",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "link": {"type": "string"},
                                "tags": {"type": "array", "items": {"type": "string"}},
                                "title": {"type": "string"},
                                "type": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "properties": {"message": {"type": "string"}}}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Delete an item of the caller's vault. Items the caller does not own are left alone.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Remove content",
                "parameters": [
                    {
                        "description": "Content id",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"_id": {"type": "integer"}}}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "deleted": {"type": "boolean"},
                                "message": {"type": "string"}
                            }
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/signin": {
            "post": {
                "description": "Verify credentials and return a session token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User signin",
                "parameters": [
                    {
                        "description": "Signin request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "password": {"type": "string"},
                                "username": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "message": {"type": "string"},
                                "token": {"type": "string"},
                                "user": {"$ref": "#/definitions/models.Identity"}
                            }
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Register a new user account and return a session token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User signup",
                "parameters": [
                    {
                        "description": "Signup request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "password": {"type": "string"},
                                "username": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "message": {"type": "string"},
                                "token": {"type": "string"},
                                "user": {"$ref": "#/definitions/models.Identity"}
                            }
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Content": {
            "type": "object",
            "properties": {
                "_id": {"type": "integer"},
                "created_at": {"type": "string"},
                "link": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"},
                "type": {"type": "string"},
                "updated_at": {"type": "string"},
                "user": {"type": "integer"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "models.Identity": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Brainvault API",
	Description:      "Personal bookmark vault with token sessions and public share links",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
