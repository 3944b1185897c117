// Package docs holds the OpenAPI description served at /swagger.
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
		"/health": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a new learner",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.RegisterRequest"
						}
					}
				]
			}
		},
		"/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Exchange credentials for a bearer token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.LoginRequest"
						}
					}
				]
			}
		},
		"/profile": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/courses": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "Published courses",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/courses/{slug}": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "Course outline without lesson media",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/courses/{slug}/enroll": {
			"post": {
				"tags": [
					"learner"
				],
				"summary": "Enroll in a free course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/enrollments": {
			"get": {
				"tags": [
					"learner"
				],
				"summary": "My enrollments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/courses/{slug}/learn": {
			"get": {
				"tags": [
					"learner"
				],
				"summary": "Full course outline with completion flags",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/courses/{slug}/progress": {
			"get": {
				"tags": [
					"learner"
				],
				"summary": "Completion status for a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/lessons/{id}/progress": {
			"put": {
				"tags": [
					"learner"
				],
				"summary": "Mark a lesson complete or incomplete",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.ProgressRequest"
						}
					}
				]
			}
		},
		"/courses/{slug}/certificate": {
			"post": {
				"tags": [
					"certificates"
				],
				"summary": "Issue the course certificate",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"422": {
						"description": "Lessons remaining",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/certificates": {
			"get": {
				"tags": [
					"certificates"
				],
				"summary": "My certificates",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/certificates/verify/{certificateId}": {
			"get": {
				"tags": [
					"certificates"
				],
				"summary": "Verify a certificate",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "certificateId",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/certificates/{certificateId}/pdf": {
			"get": {
				"tags": [
					"certificates"
				],
				"summary": "Certificate PDF",
				"produces": [
					"application/pdf"
				],
				"parameters": [
					{
						"type": "string",
						"name": "certificateId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/checkout/{slug}": {
			"post": {
				"tags": [
					"checkout"
				],
				"summary": "Start checkout for a paid course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/webhooks/stripe": {
			"post": {
				"tags": [
					"checkout"
				],
				"summary": "Payment provider webhook",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				}
			}
		},
		"/admin/courses": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "All courses including drafts",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Create a draft course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/controller.CourseRequest"
						}
					}
				]
			}
		},
		"/admin/courses/{id}/publish": {
			"put": {
				"tags": [
					"admin"
				],
				"summary": "Publish or unpublish a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/admin/lessons/{id}/video": {
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Upload lesson video",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					}
				]
			}
		},
		"/admin/courses/{id}/grant": {
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Enroll a user by email",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/admin/users": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/util.Response"
						}
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"util.Response": {
			"type": "object",
			"properties": {
				"code": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"data": {}
			}
		},
		"controller.RegisterRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 8
				}
			}
		},
		"controller.LoginRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"controller.ProgressRequest": {
			"type": "object",
			"required": [
				"completed"
			],
			"properties": {
				"completed": {
					"type": "boolean"
				}
			}
		},
		"controller.CourseRequest": {
			"type": "object",
			"required": [
				"slug",
				"title"
			],
			"properties": {
				"slug": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"price": {
					"type": "integer"
				},
				"isFree": {
					"type": "boolean"
				}
			}
		}
	},
	"securityDefinitions": {
		"ApiKeyAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Course Hub API",
	Description:      "Course catalog, enrollment, progress tracking and certificates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
