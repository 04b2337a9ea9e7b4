// Package docs registers the Swagger specification for the API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@pdao.gov.ph"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Get current user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "List members",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Register a PWD member",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/members/ranked": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Members"],
                "summary": "Ranked members",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/scan/member": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Scan"],
                "summary": "Resolve scanned member",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/benefits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Benefits"],
                "summary": "List benefits",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Benefits"],
                "summary": "Create a benefit",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/benefits/{id}/claims": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Benefits"],
                "summary": "Submit a claim",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/benefit-records": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Benefits"],
                "summary": "List benefit records",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Events"],
                "summary": "List events",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Events"],
                "summary": "Create an event",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/events/{id}/attendances": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Events"],
                "summary": "Submit attendance",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Office dashboard summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/barangays": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Barangays"],
                "summary": "List barangays",
                "responses": {"200": {"description": "OK"}}
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
	Host:             "carelink.pdao.gov.ph",
	BasePath:         "/api/v1",
	Schemes:          []string{"https"},
	Title:            "PDAO CareLink API",
	Description:      "Municipal disability affairs office API: member registry, benefit distribution and QR-verified redemption",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
