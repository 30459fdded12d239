// Package docs registers the Swagger metadata for the Task Market API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token"
        }
    },
    "tags": [
        {"name": "Users", "description": "Registration, login and profile"},
        {"name": "Tasks", "description": "Task posting and lifecycle"},
        {"name": "Intents", "description": "Expressions of interest in a task"},
        {"name": "Replies", "description": "Proposals, versioned history and accept/reject resolution"},
        {"name": "Reviews", "description": "Ratings between posters and contractors"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Market API",
	Description:      "API for a freelance task marketplace: posting tasks, replying with proposals, and rating counterparties.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
