package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Editor API",
        "description": "Weekly course timetable editor: schedule templates, courses and the slot by day grid",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Templates", "description": "Named schedule templates and the active pointer"},
        {"name": "Courses", "description": "Courses of the active template"},
        {"name": "Grid", "description": "Grid rendering and interactions"},
        {"name": "Notices", "description": "Save confirmation and failure alert"},
        {"name": "Export", "description": "Printable renditions"}
    ],
    "paths": {
        "/state": {
            "get": {
                "tags": ["Templates"],
                "summary": "Full timetable state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List schedule templates",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Templates"],
                "summary": "Create a template and make it active",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/TemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "507": {"description": "Persist failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/templates/{id}": {
            "put": {
                "tags": ["Templates"],
                "summary": "Rename a template; blank names are ignored",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TemplateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Templates"],
                "summary": "Delete a template; the last template is kept",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/templates/{id}/select": {
            "post": {
                "tags": ["Templates"],
                "summary": "Activate a template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses of the active template",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Add a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "507": {"description": "Persist failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "put": {
                "tags": ["Courses"],
                "summary": "Replace a course, keeping its id",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete a course; unknown ids are ignored",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/courses/{id}/move": {
            "post": {
                "tags": ["Courses"],
                "summary": "Move a course to new times and day",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "Moved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "Unknown course, nothing moved"}
                }
            }
        },
        "/grid": {
            "get": {
                "tags": ["Grid"],
                "summary": "Render the active template as a slot by day grid",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/layout": {
            "get": {
                "tags": ["Grid"],
                "summary": "Weekday labels and time slots",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/agenda": {
            "get": {
                "tags": ["Grid"],
                "summary": "Courses per day ordered by start time",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/slots/{slotId}/days/{day}": {
            "get": {
                "tags": ["Grid"],
                "summary": "Courses starting in one cell",
                "parameters": [
                    {"name": "slotId", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown slot or day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grid/cells/{slotId}/{day}/click": {
            "post": {
                "tags": ["Grid"],
                "summary": "Open the add form for a cell",
                "parameters": [
                    {"name": "slotId", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/courses/{id}/click": {
            "post": {
                "tags": ["Grid"],
                "summary": "Open the edit form for a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/courses/{id}/drop": {
            "post": {
                "tags": ["Grid"],
                "summary": "Drop a course onto a cell",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DropRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/form": {
            "get": {
                "tags": ["Grid"],
                "summary": "Current course form state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/form/open": {
            "post": {
                "tags": ["Grid"],
                "summary": "Open an empty add form",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grid/form/submit": {
            "post": {
                "tags": ["Grid"],
                "summary": "Submit the open course form",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error or no open form", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grid/form/delete": {
            "post": {
                "tags": ["Grid"],
                "summary": "Delete the course being edited",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/grid/form/cancel": {
            "post": {
                "tags": ["Grid"],
                "summary": "Close the course form",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/notices": {
            "get": {
                "tags": ["Notices"],
                "summary": "Visible save notice",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No notice"}
                }
            },
            "delete": {
                "tags": ["Notices"],
                "summary": "Dismiss the visible notice",
                "responses": {"204": {"description": "Dismissed"}}
            }
        },
        "/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the active template",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "TemplateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            }
        },
        "CourseInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "type": {"type": "string", "enum": ["lecture", "lab", "seminar", "practice", "exam"]},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:30"},
                "location": {"type": "string"},
                "dayOfWeek": {"type": "integer", "description": "Monday is 0"},
                "professor": {"type": "string"}
            },
            "required": ["title", "type", "startTime", "endTime", "location", "dayOfWeek"]
        },
        "MoveCourseRequest": {
            "type": "object",
            "properties": {
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "dayOfWeek": {"type": "integer"}
            },
            "required": ["startTime", "endTime", "dayOfWeek"]
        },
        "DropRequest": {
            "type": "object",
            "properties": {
                "slotId": {"type": "string"},
                "dayOfWeek": {"type": "integer"}
            },
            "required": ["slotId", "dayOfWeek"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
