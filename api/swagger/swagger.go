package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mailroom API",
        "description": "Campus mailroom package tracking and departmental purchase requests.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Not ready",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Unlock the admin area",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ]
            }
        },
        "/admin/panels": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "List admin CRUD panel schemas",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/packages": {
            "get": {
                "tags": [
                    "Packages"
                ],
                "summary": "List packages",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page (default 1)"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size (default 25, max 100)"
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "order",
                        "in": "query",
                        "type": "string",
                        "description": "asc or desc"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "studentId",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD or RFC3339"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD or RFC3339"
                    }
                ]
            },
            "post": {
                "tags": [
                    "Packages"
                ],
                "summary": "Register package",
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreatePackageRequest"
                        }
                    }
                ]
            }
        },
        "/packages/summary": {
            "get": {
                "tags": [
                    "Packages"
                ],
                "summary": "Package counts per status",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/packages/export": {
            "get": {
                "tags": [
                    "Packages"
                ],
                "summary": "Export packages",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page (default 1)"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size (default 25, max 100)"
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "order",
                        "in": "query",
                        "type": "string",
                        "description": "asc or desc"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "studentId",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD or RFC3339"
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD or RFC3339"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "description": "csv (default) or pdf"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/packages/{id}": {
            "get": {
                "tags": [
                    "Packages"
                ],
                "summary": "Get package",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "put": {
                "tags": [
                    "Packages"
                ],
                "summary": "Update package",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdatePackageRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Packages"
                ],
                "summary": "Delete package",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/packages/{id}/check-in": {
            "post": {
                "tags": [
                    "Packages"
                ],
                "summary": "Check in package",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CheckInRequest"
                        }
                    }
                ]
            }
        },
        "/packages/{id}/check-out": {
            "post": {
                "tags": [
                    "Packages"
                ],
                "summary": "Check out package",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CheckOutRequest"
                        }
                    }
                ]
            }
        },
        "/users": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "List users",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": ""
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": ""
                    },
                    {
                        "name": "role",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    }
                ]
            },
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Create user",
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateUserRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/{id}": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Get user with packages",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "put": {
                "tags": [
                    "Users"
                ],
                "summary": "Update user",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Users"
                ],
                "summary": "Delete user",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/users/{id}/orders": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Order history of a user",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/spend-categories": {
            "get": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "List spend categories",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "name": "visibleToStudents",
                        "in": "query",
                        "type": "boolean",
                        "description": ""
                    }
                ]
            },
            "post": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Create spend category",
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/spend-categories/{id}": {
            "put": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Update spend category",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Delete spend category",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/professors": {
            "get": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "List professors",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Create professor",
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/professors/{id}": {
            "put": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Update professor",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Delete professor",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/orders": {
            "get": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "List purchase requests",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "description": "Page (default 1)"
                    },
                    {
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer",
                        "description": "Page size (default 25, max 100)"
                    },
                    {
                        "name": "sortBy",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "order",
                        "in": "query",
                        "type": "string",
                        "description": "asc or desc"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "userId",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "professorId",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "startDate",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    },
                    {
                        "name": "endDate",
                        "in": "query",
                        "type": "string",
                        "description": ""
                    }
                ]
            },
            "post": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Raise purchase request",
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Get purchase request",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "put": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Update purchase request",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Delete purchase request",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/orders/{id}/receipts": {
            "post": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Attach receipt",
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "413": {
                        "description": "File too large",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "file",
                        "in": "formData",
                        "type": "file",
                        "required": true
                    }
                ]
            }
        },
        "/orders/{id}/receipts/{index}/url": {
            "get": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Signed receipt download link",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "index",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/receipts/{token}": {
            "get": {
                "tags": [
                    "Purchasing"
                ],
                "summary": "Download receipt",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Missing or invalid session",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ErrorBody"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/octet-stream"
                ]
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                }
            }
        },
        "SuccessBody": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                }
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": [
                "password"
            ],
            "properties": {
                "password": {
                    "type": "string"
                }
            }
        },
        "CreatePackageRequest": {
            "type": "object",
            "required": [
                "studentId"
            ],
            "properties": {
                "trackingNumber": {
                    "type": "string"
                },
                "carrier": {
                    "type": "string"
                },
                "sender": {
                    "type": "string"
                },
                "expectedArrivalDate": {
                    "type": "string"
                },
                "studentId": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                }
            }
        },
        "UpdatePackageRequest": {
            "type": "object",
            "description": "Any subset of fields; null clears a nullable field.",
            "properties": {
                "trackingNumber": {
                    "type": "string"
                },
                "carrier": {
                    "type": "string"
                },
                "sender": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "expectedArrivalDate": {
                    "type": "string"
                },
                "dateArrived": {
                    "type": "string"
                },
                "datePickedUp": {
                    "type": "string"
                },
                "studentId": {
                    "type": "string"
                },
                "checkedInById": {
                    "type": "string"
                },
                "checkedOutById": {
                    "type": "string"
                },
                "notificationSent": {
                    "type": "boolean"
                }
            }
        },
        "CheckInRequest": {
            "type": "object",
            "required": [
                "employeeId"
            ],
            "properties": {
                "employeeId": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                }
            }
        },
        "CheckOutRequest": {
            "type": "object",
            "required": [
                "employeeId"
            ],
            "properties": {
                "employeeId": {
                    "type": "string"
                }
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "required": [
                "netId",
                "email",
                "fullName"
            ],
            "properties": {
                "netId": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "fullName": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "Page": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                }
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
