// Package docs registers the OpenAPI description of the ledger API with swag.
// Regenerate with `swag init -g cmd/arap_backend/main.go -o internal/docs`.
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
        "/ledger/sale-ledger": {
            "get": {
                "description": "Lists debtors with their sales; debtorsOnly restricts to accounts that still owe",
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Sale-itemized debtor ledger",
                "parameters": [
                    {"type": "boolean", "default": false, "description": "Only debtors with an outstanding balance", "name": "debtorsOnly", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}}},
                    "503": {"description": "Ledger store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/ledger/{kind}/accounts": {
            "get": {
                "description": "Retrieves a zero-based page of accounts of one kind, ordered by name",
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "List debtors or creditors",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"type": "integer", "default": 0, "description": "Zero-based page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (server default when omitted)", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListAccountsResponse"}},
                    "400": {"description": "Invalid kind or paging parameters", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Ledger store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/ledger/{kind}/accounts/{accountID}": {
            "get": {
                "description": "Retrieves one account with statuses classified as of now",
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Get a debtor or creditor",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/accountID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Ledger store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/ledger/{kind}/accounts/{accountID}/payments": {
            "get": {
                "description": "Retrieves the payment ledger entries of one account, oldest first",
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "List an account's payments",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/accountID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.PaymentEntryResponse"}}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Applies a payment to a creditor balance or to one sale of a debtor",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Record a payment",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/accountID"},
                    {"type": "string", "maxLength": 128, "description": "Replays return the committed result", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Payment details", "name": "payment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "400": {"description": "Invalid amount, missing sale reference or bad input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Account or sale not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Concurrent update, re-read and retry", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Amount exceeds outstanding balance", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Ledger store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/ledger/{kind}/totals": {
            "get": {
                "description": "Aggregates one consistent snapshot of all accounts of a kind",
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Outstanding and overdue totals",
                "parameters": [
                    {"$ref": "#/parameters/kind"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TotalsResponse"}},
                    "503": {"description": "Ledger store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/ledger/{kind}/search": {
            "get": {
                "description": "Case-insensitive substring match over name and contact; an empty query returns everything",
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "Search debtors or creditors",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"type": "string", "description": "Search term", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}}},
                    "503": {"description": "Ledger store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "parameters": {
        "kind": {"enum": ["debtors", "creditors"], "type": "string", "description": "Account kind", "name": "kind", "in": "path", "required": true},
        "accountID": {"type": "string", "description": "Account ID", "name": "accountID", "in": "path", "required": true}
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "dto.MoneyResponse": {
            "type": "object",
            "properties": {
                "minorUnits": {"type": "integer"},
                "value": {"type": "string"}
            }
        },
        "dto.RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "saleID": {"type": "string"},
                "amountMinorUnits": {"type": "integer", "description": "Integer minor units, e.g. 75050 for 750.50 USD"},
                "amount": {"type": "string", "description": "Decimal text in major units, e.g. \"750.50\""}
            }
        },
        "dto.SaleResponse": {
            "type": "object",
            "properties": {
                "saleID": {"type": "string"},
                "saleDate": {"type": "string"},
                "dueDate": {"type": "string"},
                "totalAmount": {"$ref": "#/definitions/dto.MoneyResponse"},
                "paidAmount": {"$ref": "#/definitions/dto.MoneyResponse"},
                "balanceDue": {"$ref": "#/definitions/dto.MoneyResponse"},
                "paymentStatus": {"type": "string", "enum": ["PAID", "PENDING", "OVERDUE"]}
            }
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "accountID": {"type": "string"},
                "kind": {"type": "string", "enum": ["DEBTOR", "CREDITOR"]},
                "name": {"type": "string"},
                "contactInfo": {"type": "string"},
                "currencyCode": {"type": "string"},
                "balance": {"$ref": "#/definitions/dto.MoneyResponse"},
                "dueDate": {"type": "string"},
                "status": {"type": "string", "enum": ["PAID", "PENDING", "OVERDUE"]},
                "creditTerms": {"type": "string"},
                "lastPaymentDate": {"type": "string"},
                "lastPaymentAmount": {"$ref": "#/definitions/dto.MoneyResponse"},
                "sales": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}},
                "version": {"type": "integer"},
                "createdAt": {"type": "string"},
                "lastUpdatedAt": {"type": "string"}
            }
        },
        "dto.ListAccountsResponse": {
            "type": "object",
            "properties": {
                "accounts": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}},
                "page": {"type": "integer"},
                "size": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "dto.PaymentEntryResponse": {
            "type": "object",
            "properties": {
                "entryID": {"type": "string"},
                "saleID": {"type": "string"},
                "amount": {"$ref": "#/definitions/dto.MoneyResponse"},
                "balanceAfter": {"$ref": "#/definitions/dto.MoneyResponse"},
                "saleBalanceAfter": {"$ref": "#/definitions/dto.MoneyResponse"},
                "idempotencyKey": {"type": "string"},
                "paidAt": {"type": "string"}
            }
        },
        "dto.TotalsResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["DEBTOR", "CREDITOR"]},
                "currencyCode": {"type": "string"},
                "outstandingTotal": {"$ref": "#/definitions/dto.MoneyResponse"},
                "overdueTotal": {"$ref": "#/definitions/dto.MoneyResponse"},
                "count": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AR/AP Ledger API",
	Description:      "Debtor and creditor balances, payments and outstanding totals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
