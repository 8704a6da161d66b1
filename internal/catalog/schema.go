package catalog

import "github.com/xeipuuv/gojsonschema"

const schemaJSON = `{
  "type": "object",
  "required": ["activities"],
  "properties": {
    "activities": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "description", "schedule", "max_participants"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "schedule": {"type": "string"},
          "max_participants": {"type": "integer", "minimum": 1},
          "participants": {
            "type": "array",
            "uniqueItems": true,
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)
