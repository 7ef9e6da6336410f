package dto

import (
	"encoding/json"
	"time"
)

// UploadMeasureRequest cuerpo de POST /upload tal como llega del cliente.
type UploadMeasureRequest struct {
	Image           string `json:"image"` // data URI: data:<mime>;base64,<payload>
	CustomerCode    string `json:"customer_code"`
	ReadingDatetime string `json:"reading_datetime"` // ISO-8601
	Type            string `json:"type"`             // WATER | GAS (case-sensitive)
}

// ConfirmMeasureRequest cuerpo de PATCH /confirm. ConfirmedValue se decodifica
// como json.Number para poder distinguir enteros de flotantes en la validación.
type ConfirmMeasureRequest struct {
	MeasureID      string      `json:"measure_id"`
	ConfirmedValue json.Number `json:"confirmed_value"`
}

// UploadMeasureResponse respuesta de POST /upload.
type UploadMeasureResponse struct {
	MeasureID string `json:"measure_id"`
	Value     int32  `json:"value"`
	ImagePath string `json:"image_path"`
}

// ConfirmMeasureResponse respuesta de PATCH /confirm.
type ConfirmMeasureResponse struct {
	Success bool `json:"success"`
}

// MeasureItem elemento del listado por cliente.
type MeasureItem struct {
	MeasureID       string    `json:"measure_id"`
	ReadingDatetime time.Time `json:"reading_datetime"`
	Type            string    `json:"type"`
	Value           int32     `json:"value"`
	Confirmed       bool      `json:"confirmed"`
	ImagePath       string    `json:"image_path"`
}

// ListMeasuresResponse respuesta de GET /:customer_code/list.
type ListMeasuresResponse struct {
	CustomerCode string        `json:"customer_code"`
	Measures     []MeasureItem `json:"measures"`
}

// ErrorResponse cuerpo de error HTTP ({error_code, error_description}).
type ErrorResponse struct {
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}
