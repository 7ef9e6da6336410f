package measure_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medidor-api/internal/application/dto"
	"github.com/jhoicas/medidor-api/internal/application/measure"
	"github.com/jhoicas/medidor-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testImageBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3, 4}

// dataURI codifica bytes como data URI base64 con el mime indicado.
func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func validUpload() dto.UploadMeasureRequest {
	return dto.UploadMeasureRequest{
		Image:           dataURI("image/png", testImageBytes),
		CustomerCode:    "C1",
		ReadingDatetime: "2024-03-15T00:00:00Z",
		Type:            "WATER",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseUploadRequest
// ──────────────────────────────────────────────────────────────────────────────

func TestParseUpload_PeticionValida(t *testing.T) {
	in, err := measure.ParseUploadRequest(validUpload())
	require.NoError(t, err)

	assert.Equal(t, testImageBytes, in.ImageData, "el payload debe decodificarse byte a byte")
	assert.Equal(t, "image/png", in.MimeType)
	assert.Equal(t, "C1", in.CustomerCode)
	assert.Equal(t, entity.MeasureWater, in.Type)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), in.ReadingDatetime.UTC())
}

func TestParseUpload_AcumulaTodosLosErrores(t *testing.T) {
	_, err := measure.ParseUploadRequest(dto.UploadMeasureRequest{})
	require.Error(t, err)

	var verr *measure.ValidationError
	require.ErrorAs(t, err, &verr)
	// image, customer_code, reading_datetime y type inválidos a la vez
	assert.Len(t, verr.Fields, 4, "debe reportar cada campo violado, no solo el primero")
}

func TestParseUpload_MimeNoAdmitido(t *testing.T) {
	req := validUpload()
	req.Image = dataURI("image/gif", testImageBytes)

	_, err := measure.ParseUploadRequest(req)
	var verr *measure.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "image:")
}

func TestParseUpload_Base64Invalido(t *testing.T) {
	req := validUpload()
	req.Image = "data:image/png;base64,@@@no-es-base64@@@"

	var verr *measure.ValidationError
	_, err := measure.ParseUploadRequest(req)
	require.ErrorAs(t, err, &verr)
}

func TestParseUpload_SinPrefijoDataURI(t *testing.T) {
	req := validUpload()
	req.Image = base64.StdEncoding.EncodeToString(testImageBytes) // base64 pelado, sin cabecera

	var verr *measure.ValidationError
	_, err := measure.ParseUploadRequest(req)
	require.ErrorAs(t, err, &verr)
}

func TestParseUpload_TipoEsCaseSensitive(t *testing.T) {
	req := validUpload()
	req.Type = "water"

	var verr *measure.ValidationError
	_, err := measure.ParseUploadRequest(req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "type:")
}

func TestParseUpload_FechaSinZonaEsInvalida(t *testing.T) {
	req := validUpload()
	req.ReadingDatetime = "2024-03-15T00:00:00"

	var verr *measure.ValidationError
	_, err := measure.ParseUploadRequest(req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "reading_datetime:")
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseConfirmRequest
// ──────────────────────────────────────────────────────────────────────────────

func TestParseConfirm_PeticionValida(t *testing.T) {
	in, err := measure.ParseConfirmRequest(dto.ConfirmMeasureRequest{
		MeasureID:      "a3bb189e-8bf9-3888-9912-ace4e6543002",
		ConfirmedValue: json.Number("1234"),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1234), in.ConfirmedValue)
}

func TestParseConfirm_UUIDInvalido(t *testing.T) {
	var verr *measure.ValidationError
	_, err := measure.ParseConfirmRequest(dto.ConfirmMeasureRequest{
		MeasureID:      "no-es-un-uuid",
		ConfirmedValue: json.Number("1234"),
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "measure_id:")
}

func TestParseConfirm_ValorFlotanteRechazado(t *testing.T) {
	var verr *measure.ValidationError
	_, err := measure.ParseConfirmRequest(dto.ConfirmMeasureRequest{
		MeasureID:      "a3bb189e-8bf9-3888-9912-ace4e6543002",
		ConfirmedValue: json.Number("3.5"),
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "confirmed_value:")
}

func TestParseConfirm_ValorObligatorio(t *testing.T) {
	var verr *measure.ValidationError
	_, err := measure.ParseConfirmRequest(dto.ConfirmMeasureRequest{
		MeasureID: "a3bb189e-8bf9-3888-9912-ace4e6543002",
	})
	require.ErrorAs(t, err, &verr)
}

// Los extremos de int32 quedan fuera: el intervalo permitido es abierto.
func TestParseConfirm_RangoAbiertoDeInt32(t *testing.T) {
	cases := map[string]bool{
		"2147483646":           true,  // máximo admitido
		"2147483647":           false, // extremo superior excluido
		"-2147483647":          true,  // mínimo admitido
		"-2147483648":          false, // extremo inferior excluido
		"99999999999999999999": false, // desborda incluso int64
	}
	for raw, ok := range cases {
		_, err := measure.ParseConfirmRequest(dto.ConfirmMeasureRequest{
			MeasureID:      "a3bb189e-8bf9-3888-9912-ace4e6543002",
			ConfirmedValue: json.Number(raw),
		})
		if ok {
			assert.NoError(t, err, "el valor %s debería admitirse", raw)
		} else {
			assert.Error(t, err, "el valor %s debería rechazarse", raw)
		}
	}
}
