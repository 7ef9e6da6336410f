package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/medidor-api/internal/application/measure"
	"github.com/jhoicas/medidor-api/internal/domain"
)

// Verificar en tiempo de compilación que GeminiVisionService implementa VisionReader.
var _ measure.VisionReader = (*GeminiVisionService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// extractionPrompt es el prompt fijo de extracción. Se pide un entero pelado
	// (o NONE) para que el parseo posterior sea trivial y determinista.
	extractionPrompt = `Lee el valor numérico que marca el medidor de agua o gas de la imagen.
Responde ÚNICAMENTE con el número entero de la lectura, sin unidades, sin separadores y sin texto adicional.
Si en la imagen no se distingue ninguna lectura numérica, responde exactamente NONE.`
)

// integerRE primer entero (con signo opcional) dentro de la respuesta del modelo.
var integerRE = regexp.MustCompile(`-?\d+`)

// GeminiVisionService adaptador que implementa VisionReader llamando a la API
// REST de Google Gemini con la imagen como inline_data. Usa únicamente net/http
// de la librería estándar: no hace falta el SDK para una sola llamada.
type GeminiVisionService struct {
	apiKey     string
	model      string
	baseURL    string // sobreescribible en tests
	httpClient *http.Client
}

// NewGeminiVisionService construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiVisionService(apiKey, model string) *GeminiVisionService {
	return &GeminiVisionService{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 25 * time.Second, // timeout de red; el orquestador impone además el suyo vía ctx
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ExtractReading envía la imagen a Gemini y devuelve la lectura entera del
// medidor. Una sola llamada, sin reintentos. El fallo del servicio se
// distingue del fallo de contenido: el primero envuelve ErrVisionUnavailable,
// el segundo ErrNoNumericReading / ErrReadingOutOfRange.
func (s *GeminiVisionService) ExtractReading(ctx context.Context, image []byte, mimeType string) (int32, error) {
	if s.apiKey == "" {
		return 0, fmt.Errorf("gemini: GEMINI_API_KEY no configurado: %w", domain.ErrVisionUnavailable)
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
					{Text: extractionPrompt},
				},
			},
		},
		GenerationConfig: genConfig{
			Temperature:     0, // lectura de un dial: queremos la respuesta más determinista posible
			MaxOutputTokens: 32,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("gemini: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("gemini: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("gemini: llamada HTTP fallida: %v: %w", err, domain.ErrVisionUnavailable)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return 0, fmt.Errorf("gemini: leer respuesta: %v: %w", err, domain.ErrVisionUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini para el log
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return 0, fmt.Errorf("gemini: error %d: %s: %w", errResp.Error.Code, errResp.Error.Message, domain.ErrVisionUnavailable)
		}
		return 0, fmt.Errorf("gemini: HTTP %d: %w", resp.StatusCode, domain.ErrVisionUnavailable)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return 0, fmt.Errorf("gemini: deserializar respuesta: %v: %w", err, domain.ErrVisionUnavailable)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("gemini: respuesta sin candidatos: %w", domain.ErrVisionUnavailable)
	}

	return parseReading(gemResp.Candidates[0].Content.Parts[0].Text)
}

// parseReading extrae el entero de la respuesta del modelo y valida que caiga
// estrictamente dentro del rango de int32 (intervalo abierto: los extremos
// tampoco se admiten).
func parseReading(text string) (int32, error) {
	raw := integerRE.FindString(strings.TrimSpace(text))
	if raw == "" {
		return 0, fmt.Errorf("respuesta del modelo %q: %w", strings.TrimSpace(text), domain.ErrNoNumericReading)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// solo puede ser desbordamiento de int64: fuera de rango con más razón
		return 0, fmt.Errorf("lectura %q: %w", raw, domain.ErrReadingOutOfRange)
	}
	if v <= math.MinInt32 || v >= math.MaxInt32 {
		return 0, fmt.Errorf("lectura %d: %w", v, domain.ErrReadingOutOfRange)
	}
	return int32(v), nil
}
