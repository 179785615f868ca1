package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/api"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("OPENROUTER_API_KEY", "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("logPath: %s\nmodelsDir: %s\n",
		filepath.Join(dir, "log.txt"),
		filepath.Join(dir, "models"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	config, err := common.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return setupRouter(api.NewAPI(config))
}

func encodeTestUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(40 + (x*y)%160)})
		}
	}
	var imageBuffer bytes.Buffer
	if err := png.Encode(&imageBuffer, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "radiograph.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(imageBuffer.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.WriteField("xray_type", "chest"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.WriteField("patient_info", `{"age": 70, "smoking": true}`); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestRouterRegions(t *testing.T) {
	router := newTestRouter(t)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/regions", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var payload struct {
		Regions map[string]string `json:"regions"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Regions) != 9 {
		t.Fatalf("expected 9 regions, got %d", len(payload.Regions))
	}
}

func TestRouterConditions(t *testing.T) {
	router := newTestRouter(t)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/conditions/bone", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var payload struct {
		XRayType   string   `json:"xray_type"`
		Conditions []string `json:"conditions"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.XRayType != "bone" || len(payload.Conditions) != 10 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRouterAnalyze(t *testing.T) {
	router := newTestRouter(t)
	body, contentType := encodeTestUpload(t)
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var payload struct {
		Success   bool `json:"success"`
		Diagnosis struct {
			PrimaryDiagnosis string `json:"primary_diagnosis"`
			Model            string `json:"model"`
		} `json:"diagnosis"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected a successful analysis")
	}
	if payload.Diagnosis.PrimaryDiagnosis == "" || payload.Diagnosis.Model == "" {
		t.Fatalf("expected a populated diagnosis, got %+v", payload.Diagnosis)
	}
}

func TestRouterAnalyzeMissingFile(t *testing.T) {
	router := newTestRouter(t)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success || payload.Error == "" {
		t.Fatalf("expected an error envelope, got %+v", payload)
	}
}

func TestRouterAnalyzeRejectsUnsupportedFormat(t *testing.T) {
	router := newTestRouter(t)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "scan.dcm")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("dicom bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}
